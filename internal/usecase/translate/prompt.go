package translate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/venuedex/internal/domain/geo"
)

const configSchema = `{
  "textSearch"?: string[],      // terms matched against business names and notes
  "categories"?: string[],      // business types or cuisines, singular form
  "visited"?: boolean,          // filter by visited status
  "isClaimed"?: boolean,        // filter by claimed listing status
  "shouldCheckHours"?: boolean, // results must be open right now
  "useProximity"?: boolean,     // search around the user's current position
  "location"?: {
    "near": [number, number],   // [longitude, latitude]
    "maxDistance"?: number      // meters
  }
}`

// SystemPrompt builds the instruction prompt for one translation.
func SystemPrompt(categories []string, loc *geo.UserLocation) string {
	var sb strings.Builder

	sb.WriteString("You translate searches over a personal list of bookmarked venues into a search configuration.\n")
	sb.WriteString("Reply with a single JSON object of this shape and nothing else:\n")
	sb.WriteString(configSchema)
	sb.WriteString("\n\nRules:\n")
	sb.WriteString("- \"restaurant\" is never a category. \"thai restaurant\" yields the category \"thai\"; drop the generic word.\n")
	sb.WriteString("- Queries may be plural (\"bars\"); categories are singular (\"bar\").\n")
	sb.WriteString("- A term that is not clearly a business name or a category (a dish, a menu item, an ambiance word) goes to textSearch, one term per entry.\n")
	sb.WriteString("- Only set useProximity to true when the query refers to the user's own position (\"near me\", \"nearby\", \"within 2 miles\") AND a user location is given below.\n")
	sb.WriteString("- Without a user location, ignore proximity wording entirely.\n")

	sb.WriteString("\nKnown categories: ")
	if len(categories) == 0 {
		sb.WriteString("(none)")
	} else {
		sb.WriteString(strings.Join(categories, ", "))
	}
	sb.WriteString("\n")

	if loc != nil {
		fmt.Fprintf(&sb, "Current user location: latitude %s, longitude %s\n",
			strconv.FormatFloat(loc.Latitude, 'f', -1, 64),
			strconv.FormatFloat(loc.Longitude, 'f', -1, 64))
	} else {
		sb.WriteString("No user location provided.\n")
	}

	return sb.String()
}

// UserMessage wraps the raw query.
func UserMessage(query string) string {
	return "Convert this search request to a search configuration: " + strconv.Quote(query)
}
