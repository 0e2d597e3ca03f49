package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	venuedex "github.com/kailas-cloud/venuedex/pkg/sdk"
)

var (
	searchLat      float64
	searchLon      float64
	searchViewport string
)

func init() {
	searchCmd.Flags().Float64Var(&searchLat, "lat", 0, "User latitude (with --lon)")
	searchCmd.Flags().Float64Var(&searchLon, "lon", 0, "User longitude (with --lat)")
	searchCmd.Flags().StringVar(&searchViewport, "viewport", "",
		"Map viewport as swLng,swLat,neLng,neLat")
	searchCmd.MarkFlagsRequiredTogether("lat", "lon")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Translate a free-text query and search bookmarked venues",
	Long: `Translate a free-text query into a search configuration and run it.

Examples:
  venuectl search "tacos I haven't tried"
  venuectl search "open now coffee" --lat 37.7749 --lon -122.4194
  venuectl search "wine bar" --viewport -122.52,37.70,-122.35,37.83`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	var loc *venuedex.UserLocation
	if cmd.Flags().Changed("lat") {
		loc = &venuedex.UserLocation{Latitude: searchLat, Longitude: searchLon}
	}
	viewport, err := parseViewport(searchViewport)
	if err != nil {
		return err
	}

	client, err := openClient(cmd.Context())
	if err != nil {
		return err
	}
	defer client.Close()

	resp, err := client.TranslateAndSearch(cmd.Context(), args[0], viewport, loc)
	if err != nil {
		return err
	}

	if !humanOutput {
		return outputJSON(resp)
	}
	if len(resp.Results) == 0 {
		outputHuman("No venues found\n")
		return nil
	}
	outputHuman("Found %d venues:\n\n", resp.TotalResults)
	for i, m := range resp.Results {
		name := m.Alias
		if m.Source != nil && m.Source.Name != "" {
			name = m.Source.Name
		}
		outputHuman("[%d] %s (%s)", i+1, truncateString(name, 60), m.Alias)
		if m.Distance > 0 {
			outputHuman("  %.0f m", m.Distance)
		}
		outputHuman("\n")
	}
	return nil
}

// parseViewport reads "swLng,swLat,neLng,neLat". Empty input means no viewport.
func parseViewport(s string) (*venuedex.Viewport, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("viewport: want 4 comma-separated numbers, got %d", len(parts))
	}
	var nums [4]float64
	for i, p := range parts {
		if _, err := fmt.Sscanf(strings.TrimSpace(p), "%g", &nums[i]); err != nil {
			return nil, fmt.Errorf("viewport: %q is not a number", p)
		}
	}
	vp := &venuedex.Viewport{
		Southwest: [2]float64{nums[0], nums[1]},
		Northeast: [2]float64{nums[2], nums[3]},
	}
	if err := vp.Validate(); err != nil {
		return nil, err
	}
	return vp, nil
}
