package business

import (
	"encoding/json"
	"strconv"

	"github.com/kailas-cloud/venuedex/internal/domain/business"
)

// storedBusiness is the JSON document shape. It extends the record with
// fields the index needs in a form it can read.
type storedBusiness struct {
	*business.Business

	// "lon,lat" for the GEO field.
	Geo string `json:"geo"`
	// LastUpdated as unix seconds for NUMERIC range queries.
	UpdatedAt int64 `json:"updated_at"`
}

func toDocument(b *business.Business) ([]byte, error) {
	return json.Marshal(storedBusiness{
		Business: b,
		Geo: strconv.FormatFloat(b.GeoPoint.Lon(), 'f', -1, 64) + "," +
			strconv.FormatFloat(b.GeoPoint.Lat(), 'f', -1, 64),
		UpdatedAt: b.LastUpdated.Unix(),
	})
}

func fromDocument(raw []byte) (business.Business, error) {
	var b business.Business
	if err := json.Unmarshal(raw, &b); err != nil {
		return business.Business{}, err
	}
	return b, nil
}
