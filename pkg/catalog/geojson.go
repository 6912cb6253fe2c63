package catalog

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// FeatureCollection renders records as GeoJSON points for map previews of a
// selection.
func FeatureCollection(records []Record) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, r := range records {
		f := geojson.NewFeature(orb.Point{r.Longitude, r.Latitude})
		f.Properties["id"] = r.ID
		f.Properties["name"] = r.Name
		f.Properties["country"] = r.Country
		fc.Append(f)
	}
	return fc
}
