package geo

import (
	"context"
	_ "embed"
	"math"

	"gopkg.in/yaml.v3"
)

//go:embed locations.yaml
var locationsYAML []byte

// offlineEntry is one row of the embedded coordinate table.
type offlineEntry struct {
	Lat     float64 `yaml:"lat"`
	Lon     float64 `yaml:"lon"`
	City    string  `yaml:"city"`
	State   string  `yaml:"state"`
	Country string  `yaml:"country"`
}

// OfflineGeocoder resolves coordinates against a fixed lookup table with
// no network access. Coordinates are matched exactly after rounding to 4
// decimal places (roughly 11 meters); anything else resolves to an empty
// Location.
type OfflineGeocoder struct {
	table map[[2]float64]Location
}

// NewOfflineGeocoder loads the embedded coordinate table.
func NewOfflineGeocoder() *OfflineGeocoder {
	var entries []offlineEntry
	if err := yaml.Unmarshal(locationsYAML, &entries); err != nil {
		// Embedded file, cannot fail outside a broken build.
		panic("failed to unmarshal embedded locations.yaml: " + err.Error())
	}

	table := make(map[[2]float64]Location, len(entries))
	for _, e := range entries {
		table[[2]float64{round4(e.Lat), round4(e.Lon)}] = Location{
			City:    e.City,
			State:   e.State,
			Country: e.Country,
		}
	}
	return &OfflineGeocoder{table: table}
}

func (g *OfflineGeocoder) Name() string {
	return "offline"
}

// Resolve looks up the rounded coordinates. Unknown coordinates return
// an empty Location and no error.
func (g *OfflineGeocoder) Resolve(ctx context.Context, lat, lon float64) (Location, error) {
	return g.table[[2]float64{round4(lat), round4(lon)}], nil
}

// round4 rounds to 4 decimal places for table keys.
func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
