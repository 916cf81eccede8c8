package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	geojson "github.com/paulmach/go.geojson"

	"trivia-finder/models"
)

// VenueFeature converts a placeable venue into a GeoJSON point feature. The
// second return is false for venues without usable coordinates.
func VenueFeature(v *models.Venue) (*geojson.Feature, bool) {
	if !v.Placeable() {
		return nil, false
	}
	f := geojson.NewPointFeature([]float64{v.Lng, v.Lat})
	f.ID = v.ID
	f.SetProperty("name", v.Name)
	f.SetProperty("address", v.Address)
	setIfPresent(f, "location", v.Location)
	setIfPresent(f, "day", v.Day)
	setIfPresent(f, "day_time", v.DayTime)
	setIfPresent(f, "special", v.Special)
	setIfPresent(f, "website", v.Website)
	setIfPresent(f, "phone", v.Phone)
	return f, true
}

func setIfPresent(f *geojson.Feature, key, val string) {
	if val != "" {
		f.SetProperty(key, val)
	}
}

// FeatureCollection builds a collection from the placeable venues, keeping
// input order.
func FeatureCollection(venues []*models.Venue) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, v := range venues {
		if f, ok := VenueFeature(v); ok {
			fc.AddFeature(f)
		}
	}
	return fc
}

// GeoJSONWriter writes placeable venues as a FeatureCollection. Venues
// without coordinates are skipped, matching the map's marker layer.
type GeoJSONWriter struct {
	w      io.Writer
	closer io.Closer
}

// NewGeoJSONWriter creates (or truncates) the file at path.
func NewGeoJSONWriter(path string) (*GeoJSONWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("geojson: create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("geojson: create file %q: %w", path, err)
	}
	return &GeoJSONWriter{w: f, closer: f}, nil
}

// NewGeoJSONStream writes to w without taking ownership of it.
func NewGeoJSONStream(w io.Writer) *GeoJSONWriter {
	return &GeoJSONWriter{w: w}
}

// Write encodes venues as a single FeatureCollection.
func (g *GeoJSONWriter) Write(venues []*models.Venue) error {
	data, err := FeatureCollection(venues).MarshalJSON()
	if err != nil {
		return fmt.Errorf("geojson: marshal: %w", err)
	}
	if _, err := g.w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("geojson: write: %w", err)
	}
	return nil
}

// Close closes the underlying file, if any.
func (g *GeoJSONWriter) Close() error {
	if g.closer == nil {
		return nil
	}
	return g.closer.Close()
}
