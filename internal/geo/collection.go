package geo

import (
	"errors"

	"github.com/rs/zerolog/log"
)

// FeatureCollection is an ordered list of feature geometries of mixed kinds.
type FeatureCollection struct {
	Features []Geometry
}

// DecodeFeatureCollection reads the "features" member of a GeoJSON
// FeatureCollection. A missing or non-array "features" member yields an
// empty collection. Features that cannot be decoded are skipped; the
// returned error joins a *FeatureError for each of them, and the collection
// holds every feature that decoded.
func DecodeFeatureCollection(raw any) (FeatureCollection, error) {
	var fc FeatureCollection

	obj, ok := raw.(map[string]any)
	if !ok {
		return fc, nil
	}
	features, ok := asSlice(obj["features"])
	if !ok {
		return fc, nil
	}

	fc.Features = make([]Geometry, 0, len(features))
	var errs []error

	for i, item := range features {
		g, err := DecodeFeature(item)
		if err != nil {
			event := log.Warn()
			if errors.Is(err, ErrUnknownGeometryType) {
				event = event.Str("geometry_type", geometryTypeOf(item))
			}
			event.
				Err(err).
				Int("index", i).
				Msg("Skipping feature")

			errs = append(errs, &FeatureError{Index: i, Err: err})
			continue
		}
		fc.Features = append(fc.Features, g)
	}

	return fc, errors.Join(errs...)
}

// Encode renders the collection as a GeoJSON FeatureCollection object.
func (fc FeatureCollection) Encode() map[string]any {
	features := make([]any, len(fc.Features))
	for i, g := range fc.Features {
		features[i] = EncodeFeature(g)
	}

	return map[string]any{
		"type":       TypeFeatureCollection,
		"features":   features,
		"properties": nil,
	}
}

// Len returns the number of features.
func (fc FeatureCollection) Len() int {
	return len(fc.Features)
}

// Concat returns a new collection holding the features of a followed by those of b.
func Concat(a, b FeatureCollection) FeatureCollection {
	features := make([]Geometry, 0, len(a.Features)+len(b.Features))
	features = append(features, a.Features...)
	features = append(features, b.Features...)
	return FeatureCollection{Features: features}
}

func geometryTypeOf(feature any) string {
	obj, _ := feature.(map[string]any)
	geometry, _ := obj["geometry"].(map[string]any)
	typeName, _ := geometry["type"].(string)
	return typeName
}
