package geo

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCollection = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "geometry": {"type": "Point", "coordinates": [102.0, 0.5]}, "properties": null},
    {"type": "Feature", "geometry": {"type": "LineString", "coordinates": [[102.0, 0.0], [103.0, 1.0], [104.0, 0.0]]}, "properties": null},
    {"type": "Feature", "geometry": {"type": "Polygon", "coordinates": [[[100.0, 0.0], [101.0, 0.0], [101.0, 1.0], [100.0, 1.0], [100.0, 0.0]]]}, "properties": null}
  ],
  "properties": null
}`

func decodeJSON(t *testing.T, text string) map[string]any {
	t.Helper()
	var tree map[string]any
	require.NoError(t, json.Unmarshal([]byte(text), &tree))
	return tree
}

func TestDecodeFeatureCollection(t *testing.T) {
	fc, err := DecodeFeatureCollection(decodeJSON(t, sampleCollection))
	require.NoError(t, err)
	require.Equal(t, 3, fc.Len())

	assert.IsType(t, Point{}, fc.Features[0])
	assert.IsType(t, LineString{}, fc.Features[1])
	assert.IsType(t, Polygon{}, fc.Features[2])
}

func TestFeatureCollectionRoundTrip(t *testing.T) {
	tree := decodeJSON(t, sampleCollection)

	fc, err := DecodeFeatureCollection(tree)
	require.NoError(t, err)

	// Re-read through JSON so both sides hold the same generic shapes.
	out, err := json.Marshal(fc.Encode())
	require.NoError(t, err)
	assert.JSONEq(t, sampleCollection, normalizeGeometryProperties(t, string(out)))
}

// normalizeGeometryProperties drops the null properties member written inside
// each geometry so the output compares with hand-written input.
func normalizeGeometryProperties(t *testing.T, text string) string {
	t.Helper()
	tree := decodeJSON(t, text)
	for _, f := range tree["features"].([]any) {
		g := f.(map[string]any)["geometry"].(map[string]any)
		require.Contains(t, g, "properties")
		assert.Nil(t, g["properties"])
		delete(g, "properties")
	}
	out, err := json.Marshal(tree)
	require.NoError(t, err)
	return string(out)
}

func TestDecodeFeatureCollectionSkipsUnknown(t *testing.T) {
	tree := map[string]any{
		"type": TypeFeatureCollection,
		"features": []any{
			feature(TypePoint, []any{1.0, 2.0}),
			feature("GeometryCollection", []any{}),
		},
	}

	fc, err := DecodeFeatureCollection(tree)
	require.Equal(t, 1, fc.Len())
	assert.Equal(t, Point{Coordinate: Coordinate{Longitude: 1, Latitude: 2}}, fc.Features[0])

	require.ErrorIs(t, err, ErrUnknownGeometryType)
	var fe *FeatureError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, 1, fe.Index)
}

func TestDecodeFeatureCollectionRecoversPerFeature(t *testing.T) {
	tree := map[string]any{
		"features": []any{
			"garbage",
			map[string]any{"geometry": map[string]any{"coordinates": []any{1.0, 2.0}}},
			feature(TypePolygon, []any{ring([2]float64{0, 0}, [2]float64{1, 1})}),
			feature(TypeLineString, []any{[]any{0.0, 0.0}, []any{1.0, 1.0}}),
		},
	}

	fc, err := DecodeFeatureCollection(tree)
	require.Error(t, err)
	require.Equal(t, 1, fc.Len())
	assert.IsType(t, LineString{}, fc.Features[0])

	assert.ErrorIs(t, err, ErrMissingField)
	assert.ErrorIs(t, err, ErrUnclosedRing)
}

func TestDecodeFeatureCollectionWithoutFeatures(t *testing.T) {
	for _, raw := range []any{
		map[string]any{"type": TypeFeatureCollection},
		map[string]any{"features": "nope"},
		nil,
		[]any{},
	} {
		fc, err := DecodeFeatureCollection(raw)
		require.NoError(t, err)
		assert.Zero(t, fc.Len())
	}
}

func TestFeatureCollectionEncode(t *testing.T) {
	fc := FeatureCollection{Features: []Geometry{
		Point{Coordinate: Coordinate{Longitude: 1, Latitude: 2}},
	}}

	assert.Equal(t, map[string]any{
		"type":       TypeFeatureCollection,
		"features":   []any{feature(TypePoint, []any{1.0, 2.0})},
		"properties": nil,
	}, fc.Encode())

	empty := FeatureCollection{}.Encode()
	assert.Equal(t, []any{}, empty["features"])
}

func TestConcat(t *testing.T) {
	a := FeatureCollection{Features: []Geometry{
		Point{Coordinate: Coordinate{1, 1}},
		Point{Coordinate: Coordinate{2, 2}},
	}}
	b := FeatureCollection{Features: []Geometry{
		LineString{Positions: []Coordinate{{0, 0}, {3, 3}}},
	}}

	c := Concat(a, b)
	require.Equal(t, a.Len()+b.Len(), c.Len())
	assert.Equal(t, append(append([]Geometry{}, a.Features...), b.Features...), c.Features)

	// The result must not share storage with its inputs.
	c.Features[0] = Point{}
	assert.Equal(t, Point{Coordinate: Coordinate{1, 1}}, a.Features[0])

	assert.Zero(t, Concat(FeatureCollection{}, FeatureCollection{}).Len())
}
