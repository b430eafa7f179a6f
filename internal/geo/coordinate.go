// Package geo converts between generic GeoJSON trees and typed geometries.
//
// A generic tree is what a JSON or YAML decoder produces when the target is
// an interface value: map[string]any, []any, strings, numbers and nil.
package geo

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// Coordinate is a position in degrees. Ranges are not enforced.
type Coordinate struct {
	Longitude float64
	Latitude  float64
}

// ParseCoordinate builds a Coordinate from a [lon, lat] sequence.
func ParseCoordinate(raw any) (Coordinate, error) {
	seq, ok := asSlice(raw)
	if !ok {
		return Coordinate{}, fmt.Errorf("%w: expected array, got %T", ErrMalformedCoordinate, raw)
	}
	if len(seq) != 2 {
		return Coordinate{}, fmt.Errorf("%w: expected 2 values, got %d", ErrMalformedCoordinate, len(seq))
	}

	lon, ok := toFloat(seq[0])
	if !ok {
		return Coordinate{}, fmt.Errorf("%w: longitude is %T", ErrMalformedCoordinate, seq[0])
	}
	lat, ok := toFloat(seq[1])
	if !ok {
		return Coordinate{}, fmt.Errorf("%w: latitude is %T", ErrMalformedCoordinate, seq[1])
	}

	return Coordinate{Longitude: lon, Latitude: lat}, nil
}

// Pair renders the coordinate as [lon, lat].
func (c Coordinate) Pair() []any {
	return []any{c.Longitude, c.Latitude}
}

// asSlice accepts []any from decoders and typed slices such as [][]float64
// built in code.
func asSlice(raw any) ([]any, bool) {
	if seq, ok := raw.([]any); ok {
		return seq, true
	}
	if raw == nil {
		return nil, false
	}

	v := reflect.ValueOf(raw)
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return nil, false
	}

	seq := make([]any, v.Len())
	for i := range seq {
		seq[i] = v.Index(i).Interface()
	}
	return seq, true
}

// toFloat accepts the numeric leaves JSON and YAML decoders produce.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func parseCoordinates(raw any) ([]Coordinate, error) {
	seq, ok := asSlice(raw)
	if !ok {
		return nil, fmt.Errorf("%w: expected array of positions, got %T", ErrMalformedCoordinate, raw)
	}

	coords := make([]Coordinate, 0, len(seq))
	for i, item := range seq {
		c, err := ParseCoordinate(item)
		if err != nil {
			return nil, fmt.Errorf("position %d: %w", i, err)
		}
		coords = append(coords, c)
	}

	return coords, nil
}

func renderCoordinates(coords []Coordinate) []any {
	out := make([]any, len(coords))
	for i, c := range coords {
		out[i] = c.Pair()
	}
	return out
}
