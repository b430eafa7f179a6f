package geo

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedCoordinate is returned when a coordinate is not a pair of numbers.
	ErrMalformedCoordinate = errors.New("malformed coordinate")
	// ErrUnclosedRing is returned when the first and last positions of a polygon ring differ.
	ErrUnclosedRing = errors.New("unclosed linear ring")
	// ErrUnknownGeometryType is returned for geometry types outside the supported set.
	ErrUnknownGeometryType = errors.New("unknown geometry type")
	// ErrMissingField is returned when a required member is absent or has the wrong shape.
	ErrMissingField = errors.New("missing or malformed field")
)

// FeatureError describes why a single feature of a collection was skipped.
type FeatureError struct {
	Err   error
	Index int
}

func (e *FeatureError) Error() string {
	return fmt.Sprintf("feature %d: %v", e.Index, e.Err)
}

func (e *FeatureError) Unwrap() error {
	return e.Err
}

// CountSkipped returns how many features a DecodeFeatureCollection error reports.
func CountSkipped(err error) int {
	if err == nil {
		return 0
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return len(joined.Unwrap())
	}
	return 1
}
