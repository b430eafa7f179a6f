package geo

import "fmt"

// GeoJSON type names.
const (
	TypeFeatureCollection = "FeatureCollection"
	TypeFeature           = "Feature"
	TypePoint             = "Point"
	TypeLineString        = "LineString"
	TypePolygon           = "Polygon"
	TypeMultiPoint        = "MultiPoint"
	TypeMultiLineString   = "MultiLineString"
	TypeMultiPolygon      = "MultiPolygon"
)

// Geometry is the closed set of supported geometry kinds: Point, LineString,
// Polygon and their Multi variants.
type Geometry interface {
	// Type returns the GeoJSON type name.
	Type() string
	// Coordinates renders the nested coordinate array as a generic tree.
	Coordinates() any

	geometry()
}

// Point holds a single position.
type Point struct {
	Coordinate Coordinate
}

// ParsePoint builds a Point from [lon, lat].
func ParsePoint(raw any) (Point, error) {
	c, err := ParseCoordinate(raw)
	if err != nil {
		return Point{}, err
	}
	return Point{Coordinate: c}, nil
}

func (Point) Type() string { return TypePoint }

func (p Point) Coordinates() any { return p.Coordinate.Pair() }

func (Point) parse(raw any) (Point, error) { return ParsePoint(raw) }

func (Point) geometry() {}

// LineString holds an ordered sequence of positions. No minimum length is enforced.
type LineString struct {
	Positions []Coordinate
}

// ParseLineString builds a LineString from [[lon, lat], ...]. Any malformed
// position fails the whole line.
func ParseLineString(raw any) (LineString, error) {
	coords, err := parseCoordinates(raw)
	if err != nil {
		return LineString{}, err
	}
	return LineString{Positions: coords}, nil
}

func (LineString) Type() string { return TypeLineString }

func (l LineString) Coordinates() any { return renderCoordinates(l.Positions) }

func (LineString) parse(raw any) (LineString, error) { return ParseLineString(raw) }

func (LineString) geometry() {}

// Polygon holds linear rings. Every ring is closed: its first and last positions are equal.
type Polygon struct {
	Rings [][]Coordinate
}

// ParsePolygon builds a Polygon from [[[lon, lat], ...], ...]. A malformed
// position or an unclosed ring fails the whole polygon.
func ParsePolygon(raw any) (Polygon, error) {
	seq, ok := asSlice(raw)
	if !ok {
		return Polygon{}, fmt.Errorf("%w: expected array of rings, got %T", ErrMalformedCoordinate, raw)
	}

	rings := make([][]Coordinate, 0, len(seq))
	for i, item := range seq {
		ring, err := parseCoordinates(item)
		if err != nil {
			return Polygon{}, fmt.Errorf("ring %d: %w", i, err)
		}
		if !closed(ring) {
			return Polygon{}, fmt.Errorf("ring %d: %w", i, ErrUnclosedRing)
		}
		rings = append(rings, ring)
	}

	return Polygon{Rings: rings}, nil
}

// closed treats an empty ring as closed.
func closed(ring []Coordinate) bool {
	if len(ring) == 0 {
		return true
	}
	return ring[0] == ring[len(ring)-1]
}

func (Polygon) Type() string { return TypePolygon }

func (p Polygon) Coordinates() any {
	out := make([]any, len(p.Rings))
	for i, ring := range p.Rings {
		out[i] = renderCoordinates(ring)
	}
	return out
}

func (Polygon) parse(raw any) (Polygon, error) { return ParsePolygon(raw) }

func (Polygon) geometry() {}
