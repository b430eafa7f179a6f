package geo

import "fmt"

// Member is the capability a base geometry needs to be held by Multi.
type Member[G any] interface {
	Point | LineString | Polygon
	Geometry

	parse(raw any) (G, error)
}

// Multi groups geometries of one base kind under a coordinate array one level deeper.
type Multi[G Member[G]] struct {
	Members []G
}

// MultiPoint, MultiLineString and MultiPolygon are the supported Multi kinds.
type (
	MultiPoint      = Multi[Point]
	MultiLineString = Multi[LineString]
	MultiPolygon    = Multi[Polygon]
)

// ParseMulti builds a Multi from an array of member coordinate arrays.
// An empty array yields an empty Multi; a malformed member fails the whole Multi.
func ParseMulti[G Member[G]](raw any) (Multi[G], error) {
	seq, ok := asSlice(raw)
	if !ok {
		return Multi[G]{}, fmt.Errorf("%w: expected array of members, got %T", ErrMalformedCoordinate, raw)
	}

	var zero G
	members := make([]G, 0, len(seq))
	for i, item := range seq {
		m, err := zero.parse(item)
		if err != nil {
			return Multi[G]{}, fmt.Errorf("member %d: %w", i, err)
		}
		members = append(members, m)
	}

	return Multi[G]{Members: members}, nil
}

// ParseMultiPoint builds a MultiPoint from [[lon, lat], ...].
func ParseMultiPoint(raw any) (MultiPoint, error) { return ParseMulti[Point](raw) }

// ParseMultiLineString builds a MultiLineString from [[[lon, lat], ...], ...].
func ParseMultiLineString(raw any) (MultiLineString, error) { return ParseMulti[LineString](raw) }

// ParseMultiPolygon builds a MultiPolygon from [[[[lon, lat], ...], ...], ...].
func ParseMultiPolygon(raw any) (MultiPolygon, error) { return ParseMulti[Polygon](raw) }

func (Multi[G]) Type() string {
	var zero G
	return "Multi" + zero.Type()
}

func (m Multi[G]) Coordinates() any {
	out := make([]any, len(m.Members))
	for i, member := range m.Members {
		out[i] = member.Coordinates()
	}
	return out
}

func (Multi[G]) geometry() {}
