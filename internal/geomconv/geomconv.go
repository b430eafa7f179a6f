// Package geomconv converts geometries to and from go-geom values.
package geomconv

import (
	"fmt"

	"github.com/woozymasta/geoconv/internal/geo"

	"github.com/twpayne/go-geom"
)

// ToGeom converts g into the equivalent go-geom geometry with an XY layout.
func ToGeom(g geo.Geometry) (geom.T, error) {
	switch v := g.(type) {
	case geo.Point:
		return geom.NewPointFlat(geom.XY, flat(v.Coordinate)), nil

	case geo.LineString:
		return checked[*geom.LineString](geom.NewLineString(geom.XY).SetCoords(coords(v.Positions)))

	case geo.Polygon:
		return checked[*geom.Polygon](geom.NewPolygon(geom.XY).SetCoords(rings(v.Rings)))

	case geo.MultiPoint:
		points := make([]geom.Coord, len(v.Members))
		for i, p := range v.Members {
			points[i] = flat(p.Coordinate)
		}
		return checked[*geom.MultiPoint](geom.NewMultiPoint(geom.XY).SetCoords(points))

	case geo.MultiLineString:
		lines := make([][]geom.Coord, len(v.Members))
		for i, l := range v.Members {
			lines[i] = coords(l.Positions)
		}
		return checked[*geom.MultiLineString](geom.NewMultiLineString(geom.XY).SetCoords(lines))

	case geo.MultiPolygon:
		polygons := make([][][]geom.Coord, len(v.Members))
		for i, p := range v.Members {
			polygons[i] = rings(p.Rings)
		}
		return checked[*geom.MultiPolygon](geom.NewMultiPolygon(geom.XY).SetCoords(polygons))

	default:
		return nil, fmt.Errorf("%w: %T", geo.ErrUnknownGeometryType, g)
	}
}

// FromGeom converts a go-geom geometry. Only the first two ordinates of each
// coordinate are kept. Polygon rings are checked for closure.
func FromGeom(t geom.T) (geo.Geometry, error) {
	switch v := t.(type) {
	case *geom.Point:
		return geo.Point{Coordinate: coordinate(v.Coords())}, nil

	case *geom.LineString:
		return geo.LineString{Positions: positions(v.Coords())}, nil

	case *geom.Polygon:
		return polygon(v.Coords())

	case *geom.MultiPoint:
		var mp geo.MultiPoint
		mp.Members = make([]geo.Point, 0, v.NumPoints())
		for _, c := range v.Coords() {
			mp.Members = append(mp.Members, geo.Point{Coordinate: coordinate(c)})
		}
		return mp, nil

	case *geom.MultiLineString:
		var mls geo.MultiLineString
		mls.Members = make([]geo.LineString, 0, v.NumLineStrings())
		for _, line := range v.Coords() {
			mls.Members = append(mls.Members, geo.LineString{Positions: positions(line)})
		}
		return mls, nil

	case *geom.MultiPolygon:
		var mpoly geo.MultiPolygon
		mpoly.Members = make([]geo.Polygon, 0, v.NumPolygons())
		for i, rs := range v.Coords() {
			p, err := polygon(rs)
			if err != nil {
				return nil, fmt.Errorf("member %d: %w", i, err)
			}
			mpoly.Members = append(mpoly.Members, p)
		}
		return mpoly, nil

	default:
		return nil, fmt.Errorf("%w: %T", geo.ErrUnknownGeometryType, t)
	}
}

// checked keeps a failed constructor from yielding a non-nil interface
// holding a nil pointer.
func checked[T geom.T](g T, err error) (geom.T, error) {
	if err != nil {
		return nil, err
	}
	return g, nil
}

func flat(c geo.Coordinate) []float64 {
	return []float64{c.Longitude, c.Latitude}
}

func coords(cs []geo.Coordinate) []geom.Coord {
	out := make([]geom.Coord, len(cs))
	for i, c := range cs {
		out[i] = geom.Coord(flat(c))
	}
	return out
}

func rings(rs [][]geo.Coordinate) [][]geom.Coord {
	out := make([][]geom.Coord, len(rs))
	for i, r := range rs {
		out[i] = coords(r)
	}
	return out
}

func coordinate(c geom.Coord) geo.Coordinate {
	return geo.Coordinate{Longitude: c.X(), Latitude: c.Y()}
}

func positions(cs []geom.Coord) []geo.Coordinate {
	out := make([]geo.Coordinate, len(cs))
	for i, c := range cs {
		out[i] = coordinate(c)
	}
	return out
}

func polygon(rs [][]geom.Coord) (geo.Polygon, error) {
	p := geo.Polygon{Rings: make([][]geo.Coordinate, 0, len(rs))}
	for i, r := range rs {
		ring := positions(r)
		if len(ring) > 0 && ring[0] != ring[len(ring)-1] {
			return geo.Polygon{}, fmt.Errorf("ring %d: %w", i, geo.ErrUnclosedRing)
		}
		p.Rings = append(p.Rings, ring)
	}
	return p, nil
}
