package geo

import "fmt"

type decodeFunc func(coordinates any) (Geometry, error)

func decoderOf[G Geometry](parse func(any) (G, error)) decodeFunc {
	return func(coordinates any) (Geometry, error) {
		g, err := parse(coordinates)
		if err != nil {
			return nil, err
		}
		return g, nil
	}
}

// decoders maps every supported geometry type name to its constructor.
var decoders = map[string]decodeFunc{
	TypePoint:           decoderOf(ParsePoint),
	TypeLineString:      decoderOf(ParseLineString),
	TypePolygon:         decoderOf(ParsePolygon),
	TypeMultiPoint:      decoderOf(ParseMultiPoint),
	TypeMultiLineString: decoderOf(ParseMultiLineString),
	TypeMultiPolygon:    decoderOf(ParseMultiPolygon),
}

// Supported reports whether typeName names a geometry this package decodes.
func Supported(typeName string) bool {
	_, ok := decoders[typeName]
	return ok
}

// EncodeGeometry renders g as a GeoJSON geometry object.
func EncodeGeometry(g Geometry) map[string]any {
	return map[string]any{
		"type":        g.Type(),
		"coordinates": g.Coordinates(),
		"properties":  nil,
	}
}

// DecodeGeometry builds a geometry from a GeoJSON geometry object,
// dispatching on its "type" member.
func DecodeGeometry(raw any) (Geometry, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: geometry must be an object, got %T", ErrMissingField, raw)
	}

	typeName, err := stringField(obj, "type")
	if err != nil {
		return nil, fmt.Errorf("geometry: %w", err)
	}

	decode, ok := decoders[typeName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGeometryType, typeName)
	}

	coordinates, ok := obj["coordinates"]
	if !ok || coordinates == nil {
		return nil, fmt.Errorf("%w: geometry.coordinates is absent", ErrMissingField)
	}

	g, err := decode(coordinates)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", typeName, err)
	}
	return g, nil
}

// EncodeFeature wraps g in a GeoJSON Feature object with null properties.
func EncodeFeature(g Geometry) map[string]any {
	return map[string]any{
		"type":       TypeFeature,
		"geometry":   EncodeGeometry(g),
		"properties": nil,
	}
}

// DecodeFeature extracts the geometry of a GeoJSON Feature object.
func DecodeFeature(raw any) (Geometry, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: feature must be an object, got %T", ErrMissingField, raw)
	}

	geometry, ok := obj["geometry"]
	if !ok || geometry == nil {
		return nil, fmt.Errorf("%w: geometry is absent", ErrMissingField)
	}

	return DecodeGeometry(geometry)
}

// DecodeFeatureAs decodes a Feature and requires its geometry to be of kind G.
func DecodeFeatureAs[G Geometry](raw any) (G, error) {
	var zero G

	g, err := DecodeFeature(raw)
	if err != nil {
		return zero, err
	}

	typed, ok := g.(G)
	if !ok {
		return zero, fmt.Errorf("%w: expected %s, got %s", ErrUnknownGeometryType, zero.Type(), g.Type())
	}
	return typed, nil
}

func stringField(obj map[string]any, key string) (string, error) {
	v, ok := obj[key]
	if !ok {
		return "", fmt.Errorf("%w: %q is absent", ErrMissingField, key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %q must be a string, got %T", ErrMissingField, key, v)
	}
	return s, nil
}
