// Package output writes feature collections in the supported output formats.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/woozymasta/geoconv/internal/geo"
	"github.com/woozymasta/geoconv/internal/geomconv"

	"github.com/twpayne/go-geom/encoding/wkt"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatWKT  = "wkt"
)

// ContentType returns the media type for format.
func ContentType(format string) string {
	switch format {
	case FormatYAML:
		return "application/yaml"
	case FormatWKT:
		return "text/plain; charset=utf-8"
	default:
		return "application/geo+json"
	}
}

// Write encodes fc to w. An empty format means JSON. Indent applies to JSON only.
func Write(w io.Writer, fc geo.FeatureCollection, format, indent string) error {
	switch format {
	case "", FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", indent)
		return enc.Encode(fc.Encode())

	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(fc.Encode()); err != nil {
			return err
		}
		return enc.Close()

	case FormatWKT:
		return writeWKT(w, fc)

	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// writeWKT writes one geometry per line.
func writeWKT(w io.Writer, fc geo.FeatureCollection) error {
	for i, g := range fc.Features {
		t, err := geomconv.ToGeom(g)
		if err != nil {
			return fmt.Errorf("feature %d: %w", i, err)
		}

		text, err := wkt.Marshal(t)
		if err != nil {
			return fmt.Errorf("feature %d: %w", i, err)
		}

		if _, err := io.WriteString(w, text+"\n"); err != nil {
			return err
		}
	}

	return nil
}
