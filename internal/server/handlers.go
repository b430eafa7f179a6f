// Package server handles HTTP requests and middleware.
package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/woozymasta/geoconv/internal/geo"
	"github.com/woozymasta/geoconv/internal/output"
	"github.com/woozymasta/geoconv/internal/source"

	"github.com/rs/zerolog/log"
)

const maxRequestBody = 16 << 20

// Routes registers the handlers on a new mux.
func (s *ServerContext) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/sources", s.HandleSourcesList)
	mux.HandleFunc("/api/normalize", s.HandleNormalize)
	mux.HandleFunc("/sources/", s.HandleSource)
	return mux
}

// HandleSourcesList serves the names and feature counts of configured sources.
func (s *ServerContext) HandleSourcesList(w http.ResponseWriter, r *http.Request) {
	list := make([]SourceInfo, 0, len(s.order))
	for _, name := range s.order {
		list = append(list, s.sources[name].info)
	}

	w.Header().Set("Content-Type", "application/json")
	// Ignoring error as we cannot handle client disconnects
	_ = json.NewEncoder(w).Encode(list)
}

// HandleSource serves a normalized source. Path: /sources/{name}.geojson,
// with /sources/merged.geojson holding every source concatenated.
// The optional format query parameter selects yaml or wkt output.
func (s *ServerContext) HandleSource(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name, ok := strings.CutSuffix(strings.TrimPrefix(r.URL.Path, "/sources/"), ".geojson")
	if !ok || name == "" || strings.Contains(name, "/") {
		http.NotFound(w, r)
		return
	}

	ls, ok := s.sources[name]
	if !ok && name == "merged" {
		ls, ok = s.merged, true
	}
	if !ok || ls.body == nil {
		http.NotFound(w, r)
		return
	}

	format := r.URL.Query().Get("format")
	if format != "" && format != output.FormatJSON {
		s.writeCollection(w, ls.collection, format)
		return
	}

	// check If-None-Match (client sent ETag)
	if match := r.Header.Get("If-None-Match"); match == ls.etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", output.ContentType(output.FormatJSON))
	w.Header().Set("ETag", ls.etag)
	w.Header().Set("Cache-Control", "public, no-cache")
	_, _ = w.Write(ls.body)
}

// HandleNormalize decodes a posted FeatureCollection and returns it in
// normalized form. Skipped features are counted in X-Skipped-Features.
func (s *ServerContext) HandleNormalize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err != nil {
		http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
		return
	}

	tree, err := source.Decode(data, requestExt(r))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	fc, err := geo.DecodeFeatureCollection(tree)
	skipped := geo.CountSkipped(err)
	if err != nil {
		log.Debug().Err(err).Int("skipped", skipped).Msg("Normalize request had invalid features")
	}

	w.Header().Set("X-Skipped-Features", strconv.Itoa(skipped))

	format := r.URL.Query().Get("format")
	if format == "" {
		format = s.Config.Output.Format
	}
	s.writeCollection(w, fc, format)
}

func (s *ServerContext) writeCollection(w http.ResponseWriter, fc geo.FeatureCollection, format string) {
	var buf bytes.Buffer
	if err := output.Write(&buf, fc, format, s.Config.Output.Indent); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", output.ContentType(format))
	_, _ = w.Write(buf.Bytes())
}

// requestExt maps the request media type to a pseudo file name for source.Decode.
func requestExt(r *http.Request) string {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/yaml", "application/x-yaml", "text/yaml":
		return "body.yaml"
	default:
		return "body.json"
	}
}
