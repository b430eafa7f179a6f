package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/woozymasta/geoconv/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pointsJSON = `{"type":"FeatureCollection","features":[
  {"type":"Feature","geometry":{"type":"Point","coordinates":[1,2]}},
  {"type":"Feature","geometry":{"type":"GeometryCollection","geometries":[]}}
]}`

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	path := filepath.Join(t.TempDir(), "points.geojson")
	require.NoError(t, os.WriteFile(path, []byte(pointsJSON), 0o600))

	cfg := &config.Config{
		Sources: []config.Source{
			{Name: "points", Path: path},
			{Name: "area", Inline: map[string]any{
				"features": []any{map[string]any{"geometry": map[string]any{
					"type":        "Polygon",
					"coordinates": []any{[]any{[]any{0, 0}, []any{1, 0}, []any{1, 1}, []any{0, 0}}},
				}}},
			}},
			{Name: "broken", Path: filepath.Join(t.TempDir(), "absent.json")},
		},
	}

	return RequestLogger(NewServerContext(context.Background(), cfg, http.DefaultClient).Routes())
}

func TestHandleSourcesList(t *testing.T) {
	h := newTestServer(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sources", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var list []SourceInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 3)

	assert.Equal(t, SourceInfo{Name: "points", Features: 1, Skipped: 1}, list[0])
	assert.Equal(t, SourceInfo{Name: "area", Features: 1}, list[1])
	assert.Equal(t, "broken", list[2].Name)
	assert.NotEmpty(t, list[2].Error)
}

func TestHandleSource(t *testing.T) {
	h := newTestServer(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sources/points.geojson", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/geo+json", rec.Header().Get("Content-Type"))

	var tree map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tree))
	assert.Equal(t, "FeatureCollection", tree["type"])
	assert.Len(t, tree["features"], 1)

	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)

	req := httptest.NewRequest(http.MethodGet, "/sources/points.geojson", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotModified, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sources/area.geojson?format=wkt", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "POLYGON"), rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sources/merged.geojson", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tree))
	assert.Len(t, tree["features"], 2)

	for _, path := range []string{"/sources/broken.geojson", "/sources/unknown.geojson", "/sources/points", "/sources/"} {
		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func TestHandleNormalize(t *testing.T) {
	h := newTestServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/normalize", strings.NewReader(pointsJSON))
	req.Header.Set("Content-Type", "application/geo+json")
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-Skipped-Features"))
	assert.JSONEq(t, `{
	  "type": "FeatureCollection",
	  "features": [
	    {"type": "Feature", "geometry": {"type": "Point", "coordinates": [1, 2], "properties": null}, "properties": null}
	  ],
	  "properties": null
	}`, rec.Body.String())

	yamlBody := "features:\n  - geometry: {type: LineString, coordinates: [[0, 0], [1, 1]]}\n"
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/normalize?format=wkt", strings.NewReader(yamlBody))
	req.Header.Set("Content-Type", "application/yaml")
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-Skipped-Features"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "LINESTRING"), rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/normalize", strings.NewReader("{")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/normalize", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
