package server

import (
	"bytes"
	"context"
	"fmt"
	"hash/fnv"
	"net/http"

	"github.com/woozymasta/geoconv/internal/config"
	"github.com/woozymasta/geoconv/internal/geo"
	"github.com/woozymasta/geoconv/internal/output"
	"github.com/woozymasta/geoconv/internal/source"

	"github.com/rs/zerolog/log"
)

// SourceInfo describes a loaded source in the listing endpoint.
type SourceInfo struct {
	Name     string `json:"name"`
	Error    string `json:"error,omitempty"`
	Features int    `json:"features"`
	Skipped  int    `json:"skipped,omitempty"`
}

type loadedSource struct {
	collection geo.FeatureCollection
	body       []byte
	etag       string
	info       SourceInfo
}

// ServerContext holds dependencies for request handlers.
type ServerContext struct {
	Config  *config.Config
	sources map[string]*loadedSource
	order   []string
	merged  *loadedSource
}

// NewServerContext loads every configured source and pre-renders its
// normalized GeoJSON. Sources that fail to load are listed with their error.
func NewServerContext(ctx context.Context, cfg *config.Config, client *http.Client) *ServerContext {
	log.Info().Int("config_sources_count", len(cfg.Sources)).Msg("Initializing server context")

	s := &ServerContext{
		Config:  cfg,
		sources: make(map[string]*loadedSource, len(cfg.Sources)),
	}

	results := source.LoadAll(ctx, client, cfg.Sources, cfg.Concurrency)
	for _, res := range results {
		ls := &loadedSource{info: SourceInfo{Name: res.Name, Skipped: res.Skipped}}

		if res.Err != nil {
			ls.info.Error = res.Err.Error()
			log.Warn().Err(res.Err).Str("source", res.Name).Msg("Source unavailable")
		} else if err := ls.render(res.Collection, cfg.Output.Indent); err != nil {
			ls.info.Error = err.Error()
			log.Error().Err(err).Str("source", res.Name).Msg("Failed to render source")
		} else {
			log.Debug().
				Str("source", res.Name).
				Int("features", ls.info.Features).
				Int("skipped", res.Skipped).
				Msg("Source loaded")
		}

		s.sources[res.Name] = ls
		s.order = append(s.order, res.Name)
	}

	s.merged = &loadedSource{info: SourceInfo{Name: "merged"}}
	if err := s.merged.render(source.Merge(results), cfg.Output.Indent); err != nil {
		s.merged.info.Error = err.Error()
	}

	log.Info().
		Int("sources_count", len(s.order)).
		Int("merged_features", s.merged.info.Features).
		Msg("Server context initialized successfully")

	return s
}

func (ls *loadedSource) render(fc geo.FeatureCollection, indent string) error {
	var buf bytes.Buffer
	if err := output.Write(&buf, fc, output.FormatJSON, indent); err != nil {
		return err
	}

	h := fnv.New64a()
	_, _ = h.Write(buf.Bytes())

	ls.collection = fc
	ls.body = buf.Bytes()
	ls.etag = fmt.Sprintf(`"%x"`, h.Sum64())
	ls.info.Features = fc.Len()
	return nil
}
