// Package source fetches GeoJSON trees from configured origins.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/woozymasta/geoconv/internal/config"
	"github.com/woozymasta/geoconv/internal/geo"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// maxBodySize bounds remote documents.
const maxBodySize = 64 << 20

// Load returns the generic GeoJSON tree of a source.
func Load(ctx context.Context, client *http.Client, src config.Source) (any, error) {
	switch {
	case src.Inline != nil:
		log.Debug().Str("source", src.Name).Msg("Using inline GeoJSON from config")
		return src.Inline, nil

	case src.Path != "":
		log.Debug().Str("source", src.Name).Str("path", src.Path).Msg("Reading GeoJSON file")
		data, err := os.ReadFile(src.Path)
		if err != nil {
			return nil, err
		}
		return Decode(data, src.Path)

	case src.URL != "":
		log.Debug().Str("source", src.Name).Str("url", src.URL).Msg("Fetching GeoJSON")
		return fetch(ctx, client, src.URL)

	default:
		return nil, fmt.Errorf("source %q has no origin", src.Name)
	}
}

// Decode parses data as YAML when name has a .yaml or .yml extension, and as JSON otherwise.
func Decode(data []byte, name string) (any, error) {
	var tree any

	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
	default:
		if err := json.Unmarshal(data, &tree); err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
	}

	return tree, nil
}

func fetch(ctx context.Context, client *http.Client, url string) (any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/geo+json, application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, err
	}

	return Decode(data, url)
}

// Result is a decoded source.
type Result struct {
	Err        error
	Name       string
	Collection geo.FeatureCollection
	// Skipped counts features that failed to decode.
	Skipped int
}

// LoadCollection loads a source and decodes it into a feature collection.
// Per-feature failures are counted in Skipped and do not fail the source.
func LoadCollection(ctx context.Context, client *http.Client, src config.Source) Result {
	res := Result{Name: src.Name}

	tree, err := Load(ctx, client, src)
	if err != nil {
		res.Err = err
		return res
	}

	fc, err := geo.DecodeFeatureCollection(tree)
	res.Collection = fc
	res.Skipped = geo.CountSkipped(err)

	return res
}

// LoadAll loads sources with at most concurrency parallel fetches. Results
// keep the order of sources.
func LoadAll(ctx context.Context, client *http.Client, sources []config.Source, concurrency int) []Result {
	if concurrency <= 0 {
		concurrency = 1
	}

	results := make([]Result, len(sources))
	loaded := make([]bool, len(sources))
	jobs := make(chan int)

	go func() {
		defer close(jobs)
		for i := range sources {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results[j] = LoadCollection(ctx, client, sources[j])
				loaded[j] = true
			}
		}()
	}
	wg.Wait()

	for i := range results {
		if !loaded[i] {
			results[i] = Result{Name: sources[i].Name, Err: ctx.Err()}
		}
	}

	return results
}

// Merge concatenates successful results in order. Failed sources are logged and left out.
func Merge(results []Result) geo.FeatureCollection {
	var merged geo.FeatureCollection

	for _, res := range results {
		if res.Err != nil {
			log.Error().Err(res.Err).Str("source", res.Name).Msg("Failed to load source")
			continue
		}
		if res.Skipped > 0 {
			log.Warn().
				Str("source", res.Name).
				Int("skipped", res.Skipped).
				Msg("Some features were skipped")
		}
		merged = geo.Concat(merged, res.Collection)
	}

	return merged
}
