package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/woozymasta/geoconv/internal/config"
	"github.com/woozymasta/geoconv/internal/logger"
	"github.com/woozymasta/geoconv/internal/output"
	"github.com/woozymasta/geoconv/internal/source"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	Inputs      []string `short:"i" long:"in"          description:"Input GeoJSON file (.json, .geojson, .yaml, .yml), repeatable. Reads stdin if no input and no config"`
	ConfigFile  string   `short:"c" long:"config"      env:"CONFIG_FILE" description:"Configuration file with additional sources"`
	Output      string   `short:"o" long:"out"         description:"Output file path. Writes to stdout if empty"`
	Format      string   `short:"f" long:"format"      description:"Output format" choice:"json" choice:"yaml" choice:"wkt"`
	Indent      string   `long:"indent"                description:"JSON indentation" default:"  "`
	Concurrency int      `short:"p" long:"concurrency" env:"CONCURRENCY" description:"Parallel source loads" default:"4"`
	Strict      bool     `short:"s" long:"strict"      description:"Exit with an error when any feature is skipped"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	if err := run(opts); err != nil {
		log.Fatal().Err(err).Msg("Conversion failed")
	}
}

func run(opts Options) error {
	cfg := &config.Config{}
	if opts.ConfigFile != "" {
		var err error
		if cfg, err = config.Load(opts.ConfigFile); err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	}

	format := opts.Format
	if format == "" {
		format = cfg.Output.Format
	}
	indent := opts.Indent
	if cfg.Output.Indent != "" && opts.Indent == "  " {
		indent = cfg.Output.Indent
	}
	concurrency := opts.Concurrency
	if cfg.Concurrency > 0 {
		concurrency = cfg.Concurrency
	}

	sources := make([]config.Source, 0, len(opts.Inputs)+len(cfg.Sources))
	for _, path := range opts.Inputs {
		sources = append(sources, config.Source{Name: path, Path: path})
	}
	sources = append(sources, cfg.Sources...)

	var results []source.Result
	if len(sources) == 0 {
		res, err := readStdin()
		if err != nil {
			return err
		}
		results = []source.Result{res}
	} else {
		client := &http.Client{Timeout: 30 * time.Second}
		results = source.LoadAll(context.Background(), client, sources, concurrency)
	}

	skipped, failed := 0, 0
	for _, res := range results {
		skipped += res.Skipped
		if res.Err != nil {
			failed++
		}
	}
	if failed == len(results) {
		return fmt.Errorf("no source could be loaded")
	}
	if opts.Strict && (skipped > 0 || failed > 0) {
		return fmt.Errorf("%d features skipped, %d sources failed", skipped, failed)
	}

	fc := source.Merge(results)

	var out io.Writer = os.Stdout
	if opts.Output != "" {
		f, err := os.Create(opts.Output)
		if err != nil {
			return err
		}
		// We care about write errors on close
		defer func() {
			if closeErr := f.Close(); closeErr != nil {
				log.Error().Err(closeErr).Str("path", opts.Output).Msg("Failed to close file")
			}
		}()
		out = f
	}

	w := bufio.NewWriter(out)
	if err := output.Write(w, fc, format, indent); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}

	log.Info().
		Int("sources", len(results)).
		Int("features", fc.Len()).
		Int("skipped", skipped).
		Str("format", format).
		Msg("Conversion finished")

	return nil
}

func readStdin() (source.Result, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return source.Result{}, fmt.Errorf("read stdin: %w", err)
	}

	tree, err := source.Decode(data, "stdin.json")
	if err != nil {
		return source.Result{}, err
	}

	return source.LoadCollection(context.Background(), nil, config.Source{Name: "stdin", Inline: asObject(tree)}), nil
}

func asObject(tree any) map[string]any {
	if obj, ok := tree.(map[string]any); ok {
		return obj
	}
	return map[string]any{}
}
