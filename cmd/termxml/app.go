package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/c360studio/termxml/compiler"
	"github.com/c360studio/termxml/config"
	"github.com/c360studio/termxml/document"
	"github.com/c360studio/termxml/metrics"
	"github.com/c360studio/termxml/xmltree"
)

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath  string
	terminology string
	vocabulary  string
	logLevel    string
	charset     string
	showMetrics bool
}

// app holds what a command needs once configuration is loaded.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	compiler *compiler.Compiler
	parse    xmltree.ParseOptions
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}

// newApp configures logging, loads the layered configuration and builds
// the compiler for the selected terminology.
func newApp(cmd *cobra.Command, flags *globalFlags) (*app, error) {
	var level slog.LevelVar
	if flags.logLevel != "" {
		l, err := parseLevel(flags.logLevel)
		if err != nil {
			return nil, err
		}
		level.Set(l)
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: &level}))

	loader := config.NewLoader(logger)
	if flags.configPath != "" {
		loader.WithConfigFile(flags.configPath)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if flags.logLevel == "" {
		l, err := parseLevel(cfg.Log.Level)
		if err != nil {
			return nil, err
		}
		level.Set(l)
	}
	if flags.vocabulary != "" {
		cfg.Terminology.Vocabulary = flags.vocabulary
		cfg.Terminology.File = ""
	}
	if flags.terminology != "" {
		cfg.Terminology.File = flags.terminology
	}

	terms, err := cfg.LoadTerminology()
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	m, err := metrics.New(registry)
	if err != nil {
		return nil, err
	}
	c, err := compiler.New(terms,
		compiler.WithCacheSize(cfg.Compiler.CacheSize),
		compiler.WithMetrics(m),
		compiler.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	logger.Debug("Terminology loaded",
		slog.String("vocabulary", cfg.Terminology.Vocabulary),
		slog.String("file", cfg.Terminology.File),
		slog.Int("terms", len(terms.Names())))

	return &app{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		metrics:  m,
		compiler: c,
		parse:    xmltree.ParseOptions{Charset: flags.charset},
	}, nil
}

// open parses the document at path.
func (a *app) open(path string) (*document.Document, error) {
	d, err := document.Open(path, a.compiler, a.parse,
		document.WithLogger(a.logger),
		document.WithMetrics(a.metrics))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return d, nil
}

// save writes d to path, or to w when path is empty.
func (a *app) save(d *document.Document, path string, w io.Writer) error {
	if path == "" {
		_, err := d.WriteTo(w)
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := d.WriteTo(f); err != nil {
		_ = f.Close()
		return err
	}
	a.logger.Debug("Wrote document", slog.String("path", path))
	return f.Close()
}

// writeMetrics dumps the collected metrics in the Prometheus text format.
func (a *app) writeMetrics(w io.Writer) error {
	families, err := a.registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
