// Package main provides the sbolgraph binary entry point.
// Sbolgraph is a command line toolkit for SBOL2 documents backed by NATS
// JetStream storage and the semstreams knowledge graph.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/c360studio/sbolgraph/codec"
	"github.com/c360studio/sbolgraph/config"
	"github.com/c360studio/sbolgraph/document"
	"github.com/c360studio/sbolgraph/export"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "sbolgraph"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app carries state shared by every subcommand. It is filled in by the
// root command's PersistentPreRunE.
type app struct {
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *slog.Logger
}

func rootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "SBOL2 document toolkit",
		Long: `Sbolgraph reads, validates and writes SBOL2 designs.

It provides:
- Validation at load and write time
- Conversion between RDF/XML, N-Triples, JSON-LD and Turtle
- Structural comparison of two documents
- A NATS JetStream document store and knowledge graph publishing
- A directory watcher that re-validates designs as they change`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}

	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		validateCmd(a),
		convertCmd(a),
		diffCmd(a),
		newCmd(a),
		storeCmd(a),
		publishCmd(a),
		watchCmd(a),
		configCmd(a),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
			},
		},
	)

	return cmd
}

// setup configures logging and loads the layered configuration.
func (a *app) setup(stderr io.Writer) error {
	level := slog.LevelWarn
	switch strings.ToLower(a.logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	}
	a.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(a.logger)

	cfg, err := config.NewLoader(a.logger).Load(a.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg
	return nil
}

// codecOptions returns the reader options for this run, including the
// configured external namespaces.
func (a *app) codecOptions(allowIncomplete bool) codec.Options {
	return codec.Options{
		AllowIncomplete: allowIncomplete,
		External:        a.cfg.Namespace.External,
		Logger:          a.logger,
	}
}

// readFile loads one document and logs its reader warnings.
func (a *app) readFile(path string, allowIncomplete bool) (*document.Document, []error, error) {
	doc, warnings, err := export.ReadFile(path, a.codecOptions(allowIncomplete))
	for _, w := range warnings {
		a.logger.Warn("Reader warning", slog.String("path", path), slog.String("warning", w.Error()))
	}
	return doc, warnings, err
}

// exporter builds an exporter for the configured profile and prefixes.
func (a *app) exporter(profile string) (*export.RDFExporter, error) {
	if profile == "" {
		profile = a.cfg.Serialization.Profile
	}
	if _, ok := export.Profiles[export.Profile(profile)]; !ok {
		return nil, fmt.Errorf("unknown profile %q", profile)
	}
	e := export.NewRDFExporter(export.Profile(profile))
	for p, iri := range a.cfg.Serialization.Prefixes {
		e.SetPrefix(p, iri)
	}
	return e, nil
}

// outputFormat resolves a --format flag, falling back to the configured
// default.
func (a *app) outputFormat(flag string) (export.Format, error) {
	if flag == "" {
		flag = a.cfg.Serialization.Format
	}
	return export.ParseFormat(flag)
}

// writeOutput writes to path, or to w when path is empty or "-".
func writeOutput(w io.Writer, path string, write func(io.Writer) error) error {
	if path == "" || path == "-" {
		return write(w)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
