package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/c360studio/sbolgraph/codec"
	"github.com/c360studio/sbolgraph/graph"
	"github.com/c360studio/sbolgraph/validation"
	"github.com/c360studio/sbolgraph/watch"
)

func watchCmd(a *app) *cobra.Command {
	var publish bool

	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Re-validate designs as they change",
		Long: `Watch validates every matching file under dir, then reports files as
they are created, modified or deleted. Edits that leave a document's
content unchanged are not reported.

With metrics.addr set, Prometheus metrics are served at /metrics.
With --publish, valid documents are published to the knowledge graph.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			reg := prometheus.NewRegistry()
			codecMetrics, err := codec.NewMetrics(reg)
			if err != nil {
				return err
			}
			validationMetrics, err := validation.NewMetrics(reg)
			if err != nil {
				return err
			}

			if addr := a.cfg.Metrics.Addr; addr != "" {
				srv := serveMetrics(addr, reg, a.logger)
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					_ = srv.Shutdown(shutdownCtx)
				}()
			}

			var pub graph.Publisher
			if publish {
				client, err := a.connectToNATS(ctx)
				if err != nil {
					return err
				}
				defer client.Close(context.Background())
				js, err := client.JetStream()
				if err != nil {
					return fmt.Errorf("get jetstream: %w", err)
				}
				if _, err := graph.EnsureStream(ctx, js, a.cfg.NATS.Subject); err != nil {
					return err
				}
				pub = client
			}

			w, err := watch.NewWatcher(watch.Config{
				Root:          args[0],
				Patterns:      a.cfg.Watch.Patterns,
				DebounceDelay: a.cfg.Watch.Debounce,
				Validator: validation.NewValidator(a.cfg.ValidationOptions(),
					validation.WithLogger(a.logger),
					validation.WithMetrics(validationMetrics)),
				Codec: codec.Options{
					AllowIncomplete: !a.cfg.ValidationOptions().Complete,
					External:        a.cfg.Namespace.External,
					Logger:          a.logger,
					Metrics:         codecMetrics,
				},
				Logger: a.logger,
			})
			if err != nil {
				return err
			}
			defer w.Stop()

			out := cmd.OutOrStdout()
			handle := func(ev watch.Event) {
				printEvent(out, ev)
				if pub == nil || ev.Document == nil || ev.Error != nil {
					return
				}
				if _, err := graph.PublishDocument(ctx, pub, ev.Document, graph.Options{
					Subject: a.cfg.NATS.Subject,
					Logger:  a.logger,
				}); err != nil {
					a.logger.Error("Publish failed", slog.String("path", ev.Path), slog.Any("error", err))
				}
			}

			events, err := w.Scan(ctx)
			if err != nil {
				return err
			}
			for _, ev := range events {
				handle(ev)
			}

			if err := w.Start(ctx); err != nil {
				return err
			}
			for {
				select {
				case <-ctx.Done():
					return nil
				case ev, ok := <-w.Events():
					if !ok {
						return nil
					}
					handle(ev)
				}
			}
		},
	}

	cmd.Flags().BoolVar(&publish, "publish", false, "Publish valid documents to the knowledge graph")

	return cmd
}

func serveMetrics(addr string, reg *prometheus.Registry, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		logger.Info("Serving metrics", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", slog.Any("error", err))
		}
	}()
	return srv
}

func printEvent(w io.Writer, ev watch.Event) {
	switch {
	case ev.Operation == watch.OpDelete:
		fmt.Fprintf(w, "%s %s\n", ev.Operation, ev.Path)
	case ev.Document == nil:
		fmt.Fprintf(w, "%s %s: %v\n", ev.Operation, ev.Path, ev.Error)
	case ev.Error != nil:
		fmt.Fprintf(w, "%s %s: invalid (%s)\n", ev.Operation, ev.Path, ev.CID)
		if ev.Report != nil {
			fmt.Fprint(w, ev.Report.Format())
		}
	default:
		fmt.Fprintf(w, "%s %s: valid, %d entities (%s)\n", ev.Operation, ev.Path, ev.Document.Len(), ev.CID)
	}
}
