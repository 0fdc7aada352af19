package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/c360studio/semstreams/natsclient"

	"github.com/c360studio/sbolgraph/config"
	"github.com/c360studio/sbolgraph/storage"
)

// connectToNATS opens a client for nats.url. The caller closes it.
func (a *app) connectToNATS(ctx context.Context) (*natsclient.Client, error) {
	url := a.cfg.NATS.URL
	if url == "" {
		return nil, fmt.Errorf("nats.url is not configured (set it in %s or %s)", config.ProjectConfigFile, config.EnvNATSURL)
	}

	a.logger.Info("Connecting to NATS", slog.String("url", url))

	client, err := natsclient.NewClient(url,
		natsclient.WithName(appName),
		natsclient.WithMaxReconnects(-1),
		natsclient.WithReconnectWait(time.Second),
		natsclient.WithCircuitBreakerThreshold(20),
		natsclient.WithHealthInterval(30*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("create NATS client: %w", err)
	}

	if err := client.Connect(ctx); err != nil {
		return nil, wrapNATSError(err, url)
	}

	connCtx, cancel := context.WithTimeout(ctx, a.cfg.NATS.Timeout)
	defer cancel()

	if err := client.WaitForConnection(connCtx); err != nil {
		client.Close(ctx)
		return nil, wrapNATSError(err, url)
	}

	a.logger.Info("Connected to NATS", slog.String("url", url))
	return client, nil
}

// openStore connects to NATS and opens the document bucket. The returned
// func closes the connection.
func (a *app) openStore(ctx context.Context) (*storage.Store, func(), error) {
	client, err := a.connectToNATS(ctx)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() { client.Close(context.Background()) }

	js, err := client.JetStream()
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("get jetstream: %w", err)
	}
	store, err := storage.NewStore(ctx, js, a.cfg.NATS.Bucket, storage.WithLogger(a.logger))
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return store, closeFn, nil
}

// wrapNATSError provides helpful guidance when NATS connection fails.
func wrapNATSError(err error, url string) error {
	errStr := err.Error()

	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no servers available") ||
		strings.Contains(errStr, "timeout") {
		return fmt.Errorf(`NATS connection failed: %w

NATS is not running at %s.

To start NATS:
  docker run -p 4222:4222 nats -js

Or set %s to point to your NATS server.`, err, url, config.EnvNATSURL)
	}

	return fmt.Errorf("NATS connection failed: %w", err)
}
