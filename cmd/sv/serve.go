package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/groblegark/srvenv/internal/config"
	"github.com/groblegark/srvenv/internal/envconf"
	"github.com/groblegark/srvenv/internal/events"
	"github.com/groblegark/srvenv/internal/schema"
	"github.com/groblegark/srvenv/internal/server"
	"github.com/groblegark/srvenv/internal/store/postgres"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the srvenv server",
	// Override PersistentPreRunE so we don't create an HTTP client.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		slog.SetDefault(logger)
		ctx := cmd.Context()

		// Load configuration.
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		// Build the environment configuration store.
		loader, err := buildEnvLoader(ctx, cfg)
		if err != nil {
			return err
		}
		env := envconf.New(loader)
		if err := env.Load(ctx); err != nil {
			return err
		}
		logger.Info("env config loaded", "sections", len(env.Sections()))

		// Connect to Postgres.
		store, err := postgres.New(cfg.DatabaseURL)
		if err != nil {
			return err
		}

		// Create event publisher.
		var publisher events.Publisher
		if cfg.NATSURL != "" {
			pub, err := events.NewNATSPublisher(cfg.NATSURL)
			if err != nil {
				store.Close()
				return err
			}
			publisher = pub
			logger.Info("events enabled", "nats_url", cfg.NATSURL)
		} else {
			publisher = &events.NoopPublisher{}
			logger.Info("events disabled (SRVENV_NATS_URL not set)")
		}

		// Register persisted record types and start serving.
		srv := server.NewEnvServer(store, schema.NewRegistry(), env, publisher)
		if err := srv.LoadTypes(ctx); err != nil {
			publisher.Close()
			store.Close()
			return err
		}

		httpServer := &http.Server{
			Addr:    cfg.HTTPAddr,
			Handler: srv.NewHTTPHandler(cfg.AuthToken),
		}

		go func() {
			logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("HTTP server error", "err", err)
			}
		}()

		// Wait for shutdown signal.
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("shutting down", "signal", sig.String())

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP shutdown error", "err", err)
		}

		publisher.Close()
		store.Close()
		return nil
	},
}

// buildEnvLoader assembles the configured env sources; when several are set
// they merge in dir, file, S3 order, later sources winning key by key.
func buildEnvLoader(ctx context.Context, cfg *config.Config) (envconf.Loader, error) {
	var loaders envconf.MultiLoader
	if cfg.EnvDir != "" {
		loaders = append(loaders, envconf.DirLoader{Dir: cfg.EnvDir})
	}
	if cfg.EnvFile != "" {
		loaders = append(loaders, envconf.FileLoader{Path: cfg.EnvFile})
	}
	if cfg.EnvS3Bucket != "" {
		s3l, err := envconf.NewS3Loader(ctx, cfg.EnvS3Bucket, cfg.EnvS3Key, cfg.EnvS3Region, cfg.EnvS3Endpoint)
		if err != nil {
			return nil, err
		}
		loaders = append(loaders, s3l)
	}
	if len(loaders) == 1 {
		return loaders[0], nil
	}
	return loaders, nil
}
