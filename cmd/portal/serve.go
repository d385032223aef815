package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/thinkai/waitlist/internal/api"
	"github.com/thinkai/waitlist/internal/assets"
	"github.com/thinkai/waitlist/internal/config"
	"github.com/thinkai/waitlist/internal/landing"
	"github.com/thinkai/waitlist/internal/logging"
	"github.com/thinkai/waitlist/internal/media"
	"github.com/thinkai/waitlist/internal/metrics"
	"github.com/thinkai/waitlist/internal/portal"
	"github.com/thinkai/waitlist/internal/session"
	"github.com/thinkai/waitlist/internal/waitlist"
)

const (
	visitorTokenTTL = 30 * 24 * time.Hour
	shutdownTimeout = 10 * time.Second
)

func newServeCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the landing page server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			log, err := logging.New(cfg.Env)
			if err != nil {
				return fmt.Errorf("build logger: %w", err)
			}
			defer log.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, log)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "Path to configuration file")
	return cmd
}

type server struct {
	http     *http.Server
	registry *session.Registry
	log      *zap.Logger
}

func initializePortal(ctx context.Context, cfg *config.Config, log *zap.Logger) (*server, error) {
	promReg := prometheus.NewRegistry()
	promReg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	rec := metrics.New(promReg)

	sink := waitlist.NewClient(waitlist.Config{
		EndpointURL: cfg.Waitlist.EndpointURL,
		Timeout:     cfg.Waitlist.Timeout,
	}, log)

	resolver, err := assets.New(ctx, cfg.Assets.S3, portal.StaticPrefix, log)
	if err != nil {
		return nil, err
	}

	registry := session.NewRegistry(session.Options{
		Signer: session.NewSigner(cfg.Session.Secret, visitorTokenTTL),
		Factory: func(string) *landing.Controller {
			var player media.Player
			if cfg.Assets.Video != "" {
				player = media.NewElement(cfg.Assets.Video, true)
			}
			return landing.New(landing.Options{
				Sink:       sink,
				Player:     player,
				ResetAfter: cfg.Submission.ResetAfter,
				Logger:     log,
				Metrics:    rec,
			})
		},
		IdleTTL:    cfg.Session.IdleTTL,
		SweepEvery: cfg.Session.SweepEvery,
		Logger:     log,
		Metrics:    rec,
	})

	p, err := portal.New(portal.Options{
		Config:   cfg,
		Registry: registry,
		Assets:   resolver,
		Logger:   log,
		Gatherer: promReg,
		API:      api.NewApi(cfg, log).Routes(),
	})
	if err != nil {
		return nil, err
	}

	return &server{
		http: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           p.Routes(),
			ReadHeaderTimeout: 10 * time.Second,
		},
		registry: registry,
		log:      log,
	}, nil
}

func serve(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	srv, err := initializePortal(ctx, cfg, log)
	if err != nil {
		return err
	}
	if err := srv.registry.Start(); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting portal server",
			zap.String("addr", srv.http.Addr),
			zap.String("version", Version),
			zap.String("endpoint", cfg.Waitlist.EndpointURL))
		if err := srv.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		srv.registry.Stop(context.Background())
		return fmt.Errorf("portal server: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down portal server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err = srv.http.Shutdown(shutdownCtx)
	srv.registry.Stop(shutdownCtx)
	return err
}
