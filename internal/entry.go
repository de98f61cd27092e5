// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/logoteca/internal/api"
	"github.com/starford/logoteca/internal/catalog"
	"github.com/starford/logoteca/internal/mcpserver"
	"github.com/starford/logoteca/internal/sse"
)

func newApplication(opts []Option) (*application, error) {
	app := &application{logOutput: os.Stdout, version: "dev"}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

// NewLogger builds the structured JSON logger and installs it as the default.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return logger
}

// Run starts the HTTP gallery server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config
	logger := NewLogger(app.logOutput, cfg.App.LogLevel)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("catalog_dir", cfg.Catalog.Dir),
		slog.String("catalog_manifest", cfg.Catalog.Manifest),
		slog.Bool("watch", cfg.Catalog.Watch),
		slog.String("log_level", cfg.App.LogLevel.String()))

	g, err := OpenGallery(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer g.Close()

	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()
	broker.SetState(reloadInfo(g.Catalog.Snapshot()))

	apiRouter := api.NewRouter(g.Service, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if g.Catalog.Snapshot().LoadedAt.IsZero() {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"loading"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/api", apiRouter)
	r.Mount(cfg.Catalog.BasePath, api.NewImageRouter(g.FS))

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg, gCtx := errgroup.WithContext(ctx)

	if cfg.Catalog.Watch {
		eg.Go(func() error {
			err := catalog.Watch(gCtx, g.Catalog, g.WatchPath, logger, func(snap *catalog.Snapshot) {
				if err := g.Service.Refresh(gCtx, snap); err != nil {
					logger.Warn("refresh index failed", slog.String("error", err.Error()))
				}
				broker.PublishReload(reloadInfo(snap))
			})
			if err != nil {
				logger.Warn("catalog watcher unavailable", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	eg.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return errShutdown
	})

	if err := eg.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown cancels the group context so the watcher stops with the server.
var errShutdown = errors.New("shutdown")

// RunMCP serves the MCP tools over stdio. Logs go to the configured writer,
// which must not be stdout.
func RunMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(append([]Option{WithLogOutput(os.Stderr)}, opts...))
	if err != nil {
		return err
	}
	logger := NewLogger(app.logOutput, app.config.App.LogLevel)

	g, err := OpenGallery(ctx, app.config, logger)
	if err != nil {
		return err
	}
	defer g.Close()

	if app.config.Catalog.Watch {
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			err := catalog.Watch(watchCtx, g.Catalog, g.WatchPath, logger, func(snap *catalog.Snapshot) {
				if err := g.Service.Refresh(watchCtx, snap); err != nil {
					logger.Warn("refresh index failed", slog.String("error", err.Error()))
				}
			})
			if err != nil {
				logger.Warn("catalog watcher unavailable", slog.String("error", err.Error()))
			}
		}()
	}

	logger.Info("MCP server starting on stdio")
	return mcpserver.New(g.Service, app.version).ServeStdio()
}

func reloadInfo(snap *catalog.Snapshot) sse.ReloadInfo {
	return sse.ReloadInfo{
		Fingerprint: snap.Fingerprint,
		Total:       snap.Len(),
		Malformed:   snap.Malformed,
	}
}
