// Entry point for the marksight HTTP service: chi router behind the shield
// middleware stack, SQLite extraction event log, optional MCP stdio transport.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	_ "modernc.org/sqlite"

	"github.com/gradewise/marksight/dbopen"
	"github.com/gradewise/marksight/observability"
	"github.com/gradewise/marksight/shield"
	"github.com/gradewise/marksight/web"
)

func main() {
	configPath := env("CONFIG", "")
	mcpTransport := env("MCP_TRANSPORT", "")

	cfg := web.DefaultConfig()
	if configPath != "" {
		loaded, err := web.LoadConfig(configPath)
		if err != nil {
			slog.Error("config", "error", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if addr := os.Getenv("LISTEN"); addr != "" {
		cfg.Listen = addr
	}
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		cfg.LogLevel = lvl
	}

	// Logging.
	var lvl slog.Level
	switch cfg.LogLevel {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	// Signal context.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Event log DB.
	eventsDB, err := dbopen.Open(cfg.EventsDB,
		dbopen.WithMkdirAll(),
		dbopen.WithSchema(observability.Schema))
	if err != nil {
		slog.Error("events db", "error", err)
		os.Exit(1)
	}
	defer eventsDB.Close()
	events := observability.NewEventLogger(eventsDB)

	// Retention sweep, once a day.
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			if err := observability.Cleanup(ctx, eventsDB, cfg.RetentionDays); err != nil {
				slog.Warn("event cleanup", "error", err)
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	// Service.
	svc := web.New(cfg, logger, web.WithEvents(events))

	// Optional MCP over stdio.
	if mcpTransport == "stdio" {
		mcpSrv := mcp.NewServer(&mcp.Implementation{
			Name:    "marksight",
			Version: "1.0.0",
		}, nil)
		svc.RegisterMCP(mcpSrv)

		go func() {
			slog.Info("MCP stdio starting")
			if err := mcpSrv.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
				slog.Error("MCP stdio", "error", err)
			}
		}()
	}

	// Router. The body cap leaves room for multipart framing around the
	// largest accepted PDF.
	r := chi.NewRouter()
	r.Use(shield.HeadToGet)
	r.Use(shield.SecurityHeaders(shield.DefaultHeaders()))
	r.Use(shield.MaxBody(cfg.MaxFileBytes() + 1024*1024))
	r.Use(shield.TraceID)
	r.Mount("/", svc.Routes())

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Listen)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown", "error", err)
	}
	slog.Info("server stopped")
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
