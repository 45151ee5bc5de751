package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"csvprofiler/internal/analysis"
	"csvprofiler/internal/config"
	"csvprofiler/internal/logging"
	"csvprofiler/internal/store/memory"
	"csvprofiler/internal/store/postgres"
	"csvprofiler/internal/store/sqlite"
	"csvprofiler/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("configuration loaded", "config", cfg.String())

	ctx := context.Background()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to open record store", "driver", cfg.Store.Driver, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	analyzerCfg := analysis.DefaultConfig()
	analyzerCfg.MaxPayloadBytes = cfg.Analysis.MaxPayloadBytes
	analyzerCfg.MaxCellCount = cfg.Analysis.MaxCellCount
	analyzerCfg.ForbiddenContent = cfg.Analysis.ForbiddenContent

	analyzer := analysis.New(store, analyzerCfg)
	server := web.NewServer(analyzer, cfg)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr(), "store", cfg.Store.Driver)
	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// openStore builds the record store selected by STORE_DRIVER and returns it
// with a cleanup function.
func openStore(ctx context.Context, cfg *config.Config) (analysis.Store, func(), error) {
	switch cfg.Store.Driver {
	case "memory":
		return memory.New(), func() {}, nil

	case "sqlite":
		st, err := sqlite.Open(ctx, cfg.Store.Path)
		if err != nil {
			return nil, nil, err
		}
		if err := st.Init(ctx); err != nil {
			_ = st.Close()
			return nil, nil, err
		}
		slog.Info("sqlite store ready", "path", cfg.Store.Path)
		return st, func() { _ = st.Close() }, nil

	case "postgres":
		poolCfg, err := pgxpool.ParseConfig(cfg.Store.URL)
		if err != nil {
			return nil, nil, err
		}
		poolCfg.MaxConns = int32(cfg.Store.MaxConns)
		poolCfg.MinConns = int32(cfg.Store.MinConns)
		poolCfg.MaxConnLifetime = cfg.Store.MaxConnLifetime

		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			return nil, nil, err
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}

		st := postgres.New(pool)
		if err := st.Init(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		slog.Info("postgres store ready", "max_conns", cfg.Store.MaxConns)
		return st, st.Close, nil

	default:
		// Config validation rejects anything else before we get here.
		panic("unreachable store driver: " + cfg.Store.Driver)
	}
}
