package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/flyagain/server/internal/config"
	"github.com/flyagain/server/internal/dataservice"
	"github.com/flyagain/server/internal/db"
	"github.com/flyagain/server/internal/store"
)

const ConfigPath = "config/dataservice.yaml"

var flagConfig = flag.String("config", "", "config file path")

// errMigration tags migration failures so main exits with code 2
// instead of the generic 1.
var errMigration = errors.New("migrations failed")

func main() {
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		if errors.Is(err, errMigration) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := ConfigPath
	if p := os.Getenv("FLYAGAIN_DATA_CONFIG"); p != "" {
		cfgPath = p
	}
	if *flagConfig != "" {
		cfgPath = *flagConfig
	}
	cfg, err := config.LoadDataService(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))

	slog.Info("flyagain data service starting",
		"listen", cfg.ListenAddr,
		"writeback_interval", cfg.WritebackInterval,
		"log_level", cfg.LogLevel)

	// Connect to database
	database, err := db.New(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer database.Close()
	slog.Info("database connected")

	// Run migrations
	if err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
		return fmt.Errorf("%w: %w", errMigration, err)
	}
	slog.Info("database migrations applied")

	// Connect to the shared store (write-back scan)
	st, err := store.New(ctx, cfg.Store.Addr, cfg.Store.Password, cfg.Store.DB)
	if err != nil {
		return fmt.Errorf("connecting to shared store: %w", err)
	}
	defer st.Close()
	slog.Info("shared store connected", "addr", cfg.Store.Addr)

	svc := dataservice.New(database.Pool(), slog.Default())
	server := dataservice.NewServer(cfg.ListenAddr, svc, slog.Default())
	writeback := dataservice.NewWriteback(
		st,
		db.NewCharacterRepository(database.Pool()),
		cfg.WritebackInterval,
		slog.Default(),
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting rpc server", "listen", cfg.ListenAddr)
		if err := server.Run(gctx); err != nil {
			return fmt.Errorf("rpc server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		slog.Info("starting write-back scheduler", "interval", cfg.WritebackInterval)
		if err := writeback.Run(gctx); err != nil {
			return fmt.Errorf("write-back scheduler: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
