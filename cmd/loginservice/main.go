package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/flyagain/server/internal/auth"
	"github.com/flyagain/server/internal/config"
	"github.com/flyagain/server/internal/gateway"
	"github.com/flyagain/server/internal/login"
	"github.com/flyagain/server/internal/rpc"
	"github.com/flyagain/server/internal/store"
)

const ConfigPath = "config/loginservice.yaml"

var flagConfig = flag.String("config", "", "config file path")

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
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := ConfigPath
	if p := os.Getenv("FLYAGAIN_LOGIN_CONFIG"); p != "" {
		cfgPath = p
	}
	if *flagConfig != "" {
		cfgPath = *flagConfig
	}
	cfg, err := config.LoadLoginService(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))

	slog.Info("flyagain login service starting",
		"listen", cfg.ListenAddr,
		"data_service", cfg.DataServiceAddr,
		"log_level", cfg.LogLevel)

	// Connect to the data service
	data, err := rpc.Dial(cfg.DataServiceAddr)
	if err != nil {
		return fmt.Errorf("connecting to data service: %w", err)
	}
	defer data.Close()
	slog.Info("data service connected", "addr", cfg.DataServiceAddr)

	// Connect to the shared store (sessions, rate limits)
	st, err := store.New(ctx, cfg.Store.Addr, cfg.Store.Password, cfg.Store.DB)
	if err != nil {
		return fmt.Errorf("connecting to shared store: %w", err)
	}
	defer st.Close()
	slog.Info("shared store connected", "addr", cfg.Store.Addr)

	tokens := auth.NewTokenManager([]byte(cfg.TokenSecret), cfg.SessionTTL)
	hasher := auth.NewHasher(cfg.BcryptCost)

	svc := login.New(login.Config{
		AccountServiceAddr: cfg.AccountServiceAddr,
		SessionTTL:         cfg.SessionTTL,
	}, data, st, tokens, hasher, slog.Default())

	router := gateway.NewRouter()
	svc.Register(router)

	limiter := gateway.NewConnLimiter(cfg.MaxConnections, cfg.MaxConnectionsPerIP)
	server := gateway.NewServer(gateway.Config{
		Name:          "login",
		Addr:          cfg.ListenAddr,
		ReadTimeout:   cfg.ReadTimeout,
		WriteTimeout:  cfg.WriteTimeout,
		SendQueueSize: cfg.SendQueueSize,
	}, router, limiter, slog.Default())

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting login server", "listen", cfg.ListenAddr)
		if err := server.Run(gctx); err != nil {
			return fmt.Errorf("login server: %w", err)
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
