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
	"github.com/flyagain/server/internal/rpc"
	"github.com/flyagain/server/internal/store"
	"github.com/flyagain/server/internal/world"
)

const ConfigPath = "config/worldservice.yaml"

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
	if p := os.Getenv("FLYAGAIN_WORLD_CONFIG"); p != "" {
		cfgPath = p
	}
	if *flagConfig != "" {
		cfgPath = *flagConfig
	}
	cfg, err := config.LoadWorldService(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))

	slog.Info("flyagain world service starting",
		"listen", cfg.ListenAddr,
		"udp_listen", cfg.UDPListenAddr,
		"tick_rate", cfg.TickRate,
		"log_level", cfg.LogLevel)

	// Connect to the data service
	data, err := rpc.Dial(cfg.DataServiceAddr)
	if err != nil {
		return fmt.Errorf("connecting to data service: %w", err)
	}
	defer data.Close()
	slog.Info("data service connected", "addr", cfg.DataServiceAddr)

	// Connect to the shared store (sessions, snapshots, presence)
	st, err := store.New(ctx, cfg.Store.Addr, cfg.Store.Password, cfg.Store.DB)
	if err != nil {
		return fmt.Errorf("connecting to shared store: %w", err)
	}
	defer st.Close()
	slog.Info("shared store connected", "addr", cfg.Store.Addr)

	tokens := auth.NewTokenManager([]byte(cfg.TokenSecret), 0)

	svc := world.New(world.Config{
		UDPAddr:         cfg.UDPListenAddr,
		TickRate:        cfg.TickRate,
		ChannelCapacity: cfg.ChannelCapacity,
		QueueCapacity:   cfg.QueueCapacity,
		UDPFloodLimit:   cfg.UDPFloodLimit,
		IOWorkers:       cfg.IOWorkers,
		PersistInterval: cfg.PersistInterval,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, data, st, tokens, slog.Default())

	router := gateway.NewRouter()
	svc.Register(router)

	limiter := gateway.NewConnLimiter(cfg.MaxConnections, cfg.MaxConnectionsPerIP)
	server := gateway.NewServer(gateway.Config{
		Name:          "world",
		Addr:          cfg.ListenAddr,
		ReadTimeout:   cfg.ReadTimeout,
		WriteTimeout:  cfg.WriteTimeout,
		SendQueueSize: cfg.SendQueueSize,
	}, router, limiter, slog.Default())
	server.OnDisconnect(svc.OnDisconnect)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting world tick loop",
			"tick_rate", cfg.TickRate,
			"persist_interval", cfg.PersistInterval)
		if err := svc.Run(gctx); err != nil {
			return fmt.Errorf("world loop: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		slog.Info("starting udp gateway", "listen", cfg.UDPListenAddr)
		if err := svc.RunUDP(gctx); err != nil {
			return fmt.Errorf("udp gateway: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		slog.Info("starting world server", "listen", cfg.ListenAddr)
		if err := server.Run(gctx); err != nil {
			return fmt.Errorf("world server: %w", err)
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
