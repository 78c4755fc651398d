package config

import "time"

// WorldService holds all configuration for the world service.
type WorldService struct {
	// Network
	ListenAddr    string `yaml:"listen_addr"`
	UDPListenAddr string `yaml:"udp_listen_addr"`

	// Upstreams
	DataServiceAddr string      `yaml:"data_service_addr"`
	Store           StoreConfig `yaml:"store"`

	// Security
	TokenSecret string `yaml:"token_secret"`

	// Simulation
	TickRate        int           `yaml:"tick_rate"`        // ticks per second (default: 20)
	ChannelCapacity int           `yaml:"channel_capacity"` // players per zone channel (default: 1000)
	QueueCapacity   int           `yaml:"queue_capacity"`   // input queue bound (default: 50000)
	UDPFloodLimit   int           `yaml:"udp_flood_limit"`  // packets per second per sender (default: 100)
	IOWorkers       int           `yaml:"io_workers"`       // blocking I/O pool size (default: 8)
	PersistInterval time.Duration `yaml:"persist_interval"` // dirty-snapshot cadence (default: 60s)
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"` // final flush budget (default: 30s)

	// Connection limits
	MaxConnections      int `yaml:"max_connections"`
	MaxConnectionsPerIP int `yaml:"max_connections_per_ip"`

	// Socket timeouts
	ReadTimeout   time.Duration `yaml:"read_timeout"`    // idle client disconnect (default: 60s)
	WriteTimeout  time.Duration `yaml:"write_timeout"`   // per-write deadline (default: 5s)
	SendQueueSize int           `yaml:"send_queue_size"` // per-client outbox capacity (default: 256)

	LogLevel string `yaml:"log_level"`
}

// DefaultWorldService returns WorldService config with sensible
// defaults.
func DefaultWorldService() WorldService {
	return WorldService{
		ListenAddr:          "0.0.0.0:7780",
		UDPListenAddr:       "0.0.0.0:7781",
		DataServiceAddr:     "127.0.0.1:9090",
		Store:               DefaultStore(),
		TokenSecret:         "flyagain-dev-secret",
		TickRate:            20,
		ChannelCapacity:     1000,
		QueueCapacity:       50000,
		UDPFloodLimit:       100,
		IOWorkers:           8,
		PersistInterval:     60 * time.Second,
		ShutdownTimeout:     30 * time.Second,
		MaxConnections:      5000,
		MaxConnectionsPerIP: 50,
		ReadTimeout:         60 * time.Second,
		WriteTimeout:        5 * time.Second,
		SendQueueSize:       256,
		LogLevel:            "info",
	}
}

// LoadWorldService loads world service config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadWorldService(path string) (WorldService, error) {
	cfg := DefaultWorldService()
	if err := load(path, &cfg); err != nil {
		return cfg, err
	}
	envOverride(&cfg.TokenSecret, EnvTokenSecret)
	envOverride(&cfg.Store.Password, EnvStorePassword)
	return cfg, nil
}
