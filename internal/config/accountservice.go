package config

import "time"

// AccountService holds all configuration for the account service.
type AccountService struct {
	// Network
	ListenAddr string `yaml:"listen_addr"`

	// Upstreams
	DataServiceAddr string      `yaml:"data_service_addr"`
	Store           StoreConfig `yaml:"store"`

	// World endpoints handed to clients after a character select.
	WorldTCPAddr string `yaml:"world_tcp_addr"`
	WorldUDPAddr string `yaml:"world_udp_addr"`

	// Security
	TokenSecret string `yaml:"token_secret"`

	// Connection limits
	MaxConnections      int `yaml:"max_connections"`
	MaxConnectionsPerIP int `yaml:"max_connections_per_ip"`

	// Socket timeouts
	ReadTimeout   time.Duration `yaml:"read_timeout"`    // idle client disconnect (default: 60s)
	WriteTimeout  time.Duration `yaml:"write_timeout"`   // per-write deadline (default: 5s)
	SendQueueSize int           `yaml:"send_queue_size"` // per-client outbox capacity (default: 256)

	LogLevel string `yaml:"log_level"`
}

// DefaultAccountService returns AccountService config with sensible
// defaults.
func DefaultAccountService() AccountService {
	return AccountService{
		ListenAddr:          "0.0.0.0:7779",
		DataServiceAddr:     "127.0.0.1:9090",
		Store:               DefaultStore(),
		WorldTCPAddr:        "127.0.0.1:7780",
		WorldUDPAddr:        "127.0.0.1:7781",
		TokenSecret:         "flyagain-dev-secret",
		MaxConnections:      5000,
		MaxConnectionsPerIP: 50,
		ReadTimeout:         60 * time.Second,
		WriteTimeout:        5 * time.Second,
		SendQueueSize:       256,
		LogLevel:            "info",
	}
}

// LoadAccountService loads account service config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadAccountService(path string) (AccountService, error) {
	cfg := DefaultAccountService()
	if err := load(path, &cfg); err != nil {
		return cfg, err
	}
	envOverride(&cfg.TokenSecret, EnvTokenSecret)
	envOverride(&cfg.Store.Password, EnvStorePassword)
	return cfg, nil
}
