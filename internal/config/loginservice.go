package config

import "time"

// LoginService holds all configuration for the login service.
type LoginService struct {
	// Network
	ListenAddr string `yaml:"listen_addr"`

	// Upstreams
	DataServiceAddr string      `yaml:"data_service_addr"`
	Store           StoreConfig `yaml:"store"`

	// AccountServiceAddr is the address handed to clients after a
	// successful login.
	AccountServiceAddr string `yaml:"account_service_addr"`

	// Security
	TokenSecret string        `yaml:"token_secret"`
	SessionTTL  time.Duration `yaml:"session_ttl"` // default: 24h
	BcryptCost  int           `yaml:"bcrypt_cost"` // default: 12

	// Connection limits
	MaxConnections      int `yaml:"max_connections"`
	MaxConnectionsPerIP int `yaml:"max_connections_per_ip"`

	// Socket timeouts
	ReadTimeout   time.Duration `yaml:"read_timeout"`    // idle client disconnect (default: 60s)
	WriteTimeout  time.Duration `yaml:"write_timeout"`   // per-write deadline (default: 5s)
	SendQueueSize int           `yaml:"send_queue_size"` // per-client outbox capacity (default: 256)

	LogLevel string `yaml:"log_level"`
}

// DefaultLoginService returns LoginService config with sensible
// defaults.
func DefaultLoginService() LoginService {
	return LoginService{
		ListenAddr:          "0.0.0.0:7777",
		DataServiceAddr:     "127.0.0.1:9090",
		Store:               DefaultStore(),
		AccountServiceAddr:  "127.0.0.1:7779",
		TokenSecret:         "flyagain-dev-secret",
		SessionTTL:          24 * time.Hour,
		BcryptCost:          12,
		MaxConnections:      5000,
		MaxConnectionsPerIP: 50,
		ReadTimeout:         60 * time.Second,
		WriteTimeout:        5 * time.Second,
		SendQueueSize:       256,
		LogLevel:            "info",
	}
}

// LoadLoginService loads login service config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadLoginService(path string) (LoginService, error) {
	cfg := DefaultLoginService()
	if err := load(path, &cfg); err != nil {
		return cfg, err
	}
	envOverride(&cfg.TokenSecret, EnvTokenSecret)
	envOverride(&cfg.Store.Password, EnvStorePassword)
	return cfg, nil
}
