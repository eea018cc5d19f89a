package config

import (
	"encoding/json"
	"os"
)

type Config struct {
	Bot     BotConfig     `json:"bot"`
	Storage StorageConfig `json:"storage"`
	Logging LoggingConfig `json:"logging"`
	Network NetworkConfig `json:"network"`
}

type BotConfig struct {
	Token    string `json:"token"`
	ClientID string `json:"client_id"`
}

type StorageConfig struct {
	Path string `json:"path"`
}

type LoggingConfig struct {
	Level string `json:"level"`
	Path  string `json:"path"`
	Echo  bool   `json:"echo"`
}

type NetworkConfig struct {
	HTTPPoolSize int    `json:"http_pool_size"`
	APIBaseURL   string `json:"api_base_url"`
}

// Load reads the JSON config at path and applies environment overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.applyEnv()
	return cfg, nil
}

// LoadOrDefault falls back to defaults (plus environment overrides) when the
// config file is missing or unreadable.
func LoadOrDefault(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		cfg = DefaultConfig()
		cfg.applyEnv()
	}
	return cfg
}

func (c *Config) applyEnv() {
	if token := os.Getenv("DISCORD_TOKEN"); token != "" {
		c.Bot.Token = token
	}
	if clientID := os.Getenv("CLIENT_ID"); clientID != "" {
		c.Bot.ClientID = clientID
	}
	if dbPath := os.Getenv("DATABASE_PATH"); dbPath != "" {
		c.Storage.Path = dbPath
	}
}

func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Path: "gekou.db",
		},
		Logging: LoggingConfig{
			Level: "info",
			Path:  "gekou.log",
			Echo:  true,
		},
		Network: NetworkConfig{
			HTTPPoolSize: 4,
			APIBaseURL:   "https://discord.com/api/v10",
		},
	}
}
