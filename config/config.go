// Package config loads runtime configuration from YAML with environment
// overrides layered on top.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Showdown ShowdownConfig `yaml:"showdown"`
	Data     DataConfig     `yaml:"data"`
	Store    StoreConfig    `yaml:"store"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Addr         string   `yaml:"addr"`
	AllowOrigins []string `yaml:"allow_origins"`
}

type ShowdownConfig struct {
	URL      string `yaml:"url"`
	Username string `yaml:"username"`
}

type DataConfig struct {
	PokedexPath string `yaml:"pokedex_path"`
	MovesPath   string `yaml:"moves_path"`
}

type StoreConfig struct {
	Path string `yaml:"path"`
}

type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         ":42069",
			AllowOrigins: []string{"*"},
		},
		Showdown: ShowdownConfig{
			URL: "wss://sim.psim.us/showdown/websocket",
		},
		Data: DataConfig{
			PokedexPath: "data/pokedex.json",
			MovesPath:   "data/moves.json",
		},
		Store: StoreConfig{
			Path: "scout.db",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads the YAML file at path on top of the defaults, then applies
// environment overrides. A missing file is fine; defaults carry.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		} else if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("SCOUT_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("SCOUT_ALLOW_ORIGINS"); v != "" {
		c.Server.AllowOrigins = strings.Split(v, ",")
	}
	if v := os.Getenv("SCOUT_SHOWDOWN_URL"); v != "" {
		c.Showdown.URL = v
	}
	if v := os.Getenv("SCOUT_USERNAME"); v != "" {
		c.Showdown.Username = v
	}
	if v := os.Getenv("SCOUT_POKEDEX"); v != "" {
		c.Data.PokedexPath = v
	}
	if v := os.Getenv("SCOUT_MOVES"); v != "" {
		c.Data.MovesPath = v
	}
	if v := os.Getenv("SCOUT_DB"); v != "" {
		c.Store.Path = v
	}
	if v := os.Getenv("SCOUT_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}
