package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type ServerConfig struct {
	Addr string `yaml:"addr" env:"HABITDASH_ADDR" env-default:":8080"`
	// Database is a SQLite file path or a postgres:// URL.
	Database string `yaml:"database" env:"HABITDASH_DATABASE" env-default:"habitdash.sqlite"`
}

type Config struct {
	APIURL   string        `yaml:"api_url" env:"HABITDASH_API_URL" env-default:"http://localhost:8080/"`
	Timeout  time.Duration `yaml:"timeout" env:"HABITDASH_TIMEOUT" env-default:"10s"`
	LogLevel string        `yaml:"log_level" env:"HABITDASH_LOG_LEVEL" env-default:"INFO"`
	LogFile  string        `yaml:"log_file" env:"HABITDASH_LOG_FILE"`
	Server   ServerConfig  `yaml:"server"`
}

// DefaultPath is ~/.config/habitdash/config.yaml (or the platform equivalent).
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil || strings.TrimSpace(dir) == "" {
		return ""
	}
	return filepath.Join(dir, "habitdash", "config.yaml")
}

// Load reads the YAML config at path (if it exists) and then the environment.
// Environment variables win over the file. A .env file in the working
// directory is loaded first without overriding variables already set.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	path = strings.TrimSpace(path)
	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return Config{}, fmt.Errorf("read env: %w", err)
		}
		return cfg, cfg.validate()
	}

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		var pe *os.PathError
		if errors.As(err, &pe) {
			cfg = Config{}
			if err := cleanenv.ReadEnv(&cfg); err != nil {
				return Config{}, fmt.Errorf("read env: %w", err)
			}
			return cfg, cfg.validate()
		}
		return Config{}, fmt.Errorf("read config %q: %w", path, err)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if strings.TrimSpace(c.APIURL) == "" {
		return errors.New("api url must not be empty")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative: %s", c.Timeout)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}
