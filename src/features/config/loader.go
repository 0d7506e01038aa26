package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Load reads a YAML file from the given path and returns a new Manager.
// If the file doesn't exist, creates a default configuration.
func Load(path string) (*Manager, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		slog.Info("Config file not found, creating default configuration", "path", path)
		cfg := createDefaultConfig()
		if err := applyEnvOverrides(cfg); err != nil {
			return nil, err
		}

		manager := NewManager(cfg)
		if err := manager.Save(path); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		slog.Info("Default configuration created successfully", "path", path)
		return manager, nil
	}

	cfg, err := readConfigFile(path)
	if err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return NewManager(cfg), nil
}

// readConfigFile decodes a config file without validating it.
func readConfigFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg := createDefaultConfig()
	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides overlays environment variables on top of the file values.
func applyEnvOverrides(cfg *Config) error {
	var env Env
	if err := envconfig.Process("", &env); err != nil {
		return fmt.Errorf("failed to read environment overrides: %w", err)
	}

	if env.Port != 0 {
		cfg.Server.Port = env.Port
	}
	if env.DatabasePath != "" {
		cfg.Database.Path = env.DatabasePath
	}
	if env.LogLevel != "" {
		cfg.Logger.Level = env.LogLevel
	}
	if env.TelegramToken != "" {
		cfg.Telegram.Token = env.TelegramToken
	}
	return nil
}

// createDefaultConfig creates a new Config with sensible default values.
func createDefaultConfig() *Config {
	return &Config{
		Server: Server{
			PrintRoutes: false,
			Port:        3636,
		},
		Database: Database{
			Path: "./catalog.db",
		},
		Logger: Logger{
			Level:  "info",
			Format: "text",
		},
		Lyrics: Lyrics{
			Enabled:         true,
			ProviderURL:     "https://api.lyrics.ovh/v1",
			CacheTTLSeconds: 600,
			CacheMaxSize:    500,
			TimeoutSeconds:  5,
		},
		Enrichment: Enrichment{
			Enabled:        true,
			TimeoutSeconds: 30,
		},
		Jobs: Jobs{
			Log:                    false,
			LogPath:                "./logs/jobs",
			RetentionMinutes:       60,
			CleanupIntervalMinutes: 15,
		},
		Telegram: Telegram{
			Enabled: false,
			Token:   "", // Can be obtained with https://t.me/BotFather
			ChatID:  0,
		},
		RateLimit: RateLimit{
			Enabled:           false,
			RequestsPerSecond: 10,
			Burst:             20,
		},
	}
}
