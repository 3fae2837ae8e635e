package config

// Package config provides a reusable loader for the light-wallet server's
// configuration files and environment variables. It is versioned so that
// applications can depend on a stable API contract.
//
// Version: v0.2.0

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"synnergy-network/pkg/utils"
)

// Version is the semantic version of this configuration package.
const Version = "v0.2.0"

// Config represents the unified configuration for a light-wallet server
// instance. It mirrors the structure of the YAML files under config/.
type Config struct {
	Network struct {
		BindAddr string `mapstructure:"bind_addr" json:"bind_addr"`
		Workers  int    `mapstructure:"workers" json:"workers"`
	} `mapstructure:"network" json:"network"`

	Storage struct {
		DBPath          string `mapstructure:"db_path" json:"db_path"`
		BlockBufferSize int    `mapstructure:"block_buffer_size" json:"block_buffer_size"`
		RequestQueueMax int    `mapstructure:"request_queue_max" json:"request_queue_max"`
	} `mapstructure:"storage" json:"storage"`

	Oracle struct {
		BaseURL        string        `mapstructure:"base_url" json:"base_url"`
		SendTimeout    time.Duration `mapstructure:"send_timeout" json:"send_timeout"`
		ReceiveTimeout time.Duration `mapstructure:"receive_timeout" json:"receive_timeout"`
	} `mapstructure:"oracle" json:"oracle"`

	// Limits is loaded but not read by the router: walletserver/routes
	// applies fixed 2 KiB and 50 KiB body caps regardless of these values.
	Limits struct {
		DefaultBodyBytes int `mapstructure:"default_body_bytes" json:"default_body_bytes"`
		SubmitTxBytes    int `mapstructure:"submit_tx_bytes" json:"submit_tx_bytes"`
	} `mapstructure:"limits" json:"limits"`

	Logging struct {
		Level string `mapstructure:"level" json:"level"`
		File  string `mapstructure:"file" json:"file"`
	} `mapstructure:"logging" json:"logging"`
}

// AppConfig holds the configuration loaded via Load or LoadFromEnv.
var AppConfig Config

// defaults seeds AppConfig with sane values before any file or environment
// overlay is applied, so a bare `lws serve` with no config file still runs.
func defaults() {
	AppConfig = Config{}
	AppConfig.Network.BindAddr = "http://0.0.0.0:8080"
	AppConfig.Network.Workers = 8
	AppConfig.Storage.DBPath = "lws.db"
	AppConfig.Storage.BlockBufferSize = 128
	AppConfig.Storage.RequestQueueMax = 10000
	AppConfig.Oracle.SendTimeout = 10 * time.Second
	AppConfig.Oracle.ReceiveTimeout = 30 * time.Second
	AppConfig.Limits.DefaultBodyBytes = 2048
	AppConfig.Limits.SubmitTxBytes = 50 * 1024
	AppConfig.Logging.Level = "info"
}

// Load reads configuration files and merges any environment specific
// overrides. The resulting configuration is stored in AppConfig and returned.
//
// The function uses the provided environment name to merge additional config
// files. If env is empty, only the default configuration is loaded. Missing
// config files are tolerated; the built-in defaults() values are kept.
func Load(env string) (*Config, error) {
	defaults()

	viper.SetConfigName("default")
	viper.AddConfigPath("config")
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, utils.Wrap(err, "load config")
		}
	}

	if env != "" {
		viper.SetConfigName(env)
		if err := viper.MergeInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, utils.Wrap(err, fmt.Sprintf("merge %s config", env))
			}
		}
	}

	viper.AutomaticEnv() // env vars named after config keys; no LWS_ prefix, and .env is not loaded here

	if err := viper.Unmarshal(&AppConfig); err != nil {
		return nil, utils.Wrap(err, "unmarshal config")
	}
	return &AppConfig, nil
}

// LoadFromEnv loads the YAML-layered configuration using the LWS_ENV
// environment variable, then overlays a .env file (if present) and discrete
// LWS_* environment variables over the bind address, worker count,
// database path, and oracle base URL — the fields an operator most
// commonly overrides per-process without touching the checked-in YAML.
func LoadFromEnv() (*Config, error) {
	cfg, err := Load(utils.EnvOrDefault("LWS_ENV", ""))
	if err != nil {
		return nil, err
	}
	_ = godotenv.Load() // optional; absence is not an error

	cfg.Network.BindAddr = utils.EnvOrDefault("LWS_BIND_ADDR", cfg.Network.BindAddr)
	cfg.Network.Workers = utils.EnvOrDefaultInt("LWS_WORKERS", cfg.Network.Workers)
	cfg.Storage.DBPath = utils.EnvOrDefault("LWS_DB_PATH", cfg.Storage.DBPath)
	cfg.Oracle.BaseURL = utils.EnvOrDefault("LWS_ORACLE_URL", cfg.Oracle.BaseURL)
	return cfg, nil
}
