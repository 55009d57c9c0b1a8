package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full server configuration. Values come from an optional YAML
// file with environment variables layered on top, so containerised deploys
// can override single settings without a file edit.
type Config struct {
	TelnetAddr string `yaml:"telnet_addr"`
	WebAddr    string `yaml:"web_addr"`

	TLS struct {
		Enabled  bool   `yaml:"enabled"`
		CertFile string `yaml:"cert_file"`
		KeyFile  string `yaml:"key_file"`
	} `yaml:"tls"`

	DataDir      string `yaml:"data_dir"`
	ContentPath  string `yaml:"content_path"`
	AdminAccount string `yaml:"admin_account"`

	LockWait time.Duration `yaml:"lock_wait"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`

	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Archive struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"archive"`
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() *Config {
	cfg := &Config{
		TelnetAddr:   ":4000",
		WebAddr:      ":8080",
		DataDir:      "data",
		ContentPath:  "data/world.json",
		AdminAccount: "admin",
	}
	cfg.TLS.CertFile = "data/cert.pem"
	cfg.TLS.KeyFile = "data/key.pem"
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.Redis.Addr = "localhost:6379"
	cfg.Archive.Path = "data/archive"
	return cfg
}

// Load reads the configuration file at path (skipped when path is empty or
// missing) and applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.TelnetAddr, "EMBERVEIL_TELNET_ADDR")
	setString(&cfg.WebAddr, "EMBERVEIL_WEB_ADDR")
	setBool(&cfg.TLS.Enabled, "EMBERVEIL_TLS_ENABLED")
	setString(&cfg.TLS.CertFile, "EMBERVEIL_TLS_CERT")
	setString(&cfg.TLS.KeyFile, "EMBERVEIL_TLS_KEY")
	setString(&cfg.DataDir, "EMBERVEIL_DATA_DIR")
	setString(&cfg.ContentPath, "EMBERVEIL_CONTENT_PATH")
	setString(&cfg.AdminAccount, "EMBERVEIL_ADMIN_ACCOUNT")
	setString(&cfg.Log.Level, "EMBERVEIL_LOG_LEVEL")
	setString(&cfg.Log.Format, "EMBERVEIL_LOG_FORMAT")
	setBool(&cfg.Redis.Enabled, "EMBERVEIL_REDIS_ENABLED")
	setString(&cfg.Redis.Addr, "EMBERVEIL_REDIS_ADDR")
	setString(&cfg.Redis.Password, "EMBERVEIL_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "EMBERVEIL_REDIS_DB")
	setBool(&cfg.Archive.Enabled, "EMBERVEIL_ARCHIVE_ENABLED")
	setString(&cfg.Archive.Path, "EMBERVEIL_ARCHIVE_PATH")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			*dst = parsed
		}
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			*dst = parsed
		}
	}
}
