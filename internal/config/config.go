// Package config loads application configuration from a YAML file and
// environment overrides.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jianghu-rpg/jianghu-api/internal/errors"
	"github.com/jianghu-rpg/jianghu-api/internal/logger"
)

// Config is the full application configuration
type Config struct {
	BotToken string `mapstructure:"bot_token"`
	AdminID  int64  `mapstructure:"admin_id"`

	HTTPAddr  string `mapstructure:"http_addr"`
	StaticDir string `mapstructure:"static_dir"`
	LockFile  string `mapstructure:"lock_file"`

	JWTSecret     string `mapstructure:"jwt_secret"`
	AdminPassword string `mapstructure:"admin_password"`

	// Storage selects the snapshot backend: "redis" or "file"
	Storage      string `mapstructure:"storage"`
	RedisAddr    string `mapstructure:"redis_addr"`
	SnapshotPath string `mapstructure:"snapshot_path"`

	SpawnInterval time.Duration `mapstructure:"spawn_interval"`
	SendRate      int           `mapstructure:"send_rate"`
	RandomSeed    int64         `mapstructure:"random_seed"`

	Log logger.Config `mapstructure:"log"`
}

// Load reads configuration from the given file (optional) with
// JIANGHU_-prefixed environment overrides and documented defaults.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("http_addr", ":3000")
	v.SetDefault("static_dir", "public")
	v.SetDefault("lock_file", "bot.lock")
	v.SetDefault("jwt_secret", "dev_secret")
	v.SetDefault("admin_password", "admin123")
	v.SetDefault("storage", "file")
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("snapshot_path", "data.json")
	v.SetDefault("spawn_interval", 30*time.Minute)
	v.SetDefault("send_rate", 20)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetEnvPrefix("JIANGHU")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to parse config")
	}
	return &cfg, nil
}

// Validate checks the settings a running server cannot do without
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Storage != "redis" && c.Storage != "file" {
		vb.Fieldf("storage", "must be %q or %q", "redis", "file")
	}
	if c.Storage == "redis" && c.RedisAddr == "" {
		vb.RequiredField("redis_addr")
	}
	if c.Storage == "file" && c.SnapshotPath == "" {
		vb.RequiredField("snapshot_path")
	}
	return vb.Build()
}
