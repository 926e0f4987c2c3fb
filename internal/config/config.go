package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Mode              string        `mapstructure:"mode"`
	Port              int           `mapstructure:"port"`
	ReadLimit         int64         `mapstructure:"read_limit"`
	PingPeriod        time.Duration `mapstructure:"ping_period"`
	Secret            string        `mapstructure:"secret"`
	SendBuffer        int           `mapstructure:"send_buffer"`
	SnapshotRate      int           `mapstructure:"snapshot_rate"`
	HostAuthURL       string        `mapstructure:"host_auth_url"`
	HostAuthTimeout   time.Duration `mapstructure:"host_auth_timeout"`
	HostRequestLimit  int           `mapstructure:"host_request_limit"`
	HostRequestWindow time.Duration `mapstructure:"host_request_window"`
	PublicURL         string        `mapstructure:"public_url"`
	LogLevel          string        `mapstructure:"log_level"`
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"mode":          "mode",
	"port":          "port",
	"snapshot-rate": "snapshot_rate",
	"host-auth-url": "host_auth_url",
	"public-url":    "public_url",
	"log-level":     "log_level",
}

// RegisterFlags adds the flags Load understands to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("mode", "release", "gin mode: release or debug (env: MULTIPLAYER_MODE)")
	fs.IntP("port", "p", 3000, "port to listen on (env: MULTIPLAYER_PORT)")
	fs.Int("snapshot-rate", 60, "player snapshots pushed to each room per second (env: MULTIPLAYER_SNAPSHOT_RATE)")
	fs.String("host-auth-url", "", "endpoint approving host requests (env: MULTIPLAYER_HOST_AUTH_URL)")
	fs.String("public-url", "http://localhost:3000/", "base url encoded in room QR codes (env: MULTIPLAYER_PUBLIC_URL)")
	fs.String("log-level", "info", "zerolog level (env: MULTIPLAYER_LOG_LEVEL)")
}

// Load merges defaults, config/config.<CONFIG_ENV>.yaml, MULTIPLAYER_* env
// and explicitly set flags, in increasing priority. fs may be nil.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("MULTIPLAYER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("mode", "release")
	v.SetDefault("port", 3000)
	v.SetDefault("read_limit", 1<<20)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("secret", "")
	v.SetDefault("send_buffer", 256)
	v.SetDefault("snapshot_rate", 60)
	v.SetDefault("host_auth_url", "")
	v.SetDefault("host_auth_timeout", "10s")
	v.SetDefault("host_request_limit", 5)
	v.SetDefault("host_request_window", "1m")
	v.SetDefault("public_url", "http://localhost:3000/")
	v.SetDefault("log_level", "info")

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log.Info().Str("module", "config").Str("mode", cfg.Mode).Int("port", cfg.Port).Int("snapshot_rate", cfg.SnapshotRate).Msg("config ready")
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.Port)
	}
	if c.SnapshotRate <= 0 {
		return errors.New("snapshot_rate must be positive")
	}
	if c.SendBuffer <= 0 {
		return errors.New("send_buffer must be positive")
	}
	if c.HostRequestLimit <= 0 || c.HostRequestWindow <= 0 {
		return errors.New("host_request_limit and host_request_window must be positive")
	}
	return nil
}

func (c *Config) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}
