package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"kastelo.dev/internlog"
)

type Config struct {
	Listen         string `mapstructure:"listen"`
	Env            string `mapstructure:"env"`
	LogLevel       string `mapstructure:"log_level"`
	MaxUploadBytes int64  `mapstructure:"max_upload_bytes"`
	RatePerMinute  int    `mapstructure:"rate_per_minute"`
	Header         Header `mapstructure:"header"`
}

// Header overrides the institution block printed on every page. Empty
// fields keep the built in text.
type Header struct {
	Title       string `mapstructure:"title"`
	Institution string `mapstructure:"institution"`
	Location    string `mapstructure:"location"`
	Affiliation string `mapstructure:"affiliation"`
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads path, or internlog.yaml from . or ./config when path is
// empty. Environment variables prefixed INTERNLOG_ override the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("internlog")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("INTERNLOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("listen", ":8080")
	v.SetDefault("env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("max_upload_bytes", internlog.MaxUploadSize)
	v.SetDefault("rate_per_minute", 30)
	v.SetDefault("header.title", "")
	v.SetDefault("header.institution", "")
	v.SetDefault("header.location", "")
	v.SetDefault("header.affiliation", "")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if cfg.MaxUploadBytes <= 0 {
		return nil, fmt.Errorf("max_upload_bytes must be positive, got %d", cfg.MaxUploadBytes)
	}
	return &cfg, nil
}
