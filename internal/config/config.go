// Package config loads p3get settings from flags, environment and an
// optional config file, and turns task sources into (URL, path) entries.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment variables, e.g. P3GET_PARALLEL.
const EnvPrefix = "P3GET"

type Config struct {
	Parallel  int               `mapstructure:"parallel"`
	Dir       string            `mapstructure:"dir"`
	File      string            `mapstructure:"file"`
	Input     string            `mapstructure:"input"`
	UserAgent string            `mapstructure:"user_agent"`
	Referer   string            `mapstructure:"referer"`
	Proxy     string            `mapstructure:"proxy"`
	Cookies   string            `mapstructure:"cookies"`
	Headers   map[string]string `mapstructure:"headers"`
	Quiet     bool              `mapstructure:"quiet"`
	LogLevel  string            `mapstructure:"log_level"`
	FailExit  bool              `mapstructure:"fail_exit"`
}

// SetDefaults registers every key, so that environment variables are seen
// by Unmarshal even when no flag or file sets the key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("parallel", 1)
	v.SetDefault("dir", ".")
	v.SetDefault("file", "")
	v.SetDefault("input", "")
	v.SetDefault("user_agent", "")
	v.SetDefault("referer", "")
	v.SetDefault("proxy", "")
	v.SetDefault("cookies", "")
	v.SetDefault("headers", map[string]string{})
	v.SetDefault("quiet", false)
	v.SetDefault("log_level", "warn")
	v.SetDefault("fail_exit", false)
}

// Load reads configFile, if not empty, into v and returns the merged
// configuration. Flags must already be bound to v.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if c.Parallel < 1 {
		c.Parallel = 1
	}
	if c.Dir == "" {
		c.Dir = "."
	}
	return &c, nil
}
