package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tinytelemetry/flapboard/internal/model"
	"github.com/tinytelemetry/flapboard/internal/socketrpc"
	"github.com/tinytelemetry/flapboard/internal/timestamp"
)

const (
	defaultRefreshInterval = model.DefaultRefreshInterval
	defaultSkin            = model.DefaultSkin
)

// cliConfig holds only board-relevant configuration.
type cliConfig struct {
	TargetText      string        `mapstructure:"target"`
	Timezone        string        `mapstructure:"timezone"`
	RefreshInterval time.Duration `mapstructure:"refresh-interval"`
	Skin            string        `mapstructure:"skin"`
	SocketPath      string        `mapstructure:"socket-path"`
	Target          time.Time     `mapstructure:"-"` // zero when no target is configured
	ConfigDir       string        `mapstructure:"-"`
}

var flagKeys = []string{"target", "timezone", "refresh-interval", "skin", "socket-path"}

// loadCLIConfig reads the shared config file. A target is optional here:
// attaching to a running service does not need one.
func loadCLIConfig(configPath string, cmd *cobra.Command) (cliConfig, error) {
	var cfg cliConfig

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}
	cfg.ConfigDir = filepath.Join(home, ".config", "flapboard")

	v := viper.New()
	v.SetEnvPrefix("FLAPBOARD")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("target", "")
	v.SetDefault("timezone", "")
	v.SetDefault("refresh-interval", defaultRefreshInterval)
	v.SetDefault("skin", defaultSkin)
	v.SetDefault("socket-path", socketrpc.DefaultSocketPath())

	if cmd != nil {
		for _, key := range flagKeys {
			if f := cmd.Flags().Lookup(key); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return cfg, fmt.Errorf("binding flag %s: %w", key, err)
				}
			}
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		cfg.ConfigDir = filepath.Dir(configPath)
	} else {
		v.SetConfigFile(filepath.Join(cfg.ConfigDir, "config.yml"))
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}

	if cfg.RefreshInterval <= 0 {
		return cfg, fmt.Errorf("invalid refresh-interval: %s", cfg.RefreshInterval)
	}
	if strings.TrimSpace(cfg.TargetText) != "" {
		cfg.Target, err = timestamp.ParseTarget(cfg.TargetText, cfg.Timezone)
		if err != nil {
			return cfg, err
		}
	}
	if strings.HasPrefix(cfg.SocketPath, "~/") {
		cfg.SocketPath = filepath.Join(home, cfg.SocketPath[2:])
	}

	return cfg, nil
}
