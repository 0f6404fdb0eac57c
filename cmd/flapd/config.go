package main

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
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
	defaultBindHost        = "127.0.0.1"
	defaultAPIPort         = model.DefaultAPIPort
)

// appConfig is internal runtime configuration.
// It is package-private to keep defaults and shape local to the CLI entrypoint.
type appConfig struct {
	TargetText      string        `mapstructure:"target"`
	Timezone        string        `mapstructure:"timezone"`
	RefreshInterval time.Duration `mapstructure:"refresh-interval"`
	Host            string        `mapstructure:"host"`
	APIEnabled      bool          `mapstructure:"api-enabled"`
	APIPort         int           `mapstructure:"api-port"`
	APIAddr         string        `mapstructure:"api-addr"`
	SocketEnabled   bool          `mapstructure:"socket-enabled"`
	SocketPath      string        `mapstructure:"socket-path"`
	ExitOnExpire    bool          `mapstructure:"exit-on-expire"`
	Target          time.Time     `mapstructure:"-"` // parsed from TargetText
	ConfigPath      string        `mapstructure:"-"` // not from config file
}

// flagKeys are the config keys that may also be set on the command line.
var flagKeys = []string{"target", "timezone", "refresh-interval", "api-enabled", "api-port", "socket-path", "exit-on-expire"}

func loadConfig(configPath string, cmd *cobra.Command) (appConfig, error) {
	var cfg appConfig

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("FLAPBOARD")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("target", "")
	v.SetDefault("timezone", "")
	v.SetDefault("refresh-interval", defaultRefreshInterval)
	v.SetDefault("host", defaultBindHost)
	v.SetDefault("api-enabled", true)
	v.SetDefault("api-port", defaultAPIPort)
	v.SetDefault("socket-enabled", true)
	v.SetDefault("socket-path", socketrpc.DefaultSocketPath())
	v.SetDefault("exit-on-expire", false)

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
	} else {
		v.SetConfigFile(filepath.Join(home, ".config", "flapboard", "config.yml"))
	}

	fileRead := true
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
			return cfg, err
		}
		fileRead = false
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	if fileRead {
		cfg.ConfigPath = v.ConfigFileUsed()
	}

	if cfg.RefreshInterval <= 0 {
		return cfg, fmt.Errorf("invalid refresh-interval: %s", cfg.RefreshInterval)
	}
	if cfg.APIPort <= 0 || cfg.APIPort > 65535 {
		return cfg, fmt.Errorf("invalid api-port: %d", cfg.APIPort)
	}
	if strings.TrimSpace(cfg.TargetText) == "" {
		return cfg, errors.New("target is required (set target in the config file, FLAPBOARD_TARGET or --target)")
	}
	cfg.Target, err = timestamp.ParseTarget(cfg.TargetText, cfg.Timezone)
	if err != nil {
		return cfg, err
	}

	if strings.HasPrefix(cfg.SocketPath, "~/") {
		cfg.SocketPath = filepath.Join(home, cfg.SocketPath[2:])
	}
	if cfg.APIAddr == "" {
		cfg.APIAddr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.APIPort))
	}

	return cfg, nil
}
