package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tinytelemetry/flapboard/internal/model"
)

// Build variables - set by ldflags during build.
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
	goVersion = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "flapd [flags]",
		Short: "Split-flap countdown service",
		Long: `flapd computes a split-flap countdown to a fixed target instant once per
interval and serves every frame over an HTTP API and a unix socket.`,
		Example: `  # Count down to a launch in UTC
  flapd --target 2026-12-31T23:59:59Z

  # Local wall-clock target in a named zone, API disabled
  flapd --target "2026-12-31 18:00" --timezone Europe/Paris --api-enabled=false`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(configPath, cmd)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			return runServer(cmd.Context(), cfg)
		},
	}
	cmd.SetVersionTemplate(fmt.Sprintf(`flapd - Split-flap Countdown Service
  Version:    %s
  Commit:     %s
  Built:      %s
  Go version: %s
`, version, commit, buildTime, goVersion))

	flags := cmd.Flags()
	flags.StringVar(&configPath, "config", "", "config file (default is $HOME/.config/flapboard/config.yml)")
	flags.String("target", "", "target instant (RFC 3339, \"YYYY-MM-DD HH:MM[:SS]\" or unix seconds)")
	flags.String("timezone", "", "IANA zone for targets without an offset (default system zone)")
	flags.Duration("refresh-interval", model.DefaultRefreshInterval, "time between published frames")
	flags.Bool("api-enabled", true, "serve the HTTP API")
	flags.Int("api-port", model.DefaultAPIPort, "HTTP API port")
	flags.String("socket-path", "", "unix socket path for board clients")
	flags.Bool("exit-on-expire", false, "exit once the countdown reaches the target")

	return cmd
}
