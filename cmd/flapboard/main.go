package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tinytelemetry/flapboard/internal/model"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
	goVersion = "unknown"
)

// runOptions are command-line switches that are not config keys.
type runOptions struct {
	configPath string
	attach     bool
	once       bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "flapboard [flags]",
		Short: "Split-flap countdown board for the terminal",
		Long: `flapboard draws a split-flap countdown board in the terminal. It runs its
own engine for the configured target, or attaches to a running flapd over
its unix socket.`,
		Example: `  # Local board
  flapboard --target 2026-12-31T23:59:59Z

  # Attach to a running flapd
  flapboard --attach

  # Print one frame and exit
  flapboard --target 2026-12-31T23:59:59Z --once`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadCLIConfig(opts.configPath, cmd)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if cmd.Flags().Changed("socket-path") {
				opts.attach = true
			}
			if opts.once {
				return printOnce(os.Stdout, cfg, opts.attach)
			}
			return runTUI(cfg, opts.attach)
		},
	}
	cmd.SetVersionTemplate(fmt.Sprintf(`flapboard - Split-flap Countdown Board
  Version:    %s
  Commit:     %s
  Built:      %s
  Go version: %s
`, version, commit, buildTime, goVersion))

	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default is $HOME/.config/flapboard/config.yml)")
	flags.BoolVar(&opts.attach, "attach", false, "show frames from a running flapd instead of a local engine")
	flags.BoolVar(&opts.once, "once", false, "print the current frame as text and exit")
	flags.String("target", "", "target instant (RFC 3339, \"YYYY-MM-DD HH:MM[:SS]\" or unix seconds)")
	flags.String("timezone", "", "IANA zone for targets without an offset (default system zone)")
	flags.Duration("refresh-interval", model.DefaultRefreshInterval, "time between frames")
	flags.String("skin", model.DefaultSkin, "board skin name, loaded from <config dir>/skins/<name>.yml")
	flags.String("socket-path", "", "flapd socket to attach to (implies --attach)")

	return cmd
}
