package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/jonboulle/clockwork"
	"github.com/tinytelemetry/flapboard/internal/broadcast"
	"github.com/tinytelemetry/flapboard/internal/httpserver"
	"github.com/tinytelemetry/flapboard/internal/scheduler"
	"github.com/tinytelemetry/flapboard/internal/socketrpc"
	"github.com/tinytelemetry/flapboard/internal/splitflap"
	"golang.org/x/sync/errgroup"
)

// errCountdownExpired ends the errgroup when exit-on-expire is set.
var errCountdownExpired = errors.New("countdown reached target")

// runServer drives the countdown and serves frames until interrupted.
func runServer(ctx context.Context, cfg appConfig) error {
	cleanupLogger := configureRuntimeLogger()
	defer cleanupLogger()

	engine, err := splitflap.NewEngine(cfg.Target)
	if err != nil {
		return fmt.Errorf("failed to build engine: %w", err)
	}

	hub := broadcast.New()
	sched := scheduler.New(engine, hub, scheduler.Config{
		Interval: cfg.RefreshInterval,
		Clock:    clockwork.NewRealClock(),
	})

	// Start HTTP API server if enabled
	if cfg.APIEnabled {
		apiServer := httpserver.NewServer(cfg.APIAddr, hub, cfg.Target)
		if err := apiServer.Start(); err != nil {
			return fmt.Errorf("failed to start API server: %w", err)
		}
		defer apiServer.Stop()
	}

	// Start socket RPC server for board clients
	if cfg.SocketEnabled {
		sockServer := socketrpc.NewServer(cfg.SocketPath, hub, cfg.Target)
		if err := sockServer.Start(); err != nil {
			log.Printf("Warning: failed to start socket server: %v", err)
		} else {
			defer sockServer.Stop()
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
			return
		}
		fmt.Println("\nShutting down gracefully... (press Ctrl+C again to force)")
		cancel()

		deadline := time.NewTimer(10 * time.Second)
		defer deadline.Stop()

		select {
		case <-sigCh:
			fmt.Println("\nForce shutdown.")
		case <-deadline.C:
			fmt.Println("Shutdown timed out, forcing exit.")
		}
		cleanupSocket(cfg.SocketPath)
		os.Exit(1)
	}()

	printStartupBanner(cfg)

	g, gctx := errgroup.WithContext(ctx)

	// Frames published before this subscription are replayed by the hub, so
	// an already expired target is seen on the first receive.
	if cfg.ExitOnExpire {
		frames, unsubscribe := hub.Subscribe()
		g.Go(func() error {
			defer unsubscribe()
			for {
				select {
				case <-gctx.Done():
					return nil
				case f := <-frames:
					if f.Fields.Expired {
						log.Printf("server: countdown reached target, exiting")
						return errCountdownExpired
					}
				}
			}
		})
	}

	sched.Start()
	defer sched.Stop()

	g.Go(func() error {
		<-gctx.Done()
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errCountdownExpired) {
		log.Printf("server: errgroup exited with error: %v", err)
		return err
	}
	return nil
}

func cleanupSocket(path string) {
	if path != "" {
		os.Remove(path)
	}
}

func configureRuntimeLogger() func() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	home, err := os.UserHomeDir()
	if err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	logDir := filepath.Join(home, ".local", "state", "flapboard")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	f, err := os.OpenFile(filepath.Join(logDir, "flapd.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	log.SetOutput(f)
	return func() {
		_ = f.Close()
	}
}

func printStartupBanner(cfg appConfig) {
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	amber := lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	cyan := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	bold := lipgloss.NewStyle().Bold(true)

	check := green.Render("●")
	dot := dim.Render("●")

	logo := amber.Bold(true).Render(`
    ╔═╗╦  ╔═╗╔═╗╔╦╗
    ╠╣ ║  ╠═╣╠═╝ ║║
    ╚  ╩═╝╩ ╩╩  ═╩╝`)

	var lines []string
	lines = append(lines, "", logo, "    "+dim.Render("v"+version), "")

	separator := dim.Render("    ─────────────────────────────────")
	lines = append(lines, separator, "")

	lines = append(lines, bold.Render("    Countdown"), "")
	lines = append(lines, fmt.Sprintf("    %s  Target         %s", check, amber.Render(cfg.Target.Format(time.RFC3339))))
	lines = append(lines, fmt.Sprintf("    %s  Refresh        %s", check, dim.Render(cfg.RefreshInterval.String())))
	if cfg.ExitOnExpire {
		lines = append(lines, fmt.Sprintf("    %s  On Expire      %s", check, dim.Render("exit")))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  On Expire      %s", dot, dim.Render("hold at zero")))
	}
	lines = append(lines, "")

	lines = append(lines, bold.Render("    Gateway"), "")
	if cfg.APIEnabled {
		lines = append(lines, fmt.Sprintf("    %s  HTTP API       %s", check, cyan.Render(cfg.APIAddr)))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  HTTP API       %s", dot, dim.Render("disabled")))
	}
	if cfg.SocketEnabled {
		lines = append(lines, fmt.Sprintf("    %s  Unix Socket    %s", check, cyan.Render(shortenPath(cfg.SocketPath))))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Unix Socket    %s", dot, dim.Render("disabled")))
	}
	lines = append(lines, "")

	lines = append(lines, bold.Render("    Config"), "")
	if cfg.ConfigPath != "" {
		lines = append(lines, fmt.Sprintf("    %s  Config File    %s", check, dim.Render(shortenPath(cfg.ConfigPath))))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Config File    %s", dot, dim.Render("default (no file)")))
	}

	lines = append(lines, "", separator, "")
	lines = append(lines, "    "+dim.Render("Press ")+yellow.Render("Ctrl+C")+dim.Render(" to stop"), "")

	fmt.Println(strings.Join(lines, "\n"))
}

func shortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}
