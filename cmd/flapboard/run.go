package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/tinytelemetry/flapboard/internal/broadcast"
	"github.com/tinytelemetry/flapboard/internal/model"
	"github.com/tinytelemetry/flapboard/internal/scheduler"
	"github.com/tinytelemetry/flapboard/internal/socketrpc"
	"github.com/tinytelemetry/flapboard/internal/splitflap"
	"github.com/tinytelemetry/flapboard/internal/tui"
)

var errNoTarget = errors.New("no target configured (set target in the config file, FLAPBOARD_TARGET or --target, or use --attach)")

func runTUI(cfg cliConfig, attach bool) error {
	// The scheduler logs through the standard logger; keep it off the
	// alt screen.
	cleanupLogger := configureRuntimeLogger()
	defer cleanupLogger()

	if err := tui.InitializeSkin(cfg.Skin, cfg.ConfigDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to load skin '%s': %v (using default)\n", cfg.Skin, err)
	}

	var page *tui.BoardPage
	if attach {
		client, err := socketrpc.Dial(cfg.SocketPath)
		if err != nil {
			return fmt.Errorf("cannot connect to flapd at %s: %w\nIs the flapd service running? Start it with: flapd", cfg.SocketPath, err)
		}
		defer client.Close()
		page = tui.NewBoardPage(socketrpc.NewPoller(client, cfg.RefreshInterval, nil), nil)
	} else {
		if cfg.Target.IsZero() {
			return errNoTarget
		}
		engine, err := splitflap.NewEngine(cfg.Target)
		if err != nil {
			return err
		}
		hub := broadcast.New()
		sched := scheduler.New(engine, hub, scheduler.Config{
			Interval: cfg.RefreshInterval,
			Clock:    clockwork.NewRealClock(),
		})
		page = tui.NewBoardPage(hub, sched)
	}
	defer page.Close()

	app := tui.NewApp(page, tui.NewInspectorPage())
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		if strings.Contains(err.Error(), "TTY") || strings.Contains(err.Error(), "/dev/tty") {
			return fmt.Errorf("TUI requires a real terminal (try --once)")
		}
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

// printOnce writes the current board as plain text followed by a one-line
// summary.
func printOnce(w io.Writer, cfg cliConfig, attach bool) error {
	frame, err := currentFrame(cfg, attach, clockwork.NewRealClock())
	if err != nil {
		return err
	}
	surface, err := splitflap.Project(frame.Tiles)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, surface.Text("█", " ")); err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, splitflap.Describe(frame))
	return err
}

func currentFrame(cfg cliConfig, attach bool, clock clockwork.Clock) (model.Frame, error) {
	if attach {
		client, err := socketrpc.Dial(cfg.SocketPath)
		if err != nil {
			return model.Frame{}, fmt.Errorf("cannot connect to flapd at %s: %w", cfg.SocketPath, err)
		}
		defer client.Close()
		return client.Snapshot()
	}
	if cfg.Target.IsZero() {
		return model.Frame{}, errNoTarget
	}
	engine, err := splitflap.NewEngine(cfg.Target)
	if err != nil {
		return model.Frame{}, err
	}
	return engine.Frame(clock.Now())
}

func configureRuntimeLogger() func() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	home, err := os.UserHomeDir()
	if err != nil {
		log.SetOutput(io.Discard)
		return func() {}
	}

	logDir := filepath.Join(home, ".local", "state", "flapboard")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.SetOutput(io.Discard)
		return func() {}
	}

	f, err := os.OpenFile(filepath.Join(logDir, "flapboard.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.SetOutput(io.Discard)
		return func() {}
	}

	log.SetOutput(f)
	return func() {
		_ = f.Close()
	}
}
