package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const spinnerInterval = 120 * time.Millisecond

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// renderWaiting renders an animated placeholder shown until the first
// frame arrives. The spinner frame follows the wall clock so it animates
// on re-render.
func renderWaiting(skin Skin) string {
	frame := spinnerFrames[time.Now().UnixMilli()/spinnerInterval.Milliseconds()%int64(len(spinnerFrames))]
	return lipgloss.NewStyle().
		Foreground(skin.color(skin.Muted)).
		Italic(true).
		Render(frame + " waiting for first frame...")
}

// spinnerTickMsg triggers a re-render of the waiting placeholder.
type spinnerTickMsg struct{}

func spinnerTick() tea.Cmd {
	return tea.Tick(spinnerInterval, func(_ time.Time) tea.Msg {
		return spinnerTickMsg{}
	})
}
