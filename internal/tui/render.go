package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/tinytelemetry/flapboard/internal/model"
	"github.com/tinytelemetry/flapboard/internal/splitflap"
)

const cellWidth = 2

var fieldNames = [4]string{"DAYS", "HOURS", "MINUTES", "SECONDS"}

// renderBoard draws the projected tiles of a frame with the field labels
// underneath.
func renderBoard(f model.Frame, skin Skin) (string, error) {
	surface, err := splitflap.Project(f.Tiles)
	if err != nil {
		return "", err
	}

	tileColor := skin.Tile
	if f.Fields.Expired {
		tileColor = skin.Expired
	}
	on := lipgloss.NewStyle().Foreground(skin.color(tileColor)).Render(strings.Repeat("█", cellWidth))
	off := lipgloss.NewStyle().Foreground(skin.color(skin.Empty)).Render(strings.Repeat("░", cellWidth))
	colon := lipgloss.NewStyle().Foreground(skin.color(skin.Colon)).Render(strings.Repeat("█", cellWidth))
	gap := " "

	grid := surface.Render(splitflap.Palette{On: on, Off: off, Colon: colon, Gap: gap})

	pairWidth := 2*model.GroupColumns*cellWidth + lipgloss.Width(gap)
	colonWidth := cellWidth + 2*lipgloss.Width(gap)
	labelStyle := lipgloss.NewStyle().Foreground(skin.color(skin.Label)).Bold(true)

	var labels strings.Builder
	for i, name := range fieldNames {
		if i > 0 {
			labels.WriteString(strings.Repeat(" ", colonWidth))
		}
		labels.WriteString(labelStyle.Render(lipgloss.PlaceHorizontal(pairWidth, lipgloss.Center, name)))
	}

	return strings.TrimSuffix(grid, "\n") + "\n" + labels.String(), nil
}

// renderStatus describes the countdown state under the board.
func renderStatus(f model.Frame, paused bool, skin Skin) string {
	muted := lipgloss.NewStyle().Foreground(skin.color(skin.Muted))
	accent := lipgloss.NewStyle().Foreground(skin.color(skin.Accent))

	var state string
	switch {
	case paused:
		state = muted.Render("● paused")
	case f.Fields.Expired:
		state = lipgloss.NewStyle().Foreground(skin.color(skin.Expired)).Bold(true).Render("● departed")
	default:
		state = accent.Render("● live")
	}

	parts := []string{
		state,
		muted.Render("target ") + f.Target.Local().Format("Mon 02 Jan 2006 15:04:05 MST"),
	}
	if f.Fields.Capped {
		parts = append(parts, muted.Render(fmt.Sprintf("%d days left, board shows 99", f.Fields.Days)))
	}
	if !f.Fields.Expired {
		parts = append(parts, muted.Render(f.Remaining().Truncate(time.Second).String()))
	}
	return strings.Join(parts, muted.Render("  ·  "))
}

// renderTileList lists the transformed tiles of a frame, grouped by digit.
func renderTileList(f model.Frame, width int, skin Skin) string {
	muted := lipgloss.NewStyle().Foreground(skin.color(skin.Muted))
	accent := lipgloss.NewStyle().Foreground(skin.color(skin.Accent))

	byGroup := make(map[int][]string)
	for _, t := range f.Tiles {
		if !t.Transformed {
			continue
		}
		slot, err := splitflap.Locate(t.Index)
		if err != nil {
			continue
		}
		byGroup[slot.Group] = append(byGroup[slot.Group], fmt.Sprintf("b%d→%+dem", t.Index, int(t.Offset)))
	}

	groups := make([]int, 0, len(byGroup))
	for g := range byGroup {
		groups = append(groups, g)
	}
	sort.Ints(groups)

	digits := f.Digits.String()
	lines := make([]string, 0, len(groups))
	for _, g := range groups {
		head := accent.Render(fmt.Sprintf("%s %c", fieldNames[g/2][:1], digits[g]))
		line := head + " " + muted.Render(strings.Join(byGroup[g], " "))
		if width > 0 && lipgloss.Width(line) > width {
			line = lipgloss.NewStyle().MaxWidth(width).Render(line)
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return muted.Render("no transformed tiles")
	}
	return strings.Join(lines, "\n")
}
