package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tinytelemetry/flapboard/internal/model"
	"github.com/tinytelemetry/flapboard/internal/splitflap"
)

// InspectParams opens the inspector on a frame and digit group.
type InspectParams struct {
	Frame model.Frame
	Group int
}

// InspectorPage lists the transform of every tile in one digit group. It
// follows live frames while open.
type InspectorPage struct {
	frame    model.Frame
	hasFrame bool
	group    int

	keys KeyMap
	help help.Model
}

// NewInspectorPage creates the tile inspector page.
func NewInspectorPage() *InspectorPage {
	return &InspectorPage{keys: DefaultKeyMap(), help: help.New()}
}

func (p *InspectorPage) ID() string { return inspectorPageID }

func (p *InspectorPage) Init() tea.Cmd { return nil }

// SetParams implements paramReceiver.
func (p *InspectorPage) SetParams(params any) {
	ip, ok := params.(InspectParams)
	if !ok {
		return
	}
	p.frame = ip.Frame
	p.hasFrame = true
	p.group = min(max(ip.Group, 0), model.DigitCount-1)
}

func (p *InspectorPage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	switch msg := msg.(type) {
	case FrameMsg:
		p.frame = model.Frame(msg)
		p.hasFrame = true
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, p.keys.ForceQuit):
			return tea.Quit, nil
		case key.Matches(msg, p.keys.Back):
			return nil, &PageNav{PageID: boardPageID}
		case key.Matches(msg, p.keys.PrevGroup):
			p.group = (p.group + model.DigitCount - 1) % model.DigitCount
		case key.Matches(msg, p.keys.NextGroup):
			p.group = (p.group + 1) % model.DigitCount
		}
	}
	return nil, nil
}

func (p *InspectorPage) View(width, height int) string {
	skin := ActiveSkin()
	p.help.Width = width

	var body string
	if !p.hasFrame {
		body = renderWaiting(skin)
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left,
			renderGroupHeader(p.frame, p.group, skin),
			"",
			renderGroupTiles(p.frame, p.group, skin),
			"",
			renderTileList(p.frame, width-4, skin),
		)
	}

	helpView := p.help.View(inspectorHelp(p.keys))
	if width <= 0 || height <= 0 {
		return body + "\n\n" + helpView
	}
	bodyHeight := max(height-lipgloss.Height(helpView), 0)
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.Place(width, bodyHeight, lipgloss.Center, lipgloss.Center, body),
		helpView,
	)
}

func renderGroupHeader(f model.Frame, group int, skin Skin) string {
	place := "tens"
	if group%2 == 1 {
		place = "units"
	}
	accent := lipgloss.NewStyle().Foreground(skin.color(skin.Accent)).Bold(true)
	muted := lipgloss.NewStyle().Foreground(skin.color(skin.Muted))
	return accent.Render(fmt.Sprintf("%s %s  digit %d", fieldNames[group/2], place, f.Digits[group])) +
		muted.Render(fmt.Sprintf("  (group %d/%d, tiles %d-%d)",
			group+1, model.DigitCount,
			splitflap.GroupOffset(group)+1, splitflap.GroupOffset(group)+model.GroupTiles))
}

// renderGroupTiles draws the group's 5x3 tile grid, one cell per tile with
// its index and transform.
func renderGroupTiles(f model.Frame, group int, skin Skin) string {
	moved := lipgloss.NewStyle().Foreground(skin.color(skin.Tile))
	flush := lipgloss.NewStyle().Foreground(skin.color(skin.Muted))
	cell := lipgloss.NewStyle().Width(30)

	byIndex := make(map[int]model.Tile, len(f.Tiles))
	for _, t := range f.Tiles {
		byIndex[t.Index] = t
	}

	rows := make([]string, 0, model.GroupRows)
	for r := 0; r < model.GroupRows; r++ {
		cols := make([]string, 0, model.GroupColumns)
		for c := 0; c < model.GroupColumns; c++ {
			index := splitflap.GroupOffset(group) + r*model.GroupColumns + c + 1
			t := byIndex[index]
			text := fmt.Sprintf("b%-3d flush", index)
			style := flush
			if t.Transformed {
				text = fmt.Sprintf("b%-3d %s", index, t.Offset.CSS())
				style = moved
			}
			cols = append(cols, cell.Render(style.Render(text)))
		}
		rows = append(rows, strings.Join(cols, " "))
	}
	return strings.Join(rows, "\n")
}
