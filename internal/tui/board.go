package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tinytelemetry/flapboard/internal/model"
)

// Activator starts and stops the refresh loop behind a board.
// *scheduler.Scheduler satisfies it.
type Activator interface {
	Start()
	Stop()
	Active() bool
}

// FrameMsg carries a freshly published frame.
type FrameMsg model.Frame

// frameStreamClosedMsg reports that the subscription ended.
type frameStreamClosedMsg struct{}

// BoardPage shows the live split-flap countdown.
type BoardPage struct {
	source  model.FrameSource
	control Activator // nil when attached to a remote service
	frames  <-chan model.Frame
	cancel  func()

	frame    model.Frame
	hasFrame bool
	paused   bool
	started  bool

	keys KeyMap
	help help.Model
}

// NewBoardPage creates the board page. control may be nil, in which case
// pausing only freezes the display.
func NewBoardPage(source model.FrameSource, control Activator) *BoardPage {
	return &BoardPage{
		source:  source,
		control: control,
		keys:    DefaultKeyMap(),
		help:    help.New(),
	}
}

func (b *BoardPage) ID() string { return boardPageID }

// Init starts the subscription on first use. Returning from another page
// leaves the running subscription and pause state alone.
func (b *BoardPage) Init() tea.Cmd {
	if b.started {
		return nil
	}
	b.started = true
	b.subscribe()
	if b.control != nil {
		b.control.Start()
	}
	return tea.Batch(waitForFrame(b.frames), spinnerTick())
}

func (b *BoardPage) subscribe() {
	if b.cancel != nil {
		return
	}
	b.frames, b.cancel = b.source.Subscribe()
}

// Close stops the refresh loop and drops the subscription.
func (b *BoardPage) Close() {
	if b.control != nil {
		b.control.Stop()
	}
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
}

func waitForFrame(ch <-chan model.Frame) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		f, ok := <-ch
		if !ok {
			return frameStreamClosedMsg{}
		}
		return FrameMsg(f)
	}
}

func (b *BoardPage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	switch msg := msg.(type) {
	case FrameMsg:
		if !b.paused {
			b.frame = model.Frame(msg)
			b.hasFrame = true
		}
		return waitForFrame(b.frames), nil

	case frameStreamClosedMsg:
		return nil, nil

	case spinnerTickMsg:
		if b.hasFrame {
			return nil, nil
		}
		return spinnerTick(), nil

	case tea.KeyMsg:
		return b.handleKey(msg)
	}
	return nil, nil
}

func (b *BoardPage) handleKey(msg tea.KeyMsg) (tea.Cmd, *PageNav) {
	switch {
	case key.Matches(msg, b.keys.ForceQuit), key.Matches(msg, b.keys.Quit):
		b.Close()
		return tea.Quit, nil
	case key.Matches(msg, b.keys.Help):
		b.help.ShowAll = !b.help.ShowAll
	case key.Matches(msg, b.keys.Tiles):
		if b.hasFrame {
			return nil, &PageNav{PageID: inspectorPageID, Params: InspectParams{Frame: b.frame}}
		}
	case key.Matches(msg, b.keys.Pause):
		b.togglePause()
	}
	return nil, nil
}

// togglePause deactivates or reactivates the refresh loop. Reactivating
// publishes a fresh frame straight away.
func (b *BoardPage) togglePause() {
	b.paused = !b.paused
	if b.control == nil {
		return
	}
	if b.paused {
		b.control.Stop()
	} else {
		b.control.Start()
	}
}

func (b *BoardPage) View(width, height int) string {
	skin := ActiveSkin()
	b.help.Width = width

	var body string
	if !b.hasFrame {
		body = renderWaiting(skin)
	} else {
		board, err := renderBoard(b.frame, skin)
		if err != nil {
			board = lipgloss.NewStyle().Foreground(skin.color(skin.Expired)).Render(err.Error())
		}
		body = lipgloss.JoinVertical(lipgloss.Center, board, "", renderStatus(b.frame, b.paused, skin))
	}

	helpView := b.help.View(b.keys)
	if width <= 0 || height <= 0 {
		return body + "\n\n" + helpView
	}

	bodyHeight := max(height-lipgloss.Height(helpView), 0)
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.Place(width, bodyHeight, lipgloss.Center, lipgloss.Center, body),
		helpView,
	)
}
