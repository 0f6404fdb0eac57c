package tui

import tea "github.com/charmbracelet/bubbletea"

// Page IDs.
const (
	boardPageID     = "board"
	inspectorPageID = "tiles"
)

// Page is one full-screen view of the board program. Key presses reach only
// the active page; every other message reaches all pages so frame
// subscriptions keep running in the background.
type Page interface {
	ID() string
	Init() tea.Cmd
	Update(msg tea.Msg) (tea.Cmd, *PageNav)
	View(width, height int) string
}

// PageNav asks the App to switch pages. Params is handed to the target page
// when it implements paramReceiver.
type PageNav struct {
	PageID string
	Params any
}

type paramReceiver interface {
	SetParams(params any)
}
