package tui

import tea "github.com/charmbracelet/bubbletea"

// App is the top-level Bubble Tea model. It owns the pages and switches
// between them on PageNav requests.
type App struct {
	pages  []Page
	active int
	width  int
	height int
}

// NewApp creates an App showing the first page.
func NewApp(pages ...Page) *App {
	return &App{pages: pages}
}

// ActivePage returns the ID of the page on screen.
func (a *App) ActivePage() string {
	if len(a.pages) == 0 {
		return ""
	}
	return a.pages[a.active].ID()
}

func (a *App) Init() tea.Cmd {
	if len(a.pages) == 0 {
		return nil
	}
	return a.pages[a.active].Init()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if len(a.pages) == 0 {
		return a, nil
	}

	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		a.width = wsm.Width
		a.height = wsm.Height
	}

	if _, isKey := msg.(tea.KeyMsg); isKey {
		cmd, nav := a.pages[a.active].Update(msg)
		return a, tea.Batch(cmd, a.navigate(nav))
	}

	var cmds []tea.Cmd
	for i, p := range a.pages {
		cmd, nav := p.Update(msg)
		cmds = append(cmds, cmd)
		if i == a.active {
			cmds = append(cmds, a.navigate(nav))
		}
	}
	return a, tea.Batch(cmds...)
}

// navigate switches to the requested page and returns its Init command.
// Unknown page IDs are ignored.
func (a *App) navigate(nav *PageNav) tea.Cmd {
	if nav == nil {
		return nil
	}
	for i, p := range a.pages {
		if p.ID() != nav.PageID {
			continue
		}
		if r, ok := p.(paramReceiver); ok {
			r.SetParams(nav.Params)
		}
		a.active = i
		return p.Init()
	}
	return nil
}

func (a *App) View() string {
	if len(a.pages) == 0 {
		return "No active page"
	}
	return a.pages[a.active].View(a.width, a.height)
}
