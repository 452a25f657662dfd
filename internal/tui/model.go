// Package tui is a read-only terminal dashboard over a stored ledger.
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"katha/internal/core"
	"katha/internal/ledger"
	"katha/internal/services"
)

// Loader builds a service over the latest stored ledger.
type Loader func(ctx context.Context) (*services.LedgerService, error)

type tab int

const (
	tabDashboard tab = iota
	tabLedger
	tabKathas
	tabInsights
	tabCount
)

var tabNames = [tabCount]string{"Dashboard", "Ledger", "Kathas", "Insights"}

// typeFilters is the cycle order of the ledger filter key.
var typeFilters = []ledger.TypeFilter{
	ledger.AllTypes,
	ledger.TypeFilter(core.Deposit),
	ledger.TypeFilter(core.Income),
	ledger.TypeFilter(core.Withdrawal),
	ledger.TypeFilter(core.Expense),
}

type Model struct {
	ctx  context.Context
	load Loader
	svc  *services.LedgerService

	tab      tab
	selected string // katha id, empty for the default katha
	filter   int    // index into typeFilters

	width, height int
	status        string
	statusErr     bool
}

type loadedMsg struct {
	svc *services.LedgerService
	err error
}

func New(ctx context.Context, load Loader) Model {
	return Model{ctx: ctx, load: load, status: "Loading ledger..."}
}

func loadCmd(ctx context.Context, load Loader) tea.Cmd {
	return func() tea.Msg {
		svc, err := load(ctx)
		return loadedMsg{svc: svc, err: err}
	}
}

func (m Model) Init() tea.Cmd {
	return loadCmd(m.ctx, m.load)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Load failed: %v", msg.err)
			m.statusErr = true
			return m, nil
		}
		m.svc = msg.svc
		snap := m.svc.Snapshot()
		m.status = fmt.Sprintf("Loaded %d kathas, %d entries", len(snap.Kathas), len(snap.Entries))
		m.statusErr = false
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "tab", "right", "l":
		m.tab = (m.tab + 1) % tabCount
	case "shift+tab", "left", "h":
		m.tab = (m.tab + tabCount - 1) % tabCount
	case "1", "2", "3", "4":
		m.tab = tab(msg.String()[0] - '1')
	case "]":
		m.selected = m.cycleKatha(1)
	case "[":
		m.selected = m.cycleKatha(-1)
	case "f":
		m.filter = (m.filter + 1) % len(typeFilters)
	case "r":
		m.status = "Reloading..."
		m.statusErr = false
		return m, loadCmd(m.ctx, m.load)
	}
	return m, nil
}

// cycleKatha moves the active katha by step, wrapping around.
func (m Model) cycleKatha(step int) string {
	if m.svc == nil {
		return m.selected
	}
	kathas := m.svc.Snapshot().Kathas
	if len(kathas) == 0 {
		return ""
	}
	active := ledger.ActiveKathaID(kathas, m.selected)
	i := 0
	for j, k := range kathas {
		if k.ID == active {
			i = j
			break
		}
	}
	i = (i + step + len(kathas)) % len(kathas)
	return kathas[i].ID
}
