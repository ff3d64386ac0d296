package tui

import (
	"github.com/bnema/cps-kiosk/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
)

type eventMsg struct {
	event domain.Event
}

type screen int

const (
	screenMain screen = iota
	screenSmall
)

type model struct {
	ui        domain.UIConfig
	styles    styles
	screen    screen
	credits   uint64
	remaining uint64
	licensed  bool
	paired    string
	width     int
	height    int
}

func newModel(ui domain.UIConfig, licensed bool) model {
	return model{
		ui:       ui,
		styles:   newStyles(),
		licensed: licensed,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m.apply(msg.event), nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
		return m, nil
	default:
		return m, nil
	}
}

func (m model) apply(event domain.Event) model {
	switch event.Kind {
	case domain.EventRegisterRequest:
		if event.Registration != nil && event.Registration.Status {
			m.paired = event.Registration.ServerAddress
		}
	case domain.EventCreditAdded:
		// Shows the most recent insertion, not a running total.
		m.credits = event.Credits
	case domain.EventTimerUpdate:
		m.remaining = event.RemainingSeconds
	case domain.EventTimerDone:
		m.remaining = 0
	case domain.EventShowSmall:
		m.screen = screenSmall
	case domain.EventShowMain:
		m.screen = screenMain
		m.credits = 0
	case domain.EventLicenseUpdated:
		if event.License != nil {
			m.licensed = event.License.Authorized
		}
	}
	return m
}

func (m model) View() string {
	if m.screen == screenSmall {
		return renderSmall(m)
	}
	return renderMain(m)
}
