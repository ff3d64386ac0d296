package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func renderMain(m model) string {
	s := m.styles
	lines := []string{
		s.title.Render("Welcome " + m.ui.CafeName),
		s.station.Render(m.ui.StationID),
		s.prompt.Render(m.ui.InsertCoinText),
	}

	if !m.licensed {
		lines = append(lines, s.warning.Render("This station is not licensed"))
	}
	if m.paired != "" {
		lines = append(lines, s.status.Render("acceptor paired via "+m.paired))
	}

	return place(m, s.frame.Render(lipgloss.JoinVertical(lipgloss.Center, lines...)), lipgloss.Center, lipgloss.Center)
}

func renderSmall(m model) string {
	s := m.styles
	body := lipgloss.JoinVertical(
		lipgloss.Left,
		s.credits.Render(fmt.Sprintf("Inserted PHP %d", m.credits)),
		s.remaining.Render(fmt.Sprintf("Remaining Time: %d seconds", m.remaining)),
	)

	h, v := corner(m.ui.SmallWindowCorner)
	return place(m, s.overlay.Render(body), h, v)
}

func place(m model, content string, h, v lipgloss.Position) string {
	if m.width <= 0 || m.height <= 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, h, v, content)
}

func corner(position string) (lipgloss.Position, lipgloss.Position) {
	switch position {
	case "top-left":
		return lipgloss.Left, lipgloss.Top
	case "bottom-left":
		return lipgloss.Left, lipgloss.Bottom
	case "bottom-right":
		return lipgloss.Right, lipgloss.Bottom
	default:
		return lipgloss.Right, lipgloss.Top
	}
}
