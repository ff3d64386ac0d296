package license

import (
	"github.com/bnema/cps-kiosk/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// View is what the license status screen shows for one device.
type View struct {
	Device  domain.DeviceID
	Record  domain.LicenseRecord
	Message string
}

func renderView(v View, s styles) string {
	lines := []string{
		s.title.Render("CPS Kiosk License"),
		s.header.Render("device: " + string(v.Device)),
	}

	state := s.warning.Render("not authorized")
	if v.Record.Authorized {
		state = s.ok.Render("authorized")
	}

	rows := []string{row(s, "status", state)}
	if v.Record.SerialNumber == "" && v.Record.EmailAddress == "" {
		rows = append(rows, s.empty.Render("No license has been activated on this device."))
	} else {
		rows = append(rows,
			row(s, "serial", s.value.Render(orNone(v.Record.SerialNumber))),
			row(s, "email", s.value.Render(orNone(v.Record.EmailAddress))),
			row(s, "bound to", s.value.Render(orNone(string(v.Record.BoundDeviceID)))),
		)
	}
	if v.Message != "" {
		rows = append(rows, s.section.Render(v.Message))
	}

	lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func row(s styles, key, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, s.key.Render(key+":"), " ", value)
}

func orNone(value string) string {
	if value == "" {
		return "none"
	}
	return value
}
