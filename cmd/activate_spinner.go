package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type activationDoneMsg struct {
	err error
}

type activationSpinnerModel struct {
	spinner  spinner.Model
	label    string
	activate tea.Cmd
	err      error
	done     bool
}

func newActivationSpinnerModel(label string, activate tea.Cmd) activationSpinnerModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return activationSpinnerModel{
		spinner:  s,
		label:    label,
		activate: activate,
	}
}

func (m activationSpinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.activate)
}

func (m activationSpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case activationDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m activationSpinnerModel) View() string {
	if m.done {
		return ""
	}

	return fmt.Sprintf("%s %s", m.spinner.View(), m.label)
}

// runActivationSpinner shows a spinner on output while activate talks to the license authority.
func runActivationSpinner(ctx context.Context, output io.Writer, activate func(context.Context) error) error {
	activateCmd := func() tea.Msg {
		return activationDoneMsg{err: activate(ctx)}
	}

	p := tea.NewProgram(
		newActivationSpinnerModel("Contacting license authority...", activateCmd),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	result, ok := finalModel.(activationSpinnerModel)
	if !ok {
		return fmt.Errorf("unexpected final spinner model type %T", finalModel)
	}

	return result.err
}
