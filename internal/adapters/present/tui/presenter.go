package tui

import (
	"context"
	"fmt"

	"github.com/bnema/cps-kiosk/internal/domain"
	"github.com/bnema/cps-kiosk/internal/ports"
	tea "github.com/charmbracelet/bubbletea"
)

// Sender is the part of *tea.Program the presenter needs.
type Sender interface {
	Send(msg tea.Msg)
}

type Presenter struct {
	program Sender
}

var _ ports.Presenter = (*Presenter)(nil)

func NewPresenter(program Sender) *Presenter {
	return &Presenter{program: program}
}

// Present hands the event to the display. Send blocks until the program's event loop reads it,
// so a stalled display gives up at ctx and the pending send completes on its own later.
func (p *Presenter) Present(ctx context.Context, event domain.Event) error {
	sent := make(chan struct{})
	go func() {
		defer close(sent)
		p.program.Send(eventMsg{event: event})
	}()

	select {
	case <-sent:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("send %s to display: %w", event.Kind, ctx.Err())
	}
}

// NewProgram builds the kiosk display. It starts on the main screen.
func NewProgram(ui domain.UIConfig, licensed bool, opts ...tea.ProgramOption) *tea.Program {
	return tea.NewProgram(newModel(ui, licensed), opts...)
}
