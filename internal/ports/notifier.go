package ports

import (
	"context"

	"github.com/bnema/cps-kiosk/internal/domain"
)

// Notifier is the fire-and-forget sink the core announces state through. Implementations
// must not block the caller.
type Notifier interface {
	Notify(event domain.Event)
}

// Presenter delivers one event to a concrete presentation layer.
type Presenter interface {
	Present(ctx context.Context, event domain.Event) error
}

type NotifierFunc func(event domain.Event)

func (f NotifierFunc) Notify(event domain.Event) {
	f(event)
}
