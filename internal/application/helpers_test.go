package application

import (
	"io"
	"sync"
	"testing"
	"time"

	"github.com/bnema/cps-kiosk/internal/domain"
	"github.com/bnema/cps-kiosk/internal/ports"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type manualTicker struct {
	ch chan time.Time
}

func (t *manualTicker) C() <-chan time.Time {
	return t.ch
}

func (t *manualTicker) Stop() {}

type manualClock struct {
	now    time.Time
	ticker *manualTicker
}

func newManualClock() *manualClock {
	return &manualClock{
		now:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		ticker: &manualTicker{ch: make(chan time.Time)},
	}
}

func (c *manualClock) Now() time.Time {
	return c.now
}

func (c *manualClock) NewTicker(time.Duration) ports.Ticker {
	return c.ticker
}

// tick blocks until the engine has taken the tick off the channel.
func (c *manualClock) tick(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case c.ticker.ch <- c.now:
		case <-time.After(2 * time.Second):
			require.FailNow(t, "engine did not accept tick")
		}
	}
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []domain.Event
}

func (r *recordingNotifier) Notify(event domain.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingNotifier) Events() []domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Event(nil), r.events...)
}

func (r *recordingNotifier) Kinds() []domain.EventKind {
	events := r.Events()
	kinds := make([]domain.EventKind, 0, len(events))
	for _, event := range events {
		kinds = append(kinds, event.Kind)
	}
	return kinds
}

func (r *recordingNotifier) Count(kind domain.EventKind) int {
	count := 0
	for _, event := range r.Events() {
		if event.Kind == kind {
			count++
		}
	}
	return count
}

func quietLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func mockAnyContext() interface{} {
	return mock.Anything
}
