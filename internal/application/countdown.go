package application

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"time"

	"github.com/bnema/cps-kiosk/internal/domain"
	"github.com/bnema/cps-kiosk/internal/ports"
	"github.com/sirupsen/logrus"
)

const DefaultTickInterval = time.Second

var ErrEngineAlreadyRunning = errors.New("countdown engine already running")

type CountdownOptions struct {
	SecondsPerCredit uint64
	Tick             time.Duration
	Clock            ports.Clock
	Logger           logrus.FieldLogger
}

// CountdownEngine owns the session's remaining time. Only the goroutine executing Run mutates
// it; credits and ticks are serialized through one select loop.
type CountdownEngine struct {
	credits  *CreditChannel
	notifier ports.Notifier
	factor   uint64
	tick     time.Duration
	clock    ports.Clock
	log      logrus.FieldLogger

	snapshot atomic.Uint64
	started  atomic.Bool
}

func NewCountdownEngine(credits *CreditChannel, notifier ports.Notifier, opts CountdownOptions) *CountdownEngine {
	if notifier == nil {
		notifier = ports.NotifierFunc(func(domain.Event) {})
	}
	if opts.SecondsPerCredit == 0 {
		opts.SecondsPerCredit = domain.DefaultSecondsPerCredit
	}
	if opts.Tick <= 0 {
		opts.Tick = DefaultTickInterval
	}
	if opts.Clock == nil {
		opts.Clock = ports.SystemClock{}
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}

	return &CountdownEngine{
		credits:  credits,
		notifier: notifier,
		factor:   opts.SecondsPerCredit,
		tick:     opts.Tick,
		clock:    opts.Clock,
		log:      opts.Logger.WithField("component", "countdown"),
	}
}

// State is safe to call from any goroutine.
func (e *CountdownEngine) State() domain.SessionState {
	remaining := e.snapshot.Load()
	return domain.SessionState{RemainingSeconds: remaining, Running: remaining > 0}
}

// Run blocks until ctx is cancelled. Cancellation is observed only between two loop
// iterations, so a credit merge or a tick is never half applied.
func (e *CountdownEngine) Run(ctx context.Context) error {
	if !e.started.CompareAndSwap(false, true) {
		return ErrEngineAlreadyRunning
	}

	ticker := e.clock.NewTicker(e.tick)
	defer ticker.Stop()

	var remaining uint64
	for {
		select {
		case <-ctx.Done():
			e.shutdown(remaining)
			return nil
		case msg := <-e.credits.Receive():
			remaining = e.applyCredits(remaining, msg)
		case <-ticker.C():
			remaining = e.applyTick(remaining)
		}
	}
}

// applyCredits merges msg and whatever else is already queued into a single update.
func (e *CountdownEngine) applyCredits(remaining uint64, first domain.CreditMessage) uint64 {
	before := remaining
	merged := false

	apply := func(msg domain.CreditMessage) {
		seconds := msg.Seconds(e.factor)
		if seconds == 0 {
			return
		}
		merged = true
		remaining = saturatingAdd(remaining, seconds)
		e.notifier.Notify(domain.CreditAddedEvent(msg.Amount))
		e.log.WithFields(logrus.Fields{
			"credits": msg.Amount,
			"origin":  msg.Origin,
			"seconds": seconds,
		}).Info("credit applied")
	}

	apply(first)
drain:
	for {
		select {
		case msg := <-e.credits.Receive():
			apply(msg)
		default:
			break drain
		}
	}

	if !merged {
		return remaining
	}

	e.snapshot.Store(remaining)
	e.notifier.Notify(domain.RemainingUpdatedEvent(remaining))
	if before == 0 {
		e.log.WithField("remaining_seconds", remaining).Info("session started")
		e.notifier.Notify(domain.ShowSmallEvent())
	}
	return remaining
}

func (e *CountdownEngine) applyTick(remaining uint64) uint64 {
	if remaining == 0 {
		return 0
	}

	remaining--
	e.snapshot.Store(remaining)
	e.notifier.Notify(domain.RemainingUpdatedEvent(remaining))

	if remaining == 0 {
		e.log.Info("session ended")
		e.notifier.Notify(domain.SessionEndedEvent())
		e.notifier.Notify(domain.ShowMainEvent())
	}
	return remaining
}

func (e *CountdownEngine) shutdown(remaining uint64) {
	e.credits.Close()

	var pending uint64
	for {
		select {
		case msg := <-e.credits.Receive():
			pending += msg.Amount
			continue
		default:
		}
		break
	}

	entry := e.log.WithField("remaining_seconds", remaining)
	if pending > 0 {
		entry = entry.WithField("unapplied_credits", pending)
	}
	if remaining > 0 || pending > 0 {
		entry.Warn("countdown stopped with an active session")
		return
	}
	entry.Info("countdown stopped")
}

func saturatingAdd(a, b uint64) uint64 {
	if a > math.MaxUint64-b {
		return math.MaxUint64
	}
	return a + b
}
