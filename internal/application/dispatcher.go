package application

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/bnema/cps-kiosk/internal/domain"
	"github.com/bnema/cps-kiosk/internal/ports"
	"github.com/sirupsen/logrus"
)

const (
	DefaultNotifyQueueSize = 128
	DefaultNotifyTimeout   = 2 * time.Second
)

type NamedPresenter struct {
	Name      string
	Presenter ports.Presenter
}

// Dispatcher is the Notifier handed to the core. Notify only enqueues; Run delivers events to
// every presenter in order, so a slow presentation layer delays other presenters but never
// the caller.
type Dispatcher struct {
	queue      chan domain.Event
	presenters []NamedPresenter
	timeout    time.Duration
	log        logrus.FieldLogger
	dropped    atomic.Uint64
}

func NewDispatcher(size int, timeout time.Duration, log logrus.FieldLogger, presenters ...NamedPresenter) *Dispatcher {
	if size <= 0 {
		size = DefaultNotifyQueueSize
	}
	if timeout <= 0 {
		timeout = DefaultNotifyTimeout
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Dispatcher{
		queue:      make(chan domain.Event, size),
		presenters: presenters,
		timeout:    timeout,
		log:        log.WithField("component", "dispatcher"),
	}
}

func (d *Dispatcher) Notify(event domain.Event) {
	select {
	case d.queue <- event:
	default:
		d.dropped.Add(1)
		d.log.WithField("event", event.Kind).Warn("notification queue full, event dropped")
	}
}

func (d *Dispatcher) Dropped() uint64 {
	return d.dropped.Load()
}

// Run delivers queued events until ctx is done, then flushes what is already queued.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			d.flush()
			return nil
		case event := <-d.queue:
			d.deliver(context.WithoutCancel(ctx), event)
		}
	}
}

func (d *Dispatcher) flush() {
	for {
		select {
		case event := <-d.queue:
			d.deliver(context.Background(), event)
		default:
			return
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, event domain.Event) {
	for _, p := range d.presenters {
		if err := d.present(ctx, p, event); err != nil {
			d.log.WithError(err).WithFields(logrus.Fields{
				"presenter": p.Name,
				"event":     event.Kind,
			}).Warn("presenter failed")
		}
	}
}

func (d *Dispatcher) present(ctx context.Context, p NamedPresenter, event domain.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("presenter panic: %v", r)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	return p.Presenter.Present(ctx, event)
}
