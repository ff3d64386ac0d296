package application

import (
	"context"
	"sync"
	"time"

	"github.com/bnema/cps-kiosk/internal/domain"
	"github.com/sirupsen/logrus"
)

const (
	DefaultCreditQueueSize      = 64
	DefaultCreditEnqueueTimeout = time.Second
)

// CreditChannel carries credit messages from the ingestion server to the countdown engine.
// Offers never block longer than the enqueue timeout; anything that cannot be queued is dropped.
type CreditChannel struct {
	messages chan domain.CreditMessage
	done     chan struct{}
	once     sync.Once
	timeout  time.Duration
	log      logrus.FieldLogger
}

func NewCreditChannel(size int, enqueueTimeout time.Duration, log logrus.FieldLogger) *CreditChannel {
	if size <= 0 {
		size = DefaultCreditQueueSize
	}
	if enqueueTimeout <= 0 {
		enqueueTimeout = DefaultCreditEnqueueTimeout
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &CreditChannel{
		messages: make(chan domain.CreditMessage, size),
		done:     make(chan struct{}),
		timeout:  enqueueTimeout,
		log:      log.WithField("component", "credit_channel"),
	}
}

// Offer enqueues msg and reports whether it was accepted.
func (c *CreditChannel) Offer(ctx context.Context, msg domain.CreditMessage) bool {
	select {
	case <-c.done:
		c.drop(msg, "channel closed")
		return false
	default:
	}

	select {
	case c.messages <- msg:
		return true
	default:
	}

	timer := time.NewTimer(c.timeout)
	defer timer.Stop()

	select {
	case c.messages <- msg:
		return true
	case <-c.done:
		c.drop(msg, "channel closed")
	case <-timer.C:
		c.drop(msg, "queue full")
	case <-ctx.Done():
		c.drop(msg, ctx.Err().Error())
	}
	return false
}

// Receive is read only by the countdown engine.
func (c *CreditChannel) Receive() <-chan domain.CreditMessage {
	return c.messages
}

// Done is closed once the channel stops accepting offers.
func (c *CreditChannel) Done() <-chan struct{} {
	return c.done
}

// Close stops accepting offers. The message channel itself stays open so concurrent offers
// never send on a closed channel.
func (c *CreditChannel) Close() {
	c.once.Do(func() { close(c.done) })
}

func (c *CreditChannel) Len() int {
	return len(c.messages)
}

func (c *CreditChannel) drop(msg domain.CreditMessage, reason string) {
	c.log.WithFields(logrus.Fields{
		"credits": msg.Amount,
		"origin":  msg.Origin,
		"reason":  reason,
	}).Warn("dropped credit message")
}
