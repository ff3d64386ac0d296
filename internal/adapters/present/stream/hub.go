package stream

import (
	"context"
	"io"
	"net/http"
	"sync"

	"github.com/bnema/cps-kiosk/internal/domain"
	"github.com/bnema/cps-kiosk/internal/ports"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const defaultBuffer = 32

// Hub fans session events out to server-sent-event subscribers such as the kiosk webview.
// A subscriber that falls behind loses events instead of slowing the hub down.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]chan domain.Event
	buffer int
	done   chan struct{}
	once   sync.Once
	log    logrus.FieldLogger
}

var _ ports.Presenter = (*Hub)(nil)

func NewHub(buffer int, log logrus.FieldLogger) *Hub {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Hub{
		subs:   map[string]chan domain.Event{},
		buffer: buffer,
		done:   make(chan struct{}),
		log:    log.WithField("component", "event_stream"),
	}
}

func (h *Hub) Present(_ context.Context, event domain.Event) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, ch := range h.subs {
		select {
		case ch <- event:
		default:
			h.log.WithFields(logrus.Fields{"subscriber": id, "event": event.Kind}).Debug("subscriber lagging, event skipped")
		}
	}
	return nil
}

// Subscribe returns the subscriber's event channel and a function that removes it.
func (h *Hub) Subscribe() (string, <-chan domain.Event, func()) {
	id := uuid.NewString()
	ch := make(chan domain.Event, h.buffer)

	h.mu.Lock()
	h.subs[id] = ch
	h.mu.Unlock()

	return id, ch, func() {
		h.mu.Lock()
		delete(h.subs, id)
		h.mu.Unlock()
	}
}

func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close ends every open stream.
func (h *Hub) Close() {
	h.once.Do(func() { close(h.done) })
}

func (h *Hub) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, events, unsubscribe := h.Subscribe()
		defer unsubscribe()

		h.log.WithField("subscriber", id).Info("event stream opened")
		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("X-Accel-Buffering", "no")
		c.Status(http.StatusOK)
		// Subscribers see the response headers before the first event arrives.
		c.Writer.Flush()

		c.Stream(func(w io.Writer) bool {
			select {
			case <-h.done:
				return false
			case <-c.Request.Context().Done():
				return false
			case event := <-events:
				c.SSEvent(string(event.Kind), event)
				return true
			}
		})
		h.log.WithField("subscriber", id).Info("event stream closed")
	}
}
