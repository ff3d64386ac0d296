package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bnema/cps-kiosk/internal/domain"
	"github.com/bnema/cps-kiosk/internal/ports"
	goredis "github.com/redis/go-redis/v9"
)

const DefaultChannel = "cps:events"

type publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *goredis.IntCmd
}

// Publisher mirrors session events onto a Redis pub/sub channel for out-of-process displays.
type Publisher struct {
	client  publisher
	channel string
	device  domain.DeviceID
}

var _ ports.Presenter = (*Publisher)(nil)

type envelope struct {
	DeviceID domain.DeviceID `json:"device_id"`
	domain.Event
}

// Connect accepts either a redis:// URL or a bare host:port.
func Connect(addr string) (*goredis.Client, error) {
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		opt, err := goredis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		return goredis.NewClient(opt), nil
	}
	return goredis.NewClient(&goredis.Options{Addr: addr}), nil
}

func NewPublisher(client publisher, channel string, device domain.DeviceID) *Publisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Publisher{client: client, channel: channel, device: device}
}

func (p *Publisher) Present(ctx context.Context, event domain.Event) error {
	payload, err := json.Marshal(envelope{DeviceID: p.device, Event: event})
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish event to %s: %w", p.channel, err)
	}
	return nil
}
