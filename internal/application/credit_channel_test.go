package application

import (
	"context"
	"testing"
	"time"

	"github.com/bnema/cps-kiosk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreditChannelOfferAccepted(t *testing.T) {
	t.Parallel()

	ch := NewCreditChannel(2, 10*time.Millisecond, quietLogger())

	require.True(t, ch.Offer(context.Background(), domain.CreditMessage{Amount: 3, Origin: "a"}))
	assert.Equal(t, 1, ch.Len())

	msg := <-ch.Receive()
	assert.Equal(t, uint64(3), msg.Amount)
	assert.Equal(t, "a", msg.Origin)
}

func TestCreditChannelDropsWhenFull(t *testing.T) {
	t.Parallel()

	ch := NewCreditChannel(1, 10*time.Millisecond, quietLogger())

	require.True(t, ch.Offer(context.Background(), domain.CreditMessage{Amount: 1}))
	started := time.Now()
	assert.False(t, ch.Offer(context.Background(), domain.CreditMessage{Amount: 2}))
	assert.Less(t, time.Since(started), time.Second)
	assert.Equal(t, 1, ch.Len())
}

func TestCreditChannelDropsAfterClose(t *testing.T) {
	t.Parallel()

	ch := NewCreditChannel(4, time.Second, quietLogger())
	ch.Close()
	ch.Close()

	assert.False(t, ch.Offer(context.Background(), domain.CreditMessage{Amount: 1}))
	assert.Equal(t, 0, ch.Len())
	select {
	case <-ch.Done():
	default:
		t.Fatal("done channel should be closed")
	}
}

func TestCreditChannelDropsOnCancelledContext(t *testing.T) {
	t.Parallel()

	ch := NewCreditChannel(1, time.Minute, quietLogger())
	require.True(t, ch.Offer(context.Background(), domain.CreditMessage{Amount: 1}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.False(t, ch.Offer(ctx, domain.CreditMessage{Amount: 2}))
}

func TestCreditChannelDefaults(t *testing.T) {
	t.Parallel()

	ch := NewCreditChannel(0, 0, nil)

	assert.Equal(t, DefaultCreditQueueSize, cap(ch.messages))
	assert.Equal(t, DefaultCreditEnqueueTimeout, ch.timeout)
}
