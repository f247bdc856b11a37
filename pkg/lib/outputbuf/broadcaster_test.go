package outputbuf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recvWithTimeout[T any](t *testing.T, ch <-chan T, d time.Duration) (T, bool) {
	t.Helper()
	var zero T
	select {
	case v, ok := <-ch:
		if !ok {
			return zero, false
		}
		return v, true
	case <-time.After(d):
		return zero, false
	}
}

func TestBroadcasterDelivers(t *testing.T) {
	b := NewBroadcaster[string]()

	ch, err := b.Subscribe()
	require.NoError(t, err)

	b.Publish("hello")

	v, ok := recvWithTimeout(t, ch, time.Second)
	require.True(t, ok, "expected a delivery")
	assert.Equal(t, "hello", v)

	b.Stop()
}

func TestBroadcasterMultipleSubscribers(t *testing.T) {
	b := NewBroadcaster[int]()

	ch1, err := b.Subscribe()
	require.NoError(t, err)
	ch2, err := b.Subscribe()
	require.NoError(t, err)

	b.Publish(7)

	for _, ch := range []chan int{ch1, ch2} {
		v, ok := recvWithTimeout(t, ch, time.Second)
		require.True(t, ok)
		assert.Equal(t, 7, v)
	}

	b.Stop()
}

func TestBroadcasterCoalescesWhenSlow(t *testing.T) {
	b := NewBroadcaster[int]()

	ch, err := b.Subscribe()
	require.NoError(t, err)

	// Subscriber is not reading; later publishes displace earlier ones.
	for i := 1; i <= 10; i++ {
		b.Publish(i)
	}

	// Whatever is pending must be one of the published values, and the
	// channel must never have blocked the publisher.
	v, ok := recvWithTimeout(t, ch, time.Second)
	require.True(t, ok)
	assert.GreaterOrEqual(t, v, 1)
	assert.LessOrEqual(t, v, 10)

	b.Stop()
}

func TestBroadcasterStopClosesSubscribers(t *testing.T) {
	b := NewBroadcaster[struct{}]()

	ch, err := b.Subscribe()
	require.NoError(t, err)

	b.Stop()

	_, open := recvWithTimeout(t, ch, time.Second)
	assert.False(t, open, "channel should be closed after Stop")

	// Subscribing after Stop fails.
	deadline := time.Now().Add(time.Second)
	for {
		if _, err := b.Subscribe(); err != nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("Subscribe kept succeeding after Stop")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestBroadcasterUnsubscribe(t *testing.T) {
	b := NewBroadcaster[int]()
	defer b.Stop()

	ch, err := b.Subscribe()
	require.NoError(t, err)
	b.Unsubscribe(ch)

	_, open := recvWithTimeout(t, ch, 100*time.Millisecond)
	assert.False(t, open, "unsubscribed channel should be closed")
}
