package outputbuf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, ch <-chan []byte, timeout time.Duration) []byte {
	t.Helper()
	var all []byte
	deadline := time.After(timeout)
	for {
		select {
		case chunk, ok := <-ch:
			if !ok {
				return all
			}
			all = append(all, chunk...)
		case <-deadline:
			t.Fatalf("subscription did not close in time; collected %q", string(all))
		}
	}
}

func TestBufferEmpty(t *testing.T) {
	b := New()
	defer b.Close()

	count := 0
	b.ForEach(func([]byte) bool {
		count++
		return true
	})
	assert.Zero(t, count)
	assert.Empty(t, b.Bytes())
}

func TestBufferAppendOrder(t *testing.T) {
	b := New()
	defer b.Close()

	b.Append([]byte("a"))
	b.Append([]byte("b"))
	b.Append([]byte("c"))

	var got []string
	b.ForEach(func(c []byte) bool {
		got = append(got, string(c))
		return true
	})
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Equal(t, "abc", b.String())
}

func TestBufferForEachEarlyStop(t *testing.T) {
	b := New()
	defer b.Close()

	b.Append([]byte("a"))
	b.Append([]byte("b"))
	b.Append([]byte("c"))

	calls := 0
	b.ForEach(func([]byte) bool {
		calls++
		return calls < 2
	})
	assert.Equal(t, 2, calls)
}

func TestBufferWriteCopies(t *testing.T) {
	b := New()
	defer b.Close()

	p := []byte("live")
	n, err := b.Write(p)
	require.NoError(t, err)
	assert.Equal(t, len(p), n)

	// Mutating the caller's slice must not affect captured output.
	p[0] = 'X'
	assert.Equal(t, "live", b.String())
}

func TestBufferSubscribeReplaysAfterClose(t *testing.T) {
	b := New()
	b.Append([]byte("one "))
	b.Append([]byte("two"))
	b.Close()

	got := collect(t, b.Subscribe(2), time.Second)
	assert.Equal(t, "one two", string(got))
}

func TestBufferSubscribeFollowsLiveWrites(t *testing.T) {
	b := New()

	b.Append([]byte("early "))
	ch := b.Subscribe(2)

	go func() {
		b.Append([]byte("late"))
		// Give the follower a moment to observe the append before the
		// stream completes.
		time.Sleep(10 * time.Millisecond)
		b.Close()
	}()

	got := collect(t, ch, 2*time.Second)
	assert.Equal(t, "early late", string(got))
}

func TestBufferNilReceiver(t *testing.T) {
	var b *Buffer
	b.Append([]byte("x"))
	b.ForEach(func([]byte) bool { return true })
	b.Close()

	n, err := b.Write([]byte("xy"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
