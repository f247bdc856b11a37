package outputbuf

import (
	"sync/atomic"
)

// node is an element of the singly linked list: a chunk of captured output
// plus an atomic pointer to the next chunk. A sentinel head keeps the
// append logic branch-free.
type node struct {
	data []byte
	next atomic.Pointer[node]
}

// Buffer is a lock-free, append-only list of output chunks written by a
// supervised process. Appends are safe for a single writer with any number
// of concurrent readers; iteration sees a best-effort snapshot.
//
// A Buffer also carries a broadcaster so that live subscribers are woken
// whenever a chunk arrives. Close marks the stream complete (the process
// has exited); subscribers drain the remaining chunks and their channels
// are closed.
type Buffer struct {
	head *node // sentinel, immutable
	tail *node

	wake *Broadcaster[struct{}]
}

// New creates an empty Buffer ready to capture output.
func New() *Buffer {
	sentinel := &node{}
	return &Buffer{
		head: sentinel,
		tail: sentinel,
		wake: NewBroadcaster[struct{}](),
	}
}

// Close marks the stream complete. Chunks already appended remain readable.
func (b *Buffer) Close() {
	if b == nil {
		return
	}
	b.wake.Stop()
}

// Append adds data to the end of the buffer. The slice is stored as-is;
// callers that reuse their slice must pass a copy (Write does).
func (b *Buffer) Append(data []byte) {
	if b == nil {
		return
	}
	n := &node{data: data}
	b.tail.next.Store(n)
	b.tail = n
	b.wake.Publish(struct{}{})
}

// Subscribe returns a channel that replays every chunk from the beginning
// and then follows new output. The channel is closed once the buffer is
// closed and fully drained.
func (b *Buffer) Subscribe(capacity int) <-chan []byte {
	ch := make(chan []byte, capacity)
	notify, err := b.wake.Subscribe()
	if err != nil {
		// Stream already complete; replay what was captured.
		go b.replay(ch)
		return ch
	}
	go b.follow(notify, ch)
	return ch
}

func (b *Buffer) follow(notify chan struct{}, ch chan []byte) {
	prev := b.head
	for {
		cur := prev.next.Load()
		if cur == nil {
			if _, ok := <-notify; !ok {
				// Closed; one final drain in case chunks raced the close.
				b.drainFrom(prev, ch)
				close(ch)
				return
			}
			continue
		}
		prev = cur
		ch <- cur.data
	}
}

func (b *Buffer) replay(ch chan []byte) {
	b.drainFrom(b.head, ch)
	close(ch)
}

func (b *Buffer) drainFrom(prev *node, ch chan []byte) {
	for {
		cur := prev.next.Load()
		if cur == nil {
			return
		}
		prev = cur
		ch <- cur.data
	}
}

// ForEach visits captured chunks in order until iter returns false.
func (b *Buffer) ForEach(iter func([]byte) bool) {
	if b == nil || iter == nil {
		return
	}
	cur := b.head.next.Load()
	for cur != nil {
		if !iter(cur.data) {
			return
		}
		cur = cur.next.Load()
	}
}

// Bytes concatenates every captured chunk.
func (b *Buffer) Bytes() []byte {
	total := 0
	chunks := make([][]byte, 0, 16)
	b.ForEach(func(c []byte) bool {
		chunks = append(chunks, c)
		total += len(c)
		return true
	})
	out := make([]byte, 0, total)
	for _, c := range chunks {
		out = append(out, c...)
	}
	return out
}

func (b *Buffer) String() string {
	return string(b.Bytes())
}
