// Package growbytes implements the decoder's sole synchronisation
// primitive: a single-writer, single-reader byte buffer fed by the
// transport, with a wait-for-length and prune-a-prefix API.
package growbytes

import (
	"errors"
	"sync"
)

// ErrClosed is returned by WaitAbsolute when the producer has stopped and
// the requested length can never be reached.
var ErrClosed = errors.New("growbytes: closed before target length reached")

// GrowingBytes is fed by one producer task appending chunks in order, and
// drained by one consumer task that waits for a target length and prunes a
// prefix once it has consumed what it needs. At most one waiter exists at
// any time; a second call to WaitAbsolute with the same target shares the
// pending wait, and one with a different target replaces it (the decoder
// never needs two distinct outstanding targets, since it is driven by a
// single task).
type GrowingBytes struct {
	mu     sync.Mutex
	buf    []byte
	closed bool

	waitTarget int
	notify     chan struct{} // created when a wait registers a new target, closed to wake waiters
}

// New returns an empty GrowingBytes.
func New() *GrowingBytes {
	return &GrowingBytes{}
}

// Write appends a chunk to the buffer. Called only by the producer task.
func (g *GrowingBytes) Write(chunk []byte) {
	if len(chunk) == 0 {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return
	}
	g.buf = append(g.buf, chunk...)
	g.wakeIfSatisfied()
}

// Close signals end-of-stream: the producer has stopped. Any pending waiter
// whose target cannot now be reached is woken with ErrClosed.
func (g *GrowingBytes) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return
	}
	g.closed = true
	if g.notify != nil {
		close(g.notify)
		g.notify = nil
	}
}

// wakeIfSatisfied closes the current notification channel if the buffer now
// has at least waitTarget bytes. Caller must hold mu.
func (g *GrowingBytes) wakeIfSatisfied() {
	if g.notify != nil && len(g.buf) >= g.waitTarget {
		close(g.notify)
		g.notify = nil
	}
}

// WaitAbsolute resolves when the buffer holds at least n bytes, returning a
// slice over the buffer's head (valid only until the next Prune). It
// resolves immediately if the buffer already satisfies n. If the transport
// closes before n bytes ever arrive, it returns ErrClosed.
//
// Per spec: callers must observe the slice returned by WaitAbsolute before
// calling Prune, since pruning shrinks the buffer out from under it.
func (g *GrowingBytes) WaitAbsolute(n int) ([]byte, error) {
	g.mu.Lock()
	if len(g.buf) >= n {
		out := g.buf[:n]
		g.mu.Unlock()
		return out, nil
	}
	if g.closed {
		g.mu.Unlock()
		return nil, ErrClosed
	}

	// A waiter with the pending target shares its channel; a different
	// target replaces the pending one. The engine drives this from a single
	// task, so two distinct targets are never outstanding at once.
	if g.notify == nil || g.waitTarget != n {
		g.waitTarget = n
		g.notify = make(chan struct{})
	}
	ch := g.notify
	g.mu.Unlock()

	<-ch

	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.buf) >= n {
		return g.buf[:n], nil
	}
	return nil, ErrClosed
}

// Prune drops the first k bytes of the buffer. Must only be called after
// observing the slice returned by the most recent WaitAbsolute.
func (g *GrowingBytes) Prune(k int) {
	if k == 0 {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if k > len(g.buf) {
		k = len(g.buf)
	}
	remaining := len(g.buf) - k
	copy(g.buf, g.buf[k:])
	g.buf = g.buf[:remaining]
}

// Len returns the number of bytes currently buffered.
func (g *GrowingBytes) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.buf)
}
