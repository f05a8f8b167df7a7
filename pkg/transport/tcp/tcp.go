// Package tcp is the reference wgps.Transport over a plain TCP connection:
// cmd/wgpsd's transport+engine wiring, the one spec.md §6 names only by
// interface. Grounded on the teacher's NFS adapter accept loop
// (pkg/adapter/nfs/nfs_adapter.go): a listener and a context-cancellation
// watcher goroutine that force-closes it. Accepted connections are not
// tracked.
package tcp

import (
	"context"
	"fmt"
	"net"
	"sync/atomic"

	"github.com/marmos91/wgps/pkg/bufpool"
	"github.com/marmos91/wgps/pkg/wgps"
)

// readBufferSize bounds a single Recv's underlying conn.Read call. WGPS
// messages are reassembled above the transport by growbytes, so a chunk
// boundary here carries no framing meaning.
const readBufferSize = 64 * 1024

// Transport adapts a net.Conn to wgps.Transport.
type Transport struct {
	conn   net.Conn
	role   wgps.Role
	closed atomic.Bool
}

// New wraps an already-established connection.
func New(conn net.Conn, role wgps.Role) *Transport {
	return &Transport{conn: conn, role: role}
}

// Dial connects to addr as the given role.
func Dial(ctx context.Context, addr string, role wgps.Role) (*Transport, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("tcp: dial %s: %w", addr, err)
	}
	return New(conn, role), nil
}

// Send writes b in full, unblocking early if ctx is cancelled.
func (t *Transport) Send(ctx context.Context, b []byte) error {
	if t.closed.Load() {
		return net.ErrClosed
	}

	done := make(chan error, 1)
	go func() {
		_, err := t.conn.Write(b)
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("tcp: send: %w", err)
		}
		return nil
	case <-ctx.Done():
		_ = t.conn.Close()
		return ctx.Err()
	}
}

// Recv reads the next available chunk, unblocking early if ctx is
// cancelled. net.Conn.Read has no native context awareness, so cancellation
// is delivered by closing the connection, same as the NFS adapter's
// shutdown path does for its own accept loop.
func (t *Transport) Recv(ctx context.Context) ([]byte, error) {
	if t.closed.Load() {
		return nil, net.ErrClosed
	}

	type result struct {
		n   int
		err error
	}
	buf := bufpool.Get(readBufferSize)
	done := make(chan result, 1)
	go func() {
		n, err := t.conn.Read(buf)
		done <- result{n: n, err: err}
	}()

	select {
	case r := <-done:
		// The read goroutine has returned, so buf is no longer in use and
		// safe to recycle; the caller gets its own right-sized copy instead
		// of the pooled backing array.
		defer bufpool.Put(buf)
		if r.err != nil {
			return nil, fmt.Errorf("tcp: recv: %w", r.err)
		}
		out := make([]byte, r.n)
		copy(out, buf[:r.n])
		return out, nil
	case <-ctx.Done():
		// conn.Read may still be in flight against buf; leave it to the GC
		// rather than race a pool reuse against the in-progress read.
		_ = t.conn.Close()
		return nil, ctx.Err()
	}
}

// Close closes the underlying connection. Safe to call more than once.
func (t *Transport) Close() error {
	if !t.closed.CompareAndSwap(false, true) {
		return nil
	}
	return t.conn.Close()
}

// IsClosed reports whether Close has been called.
func (t *Transport) IsClosed() bool {
	return t.closed.Load()
}

// Role returns the role this side of the connection plays.
func (t *Transport) Role() wgps.Role {
	return t.role
}

// RemoteAddr returns the peer's network address, for logging.
func (t *Transport) RemoteAddr() net.Addr {
	return t.conn.RemoteAddr()
}
