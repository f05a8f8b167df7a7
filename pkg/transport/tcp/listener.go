package tcp

import (
	"context"
	"fmt"
	"net"

	"github.com/marmos91/wgps/internal/logger"
	"github.com/marmos91/wgps/pkg/wgps"
)

// Listener accepts incoming sync connections, handing each one to a
// caller-supplied handler as a wgps.Transport playing wgps.RoleBetty (the
// responder side of the commitment-scheme handshake; spec.md §4.5 assigns
// the dialer Alfie and the listener Betty).
type Listener struct {
	ln net.Listener
}

// Listen opens a TCP listener on addr.
func Listen(addr string) (*Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("tcp: listen %s: %w", addr, err)
	}
	return &Listener{ln: ln}, nil
}

// Addr returns the listener's bound address.
func (l *Listener) Addr() net.Addr {
	return l.ln.Addr()
}

// Close stops accepting new connections.
func (l *Listener) Close() error {
	return l.ln.Close()
}

// Serve accepts connections until ctx is cancelled, invoking handle for
// each one in its own goroutine. It returns once the listener is closed,
// either by ctx cancellation or an unrecoverable Accept error.
func (l *Listener) Serve(ctx context.Context, handle func(*Transport)) error {
	go func() {
		<-ctx.Done()
		logger.Info("tcp listener shutdown signal received", logger.Err(ctx.Err()))
		_ = l.ln.Close()
	}()

	for {
		conn, err := l.ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				return fmt.Errorf("tcp: accept: %w", err)
			}
		}

		logger.Debug("session connection accepted", "remote_addr", conn.RemoteAddr().String())
		t := New(conn, wgps.RoleBetty)
		go handle(t)
	}
}
