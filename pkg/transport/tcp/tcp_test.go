package tcp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/wgps/pkg/wgps"
)

func TestDialAndServe_ExchangesBytes(t *testing.T) {
	ln, err := Listen("127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	accepted := make(chan *Transport, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		_ = ln.Serve(ctx, func(tr *Transport) {
			accepted <- tr
		})
	}()

	client, err := Dial(context.Background(), ln.Addr().String(), wgps.RoleAlfie)
	require.NoError(t, err)
	defer client.Close()

	var server *Transport
	select {
	case server = <-accepted:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for accept")
	}
	defer server.Close()

	assert.Equal(t, wgps.RoleAlfie, client.Role())
	assert.Equal(t, wgps.RoleBetty, server.Role())

	require.NoError(t, client.Send(context.Background(), []byte("hello")))

	recvCtx, recvCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer recvCancel()
	got, err := server.Recv(recvCtx)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)
}

func TestRecv_UnblocksOnContextCancel(t *testing.T) {
	ln, err := Listen("127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	accepted := make(chan *Transport, 1)
	serveCtx, serveCancel := context.WithCancel(context.Background())
	defer serveCancel()

	go func() {
		_ = ln.Serve(serveCtx, func(tr *Transport) { accepted <- tr })
	}()

	client, err := Dial(context.Background(), ln.Addr().String(), wgps.RoleAlfie)
	require.NoError(t, err)
	defer client.Close()

	var server *Transport
	select {
	case server = <-accepted:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for accept")
	}
	defer server.Close()

	recvCtx, recvCancel := context.WithCancel(context.Background())
	recvDone := make(chan error, 1)
	go func() {
		_, err := server.Recv(recvCtx)
		recvDone <- err
	}()

	recvCancel()

	select {
	case err := <-recvDone:
		require.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Recv did not unblock on context cancellation")
	}
}
