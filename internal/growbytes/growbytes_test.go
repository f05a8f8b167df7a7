package growbytes

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitAbsolute_ResolvesImmediatelyWhenSatisfied(t *testing.T) {
	g := New()
	g.Write([]byte("hello"))

	out, err := g.WaitAbsolute(3)
	require.NoError(t, err)
	assert.Equal(t, []byte("hel"), out)
}

func TestWaitAbsolute_BlocksUntilEnoughBytesArrive(t *testing.T) {
	g := New()

	done := make(chan []byte, 1)
	go func() {
		out, err := g.WaitAbsolute(5)
		require.NoError(t, err)
		done <- out
	}()

	time.Sleep(10 * time.Millisecond)
	select {
	case <-done:
		t.Fatal("WaitAbsolute resolved before enough bytes were written")
	default:
	}

	g.Write([]byte("ab"))
	g.Write([]byte("cde"))

	select {
	case out := <-done:
		assert.Equal(t, []byte("abcde"), out)
	case <-time.After(time.Second):
		t.Fatal("WaitAbsolute never resolved")
	}
}

func TestPrune_DropsPrefixWithoutAffectingPendingTarget(t *testing.T) {
	g := New()
	g.Write([]byte("abcdef"))

	out, err := g.WaitAbsolute(4)
	require.NoError(t, err)
	assert.Equal(t, []byte("abcd"), out)

	g.Prune(2)
	assert.Equal(t, 4, g.Len())

	out, err = g.WaitAbsolute(4)
	require.NoError(t, err)
	assert.Equal(t, []byte("cdef"), out)
}

func TestClose_WakesPendingWaiterWithErrClosed(t *testing.T) {
	g := New()

	errc := make(chan error, 1)
	go func() {
		_, err := g.WaitAbsolute(10)
		errc <- err
	}()

	time.Sleep(10 * time.Millisecond)
	g.Close()

	select {
	case err := <-errc:
		assert.ErrorIs(t, err, ErrClosed)
	case <-time.After(time.Second):
		t.Fatal("WaitAbsolute never resolved after Close")
	}
}

func TestWaitAbsolute_AfterCloseWithEnoughBytesStillSucceeds(t *testing.T) {
	g := New()
	g.Write([]byte("abc"))
	g.Close()

	out, err := g.WaitAbsolute(3)
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), out)
}

func TestWaitAbsolute_AfterCloseWithoutEnoughBytesFails(t *testing.T) {
	g := New()
	g.Write([]byte("ab"))
	g.Close()

	_, err := g.WaitAbsolute(3)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestWriteAfterCloseIsIgnored(t *testing.T) {
	g := New()
	g.Close()
	g.Write([]byte("ignored"))
	assert.Equal(t, 0, g.Len())
}
