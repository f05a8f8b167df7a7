package sessionstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/wgps/internal/pai"
	"github.com/marmos91/wgps/internal/privy"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestLoadCheckpoint_MissingPeerReturnsNotFound(t *testing.T) {
	s := openTestStore(t)

	cp, found, err := s.LoadCheckpoint("alfie-unknown")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, cp.Privy)
}

func TestSaveThenLoadCheckpoint_RoundTrips(t *testing.T) {
	s := openTestStore(t)

	want := Checkpoint{
		Privy: &privy.Privy{
			PrevSenderHandle:   3,
			PrevReceiverHandle: 5,
			PrevRange: privy.Range3d{
				Subspace:  []byte("sub"),
				PathStart: [][]byte{[]byte("a")},
			},
		},
		Theirs: []pai.TheirsSnapshot{
			{Group: []byte{1, 2, 3}, IsSecondary: false},
			{Group: []byte{4, 5, 6}, IsSecondary: true},
		},
	}

	require.NoError(t, s.SaveCheckpoint("betty-1", want))

	got, found, err := s.LoadCheckpoint("betty-1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, want.Privy.PrevSenderHandle, got.Privy.PrevSenderHandle)
	assert.Equal(t, want.Privy.PrevReceiverHandle, got.Privy.PrevReceiverHandle)
	assert.Equal(t, want.Privy.PrevRange.Subspace, got.Privy.PrevRange.Subspace)
	require.Len(t, got.Theirs, 2)
	assert.Equal(t, want.Theirs[0], got.Theirs[0])
	assert.Equal(t, want.Theirs[1], got.Theirs[1])
}

func TestSaveCheckpoint_OverwritesPrior(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.SaveCheckpoint("alfie-2", Checkpoint{Privy: &privy.Privy{PrevSenderHandle: 1}}))
	require.NoError(t, s.SaveCheckpoint("alfie-2", Checkpoint{Privy: &privy.Privy{PrevSenderHandle: 99}}))

	got, found, err := s.LoadCheckpoint("alfie-2")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, uint64(99), got.Privy.PrevSenderHandle)
}

func TestDeleteCheckpoint_RemovesItAndIsIdempotent(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.SaveCheckpoint("betty-3", Checkpoint{Privy: &privy.Privy{}}))
	require.NoError(t, s.DeleteCheckpoint("betty-3"))

	_, found, err := s.LoadCheckpoint("betty-3")
	require.NoError(t, err)
	assert.False(t, found)

	// Deleting again must not error.
	require.NoError(t, s.DeleteCheckpoint("betty-3"))
}

func TestCheckpoints_AreIsolatedPerPeer(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.SaveCheckpoint("alfie", Checkpoint{Privy: &privy.Privy{PrevSenderHandle: 1}}))
	require.NoError(t, s.SaveCheckpoint("betty", Checkpoint{Privy: &privy.Privy{PrevSenderHandle: 2}}))

	a, found, err := s.LoadCheckpoint("alfie")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, uint64(1), a.Privy.PrevSenderHandle)

	b, found, err := s.LoadCheckpoint("betty")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, uint64(2), b.Privy.PrevSenderHandle)
}
