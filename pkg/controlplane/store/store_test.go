package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/wgps/pkg/controlplane/models"
)

func newTestStore(t *testing.T) *GORMStore {
	t.Helper()
	s, err := New(&Config{
		Type:   DatabaseTypeSQLite,
		SQLite: SQLiteConfig{Path: ":memory:"},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestConfig_ApplyDefaults(t *testing.T) {
	t.Run("empty type defaults to sqlite", func(t *testing.T) {
		cfg := &Config{}
		cfg.ApplyDefaults()
		assert.Equal(t, DatabaseTypeSQLite, cfg.Type)
		assert.NotEmpty(t, cfg.SQLite.Path)
	})

	t.Run("postgres gets connection pool defaults", func(t *testing.T) {
		cfg := &Config{Type: DatabaseTypePostgres}
		cfg.ApplyDefaults()
		assert.Equal(t, 5432, cfg.Postgres.Port)
		assert.Equal(t, "disable", cfg.Postgres.SSLMode)
		assert.Equal(t, 25, cfg.Postgres.MaxOpenConns)
		assert.Equal(t, 5, cfg.Postgres.MaxIdleConns)
	})

	t.Run("explicit sqlite path is preserved", func(t *testing.T) {
		cfg := &Config{Type: DatabaseTypeSQLite, SQLite: SQLiteConfig{Path: "/tmp/custom.db"}}
		cfg.ApplyDefaults()
		assert.Equal(t, "/tmp/custom.db", cfg.SQLite.Path)
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Run("sqlite without path is invalid", func(t *testing.T) {
		cfg := &Config{Type: DatabaseTypeSQLite}
		assert.Error(t, cfg.Validate())
	})

	t.Run("postgres without host is invalid", func(t *testing.T) {
		cfg := &Config{Type: DatabaseTypePostgres, Postgres: PostgresConfig{Database: "db", User: "u"}}
		assert.Error(t, cfg.Validate())
	})

	t.Run("unsupported type is invalid", func(t *testing.T) {
		cfg := &Config{Type: "mysql"}
		assert.Error(t, cfg.Validate())
	})

	t.Run("valid sqlite config passes", func(t *testing.T) {
		cfg := &Config{Type: DatabaseTypeSQLite, SQLite: SQLiteConfig{Path: ":memory:"}}
		assert.NoError(t, cfg.Validate())
	})
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(&Config{Type: "invalid"})
	assert.Error(t, err)
}

func TestNew_NilConfigUsesDefaults(t *testing.T) {
	s, err := New(nil)
	require.NoError(t, err)
	defer s.Close()
	assert.NotNil(t, s.DB())
}

func TestPeerOperations(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	t.Run("upsert creates a new peer", func(t *testing.T) {
		peer := &models.Peer{DisplayName: "alice", PublicKey: []byte("alice-key")}
		err := s.UpsertPeer(ctx, peer)
		require.NoError(t, err)
		assert.NotZero(t, peer.ID)
	})

	t.Run("upsert with same public key returns existing peer", func(t *testing.T) {
		first := &models.Peer{DisplayName: "bob", PublicKey: []byte("bob-key")}
		require.NoError(t, s.UpsertPeer(ctx, first))

		second := &models.Peer{DisplayName: "bob-renamed", PublicKey: []byte("bob-key")}
		require.NoError(t, s.UpsertPeer(ctx, second))

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, "bob", second.DisplayName)
	})

	t.Run("get peer by public key", func(t *testing.T) {
		peer := &models.Peer{DisplayName: "carol", PublicKey: []byte("carol-key")}
		require.NoError(t, s.UpsertPeer(ctx, peer))

		found, err := s.GetPeerByPublicKey(ctx, []byte("carol-key"))
		require.NoError(t, err)
		assert.Equal(t, peer.ID, found.ID)
	})

	t.Run("get peer by unknown public key fails", func(t *testing.T) {
		_, err := s.GetPeerByPublicKey(ctx, []byte("no-such-key"))
		assert.ErrorIs(t, err, ErrPeerNotFound)
	})

	t.Run("list peers returns every registered peer", func(t *testing.T) {
		peers, err := s.ListPeers(ctx)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(peers), 3)
	})

	t.Run("delete peer cascades to its areas", func(t *testing.T) {
		peer := &models.Peer{DisplayName: "dave", PublicKey: []byte("dave-key")}
		require.NoError(t, s.UpsertPeer(ctx, peer))

		area := &models.Area{PeerID: peer.ID, Namespace: []byte("ns"), AnySubspace: true}
		require.NoError(t, s.CreateArea(ctx, area))

		require.NoError(t, s.DeletePeer(ctx, peer.ID))

		_, err := s.GetPeerByPublicKey(ctx, []byte("dave-key"))
		assert.ErrorIs(t, err, ErrPeerNotFound)

		areas, err := s.ListAreasForPeer(ctx, peer.ID)
		require.NoError(t, err)
		assert.Empty(t, areas)
	})
}

func TestAreaOperations(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	peer := &models.Peer{DisplayName: "erin", PublicKey: []byte("erin-key")}
	require.NoError(t, s.UpsertPeer(ctx, peer))

	t.Run("create and list area for a peer", func(t *testing.T) {
		area := &models.Area{
			PeerID:      peer.ID,
			Namespace:   []byte("namespace-1"),
			PathPrefix:  []byte("/docs"),
			AnySubspace: true,
		}
		require.NoError(t, s.CreateArea(ctx, area))
		assert.NotZero(t, area.ID)
		assert.False(t, area.CreatedAt.IsZero())

		areas, err := s.ListAreasForPeer(ctx, peer.ID)
		require.NoError(t, err)
		require.Len(t, areas, 1)
		assert.Equal(t, area.ID, areas[0].ID)
	})

	t.Run("areas for a different peer are not returned", func(t *testing.T) {
		other := &models.Peer{DisplayName: "frank", PublicKey: []byte("frank-key")}
		require.NoError(t, s.UpsertPeer(ctx, other))

		areas, err := s.ListAreasForPeer(ctx, other.ID)
		require.NoError(t, err)
		assert.Empty(t, areas)
	})

	t.Run("delete unknown area fails with not found", func(t *testing.T) {
		err := s.DeleteArea(ctx, 999999)
		assert.ErrorIs(t, err, ErrAreaNotFound)
	})

	t.Run("delete existing area succeeds", func(t *testing.T) {
		area := &models.Area{PeerID: peer.ID, Namespace: []byte("namespace-2"), AnySubspace: true}
		require.NoError(t, s.CreateArea(ctx, area))

		require.NoError(t, s.DeleteArea(ctx, area.ID))

		err := s.DeleteArea(ctx, area.ID)
		assert.ErrorIs(t, err, ErrAreaNotFound)
	})
}
