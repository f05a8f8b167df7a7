// Package sessionstore persists the supplemental crash-recovery checkpoint
// named in SPEC_FULL.md §5: on a clean close, a session's reconciliation
// privy and completed PAI theirs-side state are snapshotted under a
// caller-supplied peer identifier, so a session reconnecting to the same
// peer can optionally skip re-deriving fragments the peer already bound
// last time. This is a pure addition on top of the engine: spec.md treats
// PAI state as process-lifetime, and resume is off unless a caller opts in.
//
// Grounded on the teacher's pkg/metadata/store/badger package: prefixed
// keys, JSON-encoded values, and db.Update/View closures (see encoding.go,
// server.go there).
package sessionstore

import (
	"encoding/json"
	"fmt"

	badgerdb "github.com/dgraph-io/badger/v4"

	"github.com/marmos91/wgps/internal/pai"
	"github.com/marmos91/wgps/internal/privy"
)

const prefixCheckpoint = "chk:"

func keyCheckpoint(peerID string) []byte {
	return append([]byte(prefixCheckpoint), []byte(peerID)...)
}

// Checkpoint is the resumable state captured for one peer at session close.
type Checkpoint struct {
	Privy  *privy.Privy
	Theirs []pai.TheirsSnapshot
}

// Store is a badger-backed checkpoint table, one row per peer.
type Store struct {
	db *badgerdb.DB
}

// Open opens (creating if necessary) a checkpoint store rooted at dir.
func Open(dir string) (*Store, error) {
	opts := badgerdb.DefaultOptions(dir).WithLogger(nil)
	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("sessionstore: open %s: %w", dir, err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("sessionstore: close: %w", err)
	}
	return nil
}

// SaveCheckpoint overwrites the checkpoint recorded for peerID.
func (s *Store) SaveCheckpoint(peerID string, cp Checkpoint) error {
	data, err := json.Marshal(cp)
	if err != nil {
		return fmt.Errorf("sessionstore: encode checkpoint for %q: %w", peerID, err)
	}
	return s.db.Update(func(txn *badgerdb.Txn) error {
		if err := txn.Set(keyCheckpoint(peerID), data); err != nil {
			return fmt.Errorf("sessionstore: write checkpoint for %q: %w", peerID, err)
		}
		return nil
	})
}

// LoadCheckpoint returns the checkpoint recorded for peerID, if any. found
// is false with a nil error when no checkpoint has ever been saved for
// that peer.
func (s *Store) LoadCheckpoint(peerID string) (cp Checkpoint, found bool, err error) {
	txErr := s.db.View(func(txn *badgerdb.Txn) error {
		item, getErr := txn.Get(keyCheckpoint(peerID))
		if getErr == badgerdb.ErrKeyNotFound {
			return nil
		}
		if getErr != nil {
			return getErr
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &cp)
		})
	})
	if txErr != nil {
		return Checkpoint{}, false, fmt.Errorf("sessionstore: load checkpoint for %q: %w", peerID, txErr)
	}
	return cp, found, nil
}

// DeleteCheckpoint removes any checkpoint recorded for peerID. It is a
// no-op if none exists.
func (s *Store) DeleteCheckpoint(peerID string) error {
	err := s.db.Update(func(txn *badgerdb.Txn) error {
		delErr := txn.Delete(keyCheckpoint(peerID))
		if delErr == badgerdb.ErrKeyNotFound {
			return nil
		}
		return delErr
	})
	if err != nil {
		return fmt.Errorf("sessionstore: delete checkpoint for %q: %w", peerID, err)
	}
	return nil
}
