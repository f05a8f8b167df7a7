// Package models defines the persistent control-plane records for the WGPS
// reference daemon: peers an operator has exchanged out-of-band
// authorisations with, and the namespace/area pairs those authorisations
// grant.
package models

import "time"

// Peer is a remote party the control plane knows about, identified by the
// public key an operator registers for it. Nothing compares this key with
// data exchanged during a sync session.
type Peer struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	DisplayName string    `gorm:"size:256" json:"display_name"`
	PublicKey   []byte    `gorm:"uniqueIndex;size:64" json:"public_key"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Area records that a given peer is authorised to synchronise a namespace /
// subspace / path-prefix area, and when it was last reconciled. It is the
// persisted counterpart of a ReadAuthorisation's granted area (spec.md §3).
// wgpsd's sync sessions do not read it.
type Area struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	PeerID        uint      `gorm:"index" json:"peer_id"`
	Namespace     []byte    `gorm:"size:64" json:"namespace"`
	Subspace      []byte    `gorm:"size:64" json:"subspace,omitempty"`
	PathPrefix    []byte    `gorm:"type:blob" json:"path_prefix"`
	AnySubspace   bool      `json:"any_subspace"`
	LastSyncedAt  time.Time `json:"last_synced_at"`
	CreatedAt     time.Time `json:"created_at"`
}

// AllModels returns every model GORM should AutoMigrate.
func AllModels() []any {
	return []any{
		&Peer{},
		&Area{},
	}
}
