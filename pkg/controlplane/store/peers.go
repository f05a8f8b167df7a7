package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/marmos91/wgps/pkg/controlplane/models"
)

// ErrPeerNotFound is returned when a peer lookup finds nothing.
var ErrPeerNotFound = errors.New("peer not found")

// GetPeerByPublicKey looks up a peer by the public key an operator
// registered for it.
func (s *GORMStore) GetPeerByPublicKey(ctx context.Context, publicKey []byte) (*models.Peer, error) {
	var peer models.Peer
	err := s.db.WithContext(ctx).Where("public_key = ?", publicKey).First(&peer).Error
	if err != nil {
		return nil, convertNotFoundError(err, ErrPeerNotFound)
	}
	return &peer, nil
}

// ListPeers returns every known peer.
func (s *GORMStore) ListPeers(ctx context.Context) ([]*models.Peer, error) {
	var peers []*models.Peer
	if err := s.db.WithContext(ctx).Find(&peers).Error; err != nil {
		return nil, err
	}
	return peers, nil
}

// UpsertPeer creates a peer, or returns the existing one if the public key
// is already registered.
func (s *GORMStore) UpsertPeer(ctx context.Context, peer *models.Peer) error {
	err := s.db.WithContext(ctx).
		Where("public_key = ?", peer.PublicKey).
		Attrs(models.Peer{DisplayName: peer.DisplayName}).
		FirstOrCreate(peer).Error
	if err != nil && !isUniqueConstraintError(err) {
		return err
	}
	return nil
}

// DeletePeer removes a peer and its areas.
func (s *GORMStore) DeletePeer(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("peer_id = ?", id).Delete(&models.Area{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Peer{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrPeerNotFound
		}
		return nil
	})
}
