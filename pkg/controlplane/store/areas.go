package store

import (
	"context"
	"errors"
	"time"

	"github.com/marmos91/wgps/pkg/controlplane/models"
)

// ErrAreaNotFound is returned when an area lookup finds nothing.
var ErrAreaNotFound = errors.New("area not found")

// ListAreasForPeer returns every area an operator has pre-registered for the
// given peer. It backs the area list endpoint; wgpsd's sync sessions do not
// call it.
func (s *GORMStore) ListAreasForPeer(ctx context.Context, peerID uint) ([]*models.Area, error) {
	var areas []*models.Area
	if err := s.db.WithContext(ctx).Where("peer_id = ?", peerID).Find(&areas).Error; err != nil {
		return nil, err
	}
	return areas, nil
}

// CreateArea registers a new authorised area for a peer.
func (s *GORMStore) CreateArea(ctx context.Context, area *models.Area) error {
	area.CreatedAt = time.Now()
	return s.db.WithContext(ctx).Create(area).Error
}

// TouchAreaSynced records the timestamp of the most recent reconciliation
// for an area, for operator visibility via `wgpsctl areas list`.
func (s *GORMStore) TouchAreaSynced(ctx context.Context, areaID uint, when time.Time) error {
	return s.db.WithContext(ctx).
		Model(&models.Area{}).
		Where("id = ?", areaID).
		Update("last_synced_at", when).Error
}

// DeleteArea removes a registered area.
func (s *GORMStore) DeleteArea(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Area{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAreaNotFound
	}
	return nil
}
