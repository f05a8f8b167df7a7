package apiclient

import (
	"fmt"
	"time"
)

// Area mirrors pkg/controlplane/models.Area.
type Area struct {
	ID           uint      `json:"id"`
	PeerID       uint      `json:"peer_id"`
	Namespace    []byte    `json:"namespace"`
	Subspace     []byte    `json:"subspace,omitempty"`
	PathPrefix   []byte    `json:"path_prefix"`
	AnySubspace  bool      `json:"any_subspace"`
	LastSyncedAt time.Time `json:"last_synced_at"`
}

// CreateAreaRequest is the body of an area registration request.
type CreateAreaRequest struct {
	Namespace   []byte `json:"namespace"`
	Subspace    []byte `json:"subspace,omitempty"`
	PathPrefix  []byte `json:"path_prefix"`
	AnySubspace bool   `json:"any_subspace"`
}

// CreateArea registers an authorised area for peerID.
func (c *Client) CreateArea(peerID uint, req CreateAreaRequest) (*Area, error) {
	var area Area
	if err := c.post(fmt.Sprintf("/api/v1/peers/%d/areas", peerID), req, &area); err != nil {
		return nil, err
	}
	return &area, nil
}

// ListAreas returns every area registered for peerID.
func (c *Client) ListAreas(peerID uint) ([]Area, error) {
	var areas []Area
	if err := c.get(fmt.Sprintf("/api/v1/peers/%d/areas", peerID), &areas); err != nil {
		return nil, err
	}
	return areas, nil
}

// DeleteArea removes a registered area.
func (c *Client) DeleteArea(peerID, areaID uint) error {
	return c.delete(fmt.Sprintf("/api/v1/peers/%d/areas/%d", peerID, areaID))
}
