package apiclient

import "fmt"

// Peer mirrors pkg/controlplane/models.Peer.
type Peer struct {
	ID          uint   `json:"id"`
	DisplayName string `json:"display_name"`
	PublicKey   []byte `json:"public_key"`
}

// CreatePeerRequest is the body of a peer registration request.
type CreatePeerRequest struct {
	DisplayName string `json:"display_name"`
	PublicKey   []byte `json:"public_key"`
}

// CreatePeer registers a peer by the public key the operator supplies.
func (c *Client) CreatePeer(req CreatePeerRequest) (*Peer, error) {
	var peer Peer
	if err := c.post("/api/v1/peers", req, &peer); err != nil {
		return nil, err
	}
	return &peer, nil
}

// ListPeers returns every known peer.
func (c *Client) ListPeers() ([]Peer, error) {
	var peers []Peer
	if err := c.get("/api/v1/peers", &peers); err != nil {
		return nil, err
	}
	return peers, nil
}

// DeletePeer removes a peer and its authorised areas.
func (c *Client) DeletePeer(id uint) error {
	return c.delete(fmt.Sprintf("/api/v1/peers/%d", id))
}
