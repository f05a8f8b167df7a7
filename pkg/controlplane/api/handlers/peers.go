package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/marmos91/wgps/pkg/controlplane/models"
	"github.com/marmos91/wgps/pkg/controlplane/store"
)

// createPeerRequest is the body of a peer registration request.
type createPeerRequest struct {
	DisplayName string `json:"display_name"`
	PublicKey   []byte `json:"public_key"`
}

// PeerHandler manages the control plane's registry of known peers.
type PeerHandler struct {
	cpStore *store.GORMStore
}

// NewPeerHandler creates a new PeerHandler.
func NewPeerHandler(cpStore *store.GORMStore) *PeerHandler {
	return &PeerHandler{cpStore: cpStore}
}

// Create registers a peer by the public key the operator supplies, or
// returns the existing registration if the public key is already known.
func (h *PeerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPeerRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if len(req.PublicKey) == 0 {
		BadRequest(w, "public_key is required")
		return
	}

	peer := &models.Peer{
		DisplayName: req.DisplayName,
		PublicKey:   req.PublicKey,
	}
	if err := h.cpStore.UpsertPeer(r.Context(), peer); err != nil {
		InternalServerError(w, "failed to register peer")
		return
	}

	WriteJSONCreated(w, peer)
}

// List returns every known peer.
func (h *PeerHandler) List(w http.ResponseWriter, r *http.Request) {
	peers, err := h.cpStore.ListPeers(r.Context())
	if err != nil {
		InternalServerError(w, "failed to list peers")
		return
	}
	WriteJSONOK(w, peers)
}

// Delete removes a peer and its authorised areas.
func (h *PeerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		BadRequest(w, "invalid peer id")
		return
	}

	if err := h.cpStore.DeletePeer(r.Context(), uint(id)); err != nil {
		if errors.Is(err, store.ErrPeerNotFound) {
			NotFound(w, "peer not found")
			return
		}
		InternalServerError(w, "failed to delete peer")
		return
	}

	WriteNoContent(w)
}
