package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/marmos91/wgps/pkg/controlplane/models"
	"github.com/marmos91/wgps/pkg/controlplane/store"
)

// createAreaRequest is the body of an area registration request.
type createAreaRequest struct {
	Namespace   []byte `json:"namespace"`
	Subspace    []byte `json:"subspace,omitempty"`
	PathPrefix  []byte `json:"path_prefix"`
	AnySubspace bool   `json:"any_subspace"`
}

// AreaHandler manages the areas an operator has pre-authorised for a peer.
type AreaHandler struct {
	cpStore *store.GORMStore
}

// NewAreaHandler creates a new AreaHandler.
func NewAreaHandler(cpStore *store.GORMStore) *AreaHandler {
	return &AreaHandler{cpStore: cpStore}
}

func parsePeerID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// Create registers a namespace/subspace/path-prefix area as authorised for
// a peer. The area is only stored; the peer id is not checked against the
// peer registry, and wgpsd's sync sessions do not read stored areas.
func (h *AreaHandler) Create(w http.ResponseWriter, r *http.Request) {
	peerID, err := parsePeerID(r)
	if err != nil {
		BadRequest(w, "invalid peer id")
		return
	}

	var req createAreaRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if len(req.Namespace) == 0 {
		BadRequest(w, "namespace is required")
		return
	}
	if !req.AnySubspace && len(req.Subspace) == 0 {
		BadRequest(w, "subspace is required unless any_subspace is set")
		return
	}

	area := &models.Area{
		PeerID:      peerID,
		Namespace:   req.Namespace,
		Subspace:    req.Subspace,
		PathPrefix:  req.PathPrefix,
		AnySubspace: req.AnySubspace,
	}
	if err := h.cpStore.CreateArea(r.Context(), area); err != nil {
		InternalServerError(w, "failed to register area")
		return
	}

	WriteJSONCreated(w, area)
}

// List returns every area registered for a peer.
func (h *AreaHandler) List(w http.ResponseWriter, r *http.Request) {
	peerID, err := parsePeerID(r)
	if err != nil {
		BadRequest(w, "invalid peer id")
		return
	}

	areas, err := h.cpStore.ListAreasForPeer(r.Context(), peerID)
	if err != nil {
		InternalServerError(w, "failed to list areas")
		return
	}
	WriteJSONOK(w, areas)
}

// Delete removes a registered area.
func (h *AreaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	areaID, err := strconv.ParseUint(chi.URLParam(r, "areaID"), 10, 32)
	if err != nil {
		BadRequest(w, "invalid area id")
		return
	}

	if err := h.cpStore.DeleteArea(r.Context(), uint(areaID)); err != nil {
		if errors.Is(err, store.ErrAreaNotFound) {
			NotFound(w, "area not found")
			return
		}
		InternalServerError(w, "failed to delete area")
		return
	}

	WriteNoContent(w)
}
