package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/wgps/pkg/controlplane/models"
	"github.com/marmos91/wgps/pkg/controlplane/store"
)

func areaRouter(h *AreaHandler) http.Handler {
	r := chi.NewRouter()
	r.Post("/peers/{id}/areas", h.Create)
	r.Get("/peers/{id}/areas", h.List)
	r.Delete("/peers/{id}/areas/{areaID}", h.Delete)
	return r
}

func seedPeer(t *testing.T, s *store.GORMStore) uint {
	t.Helper()
	peer := &models.Peer{DisplayName: "peer-under-test", PublicKey: []byte("pk-under-test")}
	require.NoError(t, s.UpsertPeer(context.Background(), peer))
	return peer.ID
}

func TestAreaHandler_Create(t *testing.T) {
	s := newTestPeerStore(t)
	peerID := seedPeer(t, s)
	router := areaRouter(NewAreaHandler(s))

	t.Run("any-subspace area", func(t *testing.T) {
		body, _ := json.Marshal(map[string]any{
			"namespace":    []byte("ns-1"),
			"path_prefix":  []byte("/docs"),
			"any_subspace": true,
		})
		req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/peers/%d/areas", peerID), bytes.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)

		var area models.Area
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&area))
		assert.Equal(t, peerID, area.PeerID)
		assert.True(t, area.AnySubspace)
	})

	t.Run("missing namespace is rejected", func(t *testing.T) {
		body, _ := json.Marshal(map[string]any{"any_subspace": true})
		req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/peers/%d/areas", peerID), bytes.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing subspace without any_subspace is rejected", func(t *testing.T) {
		body, _ := json.Marshal(map[string]any{"namespace": []byte("ns-1")})
		req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/peers/%d/areas", peerID), bytes.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid peer id is rejected", func(t *testing.T) {
		body, _ := json.Marshal(map[string]any{"namespace": []byte("ns-1"), "any_subspace": true})
		req := httptest.NewRequest(http.MethodPost, "/peers/not-a-number/areas", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAreaHandler_List(t *testing.T) {
	s := newTestPeerStore(t)
	peerID := seedPeer(t, s)
	router := areaRouter(NewAreaHandler(s))

	createBody, _ := json.Marshal(map[string]any{"namespace": []byte("ns-1"), "any_subspace": true})
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, fmt.Sprintf("/peers/%d/areas", peerID), bytes.NewReader(createBody)))

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/peers/%d/areas", peerID), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var areas []models.Area
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&areas))
	assert.Len(t, areas, 1)
}

func TestAreaHandler_Delete(t *testing.T) {
	s := newTestPeerStore(t)
	peerID := seedPeer(t, s)
	router := areaRouter(NewAreaHandler(s))

	createBody, _ := json.Marshal(map[string]any{"namespace": []byte("ns-1"), "any_subspace": true})
	createRec := httptest.NewRecorder()
	router.ServeHTTP(createRec, httptest.NewRequest(http.MethodPost, fmt.Sprintf("/peers/%d/areas", peerID), bytes.NewReader(createBody)))

	var area models.Area
	require.NoError(t, json.NewDecoder(createRec.Body).Decode(&area))

	t.Run("deletes an existing area", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/peers/%d/areas/%d", peerID, area.ID), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("deleting an unknown area returns not found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/peers/%d/areas/999999", peerID), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
