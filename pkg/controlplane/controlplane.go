// Package controlplane provides the operator-facing management plane for a
// WGPS daemon.
//
// The control plane manages:
//   - Persistent registry of known peers and their pre-authorised sync
//     areas, via Store
//   - REST API for registering peers/areas and monitoring liveness, via
//     API Server (optional)
//
// The control plane does not participate in the sync protocol itself, and
// wgpsd's sync sessions neither read the registry nor record sync progress
// into it.
//
// Usage:
//
//	cp, err := controlplane.New(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer cp.Close()
package controlplane

import (
	"context"
	"fmt"

	"github.com/marmos91/wgps/internal/logger"
	"github.com/marmos91/wgps/pkg/controlplane/api"
	"github.com/marmos91/wgps/pkg/controlplane/store"
)

// ControlPlane is the central management component for a WGPS daemon.
//
// It owns and coordinates:
//   - Store: persistent registry of peers and authorised areas
//   - API Server: REST API for management (optional)
type ControlPlane struct {
	store     *store.GORMStore
	apiServer *api.Server
}

// Options configures the ControlPlane.
type Options struct {
	// Database configures persistent storage for the peer/area registry.
	Database *store.Config

	// API configures the REST API server. Leave nil to run without one.
	API *api.APIConfig
}

// New creates a new ControlPlane with the given options.
//
// Call Close() when done to release resources.
func New(ctx context.Context, opts *Options) (*ControlPlane, error) {
	if opts == nil {
		return nil, fmt.Errorf("options cannot be nil")
	}
	if opts.Database == nil {
		return nil, fmt.Errorf("database configuration is required")
	}

	cpStore, err := store.New(opts.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}

	cp := &ControlPlane{store: cpStore}

	if opts.API != nil {
		apiServer, err := api.NewServer(*opts.API, cpStore)
		if err != nil {
			return nil, fmt.Errorf("failed to create API server: %w", err)
		}
		cp.apiServer = apiServer
		logger.Info("control plane API server initialized", "port", opts.API.Port)
	}

	return cp, nil
}

// Store returns the persistent peer/area registry.
func (cp *ControlPlane) Store() *store.GORMStore {
	return cp.store
}

// APIServer returns the API server (nil if not enabled).
func (cp *ControlPlane) APIServer() *api.Server {
	return cp.apiServer
}

// Close releases all resources held by the ControlPlane.
func (cp *ControlPlane) Close() error {
	return nil
}
