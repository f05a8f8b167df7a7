// Package metrics defines the metric interfaces an engine session records
// against, and the zero-overhead/no-op behavior observed when metrics are
// disabled. Concrete Prometheus-backed implementations live in
// pkg/metrics/prometheus.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	mu       sync.RWMutex
	registry *prometheus.Registry
	enabled  bool
)

// InitRegistry creates the process-wide Prometheus registry and marks
// metrics collection enabled. Safe to call once at daemon startup; a second
// call replaces the registry.
func InitRegistry() *prometheus.Registry {
	mu.Lock()
	defer mu.Unlock()

	registry = prometheus.NewRegistry()
	enabled = true
	return registry
}

// GetRegistry returns the process-wide registry, creating one if metrics
// were never explicitly initialized.
func GetRegistry() *prometheus.Registry {
	mu.RLock()
	if registry != nil {
		defer mu.RUnlock()
		return registry
	}
	mu.RUnlock()
	return InitRegistry()
}

// IsEnabled reports whether metrics collection is active.
func IsEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}
