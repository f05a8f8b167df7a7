package metrics

// HandleMetrics observes a session's HandleStore occupancy (spec.md §4.2). A
// nil receiver is a valid no-op.
type HandleMetrics interface {
	// RecordBound records a handle BIND of the given kind ("intersection",
	// "capability", "area_of_interest", "static_token").
	RecordBound(kind string)

	// RecordFreed records a handle FREE.
	RecordFreed(kind string)

	// SetActive sets the current live-handle count for a kind.
	SetActive(kind string, count int)
}
