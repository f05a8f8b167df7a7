package metrics

// PAIMetrics observes Private Area Intersection finder activity (spec.md
// §4.6). A nil receiver is a valid no-op.
type PAIMetrics interface {
	// RecordFragmentSubmitted records a submit_authorisation producing a
	// fragment of the given kind ("primary" or "secondary").
	RecordFragmentSubmitted(kind string)

	// RecordBindSent records a PaiBindFragment sent to the peer.
	RecordBindSent(kind string)

	// RecordBindReceived records a PaiBindFragment received from the peer.
	RecordBindReceived(kind string)

	// RecordIntersectionFound records a successful fragment intersection,
	// tagged by the resulting on_intersection action.
	RecordIntersectionFound(onIntersection string)

	// RecordSubspaceCapRequested records a PaiRequestSubspaceCapability.
	RecordSubspaceCapRequested()
}
