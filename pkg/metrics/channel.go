package metrics

// ChannelMetrics observes the credit-based flow control of a session's
// logical channels (spec.md §4.3). The Prometheus implementation's methods
// are no-ops on a nil pointer receiver, but its constructor returns a nil
// interface when metrics are disabled, so callers check for nil before use.
type ChannelMetrics interface {
	// SetCredit records the current outstanding guarantee balance for a
	// channel on a session.
	SetCredit(channel string, credit uint64)

	// RecordGuaranteeIssued records an IssueGuarantee sent or received on a
	// channel.
	RecordGuaranteeIssued(channel string, amount uint64)

	// RecordGuaranteeAbsolved records an Absolve sent or received.
	RecordGuaranteeAbsolved(channel string, amount uint64)

	// RecordPlead records a Plead sent or received.
	RecordPlead(channel string)

	// RecordDropped records an AnnounceDropping/Apologise exchange.
	RecordDropped(channel string)
}
