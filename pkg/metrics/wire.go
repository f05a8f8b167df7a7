package metrics

// WireMetrics observes message codec activity on a session's transport
// (spec.md §4.1, §4.5). A nil receiver is a valid no-op.
type WireMetrics interface {
	// RecordDecoded records a successfully decoded message of the given
	// kind (e.g. "ReconciliationSendFingerprint", "PaiBindFragment").
	RecordDecoded(messageKind string)

	// RecordDecodeError records a failed decode attempt, tagged by a reason.
	// The session records "bad_tag" for wire.ErrDecode, "back_reference" for
	// wire.ErrProtocolValidation, and "truncated" for any other error.
	RecordDecodeError(reason string)

	// RecordBytesRead records bytes consumed from the transport's
	// GrowingBytes buffer.
	RecordBytesRead(n int)

	// RecordBytesWritten records bytes written to the transport.
	RecordBytesWritten(n int)
}
