package logger

import (
	"fmt"
	"log/slog"
)

// Standard field keys for structured logging across the WGPS engine.
// Use these keys consistently across all log statements for log aggregation
// and querying.
const (
	// ========================================================================
	// Distributed Tracing
	// ========================================================================
	KeyTraceID = "trace_id" // OpenTelemetry trace ID for request correlation
	KeySpanID  = "span_id"  // OpenTelemetry span ID for operation tracking

	// ========================================================================
	// Session & Message
	// ========================================================================
	KeySessionRole = "session_role" // "alfie" or "betty" (spec.md §2)
	KeyPeerAddr    = "peer_addr"    // remote transport address
	KeyMessageKind = "message_kind" // message type being encoded/decoded
	KeyChannel     = "channel"      // logical channel name
	KeyHandle      = "handle"       // handle ID (opaque 64-bit, hex-formatted)
	KeyHandleKind  = "handle_kind"  // intersection, capability, area_of_interest, static_token
	KeyFragmentKind = "fragment_kind" // "primary" or "secondary" (spec.md §4.6)

	// ========================================================================
	// Namespace / Area
	// ========================================================================
	KeyNamespace = "namespace" // namespace identifier (hex-formatted)
	KeySubspace  = "subspace"  // subspace identifier (hex-formatted)
	KeyPath      = "path"      // entry path prefix

	// ========================================================================
	// Flow Control
	// ========================================================================
	KeyCredit     = "credit"     // outstanding guarantee balance
	KeyGuarantee  = "guarantee"  // guarantee amount in an IssueGuarantee/Plead
	KeyBacklogLen = "backlog_len" // queued-but-unsent bytes on a channel

	// ========================================================================
	// Operation Metadata
	// ========================================================================
	KeyDurationMs = "duration_ms" // operation duration in milliseconds
	KeyError      = "error"       // error message
	KeyErrorCode  = "error_code"  // numeric/sentinel error code
	KeyBytesRead  = "bytes_read"  // bytes consumed from the transport
	KeyBytesWritten = "bytes_written" // bytes written to the transport

	// ========================================================================
	// Session & Connection
	// ========================================================================
	KeySessionID    = "session_id"    // session identifier
	KeyConnectionID = "connection_id" // transport connection identifier
	KeyRequestID    = "request_id"    // correlates a request across channels
)

// ----------------------------------------------------------------------------
// Distributed Tracing
// ----------------------------------------------------------------------------

// TraceID returns a slog.Attr for OpenTelemetry trace ID
func TraceID(id string) slog.Attr {
	return slog.String(KeyTraceID, id)
}

// SpanID returns a slog.Attr for OpenTelemetry span ID
func SpanID(id string) slog.Attr {
	return slog.String(KeySpanID, id)
}

// ----------------------------------------------------------------------------
// Session & Message
// ----------------------------------------------------------------------------

// SessionRole returns a slog.Attr for the session's role ("alfie" or "betty").
func SessionRole(role string) slog.Attr {
	return slog.String(KeySessionRole, role)
}

// PeerAddr returns a slog.Attr for the remote transport address.
func PeerAddr(addr string) slog.Attr {
	return slog.String(KeyPeerAddr, addr)
}

// MessageKind returns a slog.Attr for the message type being processed.
func MessageKind(kind string) slog.Attr {
	return slog.String(KeyMessageKind, kind)
}

// Channel returns a slog.Attr for a logical channel name.
func Channel(name string) slog.Attr {
	return slog.String(KeyChannel, name)
}

// Handle returns a slog.Attr for a handle ID (formatted as hex).
func Handle(h uint64) slog.Attr {
	return slog.String(KeyHandle, fmt.Sprintf("%x", h))
}

// HandleKind returns a slog.Attr for a handle's kind.
func HandleKind(kind string) slog.Attr {
	return slog.String(KeyHandleKind, kind)
}

// FragmentKind returns a slog.Attr for a PAI fragment's kind.
func FragmentKind(kind string) slog.Attr {
	return slog.String(KeyFragmentKind, kind)
}

// ----------------------------------------------------------------------------
// Namespace / Area
// ----------------------------------------------------------------------------

// Namespace returns a slog.Attr for a namespace identifier (hex-formatted).
func Namespace(id []byte) slog.Attr {
	return slog.String(KeyNamespace, fmt.Sprintf("%x", id))
}

// Subspace returns a slog.Attr for a subspace identifier (hex-formatted).
func Subspace(id []byte) slog.Attr {
	return slog.String(KeySubspace, fmt.Sprintf("%x", id))
}

// Path returns a slog.Attr for an entry path prefix.
func Path(p []byte) slog.Attr {
	return slog.String(KeyPath, fmt.Sprintf("%x", p))
}

// ----------------------------------------------------------------------------
// Flow Control
// ----------------------------------------------------------------------------

// Credit returns a slog.Attr for an outstanding guarantee balance.
func Credit(amount uint64) slog.Attr {
	return slog.Uint64(KeyCredit, amount)
}

// Guarantee returns a slog.Attr for a guarantee amount.
func Guarantee(amount uint64) slog.Attr {
	return slog.Uint64(KeyGuarantee, amount)
}

// BacklogLen returns a slog.Attr for a channel's queued-but-unsent length.
func BacklogLen(n int) slog.Attr {
	return slog.Int(KeyBacklogLen, n)
}

// ----------------------------------------------------------------------------
// Operation Metadata
// ----------------------------------------------------------------------------

// DurationMs returns a slog.Attr for duration in milliseconds
func DurationMs(ms float64) slog.Attr {
	return slog.Float64(KeyDurationMs, ms)
}

// Err returns a slog.Attr for an error
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// ErrorCode returns a slog.Attr for a numeric/sentinel error code
func ErrorCode(code string) slog.Attr {
	return slog.String(KeyErrorCode, code)
}

// BytesRead returns a slog.Attr for bytes consumed from the transport
func BytesRead(n int) slog.Attr {
	return slog.Int(KeyBytesRead, n)
}

// BytesWritten returns a slog.Attr for bytes written to the transport
func BytesWritten(n int) slog.Attr {
	return slog.Int(KeyBytesWritten, n)
}

// ----------------------------------------------------------------------------
// Session & Connection
// ----------------------------------------------------------------------------

// SessionID returns a slog.Attr for session identifier
func SessionID(id string) slog.Attr {
	return slog.String(KeySessionID, id)
}

// ConnectionID returns a slog.Attr for connection identifier
func ConnectionID(id string) slog.Attr {
	return slog.String(KeyConnectionID, id)
}

// RequestID returns a slog.Attr for a request correlation ID
func RequestID(id string) slog.Attr {
	return slog.String(KeyRequestID, id)
}
