package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys for WGPS session spans, following OpenTelemetry semantic
// convention style (dotted, component-scoped names).
const (
	// ========================================================================
	// Session attributes
	// ========================================================================
	AttrSessionRole = "wgps.session.role" // "alfie" or "betty" (spec.md §2)
	AttrPeerAddr    = "wgps.session.peer_addr"
	AttrSessionID   = "wgps.session.id"

	// ========================================================================
	// Message codec attributes
	// ========================================================================
	AttrMessageKind = "wgps.message.kind"
	AttrChannel     = "wgps.channel"
	AttrByteLength  = "wgps.message.byte_length"

	// ========================================================================
	// Handle store attributes
	// ========================================================================
	AttrHandle     = "wgps.handle.id"
	AttrHandleKind = "wgps.handle.kind"

	// ========================================================================
	// PAI attributes
	// ========================================================================
	AttrFragmentKind     = "wgps.pai.fragment_kind" // "primary" or "secondary"
	AttrIntersectionArea = "wgps.pai.outer_area"

	// ========================================================================
	// Namespace / area attributes
	// ========================================================================
	AttrNamespace = "wgps.namespace"
	AttrSubspace  = "wgps.subspace"
	AttrPath      = "wgps.path"

	// ========================================================================
	// Flow control attributes
	// ========================================================================
	AttrCredit    = "wgps.channel.credit"
	AttrGuarantee = "wgps.channel.guarantee"
	AttrBacklog   = "wgps.channel.backlog_len"

	// ========================================================================
	// Reconciliation attributes
	// ========================================================================
	AttrEntryCount   = "wgps.reconciliation.entry_count"
	AttrRangeRelative = "wgps.reconciliation.range_relative"
)

// Span names for session operations.
const (
	SpanSessionHandshake = "wgps.session.handshake"
	SpanSessionRun       = "wgps.session.run"

	SpanCodecDecode = "wgps.codec.decode"
	SpanCodecEncode = "wgps.codec.encode"

	SpanPaiSubmit       = "wgps.pai.submit_authorisation"
	SpanPaiReceivedBind = "wgps.pai.received_bind"

	SpanReconcileSendFingerprint    = "wgps.reconciliation.send_fingerprint"
	SpanReconcileAnnounceEntries    = "wgps.reconciliation.announce_entries"
	SpanReconcileSendEntry          = "wgps.reconciliation.send_entry"

	SpanChannelGrant  = "wgps.channel.grant"
	SpanChannelAdmit  = "wgps.channel.admit"
	SpanHandleBind    = "wgps.handle.bind"
	SpanHandleFree    = "wgps.handle.free"
)

// SessionRole returns an attribute for which side of the handshake this
// session is playing.
func SessionRole(role string) attribute.KeyValue {
	return attribute.String(AttrSessionRole, role)
}

// PeerAddr returns an attribute for the remote transport address.
func PeerAddr(addr string) attribute.KeyValue {
	return attribute.String(AttrPeerAddr, addr)
}

// SessionID returns an attribute for a session identifier.
func SessionID(id string) attribute.KeyValue {
	return attribute.String(AttrSessionID, id)
}

// MessageKind returns an attribute for the message kind being encoded or
// decoded.
func MessageKind(kind string) attribute.KeyValue {
	return attribute.String(AttrMessageKind, kind)
}

// Channel returns an attribute for a logical channel name.
func Channel(name string) attribute.KeyValue {
	return attribute.String(AttrChannel, name)
}

// ByteLength returns an attribute for an encoded message's length in bytes.
func ByteLength(n int) attribute.KeyValue {
	return attribute.Int(AttrByteLength, n)
}

// Handle returns an attribute for a handle ID, hex-formatted.
func Handle(h uint64) attribute.KeyValue {
	return attribute.String(AttrHandle, fmt.Sprintf("%x", h))
}

// HandleKind returns an attribute for a handle's kind.
func HandleKind(kind string) attribute.KeyValue {
	return attribute.String(AttrHandleKind, kind)
}

// FragmentKind returns an attribute for a PAI fragment's kind ("primary" or
// "secondary").
func FragmentKind(kind string) attribute.KeyValue {
	return attribute.String(AttrFragmentKind, kind)
}

// Namespace returns an attribute for a namespace identifier, hex-formatted.
func Namespace(id []byte) attribute.KeyValue {
	return attribute.String(AttrNamespace, fmt.Sprintf("%x", id))
}

// Subspace returns an attribute for a subspace identifier, hex-formatted.
func Subspace(id []byte) attribute.KeyValue {
	return attribute.String(AttrSubspace, fmt.Sprintf("%x", id))
}

// Credit returns an attribute for a channel's outstanding credit.
func Credit(amount uint64) attribute.KeyValue {
	return attribute.Int64(AttrCredit, int64(amount))
}

// Guarantee returns an attribute for a guarantee amount in an
// IssueGuarantee/Plead.
func Guarantee(amount uint64) attribute.KeyValue {
	return attribute.Int64(AttrGuarantee, int64(amount))
}

// BacklogLen returns an attribute for a channel's queued-but-unsent frame
// count.
func BacklogLen(n int) attribute.KeyValue {
	return attribute.Int(AttrBacklog, n)
}

// EntryCount returns an attribute for an AnnounceEntries batch size.
func EntryCount(n uint64) attribute.KeyValue {
	return attribute.Int64(AttrEntryCount, int64(n))
}

// RangeRelative returns an attribute for whether a reconciliation message's
// range was back-referenced.
func RangeRelative(relative bool) attribute.KeyValue {
	return attribute.Bool(AttrRangeRelative, relative)
}

// StartSessionSpan starts a span for a session-level operation (handshake,
// the main run loop).
func StartSessionSpan(ctx context.Context, name, role string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := append([]attribute.KeyValue{SessionRole(role)}, attrs...)
	return StartSpan(ctx, name, trace.WithAttributes(allAttrs...))
}

// StartCodecSpan starts a span for encoding or decoding one wire message.
func StartCodecSpan(ctx context.Context, name, kind string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := append([]attribute.KeyValue{MessageKind(kind)}, attrs...)
	return StartSpan(ctx, name, trace.WithAttributes(allAttrs...))
}

// StartChannelSpan starts a span for a logical-channel flow control
// operation.
func StartChannelSpan(ctx context.Context, name string, channel string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := append([]attribute.KeyValue{Channel(channel)}, attrs...)
	return StartSpan(ctx, name, trace.WithAttributes(allAttrs...))
}

// StartPaiSpan starts a span for a PAI finder operation.
func StartPaiSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return StartSpan(ctx, name, trace.WithAttributes(attrs...))
}
