package logger

import (
	"context"
	"time"
)

// contextKey is a private type for context keys to avoid collisions
type contextKey struct{}

// logContextKey is the key for LogContext in context.Context
var logContextKey = contextKey{}

// LogContext holds session-scoped logging context: which side of the
// exchange this process is playing, which peer it is talking to, and which
// message is currently being processed (spec.md §4.1, §4.5).
type LogContext struct {
	TraceID     string    // OpenTelemetry trace ID
	SpanID      string    // OpenTelemetry span ID
	SessionRole string    // "alfie" or "betty" (spec.md §2)
	PeerAddr    string    // remote address of the session's transport
	MessageKind string    // message type currently being encoded/decoded
	Channel     string    // logical channel the message belongs to
	StartTime   time.Time // for duration calculation
}

// WithContext returns a new context with the given LogContext
func WithContext(ctx context.Context, lc *LogContext) context.Context {
	return context.WithValue(ctx, logContextKey, lc)
}

// FromContext retrieves the LogContext from context, or nil if not present
func FromContext(ctx context.Context) *LogContext {
	if ctx == nil {
		return nil
	}
	lc, _ := ctx.Value(logContextKey).(*LogContext)
	return lc
}

// NewLogContext creates a new LogContext for a session with the given peer.
func NewLogContext(sessionRole, peerAddr string) *LogContext {
	return &LogContext{
		SessionRole: sessionRole,
		PeerAddr:    peerAddr,
		StartTime:   time.Now(),
	}
}

// Clone creates a copy of the LogContext
func (lc *LogContext) Clone() *LogContext {
	if lc == nil {
		return nil
	}
	return &LogContext{
		TraceID:     lc.TraceID,
		SpanID:      lc.SpanID,
		SessionRole: lc.SessionRole,
		PeerAddr:    lc.PeerAddr,
		MessageKind: lc.MessageKind,
		Channel:     lc.Channel,
		StartTime:   lc.StartTime,
	}
}

// WithMessageKind returns a copy with the message kind set.
func (lc *LogContext) WithMessageKind(kind string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.MessageKind = kind
	}
	return clone
}

// WithChannel returns a copy with the logical channel set.
func (lc *LogContext) WithChannel(channel string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.Channel = channel
	}
	return clone
}

// WithTrace returns a copy with trace info set
func (lc *LogContext) WithTrace(traceID, spanID string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.TraceID = traceID
		clone.SpanID = spanID
	}
	return clone
}

// DurationMs returns the duration since StartTime in milliseconds
func (lc *LogContext) DurationMs() float64 {
	if lc == nil || lc.StartTime.IsZero() {
		return 0
	}
	return float64(time.Since(lc.StartTime).Microseconds()) / 1000.0
}
