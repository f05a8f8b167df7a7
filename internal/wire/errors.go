package wire

import "errors"

// ErrDecode is a fatal decode error: malformed tag, impossible flag
// combination, or underflow on close (spec.md §7).
var ErrDecode = errors.New("wire: decode error")

// ErrProtocolValidation is a fatal protocol-validation error: a reference
// to an unknown handle, or a message that violates ordering invariants
// (spec.md §7).
var ErrProtocolValidation = errors.New("wire: protocol validation error")
