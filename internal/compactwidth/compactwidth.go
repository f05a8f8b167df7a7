// Package compactwidth implements the variable-width unsigned integer
// encoding shared by every message in the WGPS wire format (spec.md §4.2): a
// non-negative integer is written in the smallest of {1, 2, 4, 8} bytes,
// big-endian, that fits it, with the width recorded as a 2-bit tag.
package compactwidth

import (
	"encoding/binary"
	"fmt"
)

// Width is one of the four permitted encoding widths.
type Width int

const (
	Width1 Width = 1
	Width2 Width = 2
	Width4 Width = 4
	Width8 Width = 8
)

// Tag returns the 2-bit width tag for w: 1→0b00, 2→0b01, 4→0b10, 8→0b11.
func (w Width) Tag() byte {
	switch w {
	case Width1:
		return 0b00
	case Width2:
		return 0b01
	case Width4:
		return 0b10
	case Width8:
		return 0b11
	default:
		panic(fmt.Sprintf("compactwidth: invalid width %d", w))
	}
}

// FromEndOfByte decodes a width tag occupying the two low bits of a framing
// byte: compact_width_from_end_of_byte(b) = 1 << (b & 0b11).
func FromEndOfByte(b byte) Width {
	return 1 << (b & 0b11)
}

// Of returns the smallest width that can represent n.
func Of(n uint64) Width {
	switch {
	case n <= 0xff:
		return Width1
	case n <= 0xffff:
		return Width2
	case n <= 0xffffffff:
		return Width4
	default:
		return Width8
	}
}

// Encode appends n to dst in its minimal width, returning the new slice.
func Encode(dst []byte, n uint64) []byte {
	switch Of(n) {
	case Width1:
		return append(dst, byte(n))
	case Width2:
		var b [2]byte
		binary.BigEndian.PutUint16(b[:], uint16(n))
		return append(dst, b[:]...)
	case Width4:
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], uint32(n))
		return append(dst, b[:]...)
	default:
		var b [8]byte
		binary.BigEndian.PutUint64(b[:], n)
		return append(dst, b[:]...)
	}
}

// EncodeWidth appends n to dst using exactly w bytes; n must fit in w bytes.
func EncodeWidth(dst []byte, n uint64, w Width) ([]byte, error) {
	if Of(n) > w {
		return nil, fmt.Errorf("compactwidth: %d does not fit in width %d", n, w)
	}
	switch w {
	case Width1:
		return append(dst, byte(n)), nil
	case Width2:
		var b [2]byte
		binary.BigEndian.PutUint16(b[:], uint16(n))
		return append(dst, b[:]...), nil
	case Width4:
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], uint32(n))
		return append(dst, b[:]...), nil
	case Width8:
		var b [8]byte
		binary.BigEndian.PutUint64(b[:], n)
		return append(dst, b[:]...), nil
	default:
		return nil, fmt.Errorf("compactwidth: invalid width %d", w)
	}
}

// Decode reads a compact-width integer of width w from the front of src.
// src must hold at least int(w) bytes.
func Decode(src []byte, w Width) (uint64, error) {
	if len(src) < int(w) {
		return 0, fmt.Errorf("compactwidth: need %d bytes, have %d", w, len(src))
	}
	switch w {
	case Width1:
		return uint64(src[0]), nil
	case Width2:
		return uint64(binary.BigEndian.Uint16(src[:2])), nil
	case Width4:
		return uint64(binary.BigEndian.Uint32(src[:4])), nil
	case Width8:
		return binary.BigEndian.Uint64(src[:8]), nil
	default:
		return 0, fmt.Errorf("compactwidth: invalid width %d", w)
	}
}
