// Package builtin is the default bundle of application-supplied scheme
// parameters (spec.md §6): namespace/subspace/payload-digest identity
// codecs, path encoding, and ed25519-signature-backed read and subspace
// capabilities. cmd/wgpsd wires a wgps.SessionSchemes from this package
// when an embedder hasn't supplied its own, the same role
// internal/pai/group plays for the PAI group itself — a concrete default
// behind an interface the engine treats as opaque.
package builtin

import (
	"bytes"
	"fmt"

	"github.com/marmos91/wgps/internal/compactwidth"
	"github.com/marmos91/wgps/pkg/wgps"
)

// writeUint appends a width-tag byte followed by n's compact-width
// encoding, matching internal/wire's own integer framing (spec.md §4.2).
func writeUint(dst []byte, n uint64) []byte {
	w := compactwidth.Of(n)
	dst = append(dst, w.Tag())
	dst, _ = compactwidth.EncodeWidth(dst, n, w)
	return dst
}

// readUint reads a width-tagged integer from the front of b, returning the
// decoded value and the number of bytes consumed.
func readUint(b []byte) (uint64, int, error) {
	if len(b) < 1 {
		return 0, 0, fmt.Errorf("builtin: short buffer reading uint tag")
	}
	w := compactwidth.FromEndOfByte(b[0])
	n, err := compactwidth.Decode(b[1:], w)
	if err != nil {
		return 0, 0, err
	}
	return n, 1 + int(w), nil
}

// writeBytes appends a length-prefixed byte blob.
func writeBytes(dst []byte, b []byte) []byte {
	dst = writeUint(dst, uint64(len(b)))
	return append(dst, b...)
}

// readBytes reads a length-prefixed byte blob from the front of b.
func readBytes(b []byte) ([]byte, int, error) {
	n, consumed, err := readUint(b)
	if err != nil {
		return nil, 0, err
	}
	if uint64(len(b)-consumed) < n {
		return nil, 0, fmt.Errorf("builtin: short buffer reading %d-byte blob", n)
	}
	out := make([]byte, n)
	copy(out, b[consumed:consumed+int(n)])
	return out, consumed + int(n), nil
}

// identityScheme backs NamespaceScheme, SubspaceScheme and
// PayloadDigestScheme: all three are, per spec.md §6, identically-shaped
// opaque byte identifiers that only need encode/decode/compare.
type identityScheme struct{}

// Namespace returns the default NamespaceScheme: namespaces are opaque
// byte identifiers (in practice an ed25519 public key) compared for exact
// equality.
func Namespace() wgps.NamespaceScheme { return identityScheme{} }

// Subspace returns the default SubspaceScheme: subspace ids are opaque
// byte identifiers with lexicographic ordering.
func Subspace() wgps.SubspaceScheme { return identityScheme{} }

// PayloadDigest returns the default PayloadDigestScheme: digests are
// opaque byte strings (in practice the hash produced by whatever payload
// digest function the store uses) compared for exact equality.
func PayloadDigest() wgps.PayloadDigestScheme { return identityScheme{} }

func (identityScheme) Encode(b []byte) []byte { return writeBytes(nil, b) }

func (identityScheme) Decode(b []byte) ([]byte, int, error) { return readBytes(b) }

func (identityScheme) IsEqual(a, b []byte) bool { return bytes.Equal(a, b) }

func (identityScheme) Order(a, b []byte) int { return bytes.Compare(a, b) }
