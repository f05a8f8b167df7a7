// Package group provides the default PaiScheme: a Diffie-Hellman-style
// commutative blinding group built on Curve25519's X25519 scalar
// multiplication (golang.org/x/crypto/curve25519). X25519's scalar
// multiplication is exactly the primitive PAI needs — it commutes
// (scalar_mult(scalar_mult(P,a),b) == scalar_mult(scalar_mult(P,b),a)) —
// so this package supplies fragment hashing and scalar generation around
// it rather than inventing a new group.
package group

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/curve25519"

	"github.com/marmos91/wgps/pkg/wgps"
)

// Element is a 32-byte Curve25519 u-coordinate, opaque to PAI callers.
type Element [32]byte

func (Element) paiGroupElement() {}

// Bytes returns the group-member encoding of e.
func (e Element) Bytes() []byte { return e[:] }

// Secret is a 32-byte scalar used to blind group elements.
type Secret [32]byte

func (Secret) paiScalar() {}

// Scheme is the concrete wgps.PaiScheme backed by Curve25519.
type Scheme struct{}

// New returns a ready-to-use Curve25519-backed PaiScheme.
func New() *Scheme { return &Scheme{} }

// FragmentToGroup hashes a fragment's canonical byte encoding into a
// 32-byte u-coordinate. RFC 7748 permits any 32-byte string as a valid
// X25519 input point, so a plain SHA-256 digest of the fragment's encoding
// serves as hash_into_group; golang.org/x/crypto ships no dedicated
// hash-to-curve primitive for X25519, so this uses the standard library's
// crypto/sha256 for the hash step only (see DESIGN.md).
func (Scheme) FragmentToGroup(f wgps.Fragment) (wgps.GroupElement, error) {
	h := sha256.New()
	h.Write(f.Namespace)
	if f.HasSubspace {
		h.Write([]byte{1})
		h.Write(f.Subspace)
	} else {
		h.Write([]byte{0})
	}
	for _, component := range f.Path {
		var lenPrefix [8]byte
		n := uint64(len(component))
		for i := 0; i < 8; i++ {
			lenPrefix[7-i] = byte(n)
			n >>= 8
		}
		h.Write(lenPrefix[:])
		h.Write(component)
	}

	var e Element
	copy(e[:], h.Sum(nil))
	return e, nil
}

// GetScalar generates a fresh random blinding scalar.
func (Scheme) GetScalar() (wgps.Scalar, error) {
	var s Secret
	if _, err := rand.Read(s[:]); err != nil {
		return nil, fmt.Errorf("group: generate scalar: %w", err)
	}
	return s, nil
}

// ScalarMult blinds g with s via X25519 scalar multiplication.
func (Scheme) ScalarMult(g wgps.GroupElement, s wgps.Scalar) (wgps.GroupElement, error) {
	elem, ok := g.(Element)
	if !ok {
		return nil, fmt.Errorf("group: unexpected group element type %T", g)
	}
	secret, ok := s.(Secret)
	if !ok {
		return nil, fmt.Errorf("group: unexpected scalar type %T", s)
	}

	dst, err := curve25519.X25519(secret[:], elem[:])
	if err != nil {
		return nil, fmt.Errorf("group: scalar mult: %w", err)
	}
	var out Element
	copy(out[:], dst)
	return out, nil
}

// IsGroupEqual compares two group elements for equality.
func (Scheme) IsGroupEqual(a, b wgps.GroupElement) bool {
	ea, ok := a.(Element)
	if !ok {
		return false
	}
	eb, ok := b.(Element)
	if !ok {
		return false
	}
	return ea == eb
}

// GetFragmentKit derives the FragmentKit for cap: "selective" (primary
// triples + secondary pairs) when the granted area names a specific
// subspace, "complete" (pairs only) when it is ANY_SUBSPACE (spec.md §4.6
// step 1).
func (Scheme) GetFragmentKit(cap wgps.ReadCapability) (wgps.FragmentKit, error) {
	if cap == nil {
		return wgps.FragmentKit{}, fmt.Errorf("group: nil capability")
	}
	area := cap.GrantedArea()
	ns := cap.GrantedNamespace()

	prefixLengths := len(area.PathPrefix) + 1

	if area.SubspaceIsAny {
		primary := make([]wgps.Fragment, 0, prefixLengths)
		for n := 0; n < prefixLengths; n++ {
			primary = append(primary, wgps.Fragment{
				Namespace:   ns,
				HasSubspace: false,
				Path:        area.PathPrefix[:n],
			})
		}
		return wgps.FragmentKit{Selective: false, Primary: primary}, nil
	}

	primary := make([]wgps.Fragment, 0, prefixLengths)
	secondary := make([]wgps.Fragment, 0, prefixLengths)
	for n := 0; n < prefixLengths; n++ {
		path := area.PathPrefix[:n]
		primary = append(primary, wgps.Fragment{
			Namespace:   ns,
			HasSubspace: true,
			Subspace:    area.Subspace,
			Path:        path,
		})
		secondary = append(secondary, wgps.Fragment{
			Namespace:   ns,
			HasSubspace: false,
			Path:        path,
		})
	}
	return wgps.FragmentKit{Selective: true, Primary: primary, Secondary: secondary}, nil
}

// EncodeGroupMember returns the group-member wire encoding of g.
func (Scheme) EncodeGroupMember(g wgps.GroupElement) []byte {
	elem, ok := g.(Element)
	if !ok {
		return nil
	}
	return elem.Bytes()
}

// DecodeGroupMember parses a group-member wire encoding.
func (Scheme) DecodeGroupMember(b []byte) (wgps.GroupElement, error) {
	if len(b) != 32 {
		return nil, fmt.Errorf("group: group member must be 32 bytes, got %d", len(b))
	}
	var e Element
	copy(e[:], b)
	return e, nil
}

// GroupElementSize returns 32, the fixed width of a Curve25519 field
// element.
func (Scheme) GroupElementSize() int {
	return 32
}
