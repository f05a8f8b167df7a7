package builtin

import "fmt"

// fingerprintSize is the width of a sha256-based fingerprint, matching
// the payload digest scheme's hash output so a store can derive one from
// the other without a second hash function.
const fingerprintSize = 32

// fingerprintScheme is the default FingerprintScheme: fixed-width,
// fixed-size byte strings with an all-zero neutral element. The
// reconciliation algorithm that combines fingerprints via the commutative
// sum the scheme implies is an external collaborator (spec.md §1
// Non-goals); this only needs to move the bytes across the wire.
type fingerprintScheme struct{}

// Fingerprint returns the default FingerprintScheme.
func Fingerprint() fingerprintScheme { return fingerprintScheme{} }

func (fingerprintScheme) NeutralElement() []byte {
	return make([]byte, fingerprintSize)
}

func (fingerprintScheme) Encode(fp []byte) []byte {
	dst := make([]byte, fingerprintSize)
	copy(dst, fp)
	return dst
}

func (fingerprintScheme) Decode(b []byte) ([]byte, int, error) {
	if len(b) < fingerprintSize {
		return nil, 0, fmt.Errorf("builtin: short buffer reading fingerprint, need %d have %d", fingerprintSize, len(b))
	}
	dst := make([]byte, fingerprintSize)
	copy(dst, b[:fingerprintSize])
	return dst, fingerprintSize, nil
}
