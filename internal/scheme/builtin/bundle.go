package builtin

import (
	"github.com/marmos91/wgps/internal/pai/group"
	"github.com/marmos91/wgps/pkg/wgps"
)

// Bundle returns a complete default wgps.SessionSchemes: the Curve25519
// PAI group (internal/pai/group) plus the ed25519-signed capability and
// identity codecs in this package. cmd/wgpsd uses this bundle unless an
// embedder swaps in its own schemes.
func Bundle() wgps.SessionSchemes {
	return wgps.SessionSchemes{
		Namespace:     Namespace(),
		Subspace:      Subspace(),
		PayloadDigest: PayloadDigest(),
		Path:          Path(),
		Pai:           group.New(),
		AccessControl: AccessControl(),
		SubspaceCap:   SubspaceCapability(),
		AuthToken:     AuthorisationToken(),
		Fingerprint:   Fingerprint(),
	}
}
