package builtin

import (
	"crypto/ed25519"
	"fmt"

	"github.com/marmos91/wgps/pkg/wgps"
)

// SubspaceCap is the default wgps.SubspaceCapability: an ed25519 public
// key granted enumeration rights over an entire namespace's subspaces,
// authorised by the namespace owner's signature over the receiver key.
type SubspaceCap struct {
	ReceiverKey ed25519.PublicKey
	Namespace   []byte
	Signature   []byte
}

// IssueSubspaceCap signs a SubspaceCap on behalf of a namespace owner.
func IssueSubspaceCap(namespaceKey ed25519.PrivateKey, receiver ed25519.PublicKey) SubspaceCap {
	namespace := namespaceKey.Public().(ed25519.PublicKey)
	cap := SubspaceCap{ReceiverKey: receiver, Namespace: namespace}
	cap.Signature = ed25519.Sign(namespaceKey, cap.ReceiverKey)
	return cap
}

func (c SubspaceCap) Receiver() []byte { return c.ReceiverKey }

func (c SubspaceCap) GrantedNamespace() []byte { return c.Namespace }

func (c SubspaceCap) isValid() bool {
	if len(c.Namespace) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(c.Namespace), c.ReceiverKey, c.Signature)
}

// subspaceCapScheme is the default SubspaceCapScheme.
type subspaceCapScheme struct{}

// SubspaceCapability returns the default SubspaceCapScheme.
func SubspaceCapability() wgps.SubspaceCapScheme { return subspaceCapScheme{} }

func (subspaceCapScheme) GetReceiver(cap wgps.SubspaceCapability) []byte { return cap.Receiver() }

func (subspaceCapScheme) GetGrantedNamespace(cap wgps.SubspaceCapability) []byte {
	return cap.GrantedNamespace()
}

func (subspaceCapScheme) IsValidCapability(cap wgps.SubspaceCapability) bool {
	c, ok := cap.(SubspaceCap)
	if !ok {
		return false
	}
	return c.isValid()
}

func (subspaceCapScheme) Encode(cap wgps.SubspaceCapability) []byte {
	c, ok := cap.(SubspaceCap)
	if !ok {
		return nil
	}
	dst := writeBytes(nil, c.ReceiverKey)
	dst = writeBytes(dst, c.Namespace)
	dst = writeBytes(dst, c.Signature)
	return dst
}

func (subspaceCapScheme) Decode(b []byte) (wgps.SubspaceCapability, int, error) {
	receiver, n, err := readBytes(b)
	if err != nil {
		return nil, 0, fmt.Errorf("builtin: subspace cap receiver: %w", err)
	}
	offset := n

	namespace, n, err := readBytes(b[offset:])
	if err != nil {
		return nil, 0, fmt.Errorf("builtin: subspace cap namespace: %w", err)
	}
	offset += n

	sig, n, err := readBytes(b[offset:])
	if err != nil {
		return nil, 0, fmt.Errorf("builtin: subspace cap signature: %w", err)
	}
	offset += n

	return SubspaceCap{
		ReceiverKey: ed25519.PublicKey(receiver),
		Namespace:   namespace,
		Signature:   sig,
	}, offset, nil
}

var _ wgps.SubspaceCapability = SubspaceCap{}
