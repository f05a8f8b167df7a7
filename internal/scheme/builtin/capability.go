package builtin

import (
	"crypto/ed25519"
	"fmt"

	"github.com/marmos91/wgps/pkg/wgps"
)

// Capability is the default wgps.ReadCapability: an ed25519 public key
// (the receiver) granted an area within a namespace, authorised by the
// namespace owner's signature over (receiver || area).
type Capability struct {
	ReceiverKey ed25519.PublicKey
	Namespace   []byte
	Area        wgps.Area
	Signature   []byte
}

// IssueCapability signs a Capability on behalf of a namespace owner.
// namespaceKey must be the namespace's ed25519 private key.
func IssueCapability(namespaceKey ed25519.PrivateKey, receiver ed25519.PublicKey, area wgps.Area) Capability {
	namespace := namespaceKey.Public().(ed25519.PublicKey)
	cap := Capability{ReceiverKey: receiver, Namespace: namespace, Area: area}
	cap.Signature = ed25519.Sign(namespaceKey, cap.signedMessage())
	return cap
}

func (c Capability) signedMessage() []byte {
	dst := writeBytes(nil, c.ReceiverKey)
	dst = writeArea(dst, c.Area)
	return dst
}

func (c Capability) Receiver() []byte { return c.ReceiverKey }

func (c Capability) GrantedNamespace() []byte { return c.Namespace }

func (c Capability) GrantedArea() wgps.Area { return c.Area }

func (c Capability) IsValid() bool {
	if len(c.Namespace) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(c.Namespace), c.signedMessage(), c.Signature)
}

func writeArea(dst []byte, a wgps.Area) []byte {
	dst = append(dst, boolByte(a.SubspaceIsAny))
	dst = writeBytes(dst, a.Subspace)
	dst = writeUint(dst, uint64(len(a.PathPrefix)))
	for _, c := range a.PathPrefix {
		dst = writeBytes(dst, c)
	}
	dst = writeUint(dst, a.Times.Start)
	dst = writeUint(dst, a.Times.End)
	return dst
}

func readArea(b []byte) (wgps.Area, int, error) {
	if len(b) < 1 {
		return wgps.Area{}, 0, fmt.Errorf("builtin: short buffer reading area flag")
	}
	a := wgps.Area{SubspaceIsAny: b[0] != 0}
	offset := 1

	subspace, n, err := readBytes(b[offset:])
	if err != nil {
		return wgps.Area{}, 0, fmt.Errorf("builtin: area subspace: %w", err)
	}
	if len(subspace) > 0 {
		a.Subspace = subspace
	}
	offset += n

	count, n, err := readUint(b[offset:])
	if err != nil {
		return wgps.Area{}, 0, fmt.Errorf("builtin: area path prefix count: %w", err)
	}
	offset += n

	a.PathPrefix = make([][]byte, 0, count)
	for i := uint64(0); i < count; i++ {
		component, n, err := readBytes(b[offset:])
		if err != nil {
			return wgps.Area{}, 0, fmt.Errorf("builtin: area path component %d: %w", i, err)
		}
		a.PathPrefix = append(a.PathPrefix, component)
		offset += n
	}

	start, n, err := readUint(b[offset:])
	if err != nil {
		return wgps.Area{}, 0, fmt.Errorf("builtin: area time range start: %w", err)
	}
	offset += n

	end, n, err := readUint(b[offset:])
	if err != nil {
		return wgps.Area{}, 0, fmt.Errorf("builtin: area time range end: %w", err)
	}
	offset += n

	a.Times = wgps.TimeRange{Start: start, End: end}
	return a, offset, nil
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// accessControlScheme is the default AccessControlScheme: ed25519-signed
// capabilities, encoded relative to a privy namespace (the signature
// itself still carries the full area, so the relative encoding here saves
// only the redundant namespace field, not a full delta against outer).
type accessControlScheme struct{}

// AccessControl returns the default AccessControlScheme.
func AccessControl() wgps.AccessControlScheme { return accessControlScheme{} }

func (accessControlScheme) GetReceiver(cap wgps.ReadCapability) []byte { return cap.Receiver() }

func (accessControlScheme) GetGrantedArea(cap wgps.ReadCapability) wgps.Area { return cap.GrantedArea() }

func (accessControlScheme) GetGrantedNamespace(cap wgps.ReadCapability) []byte {
	return cap.GrantedNamespace()
}

func (accessControlScheme) IsValidCapability(cap wgps.ReadCapability) bool { return cap.IsValid() }

func (accessControlScheme) EncodeCapability(cap wgps.ReadCapability, outer wgps.Area, namespace []byte) []byte {
	c, ok := cap.(Capability)
	if !ok {
		return nil
	}
	dst := writeBytes(nil, c.ReceiverKey)
	dst = writeArea(dst, c.Area)
	dst = writeBytes(dst, c.Signature)
	return dst
}

func (accessControlScheme) DecodeCapability(b []byte, outer wgps.Area, namespace []byte) (wgps.ReadCapability, int, error) {
	receiver, n, err := readBytes(b)
	if err != nil {
		return nil, 0, fmt.Errorf("builtin: capability receiver: %w", err)
	}
	offset := n

	area, n, err := readArea(b[offset:])
	if err != nil {
		return nil, 0, err
	}
	offset += n

	sig, n, err := readBytes(b[offset:])
	if err != nil {
		return nil, 0, fmt.Errorf("builtin: capability signature: %w", err)
	}
	offset += n

	ns := make([]byte, len(namespace))
	copy(ns, namespace)

	return Capability{
		ReceiverKey: ed25519.PublicKey(receiver),
		Namespace:   ns,
		Area:        area,
		Signature:   sig,
	}, offset, nil
}

func (accessControlScheme) EncodeSyncSignature(sig []byte) []byte { return writeBytes(nil, sig) }

func (accessControlScheme) DecodeSyncSignature(b []byte) ([]byte, int, error) { return readBytes(b) }

var _ wgps.ReadCapability = Capability{}
