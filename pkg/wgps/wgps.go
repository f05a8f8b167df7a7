// Package wgps defines the public, importable contracts of the Willow
// General Purpose Sync Protocol engine: the transport a session runs over,
// and the cryptographic/encoding "parameter schemes" a session is
// configured with (spec.md §6). Everything in this package is interfaces
// and plain data — no I/O, no global state — so that applications can
// supply their own namespace/subspace/path/capability implementations
// without importing engine internals.
package wgps

import "context"

// Role identifies which side of a session a peer is playing.
type Role int

const (
	RoleAlfie Role = iota // initiator
	RoleBetty             // responder
)

func (r Role) String() string {
	if r == RoleAlfie {
		return "alfie"
	}
	return "betty"
}

// Transport is the bidirectional byte stream a session is wired to. It is
// the sole required external collaborator named in spec.md §6; this engine
// never assumes TCP, QUIC, or any other concrete carrier.
type Transport interface {
	// Send writes bytes to the peer, blocking until accepted by the
	// underlying carrier or ctx is cancelled.
	Send(ctx context.Context, b []byte) error

	// Recv returns the next chunk of bytes from the peer. It returns
	// io.EOF once the peer has closed the connection cleanly.
	Recv(ctx context.Context) ([]byte, error)

	// Close closes the transport in both directions.
	Close() error

	// IsClosed reports whether Close has been called or the peer has
	// closed the connection.
	IsClosed() bool

	// Role reports which side of the handshake this transport represents.
	Role() Role
}

// Channel enumerates the seven logical channels defined in spec.md §4.4.
type Channel int

const (
	ChannelReconciliation Channel = iota
	ChannelData
	ChannelIntersection
	ChannelCapability
	ChannelAreaOfInterest
	ChannelPayloadRequest
	ChannelStaticToken
	channelCount
)

func (c Channel) String() string {
	switch c {
	case ChannelReconciliation:
		return "reconciliation"
	case ChannelData:
		return "data"
	case ChannelIntersection:
		return "intersection"
	case ChannelCapability:
		return "capability"
	case ChannelAreaOfInterest:
		return "area_of_interest"
	case ChannelPayloadRequest:
		return "payload_request"
	case ChannelStaticToken:
		return "static_token"
	default:
		return "unknown"
	}
}

// NumChannels is the number of logical channels a session multiplexes.
const NumChannels = int(channelCount)

// OpenEnd is the sentinel time-range upper bound meaning "no upper bound"
// (spec.md Glossary: OPEN_END).
const OpenEnd uint64 = ^uint64(0)

// TimeRange is a half-open [Start, End) range of entry timestamps. End ==
// OpenEnd means unbounded.
type TimeRange struct {
	Start uint64
	End    uint64
}

// IsOpen reports whether the range has no upper bound.
func (t TimeRange) IsOpen() bool { return t.End == OpenEnd }

// Area is a subspace, path prefix and time range within a namespace.
// SubspaceIsAny=true, with a nil Subspace, is the sentinel meaning "any
// subspace" (spec.md Glossary: ANY_SUBSPACE). Concrete subspace identifiers
// are scheme-defined byte encodings.
type Area struct {
	SubspaceIsAny bool
	Subspace      []byte
	PathPrefix    [][]byte
	Times         TimeRange
}

// AreaOfInterest is a 3-D region plus an optional budget (Glossary).
type AreaOfInterest struct {
	Area     Area
	MaxCount uint64 // 0 means unbounded
	MaxSize  uint64 // 0 means unbounded
}

// Fragment is a PAI fragment: either a (namespace, path) pair ("secondary",
// when a subspace-specific triple also exists) or a (namespace, subspace,
// path) triple ("primary"). Exactly one of the two shapes is populated,
// discriminated by HasSubspace.
type Fragment struct {
	Namespace   []byte
	HasSubspace bool
	Subspace    []byte
	Path        [][]byte
}

// FragmentKit is the result of deriving fragments from a capability
// (spec.md §4.6). Selective kits carry both primary (subspace-specific)
// triples and secondary (subspace-less) pairs; complete kits carry only the
// pair form, modelled here as Primary with HasSubspace=false throughout.
type FragmentKit struct {
	Selective bool
	Primary   []Fragment
	Secondary []Fragment // populated only when Selective
}

// ReadCapability grants the reader rights to an Area of a namespace.
type ReadCapability interface {
	Receiver() []byte
	GrantedNamespace() []byte
	GrantedArea() Area
	IsValid() bool
}

// SubspaceCapability grants the reader rights to enumerate a single
// subspace's entries, independent of any particular area.
type SubspaceCapability interface {
	Receiver() []byte
	GrantedNamespace() []byte
}

// ReadAuthorisation is supplied by the application to PAI's
// submit_authorisation (spec.md §4.6, Data Model). The subspace variant is
// only present for authorisations whose granted area has subspace = ANY.
type ReadAuthorisation struct {
	Capability         ReadCapability
	SubspaceCapability SubspaceCapability // nil unless Capability's area is ANY_SUBSPACE
}

// PaiScheme supplies the cryptographic group operations PAI is blind to
// (spec.md §6). GroupElement and Scalar are opaque to the engine; a
// concrete implementation (e.g. internal/pai/group) fixes their
// representation.
type PaiScheme interface {
	FragmentToGroup(f Fragment) (GroupElement, error)
	GetScalar() (Scalar, error)
	ScalarMult(g GroupElement, s Scalar) (GroupElement, error)
	IsGroupEqual(a, b GroupElement) bool
	GetFragmentKit(cap ReadCapability) (FragmentKit, error)
	EncodeGroupMember(g GroupElement) []byte
	DecodeGroupMember(b []byte) (GroupElement, error)
	// GroupElementSize reports the fixed encoded width of a GroupElement,
	// so the wire codec can read one without a length prefix.
	GroupElementSize() int
}

// GroupElement is an opaque element of the PAI group.
type GroupElement interface{ paiGroupElement() }

// Scalar is an opaque scalar used to blind a GroupElement.
type Scalar interface{ paiScalar() }

// NamespaceScheme, SubspaceScheme and PayloadDigestScheme are the three
// identically-shaped parameter codecs named in spec.md §6: encode/decode a
// domain value, compare for equality, and (subspace only) provide a total
// order.
type NamespaceScheme interface {
	Encode(ns []byte) []byte
	Decode(b []byte) ([]byte, int, error)
	IsEqual(a, b []byte) bool
}

type SubspaceScheme interface {
	Encode(sub []byte) []byte
	Decode(b []byte) ([]byte, int, error)
	IsEqual(a, b []byte) bool
	Order(a, b []byte) int
}

type PayloadDigestScheme interface {
	Encode(digest []byte) []byte
	Decode(b []byte) ([]byte, int, error)
	IsEqual(a, b []byte) bool
}

// PathScheme bounds path component/total length and provides encoding
// helpers for a Path ([][]byte).
type PathScheme interface {
	MaxComponentLength() int
	MaxComponentCount() int
	MaxPathLength() int
	Encode(path [][]byte) []byte
	Decode(b []byte) ([][]byte, int, error)
}

// AccessControlScheme validates read capabilities and encodes them relative
// to a rolling privy of {outer_area, namespace}.
type AccessControlScheme interface {
	GetReceiver(cap ReadCapability) []byte
	GetGrantedArea(cap ReadCapability) Area
	GetGrantedNamespace(cap ReadCapability) []byte
	IsValidCapability(cap ReadCapability) bool
	EncodeCapability(cap ReadCapability, outer Area, namespace []byte) []byte
	DecodeCapability(b []byte, outer Area, namespace []byte) (ReadCapability, int, error)
	EncodeSyncSignature(sig []byte) []byte
	DecodeSyncSignature(b []byte) ([]byte, int, error)
}

// SubspaceCapScheme is the subspace-capability analogue of
// AccessControlScheme.
type SubspaceCapScheme interface {
	GetReceiver(cap SubspaceCapability) []byte
	GetGrantedNamespace(cap SubspaceCapability) []byte
	IsValidCapability(cap SubspaceCapability) bool
	Encode(cap SubspaceCapability) []byte
	Decode(b []byte) (SubspaceCapability, int, error)
}

// AuthorisationTokenScheme decomposes an authorisation token into its
// static (handle-bound) and dynamic (per-message) halves, per the Glossary.
type AuthorisationTokenScheme interface {
	Decompose(token []byte) (static []byte, dynamic []byte)
	Recompose(static, dynamic []byte) []byte
	EncodeStatic(static []byte) []byte
	DecodeStatic(b []byte) ([]byte, int, error)
	EncodeDynamic(dynamic []byte) []byte
	DecodeDynamic(b []byte) ([]byte, int, error)
}

// FingerprintScheme supplies the neutral element and encoding for the
// 3-D-range reconciliation algorithm's fingerprints. The reconciliation
// algorithm itself is an external collaborator (spec.md §1 Non-goals); this
// engine only needs to move fingerprint bytes across the wire.
type FingerprintScheme interface {
	NeutralElement() []byte
	Encode(fp []byte) []byte
	Decode(b []byte) ([]byte, int, error)
}

// SessionSchemes bundles every parameter scheme a session is configured
// with.
type SessionSchemes struct {
	Namespace      NamespaceScheme
	Subspace       SubspaceScheme
	PayloadDigest  PayloadDigestScheme
	Path           PathScheme
	Pai            PaiScheme
	AccessControl  AccessControlScheme
	SubspaceCap    SubspaceCapScheme
	AuthToken      AuthorisationTokenScheme
	Fingerprint    FingerprintScheme
}
