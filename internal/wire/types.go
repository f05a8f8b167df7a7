package wire

import "github.com/marmos91/wgps/pkg/wgps"

// Message is the decoded form of any wire message. Concrete payloads are
// one of the Kind-suffixed structs below; Kind discriminates which field
// is populated. Back-reference flag bits are resolved before this point:
// value fields always hold the resolved value. The Is* fields of some
// payloads additionally record which flags were set on the wire.
type Message struct {
	Kind Kind

	CommitmentReveal              *CommitmentReveal
	ControlIssueGuarantee         *ControlIssueGuarantee
	ControlAbsolve                *ControlAbsolve
	ControlPlead                  *ControlPlead
	ControlLimitSending           *ControlLimit
	ControlLimitReceiving         *ControlLimit
	ControlAnnounceDropping       *ControlChannelOnly
	ControlApologise              *ControlChannelOnly
	ControlFree                   *ControlFree
	PaiBindFragment                *PaiBindFragment
	PaiReplyFragment               *PaiReplyFragment
	PaiRequestSubspaceCapability    *PaiRequestSubspaceCapability
	PaiReplySubspaceCapability      *PaiReplySubspaceCapability
	SetupBindReadCapability        *SetupBindReadCapability
	SetupBindAreaOfInterest        *SetupBindAreaOfInterest
	SetupBindStaticToken           *SetupBindStaticToken
	ReconciliationSendFingerprint  *ReconciliationSendFingerprint
	ReconciliationAnnounceEntries  *ReconciliationAnnounceEntries
	ReconciliationSendEntry        *ReconciliationSendEntry
	Data                           *Data
}

// CommitmentReveal carries the nonce each peer reveals to complete the
// commitment scheme that seeds PAI's scalars (spec.md §6 challenge_length).
type CommitmentReveal struct {
	Nonce []byte
}

// ControlIssueGuarantee adds credit to a logical channel.
type ControlIssueGuarantee struct {
	Channel wgps.Channel
	Amount  uint64
}

// ControlAbsolve voluntarily forfeits credit on a logical channel.
type ControlAbsolve struct {
	Channel wgps.Channel
	Amount  uint64
}

// ControlPlead requests that remaining credit on a channel be reduced to
// Target.
type ControlPlead struct {
	Channel wgps.Channel
	Target  uint64
}

// ControlLimit carries LimitSending/LimitReceiving's byte-count hint.
type ControlLimit struct {
	Channel wgps.Channel
	Limit   uint64
}

// ControlChannelOnly carries AnnounceDropping/Apologise, which name only a
// channel.
type ControlChannelOnly struct {
	Channel wgps.Channel
}

// HandleKind enumerates the handle stores named in spec.md §4.3.
type HandleKind int

const (
	HandleIntersection HandleKind = iota
	HandleCapability
	HandleAreaOfInterest
	HandleStaticToken
	HandlePayloadRequest
)

// ControlFree releases a handle. Mine is true when the sender is the
// binder (spec.md §4.4).
type ControlFree struct {
	Handle     uint64
	Mine       bool
	HandleKind HandleKind
}

// PaiBindFragment carries a blinded group element for a fragment.
type PaiBindFragment struct {
	GroupElement wgps.GroupElement
	IsSecondary  bool
}

// PaiReplyFragment replies to a PaiBindFragment for the sender's own
// previously-bound handle.
type PaiReplyFragment struct {
	Handle       uint64
	GroupElement wgps.GroupElement
}

// PaiRequestSubspaceCapability asks the peer for the subspace capability
// matching a completed intersection handle.
type PaiRequestSubspaceCapability struct {
	Handle uint64
}

// PaiReplySubspaceCapability carries the requested subspace capability plus
// its proving signature.
type PaiReplySubspaceCapability struct {
	Handle             uint64
	SubspaceCapability []byte // scheme-encoded
	Signature          []byte
}

// SetupBindReadCapability binds a read capability (and its validity proof)
// to a new capability handle.
type SetupBindReadCapability struct {
	Capability []byte // scheme-encoded, relative to {outer_area, namespace} privy
	Signature  []byte
}

// SetupBindAreaOfInterest binds an AreaOfInterest to a handle, relative to
// a previously bound capability handle.
type SetupBindAreaOfInterest struct {
	AuthorisedCapabilityHandle uint64
	AreaOfInterest             wgps.AreaOfInterest
	HasLimit                   bool
}

// SetupBindStaticToken binds the static half of an authorisation token.
type SetupBindStaticToken struct {
	StaticToken []byte
}

// ReconciliationSendFingerprint announces a fingerprint for a 3-D range.
type ReconciliationSendFingerprint struct {
	Range3d            Range3dWire
	SenderHandle       uint64
	ReceiverHandle     uint64
	Fingerprint        []byte
	IsSenderPrevSender     bool
	IsReceiverPrevReceiver bool
	IsRangeRelative        bool
}

// ReconciliationAnnounceEntries announces that Count entries for a range
// will follow.
type ReconciliationAnnounceEntries struct {
	Range3d        Range3dWire
	Namespace      []byte
	Count          uint64
	SenderHandle   uint64
	ReceiverHandle uint64
	WantResponse   bool
	WillSort       bool
	IsRangeRelative bool
}

// ReconciliationSendEntry carries one entry from an announced batch.
type ReconciliationSendEntry struct {
	Subspace            []byte
	Path                [][]byte
	Timestamp           uint64
	PayloadLength       uint64
	PayloadDigest       []byte
	StaticTokenHandle   uint64
	DynamicToken        []byte
	IsPrevStaticToken   bool
}

// Range3dWire is the wire-level 3-D range; back-reference resolution
// happens before this struct is populated, so Subspace/PathStart/PathEnd/
// Times are always the resolved absolute values.
type Range3dWire struct {
	Subspace  []byte
	PathStart [][]byte
	PathEnd   [][]byte // nil means open
	Times     wgps.TimeRange
}

// Data is the opaque Data-family payload. spec.md §1 explicitly places
// entry/payload semantics out of scope ("Non-goals: defining the semantics
// of data entries, payload storage"); this engine moves the family's bytes
// without interpreting them, exposing only the sub-kind nibble and raw
// payload to the session layer.
type Data struct {
	SubKind byte
	Payload []byte
}
