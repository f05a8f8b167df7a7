package pai

import "github.com/marmos91/wgps/pkg/wgps"

// OnIntersection names the action to take when a fragment's intersection
// entry completes (spec.md §3 Data Model, LocalFragmentInfo).
type OnIntersection int

const (
	OnIntersectionNone OnIntersection = iota
	OnIntersectionBindReadCap
	OnIntersectionRequestSubspaceCap
)

// LocalFragmentInfo is recorded per our-side fragment at submit time and
// consulted when its intersection entry completes.
type LocalFragmentInfo struct {
	Authorisation wgps.ReadAuthorisation
	OnIntersect   OnIntersection
	Namespace     []byte
	SubspaceIsAny bool
	Subspace      []byte
	Path          [][]byte
}

// OuterArea derives the outer_area used for a BindReadCap intersection
// event, per spec.md §4.6.
func (i LocalFragmentInfo) OuterArea() wgps.Area {
	return wgps.Area{
		SubspaceIsAny: i.SubspaceIsAny,
		Subspace:      i.Subspace,
		PathPrefix:    i.Path,
		Times:         wgps.TimeRange{Start: 0, End: wgps.OpenEnd},
	}
}

// intersectionEntry is one bound (ours or theirs) PAI group element.
type intersectionEntry struct {
	element     wgps.GroupElement
	isComplete  bool
	isSecondary bool
}

// IntersectionEvent is emitted when a submitted authorisation's
// most-specific fragment intersects with the peer's fragments.
type IntersectionEvent struct {
	Authorisation wgps.ReadAuthorisation
	OurHandle     uint64
	OuterArea     wgps.Area
}

// FragmentBindEvent is emitted to be sent as PaiBindFragment.
type FragmentBindEvent struct {
	Handle      uint64 // our handle, for logging/correlation only; not on the wire
	Group       wgps.GroupElement
	IsSecondary bool
}

// FragmentReplyEvent is emitted to be sent as PaiReplyFragment.
type FragmentReplyEvent struct {
	TheirHandle uint64
	Group       wgps.GroupElement
}

// SubspaceCapRequestEvent is emitted to be sent as
// PaiRequestSubspaceCapability.
type SubspaceCapRequestEvent struct {
	TheirHandle uint64
}

// SubspaceCapReplyEvent is emitted to be sent as PaiReplySubspaceCapability.
type SubspaceCapReplyEvent struct {
	TheirHandle        uint64
	SubspaceCapability wgps.SubspaceCapability
}
