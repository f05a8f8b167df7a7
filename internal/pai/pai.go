// Package pai implements the Private Area Intersection finder: the
// asynchronous state machine that performs a Diffie-Hellman-style
// commutative blinding of namespace/subspace/path fragments so that two
// peers can discover mutually authorised areas without revealing
// unauthorised ones (spec.md §4.6).
//
// The reference source drives this through several concurrent async event
// streams (fragment binds, replies, subspace-cap requests/replies,
// intersections). Since the engine is cooperatively scheduled on a single
// logical task per session (spec.md §5), this implementation collapses
// that into synchronous methods that return the events a caller must emit,
// rather than separate queues a session has to pump — there is never more
// than one goroutine driving a Finder, so the queue indirection buys
// nothing here.
package pai

import (
	"errors"
	"fmt"

	"github.com/marmos91/wgps/internal/handle"
	"github.com/marmos91/wgps/pkg/wgps"
)

// ErrUnknownHandle is a fatal protocol error: the peer referenced a handle
// we never bound.
var ErrUnknownHandle = errors.New("pai: unknown handle")

// ErrInvariantViolation indicates a bug: a handle is bound but its
// LocalFragmentInfo is missing, or an intersection check ran against
// incomplete state.
var ErrInvariantViolation = errors.New("pai: invariant violation")

// ErrSubspaceCapNotRequested is a fatal protocol error: a verified
// subspace-cap reply arrived for a handle we never requested one for.
var ErrSubspaceCapNotRequested = errors.New("pai: subspace capability reply was not requested")

// ErrSubspaceCapNamespaceMismatch is a fatal protocol error: a verified
// subspace-cap reply named a namespace different from the one we requested.
var ErrSubspaceCapNamespaceMismatch = errors.New("pai: subspace capability reply namespace mismatch")

type ourEntry struct {
	entry intersectionEntry
	info  LocalFragmentInfo
}

// Finder is the per-session PAI state machine. Its ours store is mutated
// only by the submit/receive-reply path; its theirs store only by the
// receive-bind path — per spec.md §5 no additional locking is required
// beyond what Store already provides for safe concurrent reads.
type Finder struct {
	scheme      wgps.PaiScheme
	localScalar wgps.Scalar

	ours   *handle.Store[ourEntry]
	theirs *handle.Store[intersectionEntry]

	requestedSubspaceCapHandles map[uint64]struct{}
}

// New returns a Finder configured with the given cryptographic group
// scheme.
func New(scheme wgps.PaiScheme) *Finder {
	return &Finder{
		scheme:                      scheme,
		ours:                        handle.New[ourEntry](),
		theirs:                      handle.New[intersectionEntry](),
		requestedSubspaceCapHandles: make(map[uint64]struct{}),
	}
}

func (f *Finder) scalar() (wgps.Scalar, error) {
	if f.localScalar != nil {
		return f.localScalar, nil
	}
	s, err := f.scheme.GetScalar()
	if err != nil {
		return nil, fmt.Errorf("pai: generate local scalar: %w", err)
	}
	f.localScalar = s
	return s, nil
}

// SubmitAuthorisation derives a FragmentKit from auth.Capability, binds
// every fragment least-to-most-specific in the ours store, and returns the
// PaiBindFragment events to emit, in the same order (spec.md §4.6 step 1-2).
func (f *Finder) SubmitAuthorisation(auth wgps.ReadAuthorisation) ([]FragmentBindEvent, error) {
	kit, err := f.scheme.GetFragmentKit(auth.Capability)
	if err != nil {
		return nil, fmt.Errorf("pai: derive fragment kit: %w", err)
	}
	scalar, err := f.scalar()
	if err != nil {
		return nil, err
	}

	var events []FragmentBindEvent

	bindOne := func(frag wgps.Fragment, isSecondary bool, onIntersect OnIntersection) error {
		g0, err := f.scheme.FragmentToGroup(frag)
		if err != nil {
			return fmt.Errorf("pai: hash fragment into group: %w", err)
		}
		g, err := f.scheme.ScalarMult(g0, scalar)
		if err != nil {
			return fmt.Errorf("pai: blind fragment: %w", err)
		}

		info := LocalFragmentInfo{
			Authorisation: auth,
			OnIntersect:   onIntersect,
			Namespace:     frag.Namespace,
			SubspaceIsAny: !frag.HasSubspace,
			Subspace:      frag.Subspace,
			Path:          frag.Path,
		}
		h := f.ours.Bind(ourEntry{
			entry: intersectionEntry{element: g, isComplete: false, isSecondary: isSecondary},
			info:  info,
		})
		events = append(events, FragmentBindEvent{Handle: h, Group: g, IsSecondary: isSecondary})
		return nil
	}

	if kit.Selective {
		for i, frag := range kit.Secondary {
			onIntersect := OnIntersectionNone
			if i == len(kit.Secondary)-1 {
				onIntersect = OnIntersectionRequestSubspaceCap
			}
			if err := bindOne(frag, true, onIntersect); err != nil {
				return nil, err
			}
		}
		for i, frag := range kit.Primary {
			onIntersect := OnIntersectionNone
			if i == len(kit.Primary)-1 {
				onIntersect = OnIntersectionBindReadCap
			}
			if err := bindOne(frag, false, onIntersect); err != nil {
				return nil, err
			}
		}
	} else {
		for i, frag := range kit.Primary {
			onIntersect := OnIntersectionNone
			if i == len(kit.Primary)-1 {
				onIntersect = OnIntersectionBindReadCap
			}
			if err := bindOne(frag, false, onIntersect); err != nil {
				return nil, err
			}
		}
	}

	return events, nil
}

// ReceivedBind handles a PaiBindFragment from the peer: it blinds the
// received group element with our scalar, binds it complete in theirs,
// and returns the reply to send plus any intersection/subspace-cap-request
// events the new completion triggers (spec.md §4.6).
func (f *Finder) ReceivedBind(g wgps.GroupElement, isSecondary bool) (FragmentReplyEvent, []IntersectionEvent, []SubspaceCapRequestEvent, error) {
	scalar, err := f.scalar()
	if err != nil {
		return FragmentReplyEvent{}, nil, nil, err
	}
	gPrime, err := f.scheme.ScalarMult(g, scalar)
	if err != nil {
		return FragmentReplyEvent{}, nil, nil, fmt.Errorf("pai: blind received fragment: %w", err)
	}

	h := f.theirs.Bind(intersectionEntry{element: gPrime, isComplete: true, isSecondary: isSecondary})

	intersections, requests, err := f.checkIntersections(false, h)
	if err != nil {
		return FragmentReplyEvent{}, nil, nil, err
	}
	return FragmentReplyEvent{TheirHandle: h, Group: gPrime}, intersections, requests, nil
}

// ReceivedReply handles a PaiReplyFragment from the peer for one of our own
// bound handles: h must already be bound in ours, else it is a fatal
// protocol error (spec.md §4.6).
func (f *Finder) ReceivedReply(h uint64, g wgps.GroupElement) ([]IntersectionEvent, []SubspaceCapRequestEvent, error) {
	cur, err := f.ours.Get(h)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: reply for handle %d", ErrUnknownHandle, h)
	}
	cur.entry.element = g
	cur.entry.isComplete = true
	if err := f.ours.Update(h, cur); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvariantViolation, err)
	}

	return f.checkIntersections(true, h)
}

// ReceivedSubspaceCapRequest handles a PaiRequestSubspaceCapability from
// the peer, referencing one of their bound (theirs-side) handles. It emits
// a reply for every one of our complete, group-equal entries that carries a
// subspace authorisation (spec.md §4.6).
func (f *Finder) ReceivedSubspaceCapRequest(h uint64) ([]SubspaceCapReplyEvent, error) {
	theirEntry, err := f.theirs.Get(h)
	if err != nil {
		return nil, fmt.Errorf("%w: subspace cap request for handle %d", ErrUnknownHandle, h)
	}

	var replies []SubspaceCapReplyEvent
	f.ours.For(func(ourHandle uint64, oe ourEntry) bool {
		if !oe.entry.isComplete {
			return true
		}
		if !f.scheme.IsGroupEqual(oe.entry.element, theirEntry.element) {
			return true
		}
		if oe.info.Authorisation.SubspaceCapability == nil {
			return true
		}
		replies = append(replies, SubspaceCapReplyEvent{
			TheirHandle:        h,
			SubspaceCapability: oe.info.Authorisation.SubspaceCapability,
		})
		return true
	})
	return replies, nil
}

// ReceivedVerifiedSubspaceCapReply handles a verified
// PaiReplySubspaceCapability for one of our own handles that previously
// requested one: h must be in requestedSubspaceCapHandles and namespace
// must match, else it is a fatal protocol error (spec.md §4.6).
func (f *Finder) ReceivedVerifiedSubspaceCapReply(h uint64, namespace []byte) (IntersectionEvent, error) {
	if _, ok := f.requestedSubspaceCapHandles[h]; !ok {
		return IntersectionEvent{}, fmt.Errorf("%w: handle %d", ErrSubspaceCapNotRequested, h)
	}
	delete(f.requestedSubspaceCapHandles, h)

	oe, err := f.ours.Get(h)
	if err != nil {
		return IntersectionEvent{}, fmt.Errorf("%w: %v", ErrInvariantViolation, err)
	}
	if !bytesEqual(namespace, oe.info.Namespace) {
		return IntersectionEvent{}, ErrSubspaceCapNamespaceMismatch
	}

	return IntersectionEvent{
		Authorisation: oe.info.Authorisation,
		OurHandle:     h,
		OuterArea:     oe.info.OuterArea(),
	}, nil
}

// checkIntersections scans the store opposite to the side that just
// completed for a matching, non-secondary-vs-secondary group element, and
// acts on the first match's LocalFragmentInfo (always the ours-side entry
// in the matched pair), per spec.md §4.6.
func (f *Finder) checkIntersections(completedIsOurs bool, completedHandle uint64) ([]IntersectionEvent, []SubspaceCapRequestEvent, error) {
	var intersections []IntersectionEvent
	var requests []SubspaceCapRequestEvent

	if completedIsOurs {
		oe, err := f.ours.Get(completedHandle)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrInvariantViolation, err)
		}
		var matchedTheirHandle uint64
		var matched bool
		f.theirs.For(func(theirHandle uint64, te intersectionEntry) bool {
			if matched || !te.isComplete {
				return true
			}
			if oe.entry.isSecondary && te.isSecondary {
				return true
			}
			if !f.scheme.IsGroupEqual(oe.entry.element, te.element) {
				return true
			}
			matched = true
			matchedTheirHandle = theirHandle
			return false
		})
		if !matched {
			return nil, nil, nil
		}
		ev, req, err := f.applyIntersection(completedHandle, oe.info, matchedTheirHandle)
		if err != nil {
			return nil, nil, err
		}
		if ev != nil {
			intersections = append(intersections, *ev)
		}
		if req != nil {
			requests = append(requests, *req)
		}
		return intersections, requests, nil
	}

	te, err := f.theirs.Get(completedHandle)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvariantViolation, err)
	}
	var matchedOurHandle uint64
	var matchedInfo LocalFragmentInfo
	var matched bool
	f.ours.For(func(ourHandle uint64, oe ourEntry) bool {
		if matched || !oe.entry.isComplete {
			return true
		}
		if oe.entry.isSecondary && te.isSecondary {
			return true
		}
		if !f.scheme.IsGroupEqual(oe.entry.element, te.element) {
			return true
		}
		matched = true
		matchedOurHandle = ourHandle
		matchedInfo = oe.info
		return false
	})
	if !matched {
		return nil, nil, nil
	}
	ev, req, err := f.applyIntersection(matchedOurHandle, matchedInfo, completedHandle)
	if err != nil {
		return nil, nil, err
	}
	if ev != nil {
		intersections = append(intersections, *ev)
	}
	if req != nil {
		requests = append(requests, *req)
	}
	return intersections, requests, nil
}

// applyIntersection consults a matched ours-side LocalFragmentInfo and
// produces the event it calls for, if any (spec.md §4.6).
func (f *Finder) applyIntersection(ourHandle uint64, info LocalFragmentInfo, triggeringTheirHandle uint64) (*IntersectionEvent, *SubspaceCapRequestEvent, error) {
	switch info.OnIntersect {
	case OnIntersectionNone:
		return nil, nil, nil
	case OnIntersectionBindReadCap:
		return &IntersectionEvent{
			Authorisation: info.Authorisation,
			OurHandle:     ourHandle,
			OuterArea:     info.OuterArea(),
		}, nil, nil
	case OnIntersectionRequestSubspaceCap:
		f.requestedSubspaceCapHandles[ourHandle] = struct{}{}
		return nil, &SubspaceCapRequestEvent{TheirHandle: triggeringTheirHandle}, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown OnIntersection %d", ErrInvariantViolation, info.OnIntersect)
	}
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
