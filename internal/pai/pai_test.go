package pai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/wgps/internal/pai/group"
	"github.com/marmos91/wgps/pkg/wgps"
)

type fakeReadCap struct {
	receiver  []byte
	namespace []byte
	area      wgps.Area
}

func (c fakeReadCap) Receiver() []byte          { return c.receiver }
func (c fakeReadCap) GrantedNamespace() []byte  { return c.namespace }
func (c fakeReadCap) GrantedArea() wgps.Area    { return c.area }
func (c fakeReadCap) IsValid() bool             { return true }

type fakeSubspaceCap struct {
	namespace []byte
}

func (c fakeSubspaceCap) Receiver() []byte         { return nil }
func (c fakeSubspaceCap) GrantedNamespace() []byte { return c.namespace }

func familyCap(subspace []byte, path [][]byte) wgps.ReadCapability {
	return fakeReadCap{
		receiver:  []byte("receiver"),
		namespace: []byte("Family"),
		area: wgps.Area{
			SubspaceIsAny: subspace == nil,
			Subspace:      subspace,
			PathPrefix:    path,
			Times:         wgps.TimeRange{Start: 0, End: wgps.OpenEnd},
		},
	}
}

func path3() [][]byte {
	return [][]byte{{0}, {1}, {2}}
}

// TestS3_StandardIntersection mirrors spec.md §8 scenario S3: two peers
// submit the same authorisation for (Family, subspace=Alfie, path=[0,1,2]);
// each derives 4 primary triples and 4 secondary pairs, and after a full
// bind/reply exchange both sides emit exactly one intersection event with
// the expected outer area.
func TestS3_StandardIntersection(t *testing.T) {
	scheme := group.New()
	alice := New(scheme)
	bob := New(scheme)

	auth := wgps.ReadAuthorisation{Capability: familyCap([]byte("Alfie"), path3())}

	aliceBinds, err := alice.SubmitAuthorisation(auth)
	require.NoError(t, err)
	assert.Len(t, aliceBinds, 8) // 4 secondary + 4 primary

	bobBinds, err := bob.SubmitAuthorisation(auth)
	require.NoError(t, err)
	assert.Len(t, bobBinds, 8)

	// Exchange binds: each peer receives the other's binds and replies.
	var aliceIntersections, bobIntersections []IntersectionEvent

	for _, b := range aliceBinds {
		reply, ix, _, err := bob.ReceivedBind(b.Group, b.IsSecondary)
		require.NoError(t, err)
		bobIntersections = append(bobIntersections, ix...)

		ix2, _, err := alice.ReceivedReply(b.Handle, reply.Group)
		require.NoError(t, err)
		aliceIntersections = append(aliceIntersections, ix2...)
	}

	for _, b := range bobBinds {
		reply, ix, _, err := alice.ReceivedBind(b.Group, b.IsSecondary)
		require.NoError(t, err)
		aliceIntersections = append(aliceIntersections, ix...)

		ix2, _, err := bob.ReceivedReply(b.Handle, reply.Group)
		require.NoError(t, err)
		bobIntersections = append(bobIntersections, ix2...)
	}

	require.Len(t, aliceIntersections, 1)
	require.Len(t, bobIntersections, 1)

	assert.Equal(t, []byte("Alfie"), aliceIntersections[0].OuterArea.Subspace)
	assert.Equal(t, path3(), aliceIntersections[0].OuterArea.PathPrefix)
	assert.True(t, aliceIntersections[0].OuterArea.Times.IsOpen())
}

// TestS4_DisjointThenAligning mirrors spec.md §8 scenario S4.
func TestS4_DisjointThenAligning(t *testing.T) {
	scheme := group.New()
	a := New(scheme)
	b := New(scheme)

	familyAuth := wgps.ReadAuthorisation{Capability: familyCap([]byte("X"), path3())}
	projectAuth := wgps.ReadAuthorisation{Capability: fakeReadCap{
		namespace: []byte("Project"),
		area:      wgps.Area{SubspaceIsAny: false, Subspace: []byte("X"), PathPrefix: path3()},
	}}

	aBinds, err := a.SubmitAuthorisation(familyAuth)
	require.NoError(t, err)
	bBinds, err := b.SubmitAuthorisation(projectAuth)
	require.NoError(t, err)

	var aIx, bIx []IntersectionEvent
	exchange := func(from, to *Finder, binds []FragmentBindEvent, ixOut *[]IntersectionEvent) {
		for _, bind := range binds {
			reply, ix, _, err := to.ReceivedBind(bind.Group, bind.IsSecondary)
			require.NoError(t, err)
			*ixOut = append(*ixOut, ix...)
			ix2, _, err := from.ReceivedReply(bind.Handle, reply.Group)
			require.NoError(t, err)
			_ = ix2
		}
	}
	exchange(a, b, aBinds, &bIx)
	exchange(b, a, bBinds, &aIx)

	assert.Empty(t, aIx)
	assert.Empty(t, bIx)

	// b additionally submits the Family authorisation: both sides now
	// intersect exactly once.
	bFamilyAuth := wgps.ReadAuthorisation{Capability: familyCap([]byte("X"), path3())}
	bFamilyBinds, err := b.SubmitAuthorisation(bFamilyAuth)
	require.NoError(t, err)

	var aIx2, bIx2 []IntersectionEvent
	for _, bind := range bFamilyBinds {
		reply, ix, _, err := a.ReceivedBind(bind.Group, bind.IsSecondary)
		require.NoError(t, err)
		aIx2 = append(aIx2, ix...)
		ix2, _, err := b.ReceivedReply(bind.Handle, reply.Group)
		require.NoError(t, err)
		bIx2 = append(bIx2, ix2...)
	}

	assert.Len(t, aIx2, 1)
	assert.Len(t, bIx2, 1)
}

func TestReceivedReply_UnknownHandleIsFatal(t *testing.T) {
	f := New(group.New())
	_, _, err := f.ReceivedReply(999, group.Element{})
	assert.ErrorIs(t, err, ErrUnknownHandle)
}

func TestReceivedVerifiedSubspaceCapReply_NotRequestedIsFatal(t *testing.T) {
	f := New(group.New())
	_, err := f.ReceivedVerifiedSubspaceCapReply(0, []byte("ns"))
	assert.ErrorIs(t, err, ErrSubspaceCapNotRequested)
}

// TestS5_SelectiveSubspaceCapabilityFlow mirrors spec.md §8 scenario S5:
// Alice holds a subspace-specific capability (Family, subspace=Alfie,
// path=[0,1,2]); Bob holds the matching subspace=ANY capability carrying a
// subspace capability for Family. Alice's selective kit requests Bob's
// subspace capability once their shared secondary fragment intersects, and
// verifying the reply completes Alice's deferred intersection.
func TestS5_SelectiveSubspaceCapabilityFlow(t *testing.T) {
	scheme := group.New()
	alice := New(scheme)
	bob := New(scheme)

	aliceAuth := wgps.ReadAuthorisation{Capability: familyCap([]byte("Alfie"), path3())}
	bobSubspaceCap := fakeSubspaceCap{namespace: []byte("Family")}
	bobAuth := wgps.ReadAuthorisation{
		Capability:         familyCap(nil, path3()),
		SubspaceCapability: bobSubspaceCap,
	}

	aliceBinds, err := alice.SubmitAuthorisation(aliceAuth)
	require.NoError(t, err)
	assert.Len(t, aliceBinds, 8) // 4 secondary + 4 primary

	bobBinds, err := bob.SubmitAuthorisation(bobAuth)
	require.NoError(t, err)
	assert.Len(t, bobBinds, 4) // non-selective kit: primary only

	var aliceRequests []SubspaceCapRequestEvent

	for _, b := range aliceBinds {
		reply, _, reqs, err := bob.ReceivedBind(b.Group, b.IsSecondary)
		require.NoError(t, err)
		assert.Empty(t, reqs) // bob's kit is non-selective, never requests

		_, reqs2, err := alice.ReceivedReply(b.Handle, reply.Group)
		require.NoError(t, err)
		aliceRequests = append(aliceRequests, reqs2...)
	}

	for _, b := range bobBinds {
		reply, _, reqs, err := alice.ReceivedBind(b.Group, b.IsSecondary)
		require.NoError(t, err)
		aliceRequests = append(aliceRequests, reqs...)

		_, reqs2, err := bob.ReceivedReply(b.Handle, reply.Group)
		require.NoError(t, err)
		assert.Empty(t, reqs2)
	}

	require.Len(t, aliceRequests, 1)

	// Alice's PaiRequestSubspaceCapability references bob's matched
	// fragment; bob looks up his own complete, group-equal entry carrying
	// a subspace capability and replies.
	replies, err := bob.ReceivedSubspaceCapRequest(aliceRequests[0].TheirHandle)
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.Equal(t, bobSubspaceCap, replies[0].SubspaceCapability)

	ev, err := alice.ReceivedVerifiedSubspaceCapReply(replies[0].TheirHandle, []byte("Family"))
	require.NoError(t, err)
	assert.True(t, ev.OuterArea.SubspaceIsAny)
	assert.Equal(t, path3(), ev.OuterArea.PathPrefix)
}
