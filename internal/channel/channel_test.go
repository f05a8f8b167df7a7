package channel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/wgps/pkg/wgps"
)

func TestAccount_CannotSendWithoutCredit(t *testing.T) {
	a := NewAccount()
	assert.False(t, a.CanSend(1))
	assert.ErrorIs(t, a.Spend(1), ErrCreditViolation)
}

func TestAccount_GrantThenSpend(t *testing.T) {
	a := NewAccount()
	released := a.Grant(10)
	assert.Empty(t, released)
	assert.True(t, a.CanSend(10))
	require.NoError(t, a.Spend(6))
	assert.Equal(t, uint64(4), a.Granted())
	assert.False(t, a.CanSend(5))
}

func TestAccount_EnqueueReleasesInFIFOOrderAsCreditArrives(t *testing.T) {
	a := NewAccount()
	first := Frame{Size: 5, Payload: []byte("first")}
	second := Frame{Size: 5, Payload: []byte("secnd")}

	assert.Empty(t, a.Enqueue(first))
	assert.Empty(t, a.Enqueue(second))

	ready := a.Grant(5)
	require.Len(t, ready, 1)
	assert.Equal(t, first, ready[0])

	ready = a.Grant(5)
	require.Len(t, ready, 1)
	assert.Equal(t, second, ready[0])
}

func TestAccount_EnqueueReturnsImmediatelyWhenCreditAlreadyCovers(t *testing.T) {
	a := NewAccount()
	a.Grant(10)
	ready := a.Enqueue(Frame{Size: 4, Payload: []byte("x")})
	require.Len(t, ready, 1)
	assert.Equal(t, uint64(6), a.Granted())
}

func TestAccount_Absolve_ClampsToAvailableCredit(t *testing.T) {
	a := NewAccount()
	a.Grant(10)
	assert.Equal(t, uint64(10), a.Absolve(100))
	assert.Equal(t, uint64(0), a.Granted())
}

// TestS2_IssueGuaranteeThenPlead mirrors the literal scenario: a channel
// is granted 1 byte of credit, then pled down to 0, absolving exactly the
// granted amount.
func TestS2_IssueGuaranteeThenPlead(t *testing.T) {
	a := NewAccount()
	a.Grant(1)
	assert.Equal(t, uint64(1), a.Granted())

	absolved := a.Plead(0)
	assert.Equal(t, uint64(1), absolved)
	assert.Equal(t, uint64(0), a.Granted())
}

func TestAccount_Plead_AboveGrantedIsANoOp(t *testing.T) {
	a := NewAccount()
	a.Grant(3)
	assert.Equal(t, uint64(0), a.Plead(10))
	assert.Equal(t, uint64(3), a.Granted())
}

func TestLedger_AdmitWithinIssuedSucceeds(t *testing.T) {
	l := NewLedger()
	l.Issue(10)
	require.NoError(t, l.Admit(4))
	require.NoError(t, l.Admit(6))
}

func TestLedger_AdmitBeyondIssuedIsCreditViolation(t *testing.T) {
	l := NewLedger()
	l.Issue(5)
	require.NoError(t, l.Admit(5))
	assert.ErrorIs(t, l.Admit(1), ErrCreditViolation)
}

func TestFramer_TracksAllSevenChannelsIndependently(t *testing.T) {
	f := NewFramer()
	f.Outbound(wgps.ChannelIntersection).Grant(10)
	f.Outbound(wgps.ChannelData).Grant(20)

	assert.Equal(t, uint64(10), f.Outbound(wgps.ChannelIntersection).Granted())
	assert.Equal(t, uint64(20), f.Outbound(wgps.ChannelData).Granted())
	assert.Equal(t, uint64(0), f.Outbound(wgps.ChannelReconciliation).Granted())
}

func TestFramer_AnnounceDroppingThenApologise(t *testing.T) {
	f := NewFramer()
	assert.False(t, f.IsDropping(wgps.ChannelPayloadRequest))

	f.AnnounceDropping(wgps.ChannelPayloadRequest)
	assert.True(t, f.IsDropping(wgps.ChannelPayloadRequest))

	f.Apologise(wgps.ChannelPayloadRequest)
	assert.False(t, f.IsDropping(wgps.ChannelPayloadRequest))
}
