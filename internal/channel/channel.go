// Package channel implements the credit-based flow control framer for
// WGPS's seven logical channels (spec.md §4.4). Each channel multiplexes
// over the single transport; a message may only be emitted once the
// channel has enough granted credit to cover its size.
//
// Two kinds of accounting exist per channel, outbound in Account and
// inbound in Ledger:
//   - outbound — credit the remote peer has granted this side to send on a
//     channel. Grant applies a received ControlIssueGuarantee; Spend gates
//     and decrements it; Absolve/Plead trim it, either voluntarily or on
//     the peer's request (spec.md: "plead(target) returns the number of
//     bytes absolved in response").
//   - inbound — credit this side has granted the remote peer, tracked only
//     to catch a credit violation (spec.md §7): a received message whose
//     size would exceed what was ever granted is a fatal protocol error.
package channel

import (
	"errors"
	"sync"

	"github.com/marmos91/wgps/pkg/wgps"
)

// ErrCreditViolation is returned when a peer sends more on a channel than
// it was ever granted (spec.md §7, fatal).
var ErrCreditViolation = errors.New("channel: credit violation")

// Frame is one outbound message queued against a channel's credit.
type Frame struct {
	Size    uint64
	Payload []byte
}

// Account tracks one channel's outbound credit and guaranteed queue.
type Account struct {
	mu      sync.Mutex
	granted uint64
	queue   []Frame
}

// NewAccount returns an Account with zero granted credit, per spec.md §4.4
// ("For each channel the sender tracks granted bytes (initially 0)").
func NewAccount() *Account {
	return &Account{}
}

// Grant adds amount to the available credit and releases any queued
// frames that now fit, in FIFO order.
func (a *Account) Grant(amount uint64) []Frame {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.granted += amount
	return a.drainLocked()
}

// Granted reports the currently available credit.
func (a *Account) Granted() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.granted
}

// CanSend reports whether size currently fits the available credit.
func (a *Account) CanSend(size uint64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.granted >= size
}

// Spend decrements the available credit by size, failing if size exceeds
// it. Callers must have checked CanSend, or be prepared for this error
// when racing a voluntary Absolve.
func (a *Account) Spend(size uint64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if size > a.granted {
		return ErrCreditViolation
	}
	a.granted -= size
	return nil
}

// Enqueue buffers a frame against this channel's guaranteed queue. If
// enough credit is already available for it (and everything ahead of it),
// Enqueue returns the frames now ready to send, in order; otherwise it
// returns nil and the frame waits for a future Grant.
func (a *Account) Enqueue(f Frame) []Frame {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.queue = append(a.queue, f)
	return a.drainLocked()
}

// drainLocked releases queued frames from the front while credit covers
// them. Caller must hold mu.
func (a *Account) drainLocked() []Frame {
	var ready []Frame
	for len(a.queue) > 0 && a.queue[0].Size <= a.granted {
		f := a.queue[0]
		a.queue = a.queue[1:]
		a.granted -= f.Size
		ready = append(ready, f)
	}
	return ready
}

// Absolve voluntarily forfeits up to amount of unused granted credit,
// clamped to what's actually available, and returns the amount actually
// forfeited — the value a ControlAbsolve announces.
func (a *Account) Absolve(amount uint64) uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	if amount > a.granted {
		amount = a.granted
	}
	a.granted -= amount
	return amount
}

// Plead applies a received request to reduce credit to target, returning
// the number of bytes absolved in response (spec.md §4.4).
func (a *Account) Plead(target uint64) uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	if target >= a.granted {
		return 0
	}
	absolved := a.granted - target
	a.granted = target
	return absolved
}

// Ledger tracks credit this side has issued to the peer on one channel,
// solely to detect a credit violation on receive.
type Ledger struct {
	mu       sync.Mutex
	issued   uint64
	consumed uint64
}

// NewLedger returns an empty Ledger.
func NewLedger() *Ledger { return &Ledger{} }

// Issue records that amount more credit has been granted to the peer.
func (l *Ledger) Issue(amount uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.issued += amount
}

// Admit records a received message of size bytes, failing with
// ErrCreditViolation if it would exceed everything ever issued.
func (l *Ledger) Admit(size uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.consumed+size > l.issued {
		return ErrCreditViolation
	}
	l.consumed += size
	return nil
}

// Framer multiplexes credit accounting across all seven logical channels.
type Framer struct {
	outbound [wgps.NumChannels]*Account
	inbound  [wgps.NumChannels]*Ledger
	dropped  [wgps.NumChannels]bool
}

// NewFramer returns a Framer with all channels at zero credit.
func NewFramer() *Framer {
	f := &Framer{}
	for i := range f.outbound {
		f.outbound[i] = NewAccount()
		f.inbound[i] = NewLedger()
	}
	return f
}

// Outbound returns the Account gating this side's sends on ch.
func (f *Framer) Outbound(ch wgps.Channel) *Account {
	return f.outbound[ch]
}

// Inbound returns the Ledger tracking credit issued to the peer on ch.
func (f *Framer) Inbound(ch wgps.Channel) *Ledger {
	return f.inbound[ch]
}

// AnnounceDropping marks ch as dropping incoming messages until a matching
// Apologise arrives (spec.md §4.4 overflow signalling).
func (f *Framer) AnnounceDropping(ch wgps.Channel) {
	f.dropped[ch] = true
}

// Apologise clears a channel's dropping state.
func (f *Framer) Apologise(ch wgps.Channel) {
	f.dropped[ch] = false
}

// IsDropping reports whether ch is currently refusing admission.
func (f *Framer) IsDropping(ch wgps.Channel) bool {
	return f.dropped[ch]
}
