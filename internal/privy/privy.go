// Package privy implements the reconciliation message tracker: a pure state
// machine with no I/O that holds the rolling context both the encoder and
// decoder consult to resolve relative ("back-reference") encodings of
// entries and 3-D ranges (spec.md §4.7, §2 "Reconcile message tracker").
package privy

import "github.com/marmos91/wgps/pkg/wgps"

// Range3d is the 3-D region (subspace × path × time) a reconciliation
// message is scoped to.
type Range3d struct {
	Subspace    []byte
	PathStart   [][]byte
	PathEnd     [][]byte // nil end means open
	Times       wgps.TimeRange
}

// Entry is the rolling "previous entry" reference used by relative entry
// encodings.
type Entry struct {
	Namespace     []byte
	Subspace      []byte
	Path          [][]byte
	Timestamp     uint64
	PayloadLength uint64
	PayloadDigest []byte
}

// Privy is the rolling context threaded through every reconciliation-family
// encode/decode call. It is mutated only by the decode dispatch path (on
// receive) and by the encoder (on send), never concurrently, per the
// single-scheduler concurrency model in spec.md §5.
type Privy struct {
	PrevRange             Range3d
	PrevSenderHandle      uint64
	PrevReceiverHandle    uint64
	PrevEntry             Entry
	PrevStaticTokenHandle uint64

	AnnouncedRange             Range3d
	AnnouncedNamespace         []byte
	AnnouncedEntriesRemaining  uint64
	IsAwaitingTermination      bool
}

// New returns a Privy with all fields at their session-start defaults.
func New() *Privy {
	return &Privy{}
}

// OnSendFingerprint updates the rolling range and handle references after a
// ReconciliationSendFingerprint has been sent or received.
func (p *Privy) OnSendFingerprint(r Range3d, senderHandle, receiverHandle uint64) {
	p.PrevRange = r
	p.PrevSenderHandle = senderHandle
	p.PrevReceiverHandle = receiverHandle
}

// OnAnnounceEntries records that the peer announced `count` entries for
// range r under namespace ns, and updates the handle references. Per
// spec.md §5, the decoder dispatch must treat the next `count`
// ReconciliationSendEntry-shaped messages on this channel as SendEntry, not
// AnnounceEntries, until the count is exhausted.
func (p *Privy) OnAnnounceEntries(r Range3d, ns []byte, count uint64, senderHandle, receiverHandle uint64, willSort bool) {
	p.PrevRange = r
	p.PrevSenderHandle = senderHandle
	p.PrevReceiverHandle = receiverHandle
	p.AnnouncedRange = r
	p.AnnouncedNamespace = ns
	p.AnnouncedEntriesRemaining = count
	p.IsAwaitingTermination = count == 0 && !willSort
}

// ExpectsSendEntry reports whether the decoder dispatch should interpret a
// first byte in the 0x50..0x5f mask range as ReconciliationSendEntry rather
// than ReconciliationAnnounceEntries (spec.md §4.5 critical decision).
func (p *Privy) ExpectsSendEntry() bool {
	return p.AnnouncedEntriesRemaining > 0
}

// OnSendEntry records an entry consumed from the current AnnounceEntries
// batch, decrementing the remaining count and updating the rolling entry
// and static-token-handle references.
func (p *Privy) OnSendEntry(e Entry, staticTokenHandle uint64) {
	p.PrevEntry = e
	p.PrevStaticTokenHandle = staticTokenHandle
	if p.AnnouncedEntriesRemaining > 0 {
		p.AnnouncedEntriesRemaining--
	}
}

// IsSamePrevSender reports whether handle equals the rolling sender handle
// reference, for back-reference flag encoding.
func (p *Privy) IsSamePrevSender(handle uint64) bool {
	return handle == p.PrevSenderHandle
}

// IsSamePrevReceiver reports whether handle equals the rolling receiver
// handle reference, for back-reference flag encoding.
func (p *Privy) IsSamePrevReceiver(handle uint64) bool {
	return handle == p.PrevReceiverHandle
}
