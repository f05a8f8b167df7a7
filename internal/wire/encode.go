package wire

import (
	"github.com/marmos91/wgps/internal/compactwidth"
	"github.com/marmos91/wgps/internal/privy"
	"github.com/marmos91/wgps/pkg/wgps"
)

// writeUint appends a width-tag byte followed by n's compact-width
// encoding (spec.md §4.2).
func writeUint(dst []byte, n uint64) []byte {
	w := compactwidth.Of(n)
	dst = append(dst, w.Tag())
	dst, _ = compactwidth.EncodeWidth(dst, n, w)
	return dst
}

// writeBytes appends a length-prefixed byte blob.
func writeBytes(dst []byte, b []byte) []byte {
	dst = writeUint(dst, uint64(len(b)))
	return append(dst, b...)
}

// writePath appends a component-count-prefixed, length-prefixed path.
func writePath(dst []byte, path [][]byte) []byte {
	dst = writeUint(dst, uint64(len(path)))
	for _, component := range path {
		dst = writeBytes(dst, component)
	}
	return dst
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// EncodeCommitmentReveal encodes a CommitmentReveal message.
func EncodeCommitmentReveal(m CommitmentReveal) []byte {
	dst := []byte{tagCommitmentReveal}
	return writeBytes(dst, m.Nonce)
}

func encodeControlChannelAmount(tag byte, channel wgps.Channel, amount uint64) []byte {
	dst := []byte{tag, byte(channel)}
	return writeUint(dst, amount)
}

// EncodeControlIssueGuarantee encodes a ControlIssueGuarantee message.
func EncodeControlIssueGuarantee(m ControlIssueGuarantee) []byte {
	return encodeControlChannelAmount(tagControlIssueGuarantee, m.Channel, m.Amount)
}

// EncodeControlAbsolve encodes a ControlAbsolve message.
func EncodeControlAbsolve(m ControlAbsolve) []byte {
	return encodeControlChannelAmount(tagControlAbsolve, m.Channel, m.Amount)
}

// EncodeControlPlead encodes a ControlPlead message.
func EncodeControlPlead(m ControlPlead) []byte {
	return encodeControlChannelAmount(tagControlPlead, m.Channel, m.Target)
}

// EncodeControlLimitSending encodes a ControlLimitSending message.
func EncodeControlLimitSending(m ControlLimit) []byte {
	return encodeControlChannelAmount(tagControlLimitSending, m.Channel, m.Limit)
}

// EncodeControlLimitReceiving encodes a ControlLimitReceiving message.
func EncodeControlLimitReceiving(m ControlLimit) []byte {
	return encodeControlChannelAmount(tagControlLimitReceiving, m.Channel, m.Limit)
}

// EncodeControlAnnounceDropping encodes a ControlAnnounceDropping message.
func EncodeControlAnnounceDropping(m ControlChannelOnly) []byte {
	return []byte{tagControlAnnounceDroppingBase | byte(m.Channel)}
}

// EncodeControlApologise encodes a ControlApologise message.
func EncodeControlApologise(m ControlChannelOnly) []byte {
	return []byte{tagControlApologiseBase | byte(m.Channel)}
}

// EncodeControlFree encodes a ControlFree message.
func EncodeControlFree(m ControlFree) []byte {
	dst := []byte{tagControlFree, boolByte(m.Mine), byte(m.HandleKind)}
	return writeUint(dst, m.Handle)
}

// EncodePaiBindFragment encodes a PaiBindFragment message. The group
// element is fixed-size per the configured PaiScheme, so it needs no
// length prefix.
func EncodePaiBindFragment(m PaiBindFragment, scheme wgps.PaiScheme) []byte {
	tag := tagPaiBindFragmentBase
	if m.IsSecondary {
		tag |= 0x01
	}
	dst := []byte{tag}
	return append(dst, scheme.EncodeGroupMember(m.GroupElement)...)
}

// EncodePaiReplyFragment encodes a PaiReplyFragment message.
func EncodePaiReplyFragment(m PaiReplyFragment, scheme wgps.PaiScheme) []byte {
	dst := []byte{tagPaiReplyFragment}
	dst = writeUint(dst, m.Handle)
	return append(dst, scheme.EncodeGroupMember(m.GroupElement)...)
}

// EncodePaiRequestSubspaceCapability encodes a
// PaiRequestSubspaceCapability message.
func EncodePaiRequestSubspaceCapability(m PaiRequestSubspaceCapability) []byte {
	dst := []byte{tagPaiRequestSubspaceCapability}
	return writeUint(dst, m.Handle)
}

// EncodePaiReplySubspaceCapability encodes a
// PaiReplySubspaceCapability message.
func EncodePaiReplySubspaceCapability(m PaiReplySubspaceCapability) []byte {
	dst := []byte{tagPaiReplySubspaceCapability}
	dst = writeUint(dst, m.Handle)
	dst = writeBytes(dst, m.SubspaceCapability)
	return writeBytes(dst, m.Signature)
}

// EncodeSetupBindReadCapability encodes a SetupBindReadCapability message.
func EncodeSetupBindReadCapability(m SetupBindReadCapability) []byte {
	dst := []byte{tagSetupBindReadCapability}
	dst = writeBytes(dst, m.Capability)
	return writeBytes(dst, m.Signature)
}

func writeArea(dst []byte, a wgps.Area) []byte {
	dst = append(dst, boolByte(a.SubspaceIsAny))
	if !a.SubspaceIsAny {
		dst = writeBytes(dst, a.Subspace)
	}
	dst = writePath(dst, a.PathPrefix)
	dst = writeUint(dst, a.Times.Start)
	dst = append(dst, boolByte(a.Times.IsOpen()))
	if !a.Times.IsOpen() {
		dst = writeUint(dst, a.Times.End)
	}
	return dst
}

// EncodeSetupBindAreaOfInterest encodes a SetupBindAreaOfInterest message.
func EncodeSetupBindAreaOfInterest(m SetupBindAreaOfInterest) []byte {
	tag := tagSetupBindAreaOfInterestBase
	if m.HasLimit {
		tag |= 0x04
	}
	dst := []byte{tag}
	dst = writeUint(dst, m.AuthorisedCapabilityHandle)
	dst = writeArea(dst, m.AreaOfInterest.Area)
	if m.HasLimit {
		dst = writeUint(dst, m.AreaOfInterest.MaxCount)
		dst = writeUint(dst, m.AreaOfInterest.MaxSize)
	}
	return dst
}

// EncodeSetupBindStaticToken encodes a SetupBindStaticToken message.
func EncodeSetupBindStaticToken(m SetupBindStaticToken) []byte {
	dst := []byte{tagSetupBindStaticToken}
	return writeBytes(dst, m.StaticToken)
}

func writeRange3d(dst []byte, r Range3dWire) []byte {
	dst = writeBytes(dst, r.Subspace)
	dst = writePath(dst, r.PathStart)
	dst = append(dst, boolByte(r.PathEnd == nil))
	if r.PathEnd != nil {
		dst = writePath(dst, r.PathEnd)
	}
	dst = writeUint(dst, r.Times.Start)
	dst = append(dst, boolByte(r.Times.IsOpen()))
	if !r.Times.IsOpen() {
		dst = writeUint(dst, r.Times.End)
	}
	return dst
}

// EncodeReconciliationSendFingerprint encodes a
// ReconciliationSendFingerprint message. The sender and receiver handles
// are back-referenced automatically when p already holds the same value.
// The range is not compared with p: it is encoded relative only when the
// caller sets m.IsRangeRelative, and in full otherwise.
func EncodeReconciliationSendFingerprint(m ReconciliationSendFingerprint, p *privy.Privy) []byte {
	isSenderPrev := p.IsSamePrevSender(m.SenderHandle)
	isReceiverPrev := p.IsSamePrevReceiver(m.ReceiverHandle)
	isRangeRelative := m.IsRangeRelative

	flags := byte(0)
	if isSenderPrev {
		flags |= 0x01
	}
	if isReceiverPrev {
		flags |= 0x02
	}
	if isRangeRelative {
		flags |= 0x04
	}

	dst := []byte{tagReconciliationSendFingerprintBase | flags}
	if !isRangeRelative {
		dst = writeRange3d(dst, m.Range3d)
	}
	if !isSenderPrev {
		dst = writeUint(dst, m.SenderHandle)
	}
	if !isReceiverPrev {
		dst = writeUint(dst, m.ReceiverHandle)
	}
	dst = writeBytes(dst, m.Fingerprint)

	p.OnSendFingerprint(rangeToPrivy(m.Range3d), m.SenderHandle, m.ReceiverHandle)
	return dst
}

// EncodeReconciliationAnnounceEntries encodes a
// ReconciliationAnnounceEntries message.
func EncodeReconciliationAnnounceEntries(m ReconciliationAnnounceEntries, p *privy.Privy) []byte {
	isSenderPrev := p.IsSamePrevSender(m.SenderHandle)
	isReceiverPrev := p.IsSamePrevReceiver(m.ReceiverHandle)

	flags := byte(0)
	if isSenderPrev {
		flags |= 0x01
	}
	if isReceiverPrev {
		flags |= 0x02
	}
	if m.IsRangeRelative {
		flags |= 0x04
	}
	if m.WantResponse {
		flags |= 0x08
	}

	dst := []byte{tagReconciliationAnnounceEntriesBase | flags}
	if !m.IsRangeRelative {
		dst = writeRange3d(dst, m.Range3d)
	}
	dst = writeBytes(dst, m.Namespace)
	dst = writeUint(dst, m.Count)
	if !isSenderPrev {
		dst = writeUint(dst, m.SenderHandle)
	}
	if !isReceiverPrev {
		dst = writeUint(dst, m.ReceiverHandle)
	}
	dst = append(dst, boolByte(m.WillSort))

	p.OnAnnounceEntries(rangeToPrivy(m.Range3d), m.Namespace, m.Count, m.SenderHandle, m.ReceiverHandle, m.WillSort)
	return dst
}

// EncodeReconciliationSendEntry encodes a ReconciliationSendEntry message.
// It shares the AnnounceEntries tag mask; callers must only invoke this
// while p.ExpectsSendEntry() holds.
func EncodeReconciliationSendEntry(m ReconciliationSendEntry, p *privy.Privy) []byte {
	isPrevStaticToken := m.IsPrevStaticToken

	flags := byte(0)
	if isPrevStaticToken {
		flags |= 0x01
	}

	dst := []byte{tagReconciliationAnnounceEntriesBase | flags}
	dst = writeBytes(dst, m.Subspace)
	dst = writePath(dst, m.Path)
	dst = writeUint(dst, m.Timestamp)
	dst = writeUint(dst, m.PayloadLength)
	dst = writeBytes(dst, m.PayloadDigest)
	if !isPrevStaticToken {
		dst = writeUint(dst, m.StaticTokenHandle)
	}
	dst = writeBytes(dst, m.DynamicToken)

	entry := privy.Entry{
		Path:          m.Path,
		Timestamp:     m.Timestamp,
		PayloadLength: m.PayloadLength,
		PayloadDigest: m.PayloadDigest,
		Subspace:      m.Subspace,
	}
	p.OnSendEntry(entry, m.StaticTokenHandle)
	return dst
}

// EncodeData encodes an opaque Data-family message.
func EncodeData(m Data) []byte {
	tag := tagDataBase | (m.SubKind & 0x0f)
	dst := []byte{tag}
	return writeBytes(dst, m.Payload)
}

func rangeToPrivy(r Range3dWire) privy.Range3d {
	return privy.Range3d{
		Subspace:  r.Subspace,
		PathStart: r.PathStart,
		PathEnd:   r.PathEnd,
		Times:     r.Times,
	}
}
