package wire

import (
	"fmt"

	"github.com/marmos91/wgps/internal/growbytes"
	"github.com/marmos91/wgps/internal/privy"
	"github.com/marmos91/wgps/pkg/wgps"
)

// Decode reads exactly one message from gb, consulting and updating p for
// reconciliation back-references and the SendEntry/AnnounceEntries dispatch
// ambiguity (spec.md §4.5, §9). scheme decodes PAI group elements, which are
// fixed-size and therefore not self-describing on the wire.
func Decode(gb *growbytes.GrowingBytes, p *privy.Privy, scheme wgps.PaiScheme) (Message, error) {
	c := newCursor(gb)

	first, err := c.peek(1)
	if err != nil {
		return Message{}, err
	}

	kind, err := classify(first[0], p.ExpectsSendEntry())
	if err != nil {
		return Message{}, err
	}

	// Consume the first byte now that classify has inspected it.
	if _, err := c.readByte(); err != nil {
		return Message{}, err
	}

	var msg Message
	msg.Kind = kind

	switch kind {
	case KindCommitmentReveal:
		nonce, err := c.readBytes()
		if err != nil {
			return Message{}, err
		}
		msg.CommitmentReveal = &CommitmentReveal{Nonce: nonce}

	case KindControlIssueGuarantee, KindControlAbsolve, KindControlPlead,
		KindControlLimitSending, KindControlLimitReceiving:
		chByte, err := c.readByte()
		if err != nil {
			return Message{}, err
		}
		ch, err := channelFromLow3(chByte)
		if err != nil {
			return Message{}, err
		}
		n, err := c.readUint()
		if err != nil {
			return Message{}, err
		}
		switch kind {
		case KindControlIssueGuarantee:
			msg.ControlIssueGuarantee = &ControlIssueGuarantee{Channel: ch, Amount: n}
		case KindControlAbsolve:
			msg.ControlAbsolve = &ControlAbsolve{Channel: ch, Amount: n}
		case KindControlPlead:
			msg.ControlPlead = &ControlPlead{Channel: ch, Target: n}
		case KindControlLimitSending:
			msg.ControlLimitSending = &ControlLimit{Channel: ch, Limit: n}
		case KindControlLimitReceiving:
			msg.ControlLimitReceiving = &ControlLimit{Channel: ch, Limit: n}
		}

	case KindControlAnnounceDropping, KindControlApologise:
		ch, err := channelFromLow3(first[0])
		if err != nil {
			return Message{}, err
		}
		if kind == KindControlAnnounceDropping {
			msg.ControlAnnounceDropping = &ControlChannelOnly{Channel: ch}
		} else {
			msg.ControlApologise = &ControlChannelOnly{Channel: ch}
		}

	case KindControlFree:
		mineByte, err := c.readByte()
		if err != nil {
			return Message{}, err
		}
		hkByte, err := c.readByte()
		if err != nil {
			return Message{}, err
		}
		h, err := c.readUint()
		if err != nil {
			return Message{}, err
		}
		msg.ControlFree = &ControlFree{
			Handle:     h,
			Mine:       mineByte != 0,
			HandleKind: HandleKind(hkByte),
		}

	case KindPaiBindFragment:
		isSecondary := first[0]&0x01 != 0
		raw, err := c.readN(scheme.GroupElementSize())
		if err != nil {
			return Message{}, err
		}
		ge, err := scheme.DecodeGroupMember(raw)
		if err != nil {
			return Message{}, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		msg.PaiBindFragment = &PaiBindFragment{GroupElement: ge, IsSecondary: isSecondary}

	case KindPaiReplyFragment:
		h, err := c.readUint()
		if err != nil {
			return Message{}, err
		}
		raw, err := c.readN(scheme.GroupElementSize())
		if err != nil {
			return Message{}, err
		}
		ge, err := scheme.DecodeGroupMember(raw)
		if err != nil {
			return Message{}, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		msg.PaiReplyFragment = &PaiReplyFragment{Handle: h, GroupElement: ge}

	case KindPaiRequestSubspaceCapability:
		h, err := c.readUint()
		if err != nil {
			return Message{}, err
		}
		msg.PaiRequestSubspaceCapability = &PaiRequestSubspaceCapability{Handle: h}

	case KindPaiReplySubspaceCapability:
		h, err := c.readUint()
		if err != nil {
			return Message{}, err
		}
		subspaceCap, err := c.readBytes()
		if err != nil {
			return Message{}, err
		}
		sig, err := c.readBytes()
		if err != nil {
			return Message{}, err
		}
		msg.PaiReplySubspaceCapability = &PaiReplySubspaceCapability{
			Handle: h, SubspaceCapability: subspaceCap, Signature: sig,
		}

	case KindSetupBindReadCapability:
		capBytes, err := c.readBytes()
		if err != nil {
			return Message{}, err
		}
		sig, err := c.readBytes()
		if err != nil {
			return Message{}, err
		}
		msg.SetupBindReadCapability = &SetupBindReadCapability{Capability: capBytes, Signature: sig}

	case KindSetupBindAreaOfInterest:
		hasLimit := first[0]&0x04 != 0
		authHandle, err := c.readUint()
		if err != nil {
			return Message{}, err
		}
		area, err := readArea(c)
		if err != nil {
			return Message{}, err
		}
		aoi := wgps.AreaOfInterest{Area: area}
		if hasLimit {
			maxCount, err := c.readUint()
			if err != nil {
				return Message{}, err
			}
			maxSize, err := c.readUint()
			if err != nil {
				return Message{}, err
			}
			aoi.MaxCount = maxCount
			aoi.MaxSize = maxSize
		}
		msg.SetupBindAreaOfInterest = &SetupBindAreaOfInterest{
			AuthorisedCapabilityHandle: authHandle,
			AreaOfInterest:             aoi,
			HasLimit:                   hasLimit,
		}

	case KindSetupBindStaticToken:
		tok, err := c.readBytes()
		if err != nil {
			return Message{}, err
		}
		msg.SetupBindStaticToken = &SetupBindStaticToken{StaticToken: tok}

	case KindReconciliationSendFingerprint:
		flags := first[0] & 0x0f
		isSenderPrev := flags&0x01 != 0
		isReceiverPrev := flags&0x02 != 0
		isRangeRelative := flags&0x04 != 0

		var r Range3dWire
		if isRangeRelative {
			r = rangeFromPrivy(p.PrevRange)
		} else {
			var err error
			r, err = readRange3d(c)
			if err != nil {
				return Message{}, err
			}
		}

		senderHandle := p.PrevSenderHandle
		if !isSenderPrev {
			var err error
			senderHandle, err = c.readUint()
			if err != nil {
				return Message{}, err
			}
		}
		receiverHandle := p.PrevReceiverHandle
		if !isReceiverPrev {
			var err error
			receiverHandle, err = c.readUint()
			if err != nil {
				return Message{}, err
			}
		}

		fp, err := c.readBytes()
		if err != nil {
			return Message{}, err
		}

		msg.ReconciliationSendFingerprint = &ReconciliationSendFingerprint{
			Range3d:                r,
			SenderHandle:           senderHandle,
			ReceiverHandle:         receiverHandle,
			Fingerprint:            fp,
			IsSenderPrevSender:     isSenderPrev,
			IsReceiverPrevReceiver: isReceiverPrev,
			IsRangeRelative:        isRangeRelative,
		}
		p.OnSendFingerprint(rangeToPrivy(r), senderHandle, receiverHandle)

	case KindReconciliationAnnounceEntries:
		flags := first[0] & 0x0f
		isSenderPrev := flags&0x01 != 0
		isReceiverPrev := flags&0x02 != 0
		isRangeRelative := flags&0x04 != 0
		wantResponse := flags&0x08 != 0

		var r Range3dWire
		if isRangeRelative {
			r = rangeFromPrivy(p.PrevRange)
		} else {
			var err error
			r, err = readRange3d(c)
			if err != nil {
				return Message{}, err
			}
		}

		ns, err := c.readBytes()
		if err != nil {
			return Message{}, err
		}
		count, err := c.readUint()
		if err != nil {
			return Message{}, err
		}

		senderHandle := p.PrevSenderHandle
		if !isSenderPrev {
			var err error
			senderHandle, err = c.readUint()
			if err != nil {
				return Message{}, err
			}
		}
		receiverHandle := p.PrevReceiverHandle
		if !isReceiverPrev {
			var err error
			receiverHandle, err = c.readUint()
			if err != nil {
				return Message{}, err
			}
		}

		willSortByte, err := c.readByte()
		if err != nil {
			return Message{}, err
		}
		willSort := willSortByte != 0

		msg.ReconciliationAnnounceEntries = &ReconciliationAnnounceEntries{
			Range3d:         r,
			Namespace:       ns,
			Count:           count,
			SenderHandle:    senderHandle,
			ReceiverHandle:  receiverHandle,
			WantResponse:    wantResponse,
			WillSort:        willSort,
			IsRangeRelative: isRangeRelative,
		}
		p.OnAnnounceEntries(rangeToPrivy(r), ns, count, senderHandle, receiverHandle, willSort)

	case KindReconciliationSendEntry:
		flags := first[0] & 0x0f
		isPrevStaticToken := flags&0x01 != 0

		subspace, err := c.readBytes()
		if err != nil {
			return Message{}, err
		}
		path, err := c.readPath()
		if err != nil {
			return Message{}, err
		}
		ts, err := c.readUint()
		if err != nil {
			return Message{}, err
		}
		payloadLen, err := c.readUint()
		if err != nil {
			return Message{}, err
		}
		digest, err := c.readBytes()
		if err != nil {
			return Message{}, err
		}

		staticHandle := p.PrevStaticTokenHandle
		if !isPrevStaticToken {
			var err error
			staticHandle, err = c.readUint()
			if err != nil {
				return Message{}, err
			}
		}

		dyn, err := c.readBytes()
		if err != nil {
			return Message{}, err
		}

		msg.ReconciliationSendEntry = &ReconciliationSendEntry{
			Subspace:          subspace,
			Path:              path,
			Timestamp:         ts,
			PayloadLength:     payloadLen,
			PayloadDigest:     digest,
			StaticTokenHandle: staticHandle,
			DynamicToken:      dyn,
			IsPrevStaticToken: isPrevStaticToken,
		}

		entry := privy.Entry{
			Path:          path,
			Timestamp:     ts,
			PayloadLength: payloadLen,
			PayloadDigest: digest,
			Subspace:      subspace,
		}
		p.OnSendEntry(entry, staticHandle)

	case KindData:
		subKind := first[0] & 0x0f
		payload, err := c.readBytes()
		if err != nil {
			return Message{}, err
		}
		msg.Data = &Data{SubKind: subKind, Payload: payload}

	default:
		return Message{}, fmt.Errorf("%w: unhandled kind %s", ErrDecode, kind)
	}

	c.finish()
	return msg, nil
}

func readArea(c *cursor) (wgps.Area, error) {
	anyByte, err := c.readByte()
	if err != nil {
		return wgps.Area{}, err
	}
	anyFlag := anyByte != 0

	var subspace []byte
	if !anyFlag {
		subspace, err = c.readBytes()
		if err != nil {
			return wgps.Area{}, err
		}
	}

	path, err := c.readPath()
	if err != nil {
		return wgps.Area{}, err
	}

	start, err := c.readUint()
	if err != nil {
		return wgps.Area{}, err
	}
	openByte, err := c.readByte()
	if err != nil {
		return wgps.Area{}, err
	}
	tr := wgps.TimeRange{Start: start, End: wgps.OpenEnd}
	if openByte == 0 {
		end, err := c.readUint()
		if err != nil {
			return wgps.Area{}, err
		}
		tr.End = end
	}

	return wgps.Area{
		SubspaceIsAny: anyFlag,
		Subspace:      subspace,
		PathPrefix:    path,
		Times:         tr,
	}, nil
}

func readRange3d(c *cursor) (Range3dWire, error) {
	subspace, err := c.readBytes()
	if err != nil {
		return Range3dWire{}, err
	}
	pathStart, err := c.readPath()
	if err != nil {
		return Range3dWire{}, err
	}
	openPathByte, err := c.readByte()
	if err != nil {
		return Range3dWire{}, err
	}
	var pathEnd [][]byte
	if openPathByte == 0 {
		pathEnd, err = c.readPath()
		if err != nil {
			return Range3dWire{}, err
		}
	}
	start, err := c.readUint()
	if err != nil {
		return Range3dWire{}, err
	}
	openTimeByte, err := c.readByte()
	if err != nil {
		return Range3dWire{}, err
	}
	tr := wgps.TimeRange{Start: start, End: wgps.OpenEnd}
	if openTimeByte == 0 {
		end, err := c.readUint()
		if err != nil {
			return Range3dWire{}, err
		}
		tr.End = end
	}

	return Range3dWire{
		Subspace:  subspace,
		PathStart: pathStart,
		PathEnd:   pathEnd,
		Times:     tr,
	}, nil
}

func rangeFromPrivy(r privy.Range3d) Range3dWire {
	return Range3dWire{
		Subspace:  r.Subspace,
		PathStart: r.PathStart,
		PathEnd:   r.PathEnd,
		Times:     r.Times,
	}
}
