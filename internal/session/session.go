// Package session orchestrates one WGPS connection end to end: the
// transport's byte stream, the message codec, the PAI finder, the
// reconciliation privy, and the per-channel credit framer (spec.md §2, §5).
//
// A Session runs two tasks: one pumping bytes from the Transport into a
// GrowingBytes, and one decoding messages from it and dispatching them —
// mirroring the teacher's `cmd/dittofs` adapter lifecycle (a reader
// goroutine feeding a shared buffer, a single task draining it), adapted
// from RPC procedure dispatch to WGPS message dispatch.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/marmos91/wgps/internal/channel"
	"github.com/marmos91/wgps/internal/growbytes"
	"github.com/marmos91/wgps/internal/handle"
	"github.com/marmos91/wgps/internal/logger"
	"github.com/marmos91/wgps/internal/pai"
	"github.com/marmos91/wgps/internal/privy"
	"github.com/marmos91/wgps/internal/sessionstore"
	"github.com/marmos91/wgps/internal/telemetry"
	"github.com/marmos91/wgps/internal/wire"
	"github.com/marmos91/wgps/pkg/metrics"
	"github.com/marmos91/wgps/pkg/wgps"
)

// Metrics bundles the optional per-domain metrics sinks a Session records
// against. Every field may be nil; the session checks each field for nil
// before recording, so a nil field records nothing.
type Metrics struct {
	Channel metrics.ChannelMetrics
	Handle  metrics.HandleMetrics
	Pai     metrics.PAIMetrics
	Wire    metrics.WireMetrics
}

// Resume configures the optional checkpointed-resume extension
// (SPEC_FULL.md §5). A nil Store disables it entirely — the default,
// since spec.md treats PAI state as process-lifetime.
type Resume struct {
	Store  *sessionstore.Store
	PeerID string
}

func (r Resume) enabled() bool { return r.Store != nil && r.PeerID != "" }

// Config configures a new Session.
type Config struct {
	Transport wgps.Transport
	Schemes   wgps.SessionSchemes
	Role      wgps.Role
	Metrics   Metrics
	Resume    Resume
}

// Session is one live WGPS connection's state machine.
type Session struct {
	transport wgps.Transport
	schemes   wgps.SessionSchemes
	role      wgps.Role
	metrics   Metrics

	gb     *growbytes.GrowingBytes
	privy  *privy.Privy
	pai    *pai.Finder
	framer *channel.Framer

	capabilities    *handle.Store[wgps.ReadAuthorisation]
	areasOfInterest *handle.Store[wgps.AreaOfInterest]
	staticTokens    *handle.Store[[]byte]
	payloadRequests *handle.Store[struct{}]

	intersections chan pai.IntersectionEvent

	resume Resume

	sendMu sync.Mutex

	closeOnce sync.Once
	done      chan struct{}
}

// New constructs a Session ready to Run. If cfg.Resume names a checkpoint
// store and a prior checkpoint exists for cfg.Resume.PeerID, the privy and
// completed PAI theirs-side state are restored from it before the caller
// ever calls Run.
func New(cfg Config) *Session {
	s := &Session{
		transport:       cfg.Transport,
		schemes:         cfg.Schemes,
		role:            cfg.Role,
		metrics:         cfg.Metrics,
		gb:              growbytes.New(),
		privy:           privy.New(),
		pai:             pai.New(cfg.Schemes.Pai),
		framer:          channel.NewFramer(),
		capabilities:    handle.New[wgps.ReadAuthorisation](),
		areasOfInterest: handle.New[wgps.AreaOfInterest](),
		staticTokens:    handle.New[[]byte](),
		payloadRequests: handle.New[struct{}](),
		intersections:   make(chan pai.IntersectionEvent, 16),
		resume:          cfg.Resume,
		done:            make(chan struct{}),
	}

	if cfg.Resume.enabled() {
		if err := s.loadCheckpoint(); err != nil {
			logger.Warn("failed to load session checkpoint, starting clean",
				logger.Err(err))
		}
	}

	return s
}

func (s *Session) loadCheckpoint() error {
	cp, found, err := s.resume.Store.LoadCheckpoint(s.resume.PeerID)
	if err != nil {
		return fmt.Errorf("session: load checkpoint: %w", err)
	}
	if !found {
		return nil
	}
	if cp.Privy != nil {
		s.privy = cp.Privy
	}
	if err := s.pai.Restore(cp.Theirs); err != nil {
		return fmt.Errorf("session: restore pai state: %w", err)
	}
	return nil
}

// saveCheckpoint persists the session's current privy and PAI theirs-side
// state. Errors are logged, not returned: a failed checkpoint degrades a
// future resume to a clean start, not this session's own correctness.
func (s *Session) saveCheckpoint() {
	if !s.resume.enabled() {
		return
	}
	cp := sessionstore.Checkpoint{Privy: s.privy, Theirs: s.pai.Snapshot()}
	if err := s.resume.Store.SaveCheckpoint(s.resume.PeerID, cp); err != nil {
		logger.Warn("failed to save session checkpoint", logger.Err(err))
	}
}

// Intersections returns the channel of discovered mutual intersections.
// Callers should range over it until Run returns.
func (s *Session) Intersections() <-chan pai.IntersectionEvent {
	return s.intersections
}

// Run drives the session until ctx is cancelled, the transport closes, or
// a fatal protocol error occurs. It starts the receive pump and the decode
// loop and blocks until both have stopped.
func (s *Session) Run(ctx context.Context) error {
	ctx, span := telemetry.StartSessionSpan(ctx, telemetry.SpanSessionRun, s.role.String())
	defer span.End()

	logger.InfoCtx(ctx, "session starting", logger.SessionRole(s.role.String()))

	recvErrCh := make(chan error, 1)
	go func() {
		recvErrCh <- s.recvLoop(ctx)
	}()

	// WaitAbsolute has no context awareness of its own (growbytes doc
	// comment); cancellation is delivered by closing the buffer, same as
	// transport EOF does.
	go func() {
		select {
		case <-ctx.Done():
			s.Close()
		case <-s.done:
		}
	}()

	decodeErr := s.decodeLoop(ctx)

	// decodeLoop has returned on this goroutine, so it is safe to close the
	// intersections channel now: nothing can still be sending on it.
	s.Close()
	close(s.intersections)
	recvErr := <-recvErrCh

	if decodeErr != nil && !errors.Is(decodeErr, io.EOF) {
		telemetry.RecordError(ctx, decodeErr)
		return decodeErr
	}
	if recvErr != nil && !errors.Is(recvErr, io.EOF) && !errors.Is(recvErr, context.Canceled) {
		return recvErr
	}
	return nil
}

// Close releases the session's transport and wakes any pending decode
// wait by closing the underlying buffer. Safe to call more than once. It
// does not close the Intersections channel — Run does that once the
// decode loop has actually stopped.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.saveCheckpoint()
		close(s.done)
		s.gb.Close()
		_ = s.transport.Close()
	})
}

func (s *Session) recvLoop(ctx context.Context) error {
	for {
		select {
		case <-s.done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		chunk, err := s.transport.Recv(ctx)
		if err != nil {
			s.gb.Close()
			return err
		}
		if s.metrics.Wire != nil {
			s.metrics.Wire.RecordBytesRead(len(chunk))
		}
		s.gb.Write(chunk)
	}
}

func (s *Session) decodeLoop(ctx context.Context) error {
	for {
		select {
		case <-s.done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		msg, err := wire.Decode(s.gb, s.privy, s.schemes.Pai)
		if err != nil {
			if errors.Is(err, growbytes.ErrClosed) {
				return io.EOF
			}
			if s.metrics.Wire != nil {
				s.metrics.Wire.RecordDecodeError(classifyDecodeError(err))
			}
			return err
		}
		if s.metrics.Wire != nil {
			s.metrics.Wire.RecordDecoded(msg.Kind.String())
		}
		logger.DebugCtx(ctx, "decoded message", logger.MessageKind(msg.Kind.String()))

		if err := s.handle(ctx, msg); err != nil {
			return err
		}
	}
}

func classifyDecodeError(err error) string {
	switch {
	case errors.Is(err, wire.ErrDecode):
		return "bad_tag"
	case errors.Is(err, wire.ErrProtocolValidation):
		return "back_reference"
	default:
		return "truncated"
	}
}

// handle dispatches one decoded message to the subsystem that owns it.
func (s *Session) handle(ctx context.Context, msg wire.Message) error {
	switch msg.Kind {
	case wire.KindControlIssueGuarantee:
		m := msg.ControlIssueGuarantee
		released := s.framer.Outbound(m.Channel).Grant(m.Amount)
		if s.metrics.Channel != nil {
			s.metrics.Channel.RecordGuaranteeIssued(m.Channel.String(), m.Amount)
			s.metrics.Channel.SetCredit(m.Channel.String(), s.framer.Outbound(m.Channel).Granted())
		}
		return s.releaseFrames(ctx, m.Channel, released)

	case wire.KindControlAbsolve:
		m := msg.ControlAbsolve
		s.framer.Outbound(m.Channel).Absolve(m.Amount)
		if s.metrics.Channel != nil {
			s.metrics.Channel.RecordGuaranteeAbsolved(m.Channel.String(), m.Amount)
		}
		return nil

	case wire.KindControlPlead:
		m := msg.ControlPlead
		s.framer.Outbound(m.Channel).Plead(m.Target)
		if s.metrics.Channel != nil {
			s.metrics.Channel.RecordPlead(m.Channel.String())
		}
		return nil

	case wire.KindControlAnnounceDropping:
		s.framer.AnnounceDropping(msg.ControlAnnounceDropping.Channel)
		if s.metrics.Channel != nil {
			s.metrics.Channel.RecordDropped(msg.ControlAnnounceDropping.Channel.String())
		}
		return nil

	case wire.KindControlApologise:
		s.framer.Apologise(msg.ControlApologise.Channel)
		return nil

	case wire.KindControlFree:
		return s.handleFree(msg.ControlFree)

	case wire.KindPaiBindFragment:
		return s.handlePaiBindFragment(ctx, msg.PaiBindFragment)

	case wire.KindPaiReplyFragment:
		return s.handlePaiReplyFragment(ctx, msg.PaiReplyFragment)

	case wire.KindPaiRequestSubspaceCapability:
		return s.handlePaiRequestSubspaceCapability(ctx, msg.PaiRequestSubspaceCapability)

	case wire.KindPaiReplySubspaceCapability:
		return s.handlePaiReplySubspaceCapability(ctx, msg.PaiReplySubspaceCapability)

	case wire.KindSetupBindAreaOfInterest:
		m := msg.SetupBindAreaOfInterest
		s.areasOfInterest.Bind(m.AreaOfInterest)
		if s.metrics.Handle != nil {
			s.metrics.Handle.RecordBound("area_of_interest")
		}
		return nil

	case wire.KindSetupBindStaticToken:
		s.staticTokens.Bind(msg.SetupBindStaticToken.StaticToken)
		if s.metrics.Handle != nil {
			s.metrics.Handle.RecordBound("static_token")
		}
		return nil

	case wire.KindCommitmentReveal, wire.KindSetupBindReadCapability,
		wire.KindReconciliationSendFingerprint, wire.KindReconciliationAnnounceEntries,
		wire.KindReconciliationSendEntry, wire.KindData:
		// Reconciliation/data-plane payload semantics are out of this
		// engine's scope; the privy tracker has already updated its rolling
		// state as a side effect of decoding. Sessions that need the
		// content hook in here.
		return nil

	default:
		return fmt.Errorf("session: unhandled message kind %s", msg.Kind)
	}
}

func (s *Session) handleFree(m *wire.ControlFree) error {
	kind := "unknown"
	switch m.HandleKind {
	case wire.HandleAreaOfInterest:
		s.areasOfInterest.Free(m.Handle)
		kind = "area_of_interest"
	case wire.HandleStaticToken:
		s.staticTokens.Free(m.Handle)
		kind = "static_token"
	case wire.HandleCapability:
		s.capabilities.Free(m.Handle)
		kind = "capability"
	case wire.HandlePayloadRequest:
		s.payloadRequests.Free(m.Handle)
		kind = "payload_request"
	}
	if s.metrics.Handle != nil {
		s.metrics.Handle.RecordFreed(kind)
	}
	return nil
}

func (s *Session) handlePaiBindFragment(ctx context.Context, m *wire.PaiBindFragment) error {
	reply, intersections, requests, err := s.pai.ReceivedBind(m.GroupElement, m.IsSecondary)
	if err != nil {
		return err
	}
	if s.metrics.Pai != nil {
		s.metrics.Pai.RecordBindReceived(fragmentKindLabel(m.IsSecondary))
	}
	if err := s.sendPaiReplyFragment(ctx, reply); err != nil {
		return err
	}
	s.emitIntersections(ctx, intersections)
	return s.emitSubspaceCapRequests(ctx, requests)
}

func (s *Session) handlePaiReplyFragment(ctx context.Context, m *wire.PaiReplyFragment) error {
	intersections, requests, err := s.pai.ReceivedReply(m.Handle, m.GroupElement)
	if err != nil {
		return err
	}
	s.emitIntersections(ctx, intersections)
	return s.emitSubspaceCapRequests(ctx, requests)
}

func (s *Session) handlePaiRequestSubspaceCapability(ctx context.Context, m *wire.PaiRequestSubspaceCapability) error {
	replies, err := s.pai.ReceivedSubspaceCapRequest(m.Handle)
	if err != nil {
		return err
	}
	for _, r := range replies {
		raw := wire.EncodePaiReplySubspaceCapability(wire.PaiReplySubspaceCapability{
			Handle:             r.TheirHandle,
			SubspaceCapability: s.schemes.SubspaceCap.Encode(r.SubspaceCapability),
		})
		if err := s.send(ctx, wgps.ChannelIntersection, raw); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) handlePaiReplySubspaceCapability(ctx context.Context, m *wire.PaiReplySubspaceCapability) error {
	subspaceCap, _, err := s.schemes.SubspaceCap.Decode(m.SubspaceCapability)
	if err != nil {
		return fmt.Errorf("session: decode subspace capability: %w", err)
	}
	if !s.schemes.SubspaceCap.IsValidCapability(subspaceCap) {
		return fmt.Errorf("session: subspace capability failed validation")
	}
	namespace := s.schemes.SubspaceCap.GetGrantedNamespace(subspaceCap)

	ev, err := s.pai.ReceivedVerifiedSubspaceCapReply(m.Handle, namespace)
	if err != nil {
		return err
	}
	s.emitIntersections(ctx, []pai.IntersectionEvent{ev})
	return nil
}

func fragmentKindLabel(isSecondary bool) string {
	if isSecondary {
		return "secondary"
	}
	return "primary"
}

func (s *Session) emitIntersections(ctx context.Context, events []pai.IntersectionEvent) {
	for _, ev := range events {
		if s.metrics.Pai != nil {
			s.metrics.Pai.RecordIntersectionFound(onIntersectionLabel(ev))
		}
		logger.InfoCtx(ctx, "intersection found", logger.Subspace(ev.OuterArea.Subspace))
		select {
		case s.intersections <- ev:
		case <-s.done:
		}
	}
}

func onIntersectionLabel(ev pai.IntersectionEvent) string {
	if ev.Authorisation.SubspaceCapability != nil {
		return "bind_read_cap"
	}
	return "request_subspace_cap"
}

func (s *Session) emitSubspaceCapRequests(ctx context.Context, requests []pai.SubspaceCapRequestEvent) error {
	for _, r := range requests {
		if s.metrics.Pai != nil {
			s.metrics.Pai.RecordSubspaceCapRequested()
		}
		raw := wire.EncodePaiRequestSubspaceCapability(wire.PaiRequestSubspaceCapability{Handle: r.TheirHandle})
		if err := s.send(ctx, wgps.ChannelIntersection, raw); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) sendPaiReplyFragment(ctx context.Context, reply pai.FragmentReplyEvent) error {
	raw := wire.EncodePaiReplyFragment(wire.PaiReplyFragment{
		Handle:       reply.TheirHandle,
		GroupElement: reply.Group,
	}, s.schemes.Pai)
	return s.send(ctx, wgps.ChannelIntersection, raw)
}

// SubmitAuthorisation derives and sends the PaiBindFragment messages for
// auth, per spec.md §4.6 step 1-2.
func (s *Session) SubmitAuthorisation(ctx context.Context, auth wgps.ReadAuthorisation) error {
	events, err := s.pai.SubmitAuthorisation(auth)
	if err != nil {
		return err
	}
	for _, ev := range events {
		if s.metrics.Pai != nil {
			s.metrics.Pai.RecordFragmentSubmitted(fragmentKindLabel(ev.IsSecondary))
			s.metrics.Pai.RecordBindSent(fragmentKindLabel(ev.IsSecondary))
		}
		raw := wire.EncodePaiBindFragment(wire.PaiBindFragment{
			GroupElement: ev.Group,
			IsSecondary:  ev.IsSecondary,
		}, s.schemes.Pai)
		if err := s.send(ctx, wgps.ChannelIntersection, raw); err != nil {
			return err
		}
	}
	return nil
}

// send gates raw on ch's outbound credit before writing it to the
// transport, queuing it against the guaranteed queue if credit isn't yet
// available (spec.md §4.4).
func (s *Session) send(ctx context.Context, ch wgps.Channel, raw []byte) error {
	account := s.framer.Outbound(ch)
	size := uint64(len(raw))

	if !account.CanSend(size) {
		released := account.Enqueue(channel.Frame{Size: size, Payload: raw})
		logger.DebugCtx(ctx, "queued frame awaiting credit", logger.Channel(ch.String()), logger.BacklogLen(1))
		return s.releaseFrames(ctx, ch, released)
	}
	if err := account.Spend(size); err != nil {
		return err
	}
	return s.writeFrame(ctx, ch, raw)
}

// releaseFrames writes out frames that a Grant or Enqueue has just freed
// from a channel's guaranteed queue, in the FIFO order they were released
// (spec.md §4.4: "releases them as credit arrives").
func (s *Session) releaseFrames(ctx context.Context, ch wgps.Channel, frames []channel.Frame) error {
	for _, f := range frames {
		if err := s.writeFrame(ctx, ch, f.Payload); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) writeFrame(ctx context.Context, ch wgps.Channel, raw []byte) error {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if err := s.transport.Send(ctx, raw); err != nil {
		return err
	}
	if s.metrics.Wire != nil {
		s.metrics.Wire.RecordBytesWritten(len(raw))
	}
	return nil
}
