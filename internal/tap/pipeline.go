package tap

import (
	"context"
	"errors"
	"io"
	"time"
)

// ByteSource is an abstract provider of arrival-timestamped byte chunks,
// the core's only I/O boundary. Next returns io.EOF when the source is
// exhausted or closed; the pipeline treats that as a clean shutdown.
type ByteSource interface {
	Next(ctx context.Context) (arrival time.Time, chunk []byte, err error)
}

// Pipeline wires components A-F into the single runnable loop: splitter,
// frame codec, and session tracker. It is the library's one public entry
// point for driving bytes to events.
type Pipeline struct {
	errSink ErrorSink

	// RawTap and FrameTap are optional read-only diagnostic mirrors of the
	// splitter and frame-codec stages: RawTap receives each delimited,
	// still-escaped frame the splitter emits, FrameTap each frame that
	// decodes. They never influence decoding or event emission.
	RawTap   func(Direction, []byte)
	FrameTap func(*Frame)

	splitter *Splitter
	tracker  *SessionTracker
}

// SetPVPacketTap installs a read-only mirror of every PV packet extracted
// from a receive-response, regardless of whether it decodes to a dedicated
// event.
func (p *Pipeline) SetPVPacketTap(tap func(GatewayID, PVPacket)) {
	p.tracker.PVPacketTap = tap
}

// SeedNodeBinding injects a previously persisted (gateway, node) long
// address binding into the session tracker's node-table cache, before Run
// is called, so restored identity is available to the first power reports.
func (p *Pipeline) SeedNodeBinding(gateway GatewayID, node PVNodeID, addr PVLongAddress) {
	p.tracker.SeedNodeBinding(gateway, node, addr)
}

// NewPipeline returns a Pipeline reporting recoverable errors to sink (may
// be nil) and delivering events to events.
func NewPipeline(sink ErrorSink, events EventSink) *Pipeline {
	return &Pipeline{
		errSink:  sink,
		splitter: NewSplitter(),
		tracker:  NewSessionTracker(sink, events),
	}
}

// State returns the current enumeration state, for diagnostics.
func (p *Pipeline) State() EnumerationState { return p.tracker.State() }

// Run reads chunks from src until it returns io.EOF, ctx is canceled, or a
// non-EOF error occurs, feeding each chunk through the decode and session
// stages in order. It blocks until one of those conditions is reached.
// Cancellation discards any in-flight partial frame silently, per spec.
func (p *Pipeline) Run(ctx context.Context, src ByteSource) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		arrival, chunk, err := src.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		for _, raw := range p.splitter.Feed(chunk) {
			if p.RawTap != nil {
				p.RawTap(raw.Direction, raw.Bytes)
			}

			frame, err := DecodeFrame(raw)
			if err != nil {
				reportError(p.errSink, err)
				continue
			}
			if !frame.ConsistentDirection() {
				reportError(p.errSink, &StateViolation{Reason: "frame address direction bit disagrees with preamble-inferred direction"})
			}
			if p.FrameTap != nil {
				p.FrameTap(frame)
			}

			p.tracker.HandleFrame(frame, arrival)
		}
	}
}
