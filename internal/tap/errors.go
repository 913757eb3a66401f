package tap

import "fmt"

// FramingError covers a bad escape sequence, a nested frame start, or an
// unterminated frame. Recovery: resync to the next frame start marker.
type FramingError struct {
	Reason string
}

func (e *FramingError) Error() string {
	return fmt.Sprintf("framing: %s", e.Reason)
}

// ChecksumError is a CRC mismatch. Recovery: drop the frame, continue.
type ChecksumError struct {
	Address  uint16
	Kind     uint16
	Want     uint16
	Got      uint16
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("checksum: address=0x%04X kind=0x%04X want=0x%04X got=0x%04X",
		e.Address, e.Kind, e.Want, e.Got)
}

// TruncationError is a payload shorter than a mandatory field requires.
// Recovery: drop the remainder of the containing response, continue.
type TruncationError struct {
	Context string
	Need    int
	Have    int
}

func (e *TruncationError) Error() string {
	return fmt.Sprintf("truncated %s: need %d bytes, have %d", e.Context, e.Need, e.Have)
}

// UnknownKindError is a gateway frame kind not in the known transport
// table. It parses structurally but isn't recognized.
type UnknownKindError struct {
	Kind uint16
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("unknown gateway frame kind 0x%04X", e.Kind)
}

// UnknownPvTypeError is a PV packet type byte not in the known decoder
// table.
type UnknownPvTypeError struct {
	PvType byte
}

func (e *UnknownPvTypeError) Error() string {
	return fmt.Sprintf("unknown PV packet type 0x%02X", e.PvType)
}

// StateViolation covers an anomaly against tracked state, such as a
// receive-response from a gateway not currently known, or a slot-counter
// anomaly. Recovery: warn, then update or reset the local inference.
type StateViolation struct {
	Reason string
}

func (e *StateViolation) Error() string {
	return fmt.Sprintf("state violation: %s", e.Reason)
}

// ErrorSink receives recoverable errors observed while decoding. A nil
// ErrorSink is valid; errors are simply dropped. Implementations (e.g.
// internal/diag) are expected to count by taxonomy class, never to abort
// the pipeline.
type ErrorSink interface {
	ObserveError(err error)
}

// ErrorSinkFunc adapts a function to ErrorSink.
type ErrorSinkFunc func(error)

// ObserveError implements ErrorSink.
func (f ErrorSinkFunc) ObserveError(err error) {
	if f != nil {
		f(err)
	}
}

func reportError(sink ErrorSink, err error) {
	if sink != nil && err != nil {
		sink.ObserveError(err)
	}
}
