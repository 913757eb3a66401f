package tap

import (
	"encoding/binary"
	"fmt"
)

// Frame is the decoded (address, kind, payload) tuple the codec produces.
type Frame struct {
	Direction Direction
	Address   uint16
	Kind      uint16
	Payload   []byte
}

// GatewayID returns the 15-bit gateway ID carried in the frame address,
// with the direction bit stripped.
func (f *Frame) GatewayID() GatewayID {
	return gatewayIDFromAddress(f.Address)
}

// IsBroadcast reports whether the address is the broadcast / broadcast-
// reply form (0x0000 / 0x8000).
func (f *Frame) IsBroadcast() bool {
	return f.GatewayID() == 0
}

// ConsistentDirection reports whether the address's high bit agrees with
// the direction inferred from the preamble, per the data-model invariant.
func (f *Frame) ConsistentDirection() bool {
	fromGateway := f.Address&addressDirectionBit != 0
	switch f.Direction {
	case DirectionFromGateway:
		return fromGateway
	case DirectionToGateway:
		return !fromGateway
	default:
		return true // Unknown direction can't be checked against.
	}
}

// escape pair values, keyed by the raw byte they represent.
var escapeEncode = map[byte]byte{
	0x7E: 0x00,
	0x24: 0x01,
	0x23: 0x02,
	0x25: 0x03,
	0xA4: 0x04,
	0xA3: 0x05,
	0xA5: 0x06,
}

// unescapeBody reverses the byte-stuffing scheme over a frame body (the
// bytes strictly between the start and end markers).
func unescapeBody(body []byte) ([]byte, error) {
	out := make([]byte, 0, len(body))
	i := 0
	for i < len(body) {
		b := body[i]
		if b != escapeIntroducer {
			out = append(out, b)
			i++
			continue
		}
		if i+1 >= len(body) {
			return nil, &FramingError{Reason: "escape introducer at end of frame body"}
		}
		next := body[i+1]
		switch next {
		case 0x00:
			out = append(out, 0x7E)
		case 0x01:
			out = append(out, 0x24)
		case 0x02:
			out = append(out, 0x23)
		case 0x03:
			out = append(out, 0x25)
		case 0x04:
			out = append(out, 0xA4)
		case 0x05:
			out = append(out, 0xA3)
		case 0x06:
			out = append(out, 0xA5)
		case frameStartMarker:
			return nil, &FramingError{Reason: "nested frame start inside body"}
		default:
			return nil, &FramingError{Reason: fmt.Sprintf("invalid escape value 0x%02X", next)}
		}
		i += 2
	}
	return out, nil
}

// escapeBody applies the byte-stuffing scheme, the inverse of unescapeBody.
func escapeBody(raw []byte) []byte {
	out := make([]byte, 0, len(raw))
	for _, b := range raw {
		if esc, ok := escapeEncode[b]; ok {
			out = append(out, escapeIntroducer, esc)
			continue
		}
		out = append(out, b)
	}
	return out
}

// minBodyLen is address(2) + kind(2) + crc(2), the smallest possible
// unescaped body (zero-length payload).
const minBodyLen = 6

// DecodeFrame unescapes, delimits, and CRC-validates a RawFrame, yielding
// the (address, kind, payload) tuple.
func DecodeFrame(raw RawFrame) (*Frame, error) {
	if len(raw.Bytes) < 4 ||
		raw.Bytes[0] != escapeIntroducer || raw.Bytes[1] != frameStartMarker ||
		raw.Bytes[len(raw.Bytes)-2] != escapeIntroducer || raw.Bytes[len(raw.Bytes)-1] != frameEndMarker {
		return nil, &FramingError{Reason: "frame missing start/end markers"}
	}

	body := raw.Bytes[2 : len(raw.Bytes)-2]
	unescaped, err := unescapeBody(body)
	if err != nil {
		return nil, err
	}
	if len(unescaped) < minBodyLen {
		return nil, &TruncationError{Context: "frame body", Need: minBodyLen, Have: len(unescaped)}
	}

	address := binary.BigEndian.Uint16(unescaped[0:2])
	kind := binary.BigEndian.Uint16(unescaped[2:4])
	payload := unescaped[4 : len(unescaped)-2]
	crcBytes := unescaped[len(unescaped)-2:]
	got := uint16(crcBytes[0]) | uint16(crcBytes[1])<<8 // little-endian on the wire

	want := frameCRC(address, kind, payload)
	if got != want {
		return nil, &ChecksumError{Address: address, Kind: kind, Want: want, Got: got}
	}

	return &Frame{Direction: raw.Direction, Address: address, Kind: kind, Payload: payload}, nil
}

// EncodeFrame is the inverse of DecodeFrame: it produces the on-wire,
// escaped, CRC-terminated byte run for a frame, including the start/end
// markers.
func EncodeFrame(f *Frame) RawFrame {
	crc := frameCRC(f.Address, f.Kind, f.Payload)

	raw := make([]byte, 0, 6+len(f.Payload))
	raw = append(raw, byte(f.Address>>8), byte(f.Address))
	raw = append(raw, byte(f.Kind>>8), byte(f.Kind))
	raw = append(raw, f.Payload...)
	raw = append(raw, byte(crc), byte(crc>>8))

	body := escapeBody(raw)
	out := make([]byte, 0, len(body)+4)
	out = append(out, escapeIntroducer, frameStartMarker)
	out = append(out, body...)
	out = append(out, escapeIntroducer, frameEndMarker)

	return RawFrame{Direction: f.Direction, Bytes: out}
}
