package tap

import (
	"encoding/binary"
	"fmt"
)

// pvPacketHeaderLen is the fixed header preceding each PV network packet
// embedded in a receive-response: type(1) ‖ pv_node_id(2) ‖
// short_address(2) ‖ dsn(1) ‖ data_length(1).
const pvPacketHeaderLen = 7

// maxPVPacketDataLen is the observed upper bound on embedded PV packet
// data, imposed by the underlying 802.15.4 PHY frame size.
const maxPVPacketDataLen = 134

// PVPacketHeader is the per-packet header inside a receive-response.
type PVPacketHeader struct {
	Type         byte
	PvNodeID     PVNodeID
	ShortAddress uint16
	DSN          byte
	DataLength   byte
}

// PVPacket is one PV network packet as extracted from a receive-response,
// still undecoded at the application layer.
type PVPacket struct {
	Header PVPacketHeader
	Data   []byte
}

// parseOnePVPacket decodes a single header+data PV packet from the front
// of b, returning the packet and the number of bytes consumed.
func parseOnePVPacket(b []byte) (PVPacket, int, error) {
	if len(b) < pvPacketHeaderLen {
		return PVPacket{}, 0, &TruncationError{Context: "pv_packet header", Need: pvPacketHeaderLen, Have: len(b)}
	}
	h := PVPacketHeader{
		Type:         b[0],
		PvNodeID:     PVNodeID(binary.BigEndian.Uint16(b[1:3])),
		ShortAddress: binary.BigEndian.Uint16(b[3:5]),
		DSN:          b[5],
		DataLength:   b[6],
	}
	if int(h.DataLength) >= maxPVPacketDataLen {
		return PVPacket{}, 0, &FramingError{Reason: fmt.Sprintf("pv_packet data_length %d exceeds protocol bound %d", h.DataLength, maxPVPacketDataLen)}
	}
	total := pvPacketHeaderLen + int(h.DataLength)
	if len(b) < total {
		return PVPacket{}, 0, &TruncationError{Context: "pv_packet data", Need: total, Have: len(b)}
	}
	return PVPacket{Header: h, Data: b[pvPacketHeaderLen:total]}, total, nil
}

// ParsePVPackets extracts the sequence of PV network packets following a
// receive-response's status header. A data_length that exceeds the
// remaining bytes aborts the remainder of the response rather than
// guessing; packets already extracted are still returned.
func ParsePVPackets(b []byte, sink ErrorSink) []PVPacket {
	var packets []PVPacket
	for len(b) > 0 {
		pkt, n, err := parseOnePVPacket(b)
		if err != nil {
			reportError(sink, err)
			break
		}
		packets = append(packets, pkt)
		b = b[n:]
	}
	return packets
}
