package tap

import "fmt"

// Direction identifies which side of the half-duplex bus produced a frame.
type Direction int

const (
	// DirectionUnknown means no preamble was observed before the frame
	// start; the frame is still emitted, just untagged.
	DirectionUnknown Direction = iota
	// DirectionToGateway is the controller transmitting to a gateway.
	DirectionToGateway
	// DirectionFromGateway is a gateway transmitting to the controller.
	DirectionFromGateway
)

func (d Direction) String() string {
	switch d {
	case DirectionToGateway:
		return "to_gateway"
	case DirectionFromGateway:
		return "from_gateway"
	default:
		return "unknown"
	}
}

// GatewayID is the 15-bit logical address assigned by the controller
// during enumeration.
type GatewayID uint16

func (id GatewayID) String() string {
	return fmt.Sprintf("0x%04X", uint16(id))
}

// addressDirectionBit is the high bit of a gateway frame address, set when
// the frame direction is from-gateway.
const addressDirectionBit = 0x8000

// gatewayIDFromAddress strips the direction bit, leaving the 15-bit ID.
func gatewayIDFromAddress(address uint16) GatewayID {
	return GatewayID(address &^ addressDirectionBit)
}

// PVNodeID is the 16-bit logical address a gateway assigns to a PV device.
// 0x0001 is implicitly the gateway itself; 0x0000 is the PV broadcast
// address.
type PVNodeID uint16

const (
	// PVNodeIDGateway is the node ID implicitly reserved for the gateway.
	PVNodeIDGateway PVNodeID = 0x0001
	// PVNodeIDBroadcast is the PV broadcast address.
	PVNodeIDBroadcast PVNodeID = 0x0000
)

func (id PVNodeID) String() string {
	return fmt.Sprintf("0x%04X", uint16(id))
}

// PVLongAddress is a 64-bit EUI-64 hardware identifier, stable per device.
type PVLongAddress [8]byte

func (a PVLongAddress) String() string {
	return fmt.Sprintf("%02X:%02X:%02X:%02X:%02X:%02X:%02X:%02X",
		a[0], a[1], a[2], a[3], a[4], a[5], a[6], a[7])
}

// IsZero reports whether the address is all-zero, i.e. never populated.
func (a PVLongAddress) IsZero() bool {
	return a == PVLongAddress{}
}

// longAddressFromBytes reads an 8-byte big-endian-on-the-wire long address.
func longAddressFromBytes(b []byte) PVLongAddress {
	var a PVLongAddress
	copy(a[:], b[:8])
	return a
}

// ParsePVLongAddress parses the "XX:XX:XX:XX:XX:XX:XX:XX" form produced by
// String, the round-trip format used by internal/store's persisted
// node_bindings rows.
func ParsePVLongAddress(s string) (PVLongAddress, error) {
	var a PVLongAddress
	n, err := fmt.Sscanf(s, "%02X:%02X:%02X:%02X:%02X:%02X:%02X:%02X",
		&a[0], &a[1], &a[2], &a[3], &a[4], &a[5], &a[6], &a[7])
	if err != nil || n != 8 {
		return PVLongAddress{}, fmt.Errorf("tap: invalid long address %q", s)
	}
	return a, nil
}
