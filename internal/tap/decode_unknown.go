package tap

// OpaquePacket is the catch-all decode for PV packet types that parse
// structurally but whose payload has no established field layout
// (gateway radio configuration request, PV configuration request,
// broadcast, broadcast-ack, node-table request, network-status
// request/response, the long network-status request, and type 0x41),
// plus any type byte not in the known taxonomy at all.
type OpaquePacket struct {
	Type byte
	Data []byte
}

// PvType implements Decoded.
func (p OpaquePacket) PvType() byte { return p.Type }

// DecodeOpaquePacket wraps raw packet data with no further interpretation.
func DecodeOpaquePacket(pvType byte, data []byte) OpaquePacket {
	return OpaquePacket{Type: pvType, Data: append([]byte(nil), data...)}
}

// opaquePvTypes lists packet types that are structurally recognized (so
// they don't raise UnknownPvTypeError) but decoded as OpaquePacket because
// their payload layout isn't established. See spec's Open Questions.
var opaquePvTypes = map[byte]bool{
	PvTypeGatewayRadioConfigReq: true,
	PvTypeConfigRequest:         true,
	PvTypeBroadcast:             true,
	PvTypeBroadcastAck:          true,
	PvTypeNodeTableRequest:      true,
	PvTypeLongNetworkStatusReq:  true,
	PvTypeNetworkStatusRequest:  true,
	PvTypeNetworkStatusResponse: true,
	PvTypeUnknown41:             true,
}

// DecodePVApplication dispatches a PV packet's data by type to the
// appropriate application decoder. Unrecognized types decode as
// OpaquePacket and report UnknownPvTypeError via sink rather than
// failing the packet.
func DecodePVApplication(pvType byte, data []byte, sink ErrorSink) Decoded {
	switch pvType {
	case PvTypePowerReport:
		pr, err := DecodePowerReport(data)
		if err != nil {
			reportError(sink, err)
			return DecodeOpaquePacket(pvType, data)
		}
		return pr
	case PvTypeTopologyReport:
		tr, err := DecodeTopologyReport(data)
		if err != nil {
			reportError(sink, err)
			return DecodeOpaquePacket(pvType, data)
		}
		return tr
	case PvTypeNodeTableResponse:
		nt, err := DecodeNodeTableResponse(data)
		if err != nil {
			reportError(sink, err)
			return DecodeOpaquePacket(pvType, data)
		}
		return nt
	case PvTypeGatewayRadioConfigResp:
		cfg, err := DecodeGatewayRadioConfig(data)
		if err != nil {
			reportError(sink, err)
			return DecodeOpaquePacket(pvType, data)
		}
		return cfg
	case PvTypeConfigResponse:
		cfg, err := DecodePVConfigResponse(data)
		if err != nil {
			reportError(sink, err)
			return DecodeOpaquePacket(pvType, data)
		}
		return cfg
	case PvTypeStringRequest, PvTypeStringResponse:
		return DecodeStringPacket(pvType, data)
	default:
		if !opaquePvTypes[pvType] {
			reportError(sink, &UnknownPvTypeError{PvType: pvType})
		}
		return DecodeOpaquePacket(pvType, data)
	}
}
