package tap

// Known PV application packet types.
const (
	PvTypeStringRequest           = 0x06
	PvTypeStringResponse          = 0x07
	PvTypeTopologyReport          = 0x09
	PvTypeGatewayRadioConfigReq   = 0x0D
	PvTypeGatewayRadioConfigResp  = 0x0E
	PvTypeConfigRequest           = 0x13
	PvTypeConfigResponse          = 0x18
	PvTypeBroadcast               = 0x22
	PvTypeBroadcastAck            = 0x23
	PvTypeNodeTableRequest        = 0x26
	PvTypeNodeTableResponse       = 0x27
	PvTypeLongNetworkStatusReq    = 0x2D
	PvTypeNetworkStatusRequest    = 0x2E
	PvTypeNetworkStatusResponse   = 0x2F
	PvTypePowerReport             = 0x31
	PvTypeUnknown41               = 0x41
)

// pvTypeNames is used for diagnostics and JSON tagging only.
var pvTypeNames = map[byte]string{
	PvTypeStringRequest:          "string_request",
	PvTypeStringResponse:         "string_response",
	PvTypeTopologyReport:         "topology_report",
	PvTypeGatewayRadioConfigReq:  "gateway_radio_config_request",
	PvTypeGatewayRadioConfigResp: "gateway_radio_config_response",
	PvTypeConfigRequest:          "pv_config_request",
	PvTypeConfigResponse:         "pv_config_response",
	PvTypeBroadcast:              "broadcast",
	PvTypeBroadcastAck:           "broadcast_ack",
	PvTypeNodeTableRequest:       "node_table_request",
	PvTypeNodeTableResponse:      "node_table_response",
	PvTypeLongNetworkStatusReq:   "long_network_status_request",
	PvTypeNetworkStatusRequest:   "network_status_request",
	PvTypeNetworkStatusResponse:  "network_status_response",
	PvTypePowerReport:            "power_report",
	PvTypeUnknown41:              "unknown_0x41",
}

// PvTypeName returns a human-readable name for a known PV packet type, or
// "" if unrecognized.
func PvTypeName(t byte) string {
	return pvTypeNames[t]
}

// Decoded is implemented by every application-layer decode of a PV
// packet's data, including the catch-all OpaquePacket.
type Decoded interface {
	PvType() byte
}
