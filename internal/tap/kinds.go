package tap

// Gateway frame kinds (component C dispatch table).
const (
	KindEnumerationStartRequest = 0x0014 // → broadcast
	KindEnumerationStartReply   = 0x0015 // ← broadcast
	KindEnumerationRequest      = 0x0038 // → to enumeration ID
	KindEnumerationResponse     = 0x0039 // ← long addr + current gateway ID
	KindIdentifyRequest         = 0x003A // →
	KindIdentifyResponse        = 0x003B // ←
	KindAssignGatewayIDRequest  = 0x003C // →
	KindAssignGatewayIDResponse = 0x003D // ←

	KindUnknownBroadcastRequest  = 0x0010 // →
	KindUnknownBroadcastResponse = 0x0011 // ←

	KindVersionRequest  = 0x000A // →
	KindVersionResponse = 0x000B // ←

	KindEnumerationEndRequest  = 0x0E02 // →
	KindEnumerationEndResponse = 0x0006 // ←

	KindPingRequest  = 0x0B00 // →
	KindPongResponse = 0x0B01 // ←

	KindCommandRequest  = 0x0B0F // →
	KindCommandResponse = 0x0B10 // ←

	KindReceiveRequest  = 0x0148 // →
	KindReceiveResponse = 0x0149 // ←
)

// kindNames is used for diagnostics only; an entry missing here is not an
// error, it just means KindName returns "" for that kind.
var kindNames = map[uint16]string{
	KindEnumerationStartRequest:  "enumeration_start_request",
	KindEnumerationStartReply:    "enumeration_start_reply",
	KindEnumerationRequest:       "enumeration_request",
	KindEnumerationResponse:      "enumeration_response",
	KindIdentifyRequest:          "identify_request",
	KindIdentifyResponse:         "identify_response",
	KindAssignGatewayIDRequest:   "assign_gateway_id_request",
	KindAssignGatewayIDResponse:  "assign_gateway_id_response",
	KindUnknownBroadcastRequest:  "unknown_broadcast_request",
	KindUnknownBroadcastResponse: "unknown_broadcast_response",
	KindVersionRequest:           "version_request",
	KindVersionResponse:          "version_response",
	KindEnumerationEndRequest:    "enumeration_end_request",
	KindEnumerationEndResponse:   "enumeration_end_response",
	KindPingRequest:              "ping",
	KindPongResponse:             "pong",
	KindCommandRequest:           "command_request",
	KindCommandResponse:          "command_response",
	KindReceiveRequest:           "receive_request",
	KindReceiveResponse:          "receive_response",
}

// KindName returns a human-readable name for a known kind, or "" if the
// kind is not recognized.
func KindName(kind uint16) string {
	return kindNames[kind]
}
