package tap

import (
	"encoding/binary"
	"fmt"
	"time"
)

// EnumerationState is the per-bus enumeration dialogue state.
type EnumerationState int

const (
	EnumerationIdle EnumerationState = iota
	EnumerationStarting
	EnumerationEnumerating
	EnumerationFinalizing
)

func (s EnumerationState) String() string {
	switch s {
	case EnumerationStarting:
		return "starting"
	case EnumerationEnumerating:
		return "enumerating"
	case EnumerationFinalizing:
		return "finalizing"
	default:
		return "idle"
	}
}

// gatewayRecord is the session tracker's per-gateway state.
type gatewayRecord struct {
	id             GatewayID
	longAddress    PVLongAddress
	hasLongAddress bool
	txBuffersFree  *byte
	nodeTable      map[PVNodeID]PVLongAddress
	clock          *SlotClock

	// expectedNextPacketNum is component C's record of the next packet
	// number a receive-request (0x0148) declared it expects, per spec.md
	// §4.C.
	expectedNextPacketNum    uint16
	hasExpectedNextPacketNum bool
}

func newGatewayRecord(id GatewayID) *gatewayRecord {
	return &gatewayRecord{
		id:        id,
		nodeTable: make(map[PVNodeID]PVLongAddress),
		clock:     NewSlotClock(),
	}
}

// SessionTracker is component F: the gateway registry, enumeration state
// machine, and slot-counter correlation, producing the observer's output
// event stream from decoded frames.
type SessionTracker struct {
	sink   ErrorSink
	events EventSink

	gateways map[GatewayID]*gatewayRecord

	enumState EnumerationState
	enumID    GatewayID
	pendingLongAddr map[GatewayID]PVLongAddress // candidate bindings from 0x0039/0x003C, committed on 0x003D

	seq *SequenceTracker
	cmd *CommandTracker

	// PVPacketTap, if set, mirrors every PV packet extracted from a
	// receive-response, regardless of whether its type decodes to a
	// dedicated event. Read-only; never influences event emission.
	PVPacketTap func(GatewayID, PVPacket)
}

// NewSessionTracker returns a tracker with empty state, Idle enumeration.
func NewSessionTracker(sink ErrorSink, events EventSink) *SessionTracker {
	return &SessionTracker{
		sink:            sink,
		events:          events,
		gateways:        make(map[GatewayID]*gatewayRecord),
		pendingLongAddr: make(map[GatewayID]PVLongAddress),
		seq:             NewSequenceTracker(),
		cmd:             NewCommandTracker(),
	}
}

// State returns the current enumeration state, for diagnostics.
func (t *SessionTracker) State() EnumerationState { return t.enumState }

// SeedNodeBinding injects a previously persisted (gateway, node) long
// address binding into the node-table cache, for seeding identity
// continuity across restarts (internal/store) before any traffic is
// observed.
func (t *SessionTracker) SeedNodeBinding(gateway GatewayID, node PVNodeID, addr PVLongAddress) {
	t.gateway(gateway).nodeTable[node] = addr
}

func (t *SessionTracker) gateway(id GatewayID) *gatewayRecord {
	g := t.gateways[id]
	if g == nil {
		g = newGatewayRecord(id)
		t.gateways[id] = g
	}
	return g
}

// HandleFrame processes one decoded gateway frame, updating session state
// and emitting any resulting events. arrival is the host's monotonic
// arrival timestamp for the frame, used as a slot-counter anchor.
func (t *SessionTracker) HandleFrame(f *Frame, arrival time.Time) {
	switch f.Kind {
	case KindEnumerationStartRequest, KindEnumerationStartReply,
		KindEnumerationRequest, KindEnumerationResponse,
		KindIdentifyRequest, KindIdentifyResponse,
		KindAssignGatewayIDRequest, KindAssignGatewayIDResponse,
		KindEnumerationEndRequest, KindEnumerationEndResponse:
		t.handleEnumeration(f)

	case KindReceiveRequest:
		t.handleReceiveRequest(f)

	case KindReceiveResponse:
		t.handleReceiveResponse(f, arrival)

	case KindCommandRequest:
		header, data, err := ParseCommandHeader(f.Payload)
		if err != nil {
			reportError(t.sink, err)
			return
		}
		t.cmd.Request(f.GatewayID(), header, data, t.sink)

	case KindCommandResponse:
		header, data, err := ParseCommandHeader(f.Payload)
		if err != nil {
			reportError(t.sink, err)
			return
		}
		if exch, ok := t.cmd.Response(f.GatewayID(), header, data, t.sink); ok {
			_ = exch // pairing recorded; no dedicated event type yet
		}

	case KindVersionRequest, KindVersionResponse, KindPingRequest, KindPongResponse,
		KindUnknownBroadcastRequest, KindUnknownBroadcastResponse:
		// No session state to update; these are liveness/version/broadcast
		// checks only, but they are known kinds, not unrecognized ones.

	default:
		reportError(t.sink, &UnknownKindError{Kind: f.Kind})
	}
}

// handleEnumeration advances the enumeration state machine per spec's
// transition diagram. Byte-level payload layouts for these frame kinds
// are not fully specified; the long address (when present) is assumed to
// occupy the first 8 payload bytes, consistent with its role elsewhere in
// the protocol as the stable device identifier.
func (t *SessionTracker) handleEnumeration(f *Frame) {
	switch f.Kind {
	case KindEnumerationStartRequest:
		if len(f.Payload) >= 2 {
			t.enumID = GatewayID(binary.BigEndian.Uint16(f.Payload[0:2]))
		}
		t.enumState = EnumerationStarting
		t.emitEnumeration()

	case KindEnumerationStartReply:
		// Stays in Starting; additional starts may still repeat.

	case KindEnumerationRequest:
		if t.enumState == EnumerationStarting {
			t.enumState = EnumerationEnumerating
			t.emitEnumeration()
		}

	case KindEnumerationResponse:
		if len(f.Payload) < 8 {
			reportError(t.sink, &TruncationError{Context: "enumeration_response", Need: 8, Have: len(f.Payload)})
			return
		}
		addr := longAddressFromBytes(f.Payload[0:8])
		t.pendingLongAddr[t.enumID] = addr

	case KindAssignGatewayIDRequest:
		if len(f.Payload) < 10 {
			reportError(t.sink, &TruncationError{Context: "assign_gateway_id_request", Need: 10, Have: len(f.Payload)})
			return
		}
		addr := longAddressFromBytes(f.Payload[0:8])
		newID := gatewayIDFromAddress(binary.BigEndian.Uint16(f.Payload[8:10]))
		t.pendingLongAddr[newID] = addr

	case KindAssignGatewayIDResponse:
		id := f.GatewayID()
		if addr, ok := t.pendingLongAddr[id]; ok {
			g := t.gateway(id)
			g.longAddress = addr
			g.hasLongAddress = true
			delete(t.pendingLongAddr, id)
		}

	case KindIdentifyRequest:
		// No state change; a gateway identifying itself is confirmed on
		// the matching response below.

	case KindIdentifyResponse:
		if len(f.Payload) >= 8 {
			id := f.GatewayID()
			g := t.gateway(id)
			g.longAddress = longAddressFromBytes(f.Payload[0:8])
			g.hasLongAddress = true
		}

	case KindEnumerationEndRequest:
		t.enumState = EnumerationFinalizing
		t.emitEnumeration()

	case KindEnumerationEndResponse:
		t.pruneAbsentGateways()
		t.enumState = EnumerationIdle
		t.emitEnumeration()
	}
}

func (t *SessionTracker) emitEnumeration() {
	if t.events != nil {
		t.events.Emit(EnumerationEvent{State: t.enumState, EnumID: t.enumID})
	}
}

// pruneAbsentGateways drops the whole record, node-table cache included,
// of every gateway whose long address has never been learned (from an
// assign-gateway-id binding or an identify response, in this or any
// earlier enumeration round), and clears pending candidate bindings.
func (t *SessionTracker) pruneAbsentGateways() {
	for id, g := range t.gateways {
		if !g.hasLongAddress {
			delete(t.gateways, id)
		}
	}
	t.pendingLongAddr = make(map[GatewayID]PVLongAddress)
}

// handleReceiveRequest records the gateway's expected-next-packet-number
// claim from a 0x0148 receive-request, per spec.md §4.C.
func (t *SessionTracker) handleReceiveRequest(f *Frame) {
	req, err := ParseReceiveRequest(f.Payload)
	if err != nil {
		reportError(t.sink, err)
		return
	}

	g := t.gateway(f.GatewayID())
	g.expectedNextPacketNum = req.ExpectedNextPacketNum
	g.hasExpectedNextPacketNum = true
}

// handleReceiveResponse decodes the variable-header status, reconstructs
// the full packet number, extracts embedded PV packets, and dispatches
// each through the application decoders, emitting events.
func (t *SessionTracker) handleReceiveResponse(f *Frame, arrival time.Time) {
	status, err := ParseReceiveResponseStatus(f.Payload)
	if err != nil {
		reportError(t.sink, err)
		return
	}

	id := f.GatewayID()
	g := t.gateway(id)

	if status.TxBuffersFree != nil {
		g.txBuffersFree = status.TxBuffersFree
	}

	t.seq.Reconstruct(id, status.PacketNumHi, status.PacketNumLo, t.sink)
	if validSlotCounter(status.SlotCounter) {
		g.clock.Observe(status.SlotCounter, arrival)
	} else {
		reportError(t.sink, &StateViolation{Reason: fmt.Sprintf("gateway %s: invalid slot counter 0x%04X", id, status.SlotCounter)})
	}

	body := f.Payload[status.HeaderLen:]
	packets := ParsePVPackets(body, t.sink)
	for _, pkt := range packets {
		t.handlePVPacket(id, g, pkt, arrival)
	}
}

func (t *SessionTracker) handlePVPacket(id GatewayID, g *gatewayRecord, pkt PVPacket, arrival time.Time) {
	if t.PVPacketTap != nil {
		t.PVPacketTap(id, pkt)
	}

	decoded := DecodePVApplication(pkt.Header.Type, pkt.Data, t.sink)

	switch v := decoded.(type) {
	case PowerReport:
		t.emitPowerReport(id, g, pkt.Header.PvNodeID, v)

	case TopologyReport:
		if t.events != nil {
			t.events.Emit(TopologyEvent{Gateway: id, Report: v})
		}

	case NodeTableResponse:
		for _, e := range v.Entries {
			g.nodeTable[e.PvNodeID] = e.LongAddress
		}
		if t.events != nil {
			t.events.Emit(NodeTableEvent{Gateway: id, Entries: v.Entries, EndOfTable: v.EndOfTable()})
		}

	case GatewayRadioConfig:
		redacted := v.Redacted()
		if t.events != nil {
			t.events.Emit(ConfigEvent{Gateway: id, GatewayRadio: &redacted})
		}

	case PVConfigResponse:
		if t.events != nil {
			t.events.Emit(ConfigEvent{Gateway: id, PVConfig: &v})
		}

	case StringPacket:
		if t.events != nil {
			t.events.Emit(StringEvent{Gateway: id, Node: pkt.Header.PvNodeID, Packet: v})
		}

	case OpaquePacket:
		// No dedicated event; available via the PV-packet diagnostic tap.

	default:
		reportError(t.sink, &StateViolation{Reason: fmt.Sprintf("gateway %s: unrecognized decoded type for pv_type 0x%02X", id, pkt.Header.Type)})
	}
}

func (t *SessionTracker) emitPowerReport(id GatewayID, g *gatewayRecord, node PVNodeID, pr PowerReport) {
	var longAddr *PVLongAddress
	if a, ok := g.nodeTable[node]; ok {
		longAddr = &a
	}

	var ts *time.Time
	if resolved, ok := g.clock.Resolve(pr.SlotCounter); ok {
		ts = &resolved
	}

	if t.events != nil {
		t.events.Emit(PowerReportEvent{
			Gateway:     id,
			Node:        node,
			LongAddress: longAddr,
			Timestamp:   ts,
			VoltageIn:   pr.VoltageIn,
			VoltageOut:  pr.VoltageOut,
			Current:     pr.CurrentIn,
			DutyCycle:   pr.DutyCycle,
			Temperature: pr.Temperature,
			RSSI:        pr.RSSI,
		})
	}
}
