package tap

import "time"

// Event is implemented by every record the session tracker emits.
type Event interface {
	eventKind() string
}

// PowerReportEvent is the primary output event: a power report enriched
// with resolved gateway/node identity and, when correlation succeeded, a
// wall-clock timestamp.
type PowerReportEvent struct {
	Gateway     GatewayID
	Node        PVNodeID
	LongAddress *PVLongAddress // nil if not yet learned
	Timestamp   *time.Time     // nil if slot-counter correlation failed
	VoltageIn   float64
	VoltageOut  float64
	Current     float64
	DutyCycle   float64
	Temperature float64
	RSSI        byte
}

func (PowerReportEvent) eventKind() string { return "power_report" }

// TopologyEvent reports a PV device's chosen upstream relay.
type TopologyEvent struct {
	Gateway  GatewayID
	Report   TopologyReport
}

func (TopologyEvent) eventKind() string { return "topology" }

// ConfigEvent carries a decoded gateway radio or PV configuration response.
// GatewayRadio is redacted (AES key zeroed) before it reaches here.
type ConfigEvent struct {
	Gateway      GatewayID
	GatewayRadio *GatewayRadioConfig
	PVConfig     *PVConfigResponse
}

func (ConfigEvent) eventKind() string { return "config" }

// StringEvent carries a decoded string request or response.
type StringEvent struct {
	Gateway GatewayID
	Node    PVNodeID
	Packet  StringPacket
}

func (StringEvent) eventKind() string { return "string" }

// EnumerationEvent reports an enumeration state-machine transition.
type EnumerationEvent struct {
	State   EnumerationState
	EnumID  GatewayID
}

func (EnumerationEvent) eventKind() string { return "enumeration" }

// NodeTableEvent reports an additive node-table cache update for a gateway.
type NodeTableEvent struct {
	Gateway    GatewayID
	Entries    []NodeTableEntry
	EndOfTable bool
}

func (NodeTableEvent) eventKind() string { return "node_table" }

// EventSink receives the session tracker's output events in emission
// order. A nil EventSink given to NewSessionTracker or NewPipeline is
// accepted; events are then dropped.
type EventSink interface {
	Emit(Event)
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(Event)

// Emit implements EventSink.
func (f EventSinkFunc) Emit(e Event) {
	if f != nil {
		f(e)
	}
}
