// Package sink provides tap.EventSink implementations: line-delimited
// JSON output and fan-out to multiple sinks.
package sink

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/bitmill/pvtap/internal/tap"
)

type gatewayRef struct {
	ID uint16 `json:"id"`
}

type nodeRef struct {
	ID uint16 `json:"id"`
}

type powerReportLine struct {
	Gateway     gatewayRef `json:"gateway"`
	Node        nodeRef    `json:"node"`
	LongAddress string     `json:"long_address,omitempty"`
	Timestamp   string     `json:"timestamp,omitempty"`
	VoltageIn   float64    `json:"voltage_in"`
	VoltageOut  float64    `json:"voltage_out"`
	Current     float64    `json:"current"`
	DutyCycle   float64    `json:"dc_dc_duty_cycle"`
	Temperature float64    `json:"temperature"`
	RSSI        byte       `json:"rssi"`
}

// JSONLSink writes one JSON object per line, matching the reference
// serialization's field names and shape for power reports.
type JSONLSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewJSONLSink returns a sink writing to w.
func NewJSONLSink(w io.Writer) *JSONLSink {
	return &JSONLSink{w: w}
}

// Emit implements tap.EventSink.
func (s *JSONLSink) Emit(e tap.Event) {
	line, err := encodeLine(e)
	if err != nil || line == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.w.Write(line)
	s.w.Write([]byte{'\n'})
}

func encodeLine(e tap.Event) ([]byte, error) {
	switch v := e.(type) {
	case tap.PowerReportEvent:
		line := powerReportLine{
			Gateway:     gatewayRef{ID: uint16(v.Gateway)},
			Node:        nodeRef{ID: uint16(v.Node)},
			VoltageIn:   v.VoltageIn,
			VoltageOut:  v.VoltageOut,
			Current:     v.Current,
			DutyCycle:   v.DutyCycle,
			Temperature: v.Temperature,
			RSSI:        v.RSSI,
		}
		if v.LongAddress != nil {
			line.LongAddress = v.LongAddress.String()
		}
		if v.Timestamp != nil {
			line.Timestamp = v.Timestamp.Format(time.RFC3339Nano)
		}
		return json.Marshal(line)

	case tap.TopologyEvent, tap.ConfigEvent, tap.StringEvent, tap.NodeTableEvent, tap.EnumerationEvent:
		return json.Marshal(v)

	default:
		return nil, fmt.Errorf("sink: unrecognized event type %T", e)
	}
}

// MultiSink fans out each event to every member sink, in order.
type MultiSink struct {
	sinks []tap.EventSink
}

// NewMultiSink returns a sink fanning out to all of sinks.
func NewMultiSink(sinks ...tap.EventSink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

// Emit implements tap.EventSink.
func (m *MultiSink) Emit(e tap.Event) {
	for _, s := range m.sinks {
		s.Emit(e)
	}
}
