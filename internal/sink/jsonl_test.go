package sink

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmill/pvtap/internal/tap"
)

func TestJSONLSinkEncodesPowerReport(t *testing.T) {
	var buf bytes.Buffer
	s := NewJSONLSink(&buf)

	ts := time.Date(2024, 8, 24, 9, 16, 41, 686961000, time.FixedZone("", -5*3600))
	addr := tap.PVLongAddress{0x04, 0xC0, 0x5B, 0x30, 0x00, 0x02, 0xBE, 0x16}

	s.Emit(tap.PowerReportEvent{
		Gateway:     4609,
		Node:        116,
		LongAddress: &addr,
		Timestamp:   &ts,
		VoltageIn:   30.6,
		VoltageOut:  30.2,
		Current:     6.94,
		DutyCycle:   1.0,
		Temperature: 26.8,
		RSSI:        132,
	})

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, float64(4609), decoded["gateway"].(map[string]interface{})["id"])
	assert.Equal(t, float64(116), decoded["node"].(map[string]interface{})["id"])
	assert.Equal(t, 30.6, decoded["voltage_in"])
	assert.Equal(t, 132.0, decoded["rssi"])
}

func TestJSONLSinkOmitsNullTimestampAndAddress(t *testing.T) {
	var buf bytes.Buffer
	s := NewJSONLSink(&buf)
	s.Emit(tap.PowerReportEvent{Gateway: 1, Node: 2, VoltageIn: 1})

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	_, hasTS := decoded["timestamp"]
	_, hasAddr := decoded["long_address"]
	assert.False(t, hasTS)
	assert.False(t, hasAddr)
}

func TestMultiSinkFansOut(t *testing.T) {
	var a, b bytes.Buffer
	m := NewMultiSink(NewJSONLSink(&a), NewJSONLSink(&b))
	m.Emit(tap.PowerReportEvent{Gateway: 1, Node: 2})

	assert.Equal(t, a.String(), b.String())
	assert.NotEmpty(t, a.String())
}
