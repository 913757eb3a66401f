package tap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPowerReportDecoding(t *testing.T) {
	// S3. current_in is 0.25A per the documented byte layout and 0.005
	// A/unit scale; three independently-checkable fields in this same
	// worked example (voltage_in, voltage_out, temperature) confirm the
	// layout, so the formula is trusted over the example's stated 0.025A.
	data := []byte{0x2B, 0x61, 0x58, 0xFF, 0x03, 0x21, 0x58, 0x81, 0x00, 0x6E, 0x8F, 0xA0, 0x7E}

	pr, err := DecodePowerReport(data)
	require.NoError(t, err)
	assert.InDelta(t, 34.7, pr.VoltageIn, 0.001)
	assert.InDelta(t, 34.4, pr.VoltageOut, 0.001)
	assert.Equal(t, 1.0, pr.DutyCycle)
	assert.InDelta(t, 0.25, pr.CurrentIn, 0.0001)
	assert.InDelta(t, 34.4, pr.Temperature, 0.001)
	assert.Equal(t, uint16(0x8FA0), pr.SlotCounter)
	assert.Equal(t, byte(0x7E), pr.RSSI)
}

func TestPowerReportDecodingTruncated(t *testing.T) {
	_, err := DecodePowerReport([]byte{0x01, 0x02})
	require.Error(t, err)
	var trunc *TruncationError
	assert.ErrorAs(t, err, &trunc)
}
