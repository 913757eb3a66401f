package tap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePVPacketsSequence(t *testing.T) {
	pkt1 := append([]byte{0x31, 0x00, 0x74, 0x12, 0x34, 0x01, 0x02}, 0xAA, 0xBB)
	pkt2 := append([]byte{0x09, 0x00, 0x75, 0x12, 0x35, 0x02, 0x01}, 0xCC)

	b := append(append([]byte{}, pkt1...), pkt2...)
	packets := ParsePVPackets(b, nil)
	require.Len(t, packets, 2)
	assert.Equal(t, byte(0x31), packets[0].Header.Type)
	assert.Equal(t, []byte{0xAA, 0xBB}, packets[0].Data)
	assert.Equal(t, byte(0x09), packets[1].Header.Type)
	assert.Equal(t, []byte{0xCC}, packets[1].Data)
}

func TestParsePVPacketsAbortsOnOversizedDataLength(t *testing.T) {
	var violated error
	sink := ErrorSinkFunc(func(e error) { violated = e })

	b := []byte{0x31, 0x00, 0x74, 0x12, 0x34, 0x01, 0xFF} // data_length 0xFF >= 134
	packets := ParsePVPackets(b, sink)
	assert.Empty(t, packets)
	require.Error(t, violated)
}

func TestParsePVPacketsAbortsRemainderOnTruncation(t *testing.T) {
	pkt1 := append([]byte{0x31, 0x00, 0x74, 0x12, 0x34, 0x01, 0x02}, 0xAA, 0xBB)
	truncated := append(append([]byte{}, pkt1...), 0x09, 0x00) // a second header, cut short

	var violated error
	sink := ErrorSinkFunc(func(e error) { violated = e })
	packets := ParsePVPackets(truncated, sink)
	require.Len(t, packets, 1, "the first, complete packet is kept even though the second is truncated")
	require.Error(t, violated)
}
