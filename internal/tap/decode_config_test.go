package tap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeGatewayRadioConfigRedactsKey(t *testing.T) {
	data := make([]byte, gatewayRadioConfigFixedLen+2)
	data[0] = 0x0B // channel
	data[1], data[2] = 0x12, 0x34
	for i := 7; i < 23; i++ {
		data[i] = byte(i)
	}
	data[23], data[24] = 0xAA, 0xBB

	cfg, err := DecodeGatewayRadioConfig(data)
	require.NoError(t, err)
	assert.Equal(t, byte(0x0B), cfg.Channel)
	assert.Equal(t, uint16(0x1234), cfg.PanID)
	assert.NotEqual(t, [16]byte{}, cfg.AESKey)
	assert.Equal(t, []byte{0xAA, 0xBB}, cfg.Trailing)

	redacted := cfg.Redacted()
	assert.Equal(t, [16]byte{}, redacted.AESKey)
	assert.Equal(t, cfg.Channel, redacted.Channel, "redaction only touches the key")
}

func TestDecodePVConfigResponseDuplicatedBlocks(t *testing.T) {
	block := []byte{0x12, 0x34, 0x0B, 0x00, 0x3C, 0x00, 0x00}
	data := append(append([]byte{}, block...), block...)

	cfg, err := DecodePVConfigResponse(data)
	require.NoError(t, err)
	assert.Equal(t, cfg.Blocks[0], cfg.Blocks[1])
	assert.Equal(t, uint16(0x1234), cfg.Blocks[0].PanID)
	assert.Equal(t, byte(0x0B), cfg.Blocks[0].Channel)
}
