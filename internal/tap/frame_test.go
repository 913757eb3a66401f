package tap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func genFrame(t *rapid.T) *Frame {
	dir := Direction(rapid.IntRange(0, 2).Draw(t, "dir"))
	address := rapid.Uint16().Draw(t, "address")
	kind := rapid.Uint16().Draw(t, "kind")
	payload := rapid.SliceOfN(rapid.Byte(), 0, 32).Draw(t, "payload")
	return &Frame{Direction: dir, Address: address, Kind: kind, Payload: payload}
}

// Property 1: encode(decode(F)) = F for syntactically valid frames.
func TestFrameEncodeDecodeRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		f := genFrame(t)
		raw := EncodeFrame(f)
		decoded, err := DecodeFrame(raw)
		require.NoError(t, err)
		assert.Equal(t, f.Direction, decoded.Direction)
		assert.Equal(t, f.Address, decoded.Address)
		assert.Equal(t, f.Kind, decoded.Kind)
		assert.Equal(t, f.Payload, decoded.Payload)
	})
}

// Property 3: CRC over (address || kind || payload) matches the trailing
// two bytes for every frame DecodeFrame accepts.
func TestFrameDecodeValidatesCRC(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		f := genFrame(t)
		raw := EncodeFrame(f)
		decoded, err := DecodeFrame(raw)
		require.NoError(t, err)

		want := frameCRC(decoded.Address, decoded.Kind, decoded.Payload)
		body := raw.Bytes[2 : len(raw.Bytes)-2]
		unescaped, err := unescapeBody(body)
		require.NoError(t, err)
		crcBytes := unescaped[len(unescaped)-2:]
		got := uint16(crcBytes[0]) | uint16(crcBytes[1])<<8
		assert.Equal(t, want, got)
	})
}

func TestFrameDecodeRejectsBadCRC(t *testing.T) {
	f := &Frame{Address: 0x9201, Kind: 0x0149, Payload: []byte{0x00, 0xFF}}
	raw := EncodeFrame(f)
	raw.Bytes[len(raw.Bytes)-3] ^= 0xFF // flip a CRC byte

	_, err := DecodeFrame(raw)
	require.Error(t, err)
	var checksumErr *ChecksumError
	assert.ErrorAs(t, err, &checksumErr)
}

func TestS1CRCWorkedExampleFrame(t *testing.T) {
	raw := RawFrame{
		Direction: DirectionFromGateway,
		Bytes: []byte{
			0x7E, 0x07,
			0x92, 0x01, 0x01, 0x49, 0x00, 0xFF, 0x7C, 0xDB, 0xC2, 0x7E, 0x05, 0x85,
			0x7E, 0x08,
		},
	}
	f, err := DecodeFrame(raw)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x9201), f.Address)
	assert.Equal(t, uint16(0x0149), f.Kind)
	assert.Equal(t, []byte{0x00, 0xFF, 0x7C, 0xDB, 0xC2}, f.Payload)
}
