package barcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// Property 6: round-trip long_address <-> barcode.
func TestEncodeDecodeRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var addr [addressBytes]byte
		for i := range addr {
			addr[i] = rapid.Byte().Draw(t, "b")
		}

		s := Encode(addr)
		got, err := Decode(s)
		require.NoError(t, err)
		assert.Equal(t, addr, got)
	})
}

func TestEncodeUsesDigitSet(t *testing.T) {
	addr := [addressBytes]byte{0x04, 0xC0, 0x5B, 0x30, 0x00, 0x02, 0xBE, 0x16}
	s := Encode(addr)
	assert.Len(t, s, totalDigits)
	for _, c := range s {
		assert.Contains(t, digits, string(c))
	}
}

func TestDecodeRejectsCorruptedCheckDigit(t *testing.T) {
	addr := [addressBytes]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	s := Encode(addr)

	corrupted := []byte(s)
	last := corrupted[len(corrupted)-1]
	for _, c := range []byte(digits) {
		if c != last {
			corrupted[len(corrupted)-1] = c
			break
		}
	}

	_, err := Decode(string(corrupted))
	assert.Error(t, err)
}

func TestDecodeRejectsWrongLength(t *testing.T) {
	_, err := Decode("GHJ")
	assert.Error(t, err)
}
