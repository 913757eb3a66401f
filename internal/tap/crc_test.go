package tap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCRCWorkedExample(t *testing.T) {
	// S1: address=0x9201, kind=0x0149, payload 00 FF 7C DB C2 -> CRC 0x85A3.
	got := frameCRC(0x9201, 0x0149, []byte{0x00, 0xFF, 0x7C, 0xDB, 0xC2})
	assert.Equal(t, uint16(0x85A3), got)
}

func TestCRCTableMatchesPolynomial(t *testing.T) {
	// Spot-check a handful of entries in the reflected CRC-16 table built
	// from polynomial 0x8408.
	assert.Equal(t, uint16(0x0000), crcTable[0x00])
	assert.Equal(t, uint16(0x1189), crcTable[0x01])
}
