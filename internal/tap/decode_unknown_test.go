package tap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodePVApplicationDispatchesKnownTypes(t *testing.T) {
	powerData := []byte{0x2B, 0x61, 0x58, 0xFF, 0x03, 0x21, 0x58, 0x81, 0x00, 0x6E, 0x8F, 0xA0, 0x7E}
	decoded := DecodePVApplication(PvTypePowerReport, powerData, nil)
	_, ok := decoded.(PowerReport)
	assert.True(t, ok)
}

func TestDecodePVApplicationRecognizedOpaqueTypesDontErr(t *testing.T) {
	var reported error
	sink := ErrorSinkFunc(func(e error) { reported = e })

	decoded := DecodePVApplication(PvTypeBroadcast, []byte{0x01, 0x02}, sink)
	opaque, ok := decoded.(OpaquePacket)
	assert.True(t, ok)
	assert.Equal(t, byte(PvTypeBroadcast), opaque.Type)
	assert.NoError(t, reported)
}

func TestDecodePVApplicationReportsTrulyUnknownType(t *testing.T) {
	var reported error
	sink := ErrorSinkFunc(func(e error) { reported = e })

	decoded := DecodePVApplication(0xFE, []byte{0x01}, sink)
	_, ok := decoded.(OpaquePacket)
	assert.True(t, ok)
	assert.Error(t, reported)
	var unknownErr *UnknownPvTypeError
	assert.ErrorAs(t, reported, &unknownErr)
}
