package tap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeStringPacketRecognizesKnownCommand(t *testing.T) {
	p := DecodeStringPacket(PvTypeStringRequest, []byte("Version\r"))
	assert.Equal(t, "Version", p.Text)
	assert.Equal(t, StringCommandVersion, p.Command)
	assert.Equal(t, byte(PvTypeStringRequest), p.PvType())
}

func TestDecodeStringPacketUnrecognizedCommand(t *testing.T) {
	p := DecodeStringPacket(PvTypeStringResponse, []byte("garbage\r"))
	assert.Equal(t, StringCommandUnrecognized, p.Command)
}
