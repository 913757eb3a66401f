package tap

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildNodeTablePayload(startIndex uint16, firstNodeID uint16, count int) []byte {
	out := make([]byte, 4+count*nodeTableEntryLen)
	binary.BigEndian.PutUint16(out[0:2], startIndex)
	binary.BigEndian.PutUint16(out[2:4], uint16(count))
	off := 4
	for i := 0; i < count; i++ {
		var addr PVLongAddress
		addr[7] = byte(startIndex + uint16(i))
		copy(out[off:off+8], addr[:])
		binary.BigEndian.PutUint16(out[off+8:off+10], firstNodeID+uint16(i))
		off += nodeTableEntryLen
	}
	return out
}

func TestNodeTableAccumulation(t *testing.T) {
	// S5: two successive responses must accumulate with no overwrites, and
	// a later zero-count response must not evict earlier entries.
	tracker := NewSessionTracker(nil, nil)
	gw := GatewayID(0x1201)
	g := tracker.gateway(gw)

	page1 := buildNodeTablePayload(2, 100, 12)
	nt1, err := DecodeNodeTableResponse(page1)
	require.NoError(t, err)
	for _, e := range nt1.Entries {
		g.nodeTable[e.PvNodeID] = e.LongAddress
	}

	page2 := buildNodeTablePayload(14, 200, 10)
	nt2, err := DecodeNodeTableResponse(page2)
	require.NoError(t, err)
	for _, e := range nt2.Entries {
		g.nodeTable[e.PvNodeID] = e.LongAddress
	}

	assert.Len(t, g.nodeTable, 22)

	endPage := buildNodeTablePayload(50, 0, 0)
	nt3, err := DecodeNodeTableResponse(endPage)
	require.NoError(t, err)
	assert.True(t, nt3.EndOfTable())
	for _, e := range nt3.Entries {
		g.nodeTable[e.PvNodeID] = e.LongAddress
	}

	assert.Len(t, g.nodeTable, 22, "a zero-count page must not evict earlier entries")
}

func TestNodeTableResponseTruncated(t *testing.T) {
	_, err := DecodeNodeTableResponse([]byte{0x00, 0x02, 0x00, 0x01, 0xAA})
	require.Error(t, err)
	var trunc *TruncationError
	assert.ErrorAs(t, err, &trunc)
}
