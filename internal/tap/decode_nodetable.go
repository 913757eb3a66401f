package tap

import (
	"encoding/binary"
	"fmt"
)

// NodeTableEntry is one (long address, PV node ID) binding from a
// node-table response.
type NodeTableEntry struct {
	LongAddress PVLongAddress
	PvNodeID    PVNodeID
}

// NodeTableResponse is the decoded form of PV packet type 0x27.
type NodeTableResponse struct {
	StartIndex uint16
	Entries    []NodeTableEntry
}

// PvType implements Decoded.
func (NodeTableResponse) PvType() byte { return PvTypeNodeTableResponse }

// EndOfTable reports whether this response's count of zero signals the
// end of the node table.
func (r NodeTableResponse) EndOfTable() bool {
	return len(r.Entries) == 0
}

const nodeTableEntryLen = 10 // long_address(8) + pv_node_id(2)

// DecodeNodeTableResponse decodes a type 0x27 node-table response:
// start_index(2) ‖ count(2) ‖ count × (long_address(8) ‖ pv_node_id(2)).
// A count of zero signals end-of-table.
func DecodeNodeTableResponse(data []byte) (NodeTableResponse, error) {
	const headerLen = 4
	if len(data) < headerLen {
		return NodeTableResponse{}, &TruncationError{Context: "node_table_response header", Need: headerLen, Have: len(data)}
	}
	startIndex := binary.BigEndian.Uint16(data[0:2])
	count := binary.BigEndian.Uint16(data[2:4])

	need := headerLen + int(count)*nodeTableEntryLen
	if len(data) < need {
		return NodeTableResponse{}, &TruncationError{Context: fmt.Sprintf("node_table_response entries (count=%d)", count), Need: need, Have: len(data)}
	}

	entries := make([]NodeTableEntry, 0, count)
	off := headerLen
	for i := uint16(0); i < count; i++ {
		entries = append(entries, NodeTableEntry{
			LongAddress: longAddressFromBytes(data[off : off+8]),
			PvNodeID:    PVNodeID(binary.BigEndian.Uint16(data[off+8 : off+10])),
		})
		off += nodeTableEntryLen
	}

	return NodeTableResponse{StartIndex: startIndex, Entries: entries}, nil
}
