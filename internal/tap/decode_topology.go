package tap

import "encoding/binary"

// topologyReportLen is the fixed length of a type 0x09 topology report.
const topologyReportLen = 23

// TopologyReport is the decoded form of PV packet type 0x09, emitted by a
// PV device reporting its chosen upstream relay.
type TopologyReport struct {
	ShortAddress     uint16
	PvNodeID         PVNodeID
	NextHopPvNodeID  PVNodeID
	Unknown1         uint16
	LongAddress      PVLongAddress
	RSSI             byte
	Unknown2         [6]byte
}

// PvType implements Decoded.
func (TopologyReport) PvType() byte { return PvTypeTopologyReport }

// DecodeTopologyReport decodes a type 0x09 topology report.
func DecodeTopologyReport(data []byte) (TopologyReport, error) {
	if len(data) < topologyReportLen {
		return TopologyReport{}, &TruncationError{Context: "topology_report", Need: topologyReportLen, Have: len(data)}
	}
	var t TopologyReport
	t.ShortAddress = binary.BigEndian.Uint16(data[0:2])
	t.PvNodeID = PVNodeID(binary.BigEndian.Uint16(data[2:4]))
	t.NextHopPvNodeID = PVNodeID(binary.BigEndian.Uint16(data[4:6]))
	t.Unknown1 = binary.BigEndian.Uint16(data[6:8])
	t.LongAddress = longAddressFromBytes(data[8:16])
	t.RSSI = data[16]
	copy(t.Unknown2[:], data[17:23])
	return t, nil
}
