package tap

import "encoding/binary"

// GatewayRadioConfig is the decoded form of PV packet type 0x0E. The
// trailing bytes beyond the fields documented below have no established
// layout and are kept raw.
type GatewayRadioConfig struct {
	Channel          byte
	PanID            uint16
	SuperFrameParams [4]byte // tentative
	AESKey           [16]byte
	Trailing         []byte
}

// PvType implements Decoded.
func (GatewayRadioConfig) PvType() byte { return PvTypeGatewayRadioConfigResp }

// Redacted returns a copy with the AES key zeroed, per spec's "the
// observer MAY redact the key" — used on the default event path; the key
// stays visible only in the undecoded packet bytes the PV-packet
// diagnostic tap receives.
func (c GatewayRadioConfig) Redacted() GatewayRadioConfig {
	c.AESKey = [16]byte{}
	return c
}

const gatewayRadioConfigFixedLen = 1 + 2 + 4 + 16

// DecodeGatewayRadioConfig decodes a type 0x0E gateway radio configuration.
func DecodeGatewayRadioConfig(data []byte) (GatewayRadioConfig, error) {
	if len(data) < gatewayRadioConfigFixedLen {
		return GatewayRadioConfig{}, &TruncationError{Context: "gateway_radio_config", Need: gatewayRadioConfigFixedLen, Have: len(data)}
	}
	var c GatewayRadioConfig
	c.Channel = data[0]
	c.PanID = binary.BigEndian.Uint16(data[1:3])
	copy(c.SuperFrameParams[:], data[3:7])
	copy(c.AESKey[:], data[7:23])
	if len(data) > gatewayRadioConfigFixedLen {
		c.Trailing = append([]byte(nil), data[gatewayRadioConfigFixedLen:]...)
	}
	return c, nil
}

// PVConfigBlock is one of the two duplicated blocks in a PV configuration
// response: PAN ID, channel, and the report period/phase expressed in
// slot-counter units.
type PVConfigBlock struct {
	PanID        uint16
	Channel      byte
	ReportPeriod uint16
	ReportPhase  uint16
}

const pvConfigBlockLen = 2 + 1 + 2 + 2

func decodePVConfigBlock(data []byte) PVConfigBlock {
	return PVConfigBlock{
		PanID:        binary.BigEndian.Uint16(data[0:2]),
		Channel:      data[2],
		ReportPeriod: binary.BigEndian.Uint16(data[3:5]),
		ReportPhase:  binary.BigEndian.Uint16(data[5:7]),
	}
}

// PVConfigResponse is the decoded form of PV packet type 0x18: two
// duplicated configuration blocks, plus whatever trails them.
type PVConfigResponse struct {
	Blocks   [2]PVConfigBlock
	Trailing []byte
}

// PvType implements Decoded.
func (PVConfigResponse) PvType() byte { return PvTypeConfigResponse }

// DecodePVConfigResponse decodes a type 0x18 PV configuration response.
func DecodePVConfigResponse(data []byte) (PVConfigResponse, error) {
	const need = 2 * pvConfigBlockLen
	if len(data) < need {
		return PVConfigResponse{}, &TruncationError{Context: "pv_config_response", Need: need, Have: len(data)}
	}
	var r PVConfigResponse
	r.Blocks[0] = decodePVConfigBlock(data[0:pvConfigBlockLen])
	r.Blocks[1] = decodePVConfigBlock(data[pvConfigBlockLen : 2*pvConfigBlockLen])
	if len(data) > need {
		r.Trailing = append([]byte(nil), data[need:]...)
	}
	return r, nil
}
