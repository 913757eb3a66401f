package tap

import "strings"

// StringCommand annotates a recognized string request/response payload.
type StringCommand int

const (
	StringCommandUnrecognized StringCommand = iota
	StringCommandInfo
	StringCommandMppt11
	StringCommandTests
	StringCommandSmrt
	StringCommandVersion
	StringCommandW
)

func (c StringCommand) String() string {
	switch c {
	case StringCommandInfo:
		return "Info"
	case StringCommandMppt11:
		return "Mppt_1.1"
	case StringCommandTests:
		return "Tests"
	case StringCommandSmrt:
		return "Smrt"
	case StringCommandVersion:
		return "Version"
	case StringCommandW:
		return "w"
	default:
		return ""
	}
}

var knownStringCommands = map[string]StringCommand{
	"Info":     StringCommandInfo,
	"Mppt_1.1": StringCommandMppt11,
	"Tests":    StringCommandTests,
	"Smrt":     StringCommandSmrt,
	"Version":  StringCommandVersion,
	"w":        StringCommandW,
}

// StringPacket is the decoded form of PV packet types 0x06 (request) and
// 0x07 (response): an ASCII payload, typically terminated by '\r'.
type StringPacket struct {
	Raw     []byte
	Text    string
	Command StringCommand
	pvType  byte
}

// PvType implements Decoded.
func (p StringPacket) PvType() byte { return p.pvType }

// DecodeStringPacket decodes a type 0x06/0x07 string request or response.
func DecodeStringPacket(pvType byte, data []byte) StringPacket {
	text := strings.TrimRight(string(data), "\r")
	cmd := knownStringCommands[text]
	return StringPacket{
		Raw:     append([]byte(nil), data...),
		Text:    text,
		Command: cmd,
		pvType:  pvType,
	}
}
