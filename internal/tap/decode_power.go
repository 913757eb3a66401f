package tap

import "encoding/binary"

// powerReportLen is the fixed length of a type 0x31 power report.
const powerReportLen = 13

// PowerReport is the decoded form of PV packet type 0x31.
type PowerReport struct {
	VoltageIn   float64 // volts
	VoltageOut  float64 // volts
	DutyCycle   float64 // [0.0, 1.0]
	CurrentIn   float64 // amps
	Temperature float64 // degrees C
	Unknown     [3]byte
	SlotCounter uint16
	RSSI        byte
}

// PvType implements Decoded.
func (PowerReport) PvType() byte { return PvTypePowerReport }

// DecodePowerReport decodes a type 0x31 power report.
//
// Four 12-bit fields are packed across bytes 0-6 in two pairs that each
// share a middle byte: voltage_in (byte 0 as the high 8 bits, upper nibble
// of byte 1 as the low 4) with voltage_out (lower nibble of byte 1 as the
// high 4 bits, byte 2 as the low 8), and likewise current_in (bytes 4/5)
// with temperature (bytes 5/6).
func DecodePowerReport(data []byte) (PowerReport, error) {
	if len(data) < powerReportLen {
		return PowerReport{}, &TruncationError{Context: "power_report", Need: powerReportLen, Have: len(data)}
	}

	voltageInRaw := uint16(data[0])<<4 | uint16(data[1]>>4)
	voltageOutRaw := uint16(data[1]&0x0F)<<8 | uint16(data[2])
	dutyCycleRaw := data[3]
	currentInRaw := uint16(data[4])<<4 | uint16(data[5]>>4)
	temperatureRaw := uint16(data[5]&0x0F)<<8 | uint16(data[6])

	var unknown [3]byte
	copy(unknown[:], data[7:10])

	slot := binary.BigEndian.Uint16(data[10:12])
	rssi := data[12]

	duty := float64(dutyCycleRaw) / 255.0
	if duty > 1.0 {
		duty = 1.0
	}
	if duty < 0.0 {
		duty = 0.0
	}

	return PowerReport{
		VoltageIn:   float64(voltageInRaw) * 0.05,
		VoltageOut:  float64(voltageOutRaw) * 0.10,
		DutyCycle:   duty,
		CurrentIn:   float64(currentInRaw) * 0.005,
		Temperature: float64(temperatureRaw) * 0.1,
		Unknown:     unknown,
		SlotCounter: slot,
		RSSI:        rssi,
	}, nil
}
