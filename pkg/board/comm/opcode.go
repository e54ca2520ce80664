package comm

import "strconv"

// Opcode identifies a command understood by the board firmware.
type Opcode byte

// Opcodes
const (
	OpGetBoardInfo Opcode = 1
	OpConfigurePin Opcode = 2
	OpDigitalWrite Opcode = 3
	OpAnalogRead   Opcode = 4
	OpDigitalRead  Opcode = 5
	OpAnalogWrite  Opcode = 6
	OpPulseIn      Opcode = 7
	OpTone         Opcode = 8
	OpNoTone       Opcode = 9
)

var opcodeNames = map[Opcode]string{
	OpGetBoardInfo: "get_board_info",
	OpConfigurePin: "configure_pin",
	OpDigitalWrite: "digital_write",
	OpAnalogRead:   "analog_read",
	OpDigitalRead:  "digital_read",
	OpAnalogWrite:  "analog_write",
	OpPulseIn:      "pulse_in",
	OpTone:         "tone",
	OpNoTone:       "no_tone",
}

// String implements fmt.Stringer.
func (o Opcode) String() string {
	if name, ok := opcodeNames[o]; ok {
		return name
	}
	return "opcode(" + strconv.Itoa(int(o)) + ")"
}

// IsValid indicates the firmware knows the opcode.
func (o Opcode) IsValid() bool {
	return o >= OpGetBoardInfo && o <= OpNoTone
}
