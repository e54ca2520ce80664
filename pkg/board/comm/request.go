package comm

import (
	"io"
	"strconv"
)

type argEncoding int

const (
	encByte argEncoding = iota // one raw byte
	encText                    // decimal text followed by '\n'
)

// Arg is a request argument together with its wire encoding.
type Arg struct {
	Value int
	enc   argEncoding
}

// Byte encodes the value as a single raw byte.
func Byte(v int) Arg {
	return Arg{Value: v, enc: encByte}
}

// Bool encodes true as byte 1 and false as byte 0.
func Bool(v bool) Arg {
	if v {
		return Byte(1)
	}
	return Byte(0)
}

// Text encodes the value as decimal text terminated by a line feed.
func Text(v int) Arg {
	return Arg{Value: v, enc: encText}
}

// IsText indicates the argument is sent as a text line.
func (a Arg) IsText() bool {
	return a.enc == encText
}

// Request is a command to the board firmware.
type Request struct {
	Op   Opcode
	Args []Arg
}

// NewRequest creates a Request.
func NewRequest(op Opcode, args ...Arg) *Request {
	return &Request{Op: op, Args: args}
}

// GetBoardInfo asks for the first analog pin number.
func GetBoardInfo() *Request {
	return NewRequest(OpGetBoardInfo)
}

// ConfigurePin sets the mode (0 output, 1 input) of a physical pin.
func ConfigurePin(pin, mode int) *Request {
	return NewRequest(OpConfigurePin, Byte(pin), Byte(mode))
}

// DigitalWrite drives a physical pin high or low.
func DigitalWrite(pin int, value bool) *Request {
	return NewRequest(OpDigitalWrite, Byte(pin), Bool(value))
}

// AnalogRead samples the analog input with the logical index.
func AnalogRead(index int) *Request {
	return NewRequest(OpAnalogRead, Byte(index))
}

// DigitalRead reads the level of a physical pin.
func DigitalRead(pin int) *Request {
	return NewRequest(OpDigitalRead, Byte(pin))
}

// AnalogWrite sets the PWM duty (0-255) of a physical pin.
func AnalogWrite(pin, value int) *Request {
	return NewRequest(OpAnalogWrite, Byte(pin), Byte(value))
}

// PulseIn measures a pulse at the given level on a physical pin.
func PulseIn(pin int, value bool) *Request {
	return NewRequest(OpPulseIn, Byte(pin), Bool(value))
}

// Tone starts a square wave. Duration is in milliseconds, 0 plays until
// NoTone.
func Tone(pin, frequency, duration int) *Request {
	return NewRequest(OpTone, Byte(pin), Text(frequency), Text(duration))
}

// NoTone stops the square wave on a physical pin.
func NoTone(pin int) *Request {
	return NewRequest(OpNoTone, Byte(pin))
}

// Validate checks every single-byte argument fits in a byte.
func (r *Request) Validate() error {
	for n, arg := range r.Args {
		if arg.enc == encByte && (arg.Value < 0 || arg.Value > 0xff) {
			return &RangeError{Op: r.Op, Arg: n, Value: arg.Value}
		}
	}
	return nil
}

// Bytes returns encoded bytes for sending.
// Out-of-range byte arguments are truncated, use Validate first.
func (r *Request) Bytes() []byte {
	b := make([]byte, 1, 1+len(r.Args))
	b[0] = byte(r.Op)
	for _, arg := range r.Args {
		if arg.enc == encText {
			b = strconv.AppendInt(b, int64(arg.Value), 10)
			b = append(b, '\n')
		} else {
			b = append(b, byte(arg.Value))
		}
	}
	return b
}

// WriteTo validates the request and writes encoded bytes in a single Write.
func (r *Request) WriteTo(w io.Writer) (int64, error) {
	if err := r.Validate(); err != nil {
		return 0, err
	}
	n, err := w.Write(r.Bytes())
	return int64(n), err
}
