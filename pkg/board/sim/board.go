// Package sim emulates the board firmware in process.
package sim

import (
	"bytes"
	"io"
	"strconv"
	"sync"

	"github.com/robotalks/arduino.go/pkg/board/comm"
)

// DefaultAnalogBase is the first analog pin of an Uno.
const DefaultAnalogBase = 14

// ToneState is the square wave running on a pin.
type ToneState struct {
	Frequency int
	Duration  int
}

// Board is an emulated board. Requests written to it are executed
// immediately and the response lines are queued for Read.
// Read on an empty queue returns io.EOF, the same as a read timeout.
type Board struct {
	AnalogBase int

	lock      sync.Mutex
	pending   []byte
	out       bytes.Buffer
	modes     map[int]int
	levels    map[int]bool
	analog    map[int]int
	pwm       map[int]int
	pulses    map[int]int
	tones     map[int]ToneState
	overrides map[comm.Opcode][]string
	requests  int
	closed    bool
}

// New creates an emulated board.
func New(analogBase int) *Board {
	return &Board{
		AnalogBase: analogBase,
		modes:      make(map[int]int),
		levels:     make(map[int]bool),
		analog:     make(map[int]int),
		pwm:        make(map[int]int),
		pulses:     make(map[int]int),
		tones:      make(map[int]ToneState),
		overrides:  make(map[comm.Opcode][]string),
	}
}

// Read implements io.Reader.
func (b *Board) Read(p []byte) (int, error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	if b.closed {
		return 0, io.ErrClosedPipe
	}
	if b.out.Len() == 0 {
		return 0, io.EOF
	}
	return b.out.Read(p)
}

// Write implements io.Writer.
func (b *Board) Write(p []byte) (int, error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	if b.closed {
		return 0, io.ErrClosedPipe
	}
	b.pending = append(b.pending, p...)
	for b.execute() {
	}
	return len(p), nil
}

// Close implements io.Closer.
func (b *Board) Close() error {
	b.lock.Lock()
	b.closed = true
	b.lock.Unlock()
	return nil
}

// Override replaces the response of the next request with op by line,
// which is sent verbatim. Call multiple times to queue more.
func (b *Board) Override(op comm.Opcode, line string) {
	b.lock.Lock()
	b.overrides[op] = append(b.overrides[op], line)
	b.lock.Unlock()
}

// SetDigital sets the level read from a pin.
func (b *Board) SetDigital(pin int, level bool) {
	b.lock.Lock()
	b.levels[pin] = level
	b.lock.Unlock()
}

// SetAnalog sets the value read from an analog input by logical index.
func (b *Board) SetAnalog(index, value int) {
	b.lock.Lock()
	b.analog[index] = value
	b.lock.Unlock()
}

// SetPulse sets the pulse length in microseconds measured on a pin.
func (b *Board) SetPulse(pin, micros int) {
	b.lock.Lock()
	b.pulses[pin] = micros
	b.lock.Unlock()
}

// Mode returns the mode set on a pin.
func (b *Board) Mode(pin int) (int, bool) {
	b.lock.Lock()
	defer b.lock.Unlock()
	mode, ok := b.modes[pin]
	return mode, ok
}

// Digital returns the level of a pin.
func (b *Board) Digital(pin int) bool {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.levels[pin]
}

// PWM returns the duty cycle written to a pin.
func (b *Board) PWM(pin int) int {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.pwm[pin]
}

// Tone returns the tone running on a pin.
func (b *Board) Tone(pin int) (ToneState, bool) {
	b.lock.Lock()
	defer b.lock.Unlock()
	t, ok := b.tones[pin]
	return t, ok
}

// Requests returns the number of requests executed.
func (b *Board) Requests() int {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.requests
}

// execute runs the first complete request in pending.
func (b *Board) execute() bool {
	if len(b.pending) == 0 {
		return false
	}
	op := comm.Opcode(b.pending[0])
	args, size, ok := b.parse(op)
	if !ok {
		return false
	}
	b.pending = b.pending[size:]
	if size == 1 && !op.IsValid() {
		// firmware skips unknown bytes
		return true
	}
	b.requests++
	line := b.apply(op, args)
	if queued := b.overrides[op]; len(queued) > 0 {
		line, b.overrides[op] = queued[0], queued[1:]
		b.out.WriteString(line)
		return true
	}
	b.out.WriteString(line + "\r\n")
	return true
}

func (b *Board) parse(op comm.Opcode) (args []int, size int, ok bool) {
	var nbytes int
	switch op {
	case comm.OpGetBoardInfo:
	case comm.OpAnalogRead, comm.OpDigitalRead, comm.OpNoTone:
		nbytes = 1
	case comm.OpConfigurePin, comm.OpDigitalWrite, comm.OpAnalogWrite, comm.OpPulseIn:
		nbytes = 2
	case comm.OpTone:
		return b.parseTone()
	default:
		return nil, 1, true
	}
	if len(b.pending) < 1+nbytes {
		return nil, 0, false
	}
	for _, v := range b.pending[1 : 1+nbytes] {
		args = append(args, int(v))
	}
	return args, 1 + nbytes, true
}

func (b *Board) parseTone() ([]int, int, bool) {
	if len(b.pending) < 2 {
		return nil, 0, false
	}
	args := []int{int(b.pending[1])}
	size := 2
	for n := 0; n < 2; n++ {
		end := bytes.IndexByte(b.pending[size:], '\n')
		if end < 0 {
			return nil, 0, false
		}
		v, _ := strconv.Atoi(string(b.pending[size : size+end]))
		args = append(args, v)
		size += end + 1
	}
	return args, size, true
}

func (b *Board) apply(op comm.Opcode, args []int) string {
	switch op {
	case comm.OpGetBoardInfo:
		return strconv.Itoa(b.AnalogBase)
	case comm.OpConfigurePin:
		if args[1] > 1 {
			return "1"
		}
		b.modes[args[0]] = args[1]
	case comm.OpDigitalWrite:
		b.levels[args[0]] = args[1] != 0
	case comm.OpAnalogRead:
		return strconv.Itoa(b.analog[args[0]])
	case comm.OpDigitalRead:
		if b.levels[args[0]] {
			return "1"
		}
	case comm.OpAnalogWrite:
		b.pwm[args[0]] = args[1]
	case comm.OpPulseIn:
		return strconv.Itoa(b.pulses[args[0]])
	case comm.OpTone:
		b.tones[args[0]] = ToneState{Frequency: args[1], Duration: args[2]}
	case comm.OpNoTone:
		delete(b.tones, args[0])
	}
	return "0"
}
