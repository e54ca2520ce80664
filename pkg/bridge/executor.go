// Package bridge exposes a board session to remote clients through typed
// messages.
package bridge

import (
	"errors"
	"fmt"
	"sort"

	"github.com/robotalks/arduino.go/pkg/board"
	"github.com/robotalks/arduino.go/pkg/bridge/msgs"
	fx "github.com/robotalks/arduino.go/pkg/framework"
)

// Executor runs command messages against a session.
// Like the session, it must be used from a single goroutine.
type Executor struct {
	Session *board.Session
	// Port is reported in BoardInfo.
	Port string
}

// Execute runs a command and returns the reply.
// It returns nil if the command is not a board command.
func (e *Executor) Execute(msg fx.Message) fx.Message {
	switch m := msg.(type) {
	case *msgs.BoardInfoQuery:
		return e.boardInfo()
	case *msgs.ConfigurePin:
		pin, err := PinFrom(m.Kind, m.Number)
		if err != nil {
			return errReply(err)
		}
		mode := board.PinMode(m.Mode)
		if _, err := e.Session.ConfigurePin(pin.Kind, pin.Number, mode); err != nil {
			return errReply(err)
		}
		return &msgs.ExitCode{}
	case *msgs.DigitalWrite:
		return e.exitCode(m.Kind, m.Number, func(pin board.Pin) (int, error) {
			return e.Session.DigitalWrite(pin, m.Value)
		})
	case *msgs.DigitalRead:
		pin, err := PinFrom(m.Kind, m.Number)
		if err != nil {
			return errReply(err)
		}
		v, err := e.Session.DigitalRead(pin)
		if err != nil {
			return errReply(err)
		}
		return &msgs.DigitalValue{Value: v}
	case *msgs.AnalogRead:
		if m.Index < 0 {
			return errReply(fmt.Errorf("invalid analog index %d", m.Index))
		}
		v, err := e.Session.AnalogRead(int(m.Index))
		if err != nil {
			return errReply(err)
		}
		return &msgs.AnalogValue{Value: v}
	case *msgs.AnalogWrite:
		return e.exitCode(m.Kind, m.Number, func(pin board.Pin) (int, error) {
			return e.Session.AnalogWrite(pin, int(m.Value))
		})
	case *msgs.PulseIn:
		pin, err := PinFrom(m.Kind, m.Number)
		if err != nil {
			return errReply(err)
		}
		v, err := e.Session.PulseIn(pin, m.Value)
		if err != nil {
			return errReply(err)
		}
		return &msgs.PulseDuration{Micros: v}
	case *msgs.Tone:
		return e.exitCode(m.Kind, m.Number, func(pin board.Pin) (int, error) {
			return e.Session.Tone(pin, int(m.Frequency), int(m.Duration))
		})
	case *msgs.NoTone:
		return e.exitCode(m.Kind, m.Number, e.Session.NoTone)
	}
	return nil
}

func (e *Executor) boardInfo() *msgs.BoardInfo {
	info := &msgs.BoardInfo{
		AnalogBase: int32(e.Session.AnalogBase()),
		Port:       e.Port,
	}
	for pin, mode := range e.Session.Pins() {
		info.Pins = append(info.Pins, &msgs.PinState{Pin: int32(pin), Mode: int32(mode)})
	}
	sort.Slice(info.Pins, func(i, j int) bool { return info.Pins[i].Pin < info.Pins[j].Pin })
	return info
}

func (e *Executor) exitCode(kind, number int32, fn func(board.Pin) (int, error)) fx.Message {
	pin, err := PinFrom(kind, number)
	if err != nil {
		return errReply(err)
	}
	code, err := fn(pin)
	if err != nil {
		return errReply(err)
	}
	return &msgs.ExitCode{Code: int32(code)}
}

// PinFrom converts the pin fields of a message.
func PinFrom(kind, number int32) (board.Pin, error) {
	if kind != int32(board.Digital) && kind != int32(board.Analog) {
		return board.Pin{}, fmt.Errorf("invalid pin kind %d", kind)
	}
	if number < 0 {
		return board.Pin{}, fmt.Errorf("invalid pin number %d", number)
	}
	return board.Pin{Kind: board.PinKind(kind), Number: int(number)}, nil
}

var errorKinds = []error{
	board.ErrHandshakeFailed,
	board.ErrConfigurationRejected,
	board.ErrPinNotConfigured,
	board.ErrValueOutOfRange,
}

func errReply(err error) *msgs.CommandErr {
	for _, kind := range errorKinds {
		if errors.Is(err, kind) {
			return msgs.NewCommandErrWithKind(err, kind.Error())
		}
	}
	return msgs.NewCommandErr(err)
}
