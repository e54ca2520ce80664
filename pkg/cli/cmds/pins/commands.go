// Package pins adds board pin commands to the shell.
package pins

import (
	"fmt"
	"math"
	"strconv"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/arduino.go/pkg/board"
	"github.com/robotalks/arduino.go/pkg/bridge/msgs"
	"github.com/robotalks/arduino.go/pkg/cli/sh"
	fx "github.com/robotalks/arduino.go/pkg/framework"
)

// MessageBuilder builds a command message from shell arguments.
type MessageBuilder func(args []string) (fx.Message, error)

func command(name, help string, aliases []string, build MessageBuilder) ishell.Cmd {
	return ishell.Cmd{
		Name:    name,
		Aliases: aliases,
		Help:    help,
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			msg, err := build(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			sh.DoCommand(c, msg)
		}),
	}
}

var (
	// InfoCmd queries the board info.
	InfoCmd = command("info", "", nil, BuildInfo)
	// PinCmd configures a pin.
	PinCmd = command("pin", "KIND NUMBER MODE", []string{"mode"}, BuildConfigurePin)
	// DigitalWriteCmd writes a digital pin.
	DigitalWriteCmd = command("dw", "PIN 0|1", []string{"digitalWrite"}, BuildDigitalWrite)
	// DigitalReadCmd reads a digital pin.
	DigitalReadCmd = command("dr", "PIN", []string{"digitalRead"}, BuildDigitalRead)
	// AnalogReadCmd reads an analog input.
	AnalogReadCmd = command("ar", "INDEX", []string{"analogRead"}, BuildAnalogRead)
	// AnalogWriteCmd writes a PWM value.
	AnalogWriteCmd = command("aw", "PIN VALUE(0-255)", []string{"analogWrite"}, BuildAnalogWrite)
	// PulseInCmd measures a pulse.
	PulseInCmd = command("pulse", "PIN 0|1", []string{"pulseIn"}, BuildPulseIn)
	// ToneCmd starts a tone.
	ToneCmd = command("tone", "PIN FREQ(Hz) [DURATION(ms)]", nil, BuildTone)
	// NoToneCmd stops a tone.
	NoToneCmd = command("notone", "PIN", []string{"noTone"}, BuildNoTone)

	// PinsCmd lists configured pins.
	PinsCmd = ishell.Cmd{
		Name: "pins",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			info, err := boardInfo(c)
			if err != nil {
				c.Err(err)
				return
			}
			if len(info.Pins) == 0 {
				c.Println("No pins configured")
				return
			}
			for _, state := range info.Pins {
				c.Printf("%3d %s\n", state.Pin, board.PinMode(state.Mode))
			}
		}),
	}

	// RefCmd prints the physical pin number of a pin reference.
	RefCmd = ishell.Cmd{
		Name: "ref",
		Help: "KIND NUMBER",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			pin, err := parseKindNumber(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			info, err := boardInfo(c)
			if err != nil {
				c.Err(err)
				return
			}
			c.Println(ResolvePin(pin, int(info.AnalogBase)))
		}),
	}
)

func boardInfo(c *ishell.Context) (*msgs.BoardInfo, error) {
	reply, err := sh.ShellFrom(c).Do(&msgs.BoardInfoQuery{})
	if err != nil {
		return nil, err
	}
	info, ok := reply.(*msgs.BoardInfo)
	if !ok {
		return nil, fmt.Errorf("unexpected reply %s", msgs.Name(reply))
	}
	return info, nil
}

// ResolvePin computes the physical pin number given the analog base.
func ResolvePin(pin board.Pin, analogBase int) int {
	if pin.Kind == board.Analog {
		return pin.Number + analogBase
	}
	return pin.Number
}

// BuildInfo builds BoardInfoQuery.
func BuildInfo(args []string) (fx.Message, error) {
	return &msgs.BoardInfoQuery{}, nil
}

// BuildConfigurePin builds ConfigurePin from KIND NUMBER MODE.
func BuildConfigurePin(args []string) (fx.Message, error) {
	if len(args) < 3 {
		return nil, fmt.Errorf("KIND NUMBER MODE required")
	}
	pin, err := parseKindNumber(args)
	if err != nil {
		return nil, err
	}
	mode, err := board.ParsePinMode(args[2])
	if err != nil {
		return nil, err
	}
	return &msgs.ConfigurePin{Kind: int32(pin.Kind), Number: int32(pin.Number), Mode: int32(mode)}, nil
}

// BuildDigitalWrite builds DigitalWrite from PIN 0|1.
func BuildDigitalWrite(args []string) (fx.Message, error) {
	pin, value, err := parsePinLevel(args)
	if err != nil {
		return nil, err
	}
	return &msgs.DigitalWrite{Kind: int32(pin.Kind), Number: int32(pin.Number), Value: value}, nil
}

// BuildDigitalRead builds DigitalRead from PIN.
func BuildDigitalRead(args []string) (fx.Message, error) {
	pin, err := parsePinArg(args)
	if err != nil {
		return nil, err
	}
	return &msgs.DigitalRead{Kind: int32(pin.Kind), Number: int32(pin.Number)}, nil
}

// BuildAnalogRead builds AnalogRead from INDEX, which may be given as "a1".
func BuildAnalogRead(args []string) (fx.Message, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("INDEX required")
	}
	pin, err := parsePin(args[0])
	if err != nil {
		return nil, err
	}
	return &msgs.AnalogRead{Index: int32(pin.Number)}, nil
}

// BuildAnalogWrite builds AnalogWrite from PIN VALUE.
func BuildAnalogWrite(args []string) (fx.Message, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("PIN VALUE required")
	}
	pin, err := parsePin(args[0])
	if err != nil {
		return nil, err
	}
	val, err := parseInt32("VALUE", args[1])
	if err != nil {
		return nil, err
	}
	return &msgs.AnalogWrite{Kind: int32(pin.Kind), Number: int32(pin.Number), Value: val}, nil
}

// BuildPulseIn builds PulseIn from PIN 0|1.
func BuildPulseIn(args []string) (fx.Message, error) {
	pin, value, err := parsePinLevel(args)
	if err != nil {
		return nil, err
	}
	return &msgs.PulseIn{Kind: int32(pin.Kind), Number: int32(pin.Number), Value: value}, nil
}

// BuildTone builds Tone from PIN FREQ [DURATION].
func BuildTone(args []string) (fx.Message, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("PIN FREQ required")
	}
	pin, err := parsePin(args[0])
	if err != nil {
		return nil, err
	}
	msg := &msgs.Tone{Kind: int32(pin.Kind), Number: int32(pin.Number)}
	if msg.Frequency, err = parseInt32("FREQ", args[1]); err != nil {
		return nil, err
	}
	if len(args) > 2 {
		if msg.Duration, err = parseInt32("DURATION", args[2]); err != nil {
			return nil, err
		}
	}
	return msg, nil
}

// BuildNoTone builds NoTone from PIN.
func BuildNoTone(args []string) (fx.Message, error) {
	pin, err := parsePinArg(args)
	if err != nil {
		return nil, err
	}
	return &msgs.NoTone{Kind: int32(pin.Kind), Number: int32(pin.Number)}, nil
}

func parsePinArg(args []string) (board.Pin, error) {
	if len(args) < 1 {
		return board.Pin{}, fmt.Errorf("PIN required")
	}
	return parsePin(args[0])
}

// parsePin rejects pin numbers which don't fit in the message fields.
func parsePin(s string) (board.Pin, error) {
	pin, err := board.ParsePin(s)
	if err != nil {
		return pin, err
	}
	if pin.Number > math.MaxInt32 {
		return pin, fmt.Errorf("invalid pin %q", s)
	}
	return pin, nil
}

// parseInt32 parses a decimal argument, rejecting overflow instead of
// wrapping around.
func parseInt32(name, s string) (int32, error) {
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, s)
	}
	return int32(n), nil
}

func parseKindNumber(args []string) (board.Pin, error) {
	if len(args) < 2 {
		return board.Pin{}, fmt.Errorf("KIND NUMBER required")
	}
	kind, err := board.ParsePinKind(args[0])
	if err != nil {
		return board.Pin{}, err
	}
	n, err := strconv.ParseInt(args[1], 10, 32)
	if err != nil || n < 0 {
		return board.Pin{}, fmt.Errorf("invalid NUMBER %q", args[1])
	}
	return board.Pin{Kind: kind, Number: int(n)}, nil
}

func parsePinLevel(args []string) (board.Pin, bool, error) {
	if len(args) < 2 {
		return board.Pin{}, false, fmt.Errorf("PIN 0|1 required")
	}
	pin, err := parsePin(args[0])
	if err != nil {
		return pin, false, err
	}
	switch args[1] {
	case "0", "low", "LOW":
		return pin, false, nil
	case "1", "high", "HIGH":
		return pin, true, nil
	}
	return pin, false, fmt.Errorf("invalid level %q", args[1])
}

func init() {
	sh.AddCmds(
		&InfoCmd,
		&PinCmd,
		&RefCmd,
		&PinsCmd,
		&DigitalWriteCmd,
		&DigitalReadCmd,
		&AnalogReadCmd,
		&AnalogWriteCmd,
		&PulseInCmd,
		&ToneCmd,
		&NoToneCmd,
	)
}
