// Package board drives a microcontroller board running the pin control
// firmware.
package board

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/arduino.go/pkg/board/comm"
	"github.com/robotalks/arduino.go/pkg/board/transport"
)

// DefaultSetupDelay is the time a freshly opened serial link usually needs
// before the board can answer. Opening the port resets most boards.
const DefaultSetupDelay = 2 * time.Second

// Values returned in place of responses which can't be decoded.
// Note DigitalWrite and AnalogWrite fall back to different codes.
const (
	FallbackDigitalWrite = 1
	FallbackAnalogRead   = 0.0
	FallbackDigitalRead  = false
	FallbackAnalogWrite  = 0
	FallbackPulseIn      = 0.0
	FallbackTone         = 1
	FallbackNoTone       = 1
)

// DecodeErrorHandler is called when a response can't be decoded and a
// fallback value is returned instead.
type DecodeErrorHandler func(op comm.Opcode, err error)

// Options are the options for creating a Session.
type Options struct {
	// SetupDelay is waited between opening the transport and the handshake.
	// Only used by Open.
	SetupDelay time.Duration
	// OnDecodeError overrides the default handler which logs at V(2).
	OnDecodeError DecodeErrorHandler
}

// Session is an initialized connection to a board.
//
// A Session is not safe for concurrent use. Each operation writes a
// request and blocks until the response line is read or the transport
// read times out.
type Session struct {
	conn          *comm.Conn
	closer        io.Closer
	analogBase    int
	pins          map[int]PinMode
	onDecodeError DecodeErrorHandler
}

// Open opens the transport, waits for opts.SetupDelay and performs the
// handshake. The transport is closed if anything fails.
func Open(ctx context.Context, cfg *transport.Config, opts Options) (*Session, error) {
	return open(ctx, cfg.Port, cfg.Open, opts)
}

func open(ctx context.Context, port string, openFn func() (io.ReadWriteCloser, error), opts Options) (*Session, error) {
	rw, err := openFn()
	if err != nil {
		return nil, err
	}
	if opts.SetupDelay > 0 {
		glog.V(1).Infof("waiting %v for %s to settle", opts.SetupDelay, port)
		select {
		case <-ctx.Done():
			rw.Close()
			return nil, ctx.Err()
		case <-time.After(opts.SetupDelay):
		}
	}
	return New(rw, opts)
}

// New performs the handshake over an open transport. The session owns the
// transport afterwards, and closes it if the handshake fails.
func New(rw io.ReadWriteCloser, opts Options) (*Session, error) {
	s := &Session{
		conn:          comm.NewConn(rw),
		closer:        rw,
		pins:          make(map[int]PinMode),
		onDecodeError: opts.OnDecodeError,
	}
	if err := s.handshake(); err != nil {
		rw.Close()
		return nil, err
	}
	glog.V(1).Infof("board ready, analog pins start at %d", s.analogBase)
	return s, nil
}

func (s *Session) handshake() error {
	base, err := s.conn.Int(comm.GetBoardInfo())
	if err == nil && base < 0 {
		err = fmt.Errorf("negative analog offset %d", base)
	}
	if err != nil {
		perr := &ProtocolError{Kind: ErrHandshakeFailed, Op: comm.OpGetBoardInfo, Pin: noPin, Err: err}
		var decodeErr *comm.DecodeError
		if errors.As(err, &decodeErr) {
			perr.Response = decodeErr.Line
		} else if base < 0 {
			perr.Response = strconv.Itoa(base)
		}
		return perr
	}
	s.analogBase = base
	return nil
}

// Close releases the transport.
func (s *Session) Close() error {
	return s.closer.Close()
}

// AnalogBase returns the physical number of analog pin 0.
func (s *Session) AnalogBase() int {
	return s.analogBase
}

// Pins returns a copy of configured physical pins and their modes.
func (s *Session) Pins() map[int]PinMode {
	pins := make(map[int]PinMode, len(s.pins))
	for pin, mode := range s.pins {
		pins[pin] = mode
	}
	return pins
}

// Mode returns the configured mode of a pin.
func (s *Session) Mode(pin Pin) (PinMode, bool) {
	if pin.Number < 0 {
		return Output, false
	}
	mode, ok := s.pins[s.Resolve(pin)]
	return mode, ok
}

// ResolvePinReference translates a pin number of the given kind to the
// physical pin number. It doesn't check whether the pin is configured.
// Operations reject negative numbers with ErrValueOutOfRange.
func (s *Session) ResolvePinReference(kind PinKind, number int) int {
	if kind == Analog {
		return number + s.analogBase
	}
	return number
}

// Resolve is ResolvePinReference for a Pin.
func (s *Session) Resolve(pin Pin) int {
	return s.ResolvePinReference(pin.Kind, pin.Number)
}

// ConfigurePin sets the mode of a pin and registers it for later use.
// It returns 0 on success. If the board reports a non-zero exit code, the
// code is returned together with an ErrConfigurationRejected error; if the
// response can't be decoded, -1 is returned.
func (s *Session) ConfigurePin(kind PinKind, number int, mode PinMode) (int, error) {
	pin := s.ResolvePinReference(kind, number)
	req := comm.ConfigurePin(pin, int(mode))
	if number < 0 {
		return -1, &ProtocolError{Kind: ErrValueOutOfRange, Op: req.Op, Pin: noPin, Value: number}
	}
	if !mode.IsValid() {
		return -1, &ProtocolError{Kind: ErrValueOutOfRange, Op: req.Op, Pin: pin, Value: int(mode)}
	}
	if err := s.validate(req, pin); err != nil {
		return -1, err
	}
	code, err := s.conn.Int(req)
	if err != nil {
		perr := &ProtocolError{Kind: ErrConfigurationRejected, Op: req.Op, Pin: pin, Err: err}
		var decodeErr *comm.DecodeError
		if errors.As(err, &decodeErr) {
			perr.Response = decodeErr.Line
		}
		return -1, perr
	}
	if code != 0 {
		return code, &ProtocolError{
			Kind:        ErrConfigurationRejected,
			Op:          req.Op,
			Pin:         pin,
			Response:    strconv.Itoa(code),
			ExitCode:    code,
			HasExitCode: true,
		}
	}
	s.pins[pin] = mode
	glog.V(1).Infof("pin %d configured as %s", pin, mode)
	return 0, nil
}

// DigitalWrite drives a pin high (true) or low (false) and returns the exit
// code reported by the board, 0 on success. FallbackDigitalWrite is returned
// if the response can't be decoded.
func (s *Session) DigitalWrite(pin Pin, value bool) (int, error) {
	code, err := s.digitalWrite(pin, value)
	if s.decodeFailed(err) {
		return FallbackDigitalWrite, nil
	}
	return code, err
}

func (s *Session) digitalWrite(pin Pin, value bool) (int, error) {
	physical := s.Resolve(pin)
	req := comm.DigitalWrite(physical, value)
	if err := s.prepare(req, pin.Number, physical); err != nil {
		return 0, err
	}
	return s.conn.Int(req)
}

// AnalogRead samples analog input index (0 for A0) and returns a value in
// [0, 1023]. FallbackAnalogRead is returned if the response can't be
// decoded.
func (s *Session) AnalogRead(index int) (float64, error) {
	v, err := s.analogRead(index)
	if s.decodeFailed(err) {
		return FallbackAnalogRead, nil
	}
	return v, err
}

func (s *Session) analogRead(index int) (float64, error) {
	physical := s.ResolvePinReference(Analog, index)
	// the firmware expects the logical index here.
	req := comm.AnalogRead(index)
	if err := s.prepare(req, index, physical); err != nil {
		return 0, err
	}
	return s.conn.Float(req)
}

// DigitalRead reads the level of a pin. FallbackDigitalRead is returned if
// the response can't be decoded.
func (s *Session) DigitalRead(pin Pin) (bool, error) {
	v, err := s.digitalRead(pin)
	if s.decodeFailed(err) {
		return FallbackDigitalRead, nil
	}
	return v, err
}

func (s *Session) digitalRead(pin Pin) (bool, error) {
	physical := s.Resolve(pin)
	req := comm.DigitalRead(physical)
	if err := s.prepare(req, pin.Number, physical); err != nil {
		return false, err
	}
	v, err := s.conn.Int(req)
	return v == 1, err
}

// AnalogWrite sets the PWM duty cycle (0-255) of a pin and returns the
// exit code. FallbackAnalogWrite is returned if the response can't be
// decoded.
func (s *Session) AnalogWrite(pin Pin, value int) (int, error) {
	code, err := s.analogWrite(pin, value)
	if s.decodeFailed(err) {
		return FallbackAnalogWrite, nil
	}
	return code, err
}

func (s *Session) analogWrite(pin Pin, value int) (int, error) {
	physical := s.Resolve(pin)
	req := comm.AnalogWrite(physical, value)
	if err := s.prepare(req, pin.Number, physical); err != nil {
		return 0, err
	}
	return s.conn.Int(req)
}

// PulseIn waits for a pulse at the given level on a pin and returns its
// length in microseconds. It blocks until the firmware answers or the
// transport read times out. FallbackPulseIn is returned if the response
// can't be decoded.
func (s *Session) PulseIn(pin Pin, value bool) (float64, error) {
	v, err := s.pulseIn(pin, value)
	if s.decodeFailed(err) {
		return FallbackPulseIn, nil
	}
	return v, err
}

func (s *Session) pulseIn(pin Pin, value bool) (float64, error) {
	physical := s.Resolve(pin)
	req := comm.PulseIn(physical, value)
	if err := s.prepare(req, pin.Number, physical); err != nil {
		return 0, err
	}
	return s.conn.Float(req)
}

// Tone generates a square wave of frequency Hz on a pin for duration
// milliseconds, 0 plays until NoTone. The firmware can't go below 31Hz.
// FallbackTone is returned if the response can't be decoded.
func (s *Session) Tone(pin Pin, frequency, duration int) (int, error) {
	code, err := s.tone(pin, frequency, duration)
	if s.decodeFailed(err) {
		return FallbackTone, nil
	}
	return code, err
}

func (s *Session) tone(pin Pin, frequency, duration int) (int, error) {
	physical := s.Resolve(pin)
	req := comm.Tone(physical, frequency, duration)
	if err := s.prepare(req, pin.Number, physical); err != nil {
		return 0, err
	}
	return s.conn.Int(req)
}

// NoTone stops the square wave on a pin. FallbackNoTone is returned if the
// response can't be decoded.
func (s *Session) NoTone(pin Pin) (int, error) {
	code, err := s.noTone(pin)
	if s.decodeFailed(err) {
		return FallbackNoTone, nil
	}
	return code, err
}

func (s *Session) noTone(pin Pin) (int, error) {
	physical := s.Resolve(pin)
	req := comm.NoTone(physical)
	if err := s.prepare(req, pin.Number, physical); err != nil {
		return 0, err
	}
	return s.conn.Int(req)
}

// prepare checks the logical number is not negative, the pin is configured
// and the request is encodable.
func (s *Session) prepare(req *comm.Request, number, pin int) error {
	if number < 0 {
		return &ProtocolError{Kind: ErrValueOutOfRange, Op: req.Op, Pin: noPin, Value: number}
	}
	if _, ok := s.pins[pin]; !ok {
		return &ProtocolError{Kind: ErrPinNotConfigured, Op: req.Op, Pin: pin}
	}
	return s.validate(req, pin)
}

func (s *Session) validate(req *comm.Request, pin int) error {
	err := req.Validate()
	if rangeErr, ok := err.(*comm.RangeError); ok {
		return &ProtocolError{Kind: ErrValueOutOfRange, Op: req.Op, Pin: pin, Value: rangeErr.Value, Err: err}
	}
	return err
}

func (s *Session) decodeFailed(err error) bool {
	var decodeErr *comm.DecodeError
	if !errors.As(err, &decodeErr) {
		return false
	}
	if h := s.onDecodeError; h != nil {
		h(decodeErr.Op, decodeErr)
	} else {
		glog.V(2).Infof("%v, using fallback", decodeErr)
	}
	return true
}
