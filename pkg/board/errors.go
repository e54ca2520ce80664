package board

import (
	"errors"
	"fmt"
	"strings"

	"github.com/robotalks/arduino.go/pkg/board/comm"
)

var (
	// ErrHandshakeFailed indicates the board didn't report its analog pin
	// offset, usually because the link wasn't ready yet or the port is
	// wrong.
	ErrHandshakeFailed = errors.New("handshake failed")
	// ErrConfigurationRejected indicates the board didn't acknowledge a
	// pin configuration with exit code 0.
	ErrConfigurationRejected = errors.New("pin configuration rejected")
	// ErrPinNotConfigured indicates an operation on a pin which hasn't
	// been configured in this session. Nothing is sent to the board.
	ErrPinNotConfigured = errors.New("pin not configured")
	// ErrValueOutOfRange indicates a value doesn't fit in its protocol
	// field. Nothing is sent to the board.
	ErrValueOutOfRange = errors.New("value out of range")
)

const noPin = -1

// ProtocolError is the error returned by Session operations.
// Use errors.Is with the Err* values to check the failure.
type ProtocolError struct {
	// Kind is one of the Err* values.
	Kind error
	Op   comm.Opcode
	// Pin is the physical pin, or -1.
	Pin int
	// Value is the offending value for ErrValueOutOfRange.
	Value int
	// Response is the raw response line, if any was received.
	Response string
	// ExitCode is the code reported by the board when HasExitCode is set.
	ExitCode    int
	HasExitCode bool
	// Err is the underlying cause, may be nil.
	Err error
}

// Error implements error.
func (e *ProtocolError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op.String())
	if e.Pin != noPin {
		fmt.Fprintf(&b, " pin %d", e.Pin)
	}
	b.WriteString(": ")
	b.WriteString(e.Kind.Error())
	if e.Kind == ErrValueOutOfRange {
		fmt.Fprintf(&b, " (%d)", e.Value)
	}
	if e.HasExitCode {
		fmt.Fprintf(&b, ", exit code %d", e.ExitCode)
	} else if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the Kind of this error.
func (e *ProtocolError) Is(target error) bool {
	return target == e.Kind
}
