package comm

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyResponse indicates the board answered with an empty line.
	ErrEmptyResponse = errors.New("empty response")
)

// DecodeError indicates a response line can't be decoded. This includes
// short reads and read timeouts, in which case Line holds whatever was
// received before the failure.
type DecodeError struct {
	Op   Opcode
	Line string
	Err  error
}

// Error implements error.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: bad response %q: %v", e.Op, e.Line, e.Err)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// RangeError indicates a single-byte argument outside [0, 255].
type RangeError struct {
	Op    Opcode
	Arg   int
	Value int
}

// Error implements error.
func (e *RangeError) Error() string {
	return fmt.Sprintf("%s: argument %d value %d out of range [0, 255]", e.Op, e.Arg, e.Value)
}
