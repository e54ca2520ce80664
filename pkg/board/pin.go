package board

import (
	"fmt"
	"strconv"
	"strings"
)

// PinKind selects how a pin number is interpreted.
type PinKind int

// Pin kinds
const (
	// Digital pin numbers are physical board pin numbers.
	Digital PinKind = iota
	// Analog pin numbers are logical indices (A0, A1, ...) which are
	// offset by the board's first analog pin.
	Analog
)

// String implements fmt.Stringer.
func (k PinKind) String() string {
	switch k {
	case Digital:
		return "digital"
	case Analog:
		return "analog"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// ParsePinKind parses "d"/"digital"/"0" or "a"/"analog"/"1".
func ParsePinKind(s string) (PinKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "d", "digital", "0":
		return Digital, nil
	case "a", "analog", "1":
		return Analog, nil
	}
	return Digital, fmt.Errorf("invalid pin kind %q", s)
}

// PinMode is the direction a pin is configured for.
// The values are the wire encoding.
type PinMode int

// Pin modes
const (
	Output PinMode = 0
	Input  PinMode = 1
)

// String implements fmt.Stringer.
func (m PinMode) String() string {
	switch m {
	case Output:
		return "output"
	case Input:
		return "input"
	}
	return "mode(" + strconv.Itoa(int(m)) + ")"
}

// IsValid indicates the mode is Output or Input.
func (m PinMode) IsValid() bool {
	return m == Output || m == Input
}

// ParsePinMode parses "o"/"out"/"output"/"0" or "i"/"in"/"input"/"1".
func ParsePinMode(s string) (PinMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "o", "out", "output", "0":
		return Output, nil
	case "i", "in", "input", "1":
		return Input, nil
	}
	return Output, fmt.Errorf("invalid pin mode %q", s)
}

// Pin refers to a pin by kind and number.
type Pin struct {
	Kind   PinKind
	Number int
}

// D refers to a physical pin.
func D(n int) Pin {
	return Pin{Kind: Digital, Number: n}
}

// A refers to an analog pin by its logical index.
func A(n int) Pin {
	return Pin{Kind: Analog, Number: n}
}

// String formats the pin as "d13" or "a1".
func (p Pin) String() string {
	if p.Kind == Analog {
		return "a" + strconv.Itoa(p.Number)
	}
	return "d" + strconv.Itoa(p.Number)
}

// ParsePin parses "13", "d13", "D13", "a1" or "A1".
func ParsePin(s string) (Pin, error) {
	str := strings.ToLower(strings.TrimSpace(s))
	pin := Pin{Kind: Digital}
	if strings.HasPrefix(str, "a") {
		pin.Kind, str = Analog, str[1:]
	} else if strings.HasPrefix(str, "d") {
		str = str[1:]
	}
	n, err := strconv.Atoi(str)
	if err != nil || n < 0 {
		return pin, fmt.Errorf("invalid pin %q", s)
	}
	pin.Number = n
	return pin, nil
}
