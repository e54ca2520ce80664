package comm

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// Conn exchanges requests and response lines over a byte stream.
// It is not safe for concurrent use.
type Conn struct {
	rw     io.ReadWriter
	reader *bufio.Reader
}

// NewConn wraps a byte stream.
func NewConn(rw io.ReadWriter) *Conn {
	return &Conn{rw: rw, reader: bufio.NewReader(rw)}
}

// Send writes a request.
func (c *Conn) Send(req *Request) error {
	_, err := req.WriteTo(c.rw)
	return err
}

// ReadLine reads one response line and strips the terminator.
// On error the partial line received so far is returned.
func (c *Conn) ReadLine() (string, error) {
	line, err := c.reader.ReadString('\n')
	return strings.TrimRight(line, "\r\n"), err
}

// Exchange sends a request and reads one response line.
// Write failures are returned as-is, read failures as *DecodeError.
func (c *Conn) Exchange(req *Request) (string, error) {
	if err := c.Send(req); err != nil {
		return "", err
	}
	line, err := c.ReadLine()
	if err != nil {
		return line, &DecodeError{Op: req.Op, Line: line, Err: err}
	}
	return line, nil
}

// Int sends a request and decodes the response as a decimal integer.
func (c *Conn) Int(req *Request) (int, error) {
	line, err := c.Exchange(req)
	if err != nil {
		return 0, err
	}
	v, err := ParseInt(line)
	if err != nil {
		return 0, &DecodeError{Op: req.Op, Line: line, Err: err}
	}
	return v, nil
}

// Float sends a request and decodes the response as a decimal number.
func (c *Conn) Float(req *Request) (float64, error) {
	line, err := c.Exchange(req)
	if err != nil {
		return 0, err
	}
	v, err := ParseFloat(line)
	if err != nil {
		return 0, &DecodeError{Op: req.Op, Line: line, Err: err}
	}
	return v, nil
}

// ParseInt parses a response line as an integer.
func ParseInt(line string) (int, error) {
	s := strings.TrimSpace(line)
	if s == "" {
		return 0, ErrEmptyResponse
	}
	return strconv.Atoi(s)
}

// ParseFloat parses a response line as a floating point number.
func ParseFloat(line string) (float64, error) {
	s := strings.TrimSpace(line)
	if s == "" {
		return 0, ErrEmptyResponse
	}
	return strconv.ParseFloat(s, 64)
}
