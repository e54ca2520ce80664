package comm

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

// lineStream replies with queued bytes and records writes.
// Reading from an empty stream reports io.EOF, like a serial read timeout.
type lineStream struct {
	in       bytes.Buffer
	out      bytes.Buffer
	writeErr error
}

func (s *lineStream) Read(p []byte) (int, error) {
	if s.in.Len() == 0 {
		return 0, io.EOF
	}
	return s.in.Read(p)
}

func (s *lineStream) Write(p []byte) (int, error) {
	if s.writeErr != nil {
		return 0, s.writeErr
	}
	return s.out.Write(p)
}

func TestConnReadLine(t *testing.T) {
	s := &lineStream{}
	s.in.WriteString("14\r\n0\n\r\n  7 \r\npartial")
	c := NewConn(s)

	for _, expect := range []string{"14", "0", "", "  7 "} {
		line, err := c.ReadLine()
		require.NoError(t, err)
		require.Equal(t, expect, line)
	}
	line, err := c.ReadLine()
	require.Equal(t, io.EOF, err)
	require.Equal(t, "partial", line)
}

func TestConnInt(t *testing.T) {
	testCases := []struct {
		name     string
		response string
		expect   int
		badLine  string
		cause    error
	}{
		{name: "zero", response: "0\r\n", expect: 0},
		{name: "lf only", response: "14\n", expect: 14},
		{name: "padded", response: " 1 \r\n", expect: 1},
		{name: "signed", response: "-3\n", expect: -3},
		{name: "empty line", response: "\r\n", cause: ErrEmptyResponse},
		{name: "timeout", response: "", cause: io.EOF},
		{name: "short read", response: "1", badLine: "1", cause: io.EOF},
		{name: "text", response: "error\n", badLine: "error"},
		{name: "float", response: "1.5\n", badLine: "1.5"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := &lineStream{}
			s.in.WriteString(tc.response)
			v, err := NewConn(s).Int(DigitalRead(10))
			require.Equal(t, []byte{5, 10}, s.out.Bytes())
			if tc.cause == nil && tc.badLine == "" {
				require.NoError(t, err)
				require.Equal(t, tc.expect, v)
				return
			}
			var decodeErr *DecodeError
			require.True(t, errors.As(err, &decodeErr))
			require.Equal(t, OpDigitalRead, decodeErr.Op)
			require.Equal(t, tc.badLine, decodeErr.Line)
			if tc.cause != nil {
				require.True(t, errors.Is(err, tc.cause))
			}
			require.Zero(t, v)
		})
	}
}

func TestConnFloat(t *testing.T) {
	s := &lineStream{}
	s.in.WriteString("512\r\n1023.0\r\n1520.25\n\n")
	c := NewConn(s)

	v, err := c.Float(AnalogRead(0))
	require.NoError(t, err)
	require.Equal(t, 512.0, v)
	v, err = c.Float(AnalogRead(1))
	require.NoError(t, err)
	require.Equal(t, 1023.0, v)
	v, err = c.Float(PulseIn(7, true))
	require.NoError(t, err)
	require.Equal(t, 1520.25, v)
	_, err = c.Float(AnalogRead(2))
	require.True(t, errors.Is(err, ErrEmptyResponse))

	require.Equal(t, []byte{4, 0, 4, 1, 7, 7, 1, 4, 2}, s.out.Bytes())
}

func TestConnWriteError(t *testing.T) {
	writeErr := errors.New("port closed")
	s := &lineStream{writeErr: writeErr}
	s.in.WriteString("0\n")
	_, err := NewConn(s).Int(NoTone(9))
	require.Equal(t, writeErr, err)
	var decodeErr *DecodeError
	require.False(t, errors.As(err, &decodeErr))
	require.Equal(t, 2, s.in.Len(), "response must not be consumed")
}

func TestConnRangeError(t *testing.T) {
	s := &lineStream{}
	_, err := NewConn(s).Int(AnalogWrite(6, 300))
	_, ok := err.(*RangeError)
	require.True(t, ok)
	require.Zero(t, s.out.Len())
}
