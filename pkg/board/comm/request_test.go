package comm

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRequest(t *testing.T) {
	testCases := []struct {
		name    string
		request *Request
		expect  []byte
	}{
		{"get board info", GetBoardInfo(), []byte{1}},
		{"configure pin", ConfigurePin(15, 1), []byte{2, 15, 1}},
		{"digital write high", DigitalWrite(13, true), []byte{3, 13, 1}},
		{"digital write low", DigitalWrite(13, false), []byte{3, 13, 0}},
		{"analog read", AnalogRead(1), []byte{4, 1}},
		{"digital read", DigitalRead(10), []byte{5, 10}},
		{"analog write", AnalogWrite(6, 255), []byte{6, 6, 255}},
		{"pulse in", PulseIn(7, true), []byte{7, 7, 1}},
		{"tone", Tone(9, 440, 500), append([]byte{8, 9}, "440\n500\n"...)},
		{"tone forever", Tone(9, 31, 0), append([]byte{8, 9}, "31\n0\n"...)},
		{"no tone", NoTone(9), []byte{9, 9}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.NoError(t, tc.request.Validate())
			require.Equal(t, tc.expect, tc.request.Bytes())
			var buf bytes.Buffer
			n, err := tc.request.WriteTo(&buf)
			require.NoError(t, err)
			require.Equal(t, tc.expect, buf.Bytes())
			require.Equal(t, int64(len(tc.expect)), n)
		})
	}
}

func TestRequestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		request *Request
		arg     int
		value   int
	}{
		{"pin too large", ConfigurePin(256, 0), 0, 256},
		{"negative pin", DigitalRead(-1), 0, -1},
		{"pwm too large", AnalogWrite(6, 256), 1, 256},
		{"negative pwm", AnalogWrite(6, -1), 1, -1},
		{"tone pin", Tone(300, 440, 0), 0, 300},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.request.Validate()
			require.Error(t, err)
			rangeErr, ok := err.(*RangeError)
			require.True(t, ok)
			require.Equal(t, tc.request.Op, rangeErr.Op)
			require.Equal(t, tc.arg, rangeErr.Arg)
			require.Equal(t, tc.value, rangeErr.Value)

			var buf bytes.Buffer
			n, err := tc.request.WriteTo(&buf)
			require.Equal(t, rangeErr, err)
			require.Zero(t, n)
			require.Zero(t, buf.Len())
		})
	}
}

func TestRequestTextArgsNotRangeChecked(t *testing.T) {
	req := Tone(9, 20000, 100000)
	require.NoError(t, req.Validate())
	require.Equal(t, append([]byte{8, 9}, "20000\n100000\n"...), req.Bytes())
	require.False(t, req.Args[0].IsText())
	require.True(t, req.Args[1].IsText())
	require.True(t, req.Args[2].IsText())
}

func TestOpcode(t *testing.T) {
	require.Equal(t, "configure_pin", OpConfigurePin.String())
	require.Equal(t, "opcode(42)", Opcode(42).String())
	require.False(t, Opcode(0).IsValid())
	require.False(t, Opcode(10).IsValid())
	for op := OpGetBoardInfo; op <= OpNoTone; op++ {
		require.True(t, op.IsValid())
	}
}
