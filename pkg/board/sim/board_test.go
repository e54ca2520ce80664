package sim

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/arduino.go/pkg/board/comm"
)

func TestBoardRequests(t *testing.T) {
	b := New(DefaultAnalogBase)
	c := comm.NewConn(b)

	base, err := c.Int(comm.GetBoardInfo())
	require.NoError(t, err)
	require.Equal(t, 14, base)

	code, err := c.Int(comm.ConfigurePin(13, 0))
	require.NoError(t, err)
	require.Equal(t, 0, code)
	mode, ok := b.Mode(13)
	require.True(t, ok)
	require.Equal(t, 0, mode)

	code, err = c.Int(comm.ConfigurePin(13, 5))
	require.NoError(t, err)
	require.Equal(t, 1, code)

	_, err = c.Int(comm.DigitalWrite(13, true))
	require.NoError(t, err)
	require.True(t, b.Digital(13))
	v, err := c.Int(comm.DigitalRead(13))
	require.NoError(t, err)
	require.Equal(t, 1, v)

	b.SetAnalog(1, 700)
	f, err := c.Float(comm.AnalogRead(1))
	require.NoError(t, err)
	require.Equal(t, 700.0, f)

	_, err = c.Int(comm.AnalogWrite(9, 200))
	require.NoError(t, err)
	require.Equal(t, 200, b.PWM(9))

	b.SetPulse(7, 1500)
	f, err = c.Float(comm.PulseIn(7, true))
	require.NoError(t, err)
	require.Equal(t, 1500.0, f)

	_, err = c.Int(comm.Tone(8, 440, 250))
	require.NoError(t, err)
	tone, ok := b.Tone(8)
	require.True(t, ok)
	require.Equal(t, ToneState{Frequency: 440, Duration: 250}, tone)
	_, err = c.Int(comm.NoTone(8))
	require.NoError(t, err)
	_, ok = b.Tone(8)
	require.False(t, ok)

	require.Equal(t, 10, b.Requests())
}

func TestBoardPartialWrites(t *testing.T) {
	b := New(54)
	req := comm.Tone(3, 1000, 0).Bytes()
	for _, by := range req {
		_, err := b.Write([]byte{by})
		require.NoError(t, err)
	}
	// garbage opcode is skipped
	_, err := b.Write([]byte{0xee, byte(comm.OpGetBoardInfo)})
	require.NoError(t, err)

	c := comm.NewConn(b)
	line, err := c.ReadLine()
	require.NoError(t, err)
	require.Equal(t, "0", line)
	line, err = c.ReadLine()
	require.NoError(t, err)
	require.Equal(t, "54", line)
	_, err = c.ReadLine()
	require.Equal(t, io.EOF, err)
}

func TestBoardOverride(t *testing.T) {
	b := New(DefaultAnalogBase)
	c := comm.NewConn(b)
	b.Override(comm.OpDigitalRead, "junk\r\n")
	b.Override(comm.OpDigitalRead, "")

	_, err := c.Int(comm.DigitalRead(2))
	require.Error(t, err)
	_, err = c.Int(comm.DigitalRead(2))
	require.Error(t, err)
	v, err := c.Int(comm.DigitalRead(2))
	require.NoError(t, err)
	require.Equal(t, 0, v)

	require.NoError(t, b.Close())
	_, err = b.Write([]byte{1})
	require.Equal(t, io.ErrClosedPipe, err)
}
