package msgs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTypedRoundTrip(t *testing.T) {
	testCases := []SerializableMessage{
		&Tone{Kind: 0, Number: 8, Frequency: 440, Duration: 500},
		&AnalogValue{Value: 512},
		&BoardInfo{AnalogBase: 14, Port: "sim://uno", Pins: []*PinState{{Pin: 13, Mode: 0}, {Pin: 15, Mode: 1}}},
		&CommandErr{Message: "digital_write pin 3: pin not configured", Kind: "pin not configured"},
		&PinSample{Kind: 1, Number: 1, Value: 700},
	}
	for _, msg := range testCases {
		t.Run(Name(msg), func(t *testing.T) {
			typed, err := TypedFrom(msg)
			require.NoError(t, err)
			typed.Sequence = 7
			pkt, err := typed.Encode()
			require.NoError(t, err)

			decoded, err := DecodeTyped(pkt)
			require.NoError(t, err)
			require.Equal(t, uint32(7), decoded.Sequence)
			require.Equal(t, msg.TypeID(), decoded.TypeId)
			out, err := decoded.Decode()
			require.NoError(t, err)
			require.Equal(t, msg.String(), out.(SerializableMessage).String())
		})
	}
}

func TestTypedKinds(t *testing.T) {
	testCases := []struct {
		typeID  uint32
		command bool
		reply   bool
		event   bool
	}{
		{typeID: DigitalWriteTypeID, command: true},
		{typeID: ExitCodeTypeID, command: true, reply: true},
		{typeID: CommandErrTypeID, command: true, reply: true},
		{typeID: PinSampleTypeID, event: true},
	}
	for _, tc := range testCases {
		typed := &Typed{TypeId: tc.typeID}
		require.Equal(t, tc.command, typed.IsCommand())
		require.Equal(t, tc.reply, typed.IsReply())
		require.Equal(t, tc.event, typed.IsEvent())
	}
}

func TestTypedErrors(t *testing.T) {
	_, err := (&Typed{TypeId: GroupCustom | 0x42}).Decode()
	require.Error(t, err)
	_, ok := err.(*ErrUnknownType)
	require.True(t, ok)

	_, err = TypedFrom(nil)
	require.Equal(t, ErrNotSerializable, err)

	require.Equal(t, "DigitalWrite", Name(&DigitalWrite{}))
}
