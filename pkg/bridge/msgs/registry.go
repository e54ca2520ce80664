package msgs

import (
	"github.com/golang/protobuf/proto"
)

// PinState is a configured pin in BoardInfo.
type PinState struct {
	Pin  int32 `protobuf:"varint,1,opt,name=pin,proto3" json:"pin"`
	Mode int32 `protobuf:"varint,2,opt,name=mode,proto3" json:"mode"`
}

// ProtoMessage implements proto.Message.
func (m *PinState) ProtoMessage() {}

// Reset implements proto.Message.
func (m *PinState) Reset() { *m = PinState{} }

// String implements proto.Message.
func (m *PinState) String() string { return proto.CompactTextString(m) }

// NewCommandErr creates a CommandErr from an error.
func NewCommandErr(err error) *CommandErr {
	return &CommandErr{Message: err.Error()}
}

// NewCommandErrWithKind creates a CommandErr classified by kind,
// e.g. "pin not configured".
func NewCommandErrWithKind(err error, kind string) *CommandErr {
	return &CommandErr{Message: err.Error(), Kind: kind}
}

// Error implements error.
func (m *CommandErr) Error() string { return m.Message }

// TypeID Groups
const (
	GroupCommand uint32 = 0x00000000
	GroupBoard   uint32 = 0x00010000
	GroupCustom  uint32 = 0x7f000000 // base group id for custom messages.
)

// TypeIDs
const (
	CommandOKTypeID      uint32 = GroupCommand | TypeIDMaskReply | 0x0000
	CommandErrTypeID     uint32 = GroupCommand | TypeIDMaskReply | 0x0001
	BoardInfoQueryTypeID uint32 = GroupBoard | 0x0000
	BoardInfoTypeID      uint32 = BoardInfoQueryTypeID | TypeIDMaskReply
	ConfigurePinTypeID   uint32 = GroupBoard | 0x0001
	DigitalWriteTypeID   uint32 = GroupBoard | 0x0002
	DigitalReadTypeID    uint32 = GroupBoard | 0x0003
	DigitalValueTypeID   uint32 = DigitalReadTypeID | TypeIDMaskReply
	AnalogReadTypeID     uint32 = GroupBoard | 0x0004
	AnalogValueTypeID    uint32 = AnalogReadTypeID | TypeIDMaskReply
	AnalogWriteTypeID    uint32 = GroupBoard | 0x0005
	PulseInTypeID        uint32 = GroupBoard | 0x0006
	PulseDurationTypeID  uint32 = PulseInTypeID | TypeIDMaskReply
	ToneTypeID           uint32 = GroupBoard | 0x0007
	NoToneTypeID         uint32 = GroupBoard | 0x0008
	ExitCodeTypeID       uint32 = GroupBoard | TypeIDMaskReply | 0x0100
	PinSampleTypeID      uint32 = GroupBoard | TypeIDKindEvent | 0x0000
)

// MessageTypes are predefined mapping of type ID to messages.
var MessageTypes = map[uint32]SerializableMessage{
	CommandOKTypeID:      (*CommandOK)(nil),
	CommandErrTypeID:     (*CommandErr)(nil),
	BoardInfoQueryTypeID: (*BoardInfoQuery)(nil),
	BoardInfoTypeID:      (*BoardInfo)(nil),
	ConfigurePinTypeID:   (*ConfigurePin)(nil),
	DigitalWriteTypeID:   (*DigitalWrite)(nil),
	DigitalReadTypeID:    (*DigitalRead)(nil),
	DigitalValueTypeID:   (*DigitalValue)(nil),
	AnalogReadTypeID:     (*AnalogRead)(nil),
	AnalogValueTypeID:    (*AnalogValue)(nil),
	AnalogWriteTypeID:    (*AnalogWrite)(nil),
	PulseInTypeID:        (*PulseIn)(nil),
	PulseDurationTypeID:  (*PulseDuration)(nil),
	ToneTypeID:           (*Tone)(nil),
	NoToneTypeID:         (*NoTone)(nil),
	ExitCodeTypeID:       (*ExitCode)(nil),
	PinSampleTypeID:      (*PinSample)(nil),
}
