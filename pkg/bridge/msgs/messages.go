package msgs

import (
	"github.com/golang/protobuf/proto"

	fx "github.com/robotalks/arduino.go/pkg/framework"
)

// CommandOK is the generic reply indicating success for commands.
type CommandOK struct {
}

// NewMessage implements Message.
func (m *CommandOK) NewMessage() fx.Message { return &CommandOK{} }

// TypeID implements SerializableMessage.
func (m *CommandOK) TypeID() uint32 { return CommandOKTypeID }

// ProtoMessage implements proto.Message.
func (m *CommandOK) ProtoMessage() {}

// Reset implements proto.Message.
func (m *CommandOK) Reset() { *m = CommandOK{} }

// String implements proto.Message.
func (m *CommandOK) String() string { return proto.CompactTextString(m) }

// CommandErr is the generic reply representing command error.
type CommandErr struct {
	Message string `protobuf:"bytes,1,opt,name=message,proto3" json:"message,omitempty"`
	Kind    string `protobuf:"bytes,2,opt,name=kind,proto3" json:"kind,omitempty"`
}

// NewMessage implements Message.
func (m *CommandErr) NewMessage() fx.Message { return &CommandErr{} }

// TypeID implements SerializableMessage.
func (m *CommandErr) TypeID() uint32 { return CommandErrTypeID }

// ProtoMessage implements proto.Message.
func (m *CommandErr) ProtoMessage() {}

// Reset implements proto.Message.
func (m *CommandErr) Reset() { *m = CommandErr{} }

// String implements proto.Message.
func (m *CommandErr) String() string { return proto.CompactTextString(m) }

// BoardInfoQuery asks for the board session state.
type BoardInfoQuery struct {
}

// NewMessage implements Message.
func (m *BoardInfoQuery) NewMessage() fx.Message { return &BoardInfoQuery{} }

// TypeID implements SerializableMessage.
func (m *BoardInfoQuery) TypeID() uint32 { return BoardInfoQueryTypeID }

// ProtoMessage implements proto.Message.
func (m *BoardInfoQuery) ProtoMessage() {}

// Reset implements proto.Message.
func (m *BoardInfoQuery) Reset() { *m = BoardInfoQuery{} }

// String implements proto.Message.
func (m *BoardInfoQuery) String() string { return proto.CompactTextString(m) }

// BoardInfo replies BoardInfoQuery.
type BoardInfo struct {
	AnalogBase int32       `protobuf:"varint,1,opt,name=analog_base,proto3" json:"analog_base,omitempty"`
	Port       string      `protobuf:"bytes,2,opt,name=port,proto3" json:"port,omitempty"`
	Pins       []*PinState `protobuf:"bytes,3,rep,name=pins,proto3" json:"pins,omitempty"`
}

// NewMessage implements Message.
func (m *BoardInfo) NewMessage() fx.Message { return &BoardInfo{} }

// TypeID implements SerializableMessage.
func (m *BoardInfo) TypeID() uint32 { return BoardInfoTypeID }

// ProtoMessage implements proto.Message.
func (m *BoardInfo) ProtoMessage() {}

// Reset implements proto.Message.
func (m *BoardInfo) Reset() { *m = BoardInfo{} }

// String implements proto.Message.
func (m *BoardInfo) String() string { return proto.CompactTextString(m) }

// ConfigurePin sets the mode of a pin. Replied by ExitCode.
type ConfigurePin struct {
	Kind   int32 `protobuf:"varint,1,opt,name=kind,proto3" json:"kind,omitempty"`
	Number int32 `protobuf:"varint,2,opt,name=number,proto3" json:"number,omitempty"`
	Mode   int32 `protobuf:"varint,3,opt,name=mode,proto3" json:"mode,omitempty"`
}

// NewMessage implements Message.
func (m *ConfigurePin) NewMessage() fx.Message { return &ConfigurePin{} }

// TypeID implements SerializableMessage.
func (m *ConfigurePin) TypeID() uint32 { return ConfigurePinTypeID }

// ProtoMessage implements proto.Message.
func (m *ConfigurePin) ProtoMessage() {}

// Reset implements proto.Message.
func (m *ConfigurePin) Reset() { *m = ConfigurePin{} }

// String implements proto.Message.
func (m *ConfigurePin) String() string { return proto.CompactTextString(m) }

// DigitalWrite drives a pin high or low. Replied by ExitCode.
type DigitalWrite struct {
	Kind   int32 `protobuf:"varint,1,opt,name=kind,proto3" json:"kind,omitempty"`
	Number int32 `protobuf:"varint,2,opt,name=number,proto3" json:"number,omitempty"`
	Value  bool  `protobuf:"varint,3,opt,name=value,proto3" json:"value,omitempty"`
}

// NewMessage implements Message.
func (m *DigitalWrite) NewMessage() fx.Message { return &DigitalWrite{} }

// TypeID implements SerializableMessage.
func (m *DigitalWrite) TypeID() uint32 { return DigitalWriteTypeID }

// ProtoMessage implements proto.Message.
func (m *DigitalWrite) ProtoMessage() {}

// Reset implements proto.Message.
func (m *DigitalWrite) Reset() { *m = DigitalWrite{} }

// String implements proto.Message.
func (m *DigitalWrite) String() string { return proto.CompactTextString(m) }

// DigitalRead reads the level of a pin.
type DigitalRead struct {
	Kind   int32 `protobuf:"varint,1,opt,name=kind,proto3" json:"kind,omitempty"`
	Number int32 `protobuf:"varint,2,opt,name=number,proto3" json:"number,omitempty"`
}

// NewMessage implements Message.
func (m *DigitalRead) NewMessage() fx.Message { return &DigitalRead{} }

// TypeID implements SerializableMessage.
func (m *DigitalRead) TypeID() uint32 { return DigitalReadTypeID }

// ProtoMessage implements proto.Message.
func (m *DigitalRead) ProtoMessage() {}

// Reset implements proto.Message.
func (m *DigitalRead) Reset() { *m = DigitalRead{} }

// String implements proto.Message.
func (m *DigitalRead) String() string { return proto.CompactTextString(m) }

// DigitalValue replies DigitalRead.
type DigitalValue struct {
	Value bool `protobuf:"varint,1,opt,name=value,proto3" json:"value,omitempty"`
}

// NewMessage implements Message.
func (m *DigitalValue) NewMessage() fx.Message { return &DigitalValue{} }

// TypeID implements SerializableMessage.
func (m *DigitalValue) TypeID() uint32 { return DigitalValueTypeID }

// ProtoMessage implements proto.Message.
func (m *DigitalValue) ProtoMessage() {}

// Reset implements proto.Message.
func (m *DigitalValue) Reset() { *m = DigitalValue{} }

// String implements proto.Message.
func (m *DigitalValue) String() string { return proto.CompactTextString(m) }

// AnalogRead samples an analog input by logical index.
type AnalogRead struct {
	Index int32 `protobuf:"varint,1,opt,name=index,proto3" json:"index,omitempty"`
}

// NewMessage implements Message.
func (m *AnalogRead) NewMessage() fx.Message { return &AnalogRead{} }

// TypeID implements SerializableMessage.
func (m *AnalogRead) TypeID() uint32 { return AnalogReadTypeID }

// ProtoMessage implements proto.Message.
func (m *AnalogRead) ProtoMessage() {}

// Reset implements proto.Message.
func (m *AnalogRead) Reset() { *m = AnalogRead{} }

// String implements proto.Message.
func (m *AnalogRead) String() string { return proto.CompactTextString(m) }

// AnalogValue replies AnalogRead.
type AnalogValue struct {
	Value float64 `protobuf:"fixed64,1,opt,name=value,proto3" json:"value,omitempty"`
}

// NewMessage implements Message.
func (m *AnalogValue) NewMessage() fx.Message { return &AnalogValue{} }

// TypeID implements SerializableMessage.
func (m *AnalogValue) TypeID() uint32 { return AnalogValueTypeID }

// ProtoMessage implements proto.Message.
func (m *AnalogValue) ProtoMessage() {}

// Reset implements proto.Message.
func (m *AnalogValue) Reset() { *m = AnalogValue{} }

// String implements proto.Message.
func (m *AnalogValue) String() string { return proto.CompactTextString(m) }

// AnalogWrite sets the PWM duty cycle of a pin. Replied by ExitCode.
type AnalogWrite struct {
	Kind   int32 `protobuf:"varint,1,opt,name=kind,proto3" json:"kind,omitempty"`
	Number int32 `protobuf:"varint,2,opt,name=number,proto3" json:"number,omitempty"`
	Value  int32 `protobuf:"varint,3,opt,name=value,proto3" json:"value,omitempty"`
}

// NewMessage implements Message.
func (m *AnalogWrite) NewMessage() fx.Message { return &AnalogWrite{} }

// TypeID implements SerializableMessage.
func (m *AnalogWrite) TypeID() uint32 { return AnalogWriteTypeID }

// ProtoMessage implements proto.Message.
func (m *AnalogWrite) ProtoMessage() {}

// Reset implements proto.Message.
func (m *AnalogWrite) Reset() { *m = AnalogWrite{} }

// String implements proto.Message.
func (m *AnalogWrite) String() string { return proto.CompactTextString(m) }

// PulseIn measures a pulse on a pin.
type PulseIn struct {
	Kind   int32 `protobuf:"varint,1,opt,name=kind,proto3" json:"kind,omitempty"`
	Number int32 `protobuf:"varint,2,opt,name=number,proto3" json:"number,omitempty"`
	Value  bool  `protobuf:"varint,3,opt,name=value,proto3" json:"value,omitempty"`
}

// NewMessage implements Message.
func (m *PulseIn) NewMessage() fx.Message { return &PulseIn{} }

// TypeID implements SerializableMessage.
func (m *PulseIn) TypeID() uint32 { return PulseInTypeID }

// ProtoMessage implements proto.Message.
func (m *PulseIn) ProtoMessage() {}

// Reset implements proto.Message.
func (m *PulseIn) Reset() { *m = PulseIn{} }

// String implements proto.Message.
func (m *PulseIn) String() string { return proto.CompactTextString(m) }

// PulseDuration replies PulseIn.
type PulseDuration struct {
	Micros float64 `protobuf:"fixed64,1,opt,name=micros,proto3" json:"micros,omitempty"`
}

// NewMessage implements Message.
func (m *PulseDuration) NewMessage() fx.Message { return &PulseDuration{} }

// TypeID implements SerializableMessage.
func (m *PulseDuration) TypeID() uint32 { return PulseDurationTypeID }

// ProtoMessage implements proto.Message.
func (m *PulseDuration) ProtoMessage() {}

// Reset implements proto.Message.
func (m *PulseDuration) Reset() { *m = PulseDuration{} }

// String implements proto.Message.
func (m *PulseDuration) String() string { return proto.CompactTextString(m) }

// Tone starts a square wave on a pin. Replied by ExitCode.
type Tone struct {
	Kind      int32 `protobuf:"varint,1,opt,name=kind,proto3" json:"kind,omitempty"`
	Number    int32 `protobuf:"varint,2,opt,name=number,proto3" json:"number,omitempty"`
	Frequency int32 `protobuf:"varint,3,opt,name=frequency,proto3" json:"frequency,omitempty"`
	Duration  int32 `protobuf:"varint,4,opt,name=duration,proto3" json:"duration,omitempty"`
}

// NewMessage implements Message.
func (m *Tone) NewMessage() fx.Message { return &Tone{} }

// TypeID implements SerializableMessage.
func (m *Tone) TypeID() uint32 { return ToneTypeID }

// ProtoMessage implements proto.Message.
func (m *Tone) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Tone) Reset() { *m = Tone{} }

// String implements proto.Message.
func (m *Tone) String() string { return proto.CompactTextString(m) }

// NoTone stops the square wave on a pin. Replied by ExitCode.
type NoTone struct {
	Kind   int32 `protobuf:"varint,1,opt,name=kind,proto3" json:"kind,omitempty"`
	Number int32 `protobuf:"varint,2,opt,name=number,proto3" json:"number,omitempty"`
}

// NewMessage implements Message.
func (m *NoTone) NewMessage() fx.Message { return &NoTone{} }

// TypeID implements SerializableMessage.
func (m *NoTone) TypeID() uint32 { return NoToneTypeID }

// ProtoMessage implements proto.Message.
func (m *NoTone) ProtoMessage() {}

// Reset implements proto.Message.
func (m *NoTone) Reset() { *m = NoTone{} }

// String implements proto.Message.
func (m *NoTone) String() string { return proto.CompactTextString(m) }

// ExitCode carries the code reported by the board, 0 on success.
type ExitCode struct {
	Code int32 `protobuf:"varint,1,opt,name=code,proto3" json:"code,omitempty"`
}

// NewMessage implements Message.
func (m *ExitCode) NewMessage() fx.Message { return &ExitCode{} }

// TypeID implements SerializableMessage.
func (m *ExitCode) TypeID() uint32 { return ExitCodeTypeID }

// ProtoMessage implements proto.Message.
func (m *ExitCode) ProtoMessage() {}

// Reset implements proto.Message.
func (m *ExitCode) Reset() { *m = ExitCode{} }

// String implements proto.Message.
func (m *ExitCode) String() string { return proto.CompactTextString(m) }

// PinSample is the event published when a watched pin changes.
type PinSample struct {
	Kind   int32   `protobuf:"varint,1,opt,name=kind,proto3" json:"kind,omitempty"`
	Number int32   `protobuf:"varint,2,opt,name=number,proto3" json:"number,omitempty"`
	Value  float64 `protobuf:"fixed64,3,opt,name=value,proto3" json:"value,omitempty"`
}

// NewMessage implements Message.
func (m *PinSample) NewMessage() fx.Message { return &PinSample{} }

// TypeID implements SerializableMessage.
func (m *PinSample) TypeID() uint32 { return PinSampleTypeID }

// ProtoMessage implements proto.Message.
func (m *PinSample) ProtoMessage() {}

// Reset implements proto.Message.
func (m *PinSample) Reset() { *m = PinSample{} }

// String implements proto.Message.
func (m *PinSample) String() string { return proto.CompactTextString(m) }
