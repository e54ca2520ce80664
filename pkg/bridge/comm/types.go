// Package comm moves typed bridge messages between a board bridge and its
// clients over any packet transport.
package comm

// PacketReader receives one encoded bridge packet at a time.
// It returns an error once the transport is closed.
type PacketReader interface {
	ReadPacket() ([]byte, error)
}

// PacketWriter sends one encoded bridge packet.
type PacketWriter interface {
	WritePacket([]byte) error
}

// PacketReadWriter is a bidirectional packet transport, e.g. a pair of MQTT
// topics or a length-prefixed TCP stream.
type PacketReadWriter interface {
	PacketReader
	PacketWriter
}
