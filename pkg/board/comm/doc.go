// Package comm provides the board command protocol.
package comm

// The board protocol is spoken between the host and the board firmware
// over a byte stream, usually a serial port. The host is always the
// initiator: it writes one request and then blocks until the board answers
// with exactly one line of ASCII decimal text.
//
// A request is a single opcode byte followed by its arguments. Arguments
// are raw single bytes, except the frequency and duration of Tone which are
// sent as decimal text each terminated by a line feed.
//
// Responses end with "\n", optionally preceded by "\r". There is no framing,
// checksum or sequence number: a late response is indistinguishable from the
// answer to the next request.
//
// Producer: host
// Consumer: board firmware
