// Package msgs provides the bridge protocol and all message schemas.
package msgs

// The bridge protocol exposes one board session to remote clients.
// Every packet is a Typed envelope carrying a protobuf encoded message.
// Commands are replied with the same sequence number, events are
// unsolicited.
//
// Producer: board bridge (replies, events), clients (commands)
// Consumer: clients (replies, events), board bridge (commands)
