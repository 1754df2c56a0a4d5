// Package ws streams session events to websocket clients.
//
// Each connection subscribes to one session's event stream; figures
// rendered in interactive mode, directive notices, and system messages
// are pushed as JSON frames. Inbound traffic is limited to control
// messages ("ping").
package ws
