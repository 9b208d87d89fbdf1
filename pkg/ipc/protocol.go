// Package ipc implements the daemon's client-facing surface: the
// newline-delimited JSON command protocol, the unix-socket connection
// server, a one-shot client for the CLI, and a read-only HTTP inspector.
//
// # Wire format
//
// One JSON-encoded request object per line, one JSON-encoded response object
// per line, strictly paired in order per connection. Requests are tagged by
// a "command" field, responses by a "status" field.
package ipc

import (
	"github.com/barline/barline/pkg/bar"
	"github.com/barline/barline/pkg/errors"
)

// Command names accepted on the wire.
const (
	CommandAdd      = "add"
	CommandSet      = "set"
	CommandRemove   = "remove"
	CommandQuery    = "query"
	CommandDisplays = "displays"
)

// Response status tags.
const (
	StatusOK          = "ok"
	StatusError       = "error"
	StatusQueryResult = "query_result"
	StatusDisplayList = "display_list"
)

// Request is the wire shape of every command. Which fields are meaningful
// depends on Command:
//
//   - add: Name plus optional NodeType, Parent, Position, Display (pins the
//     node), and a full property bag in Properties
//   - set: Name and Properties
//   - remove: Name
//   - query: optional Name and Display filters
//   - displays: no body
type Request struct {
	Command    string            `json:"command"`
	Name       string            `json:"name,omitempty"`
	NodeType   string            `json:"node_type,omitempty"`
	Parent     string            `json:"parent,omitempty"`
	Position   *int32            `json:"position,omitempty"`
	Display    *uint32           `json:"display,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
}

// Response is the wire shape of every reply. Nodes and Displays are slice
// pointers so an empty query result still serializes as an empty array
// rather than disappearing from the payload.
type Response struct {
	Status   string          `json:"status"`
	Message  string          `json:"message,omitempty"`
	Nodes    *[]bar.Node     `json:"nodes,omitempty"`
	Displays *[]bar.Display  `json:"displays,omitempty"`
}

// OK is the response for a successful mutation.
func OK() Response {
	return Response{Status: StatusOK}
}

// ErrorResponse converts any error into an error response, using the
// user-facing message without the machine code prefix.
func ErrorResponse(err error) Response {
	return Response{Status: StatusError, Message: errors.UserMessage(err)}
}

// QueryResult wraps a node set. A nil slice becomes an empty array.
func QueryResult(nodes []bar.Node) Response {
	if nodes == nil {
		nodes = []bar.Node{}
	}
	return Response{Status: StatusQueryResult, Nodes: &nodes}
}

// DisplayList wraps the known display set. A nil slice becomes an empty
// array.
func DisplayList(displays []bar.Display) Response {
	if displays == nil {
		displays = []bar.Display{}
	}
	return Response{Status: StatusDisplayList, Displays: &displays}
}
