package bar

// EventKind tags a state-change notification.
type EventKind string

// The event variants delivered to the notification sink.
const (
	EventNodeAdded   EventKind = "node_added"
	EventNodeRemoved EventKind = "node_removed"
	EventNodeUpdated EventKind = "node_updated"
	EventNodeMoved   EventKind = "node_moved"
	EventFullRefresh EventKind = "full_refresh"
)

// Event is one state-change notification. It carries enough data for the
// sink to reconstruct UI state without querying the store back: the display
// id plus either a full node snapshot, the removed name, or the display's
// whole node set for a refresh.
type Event struct {
	Kind    EventKind `json:"kind"`
	Display uint32    `json:"display"`

	// OldDisplay is set for node_moved events only.
	OldDisplay uint32 `json:"old_display,omitempty"`

	// Name is set for node_removed events.
	Name string `json:"name,omitempty"`

	// Node is the full snapshot for added, updated, and moved events.
	Node *Node `json:"node,omitempty"`

	// Nodes is the display's full set for full_refresh events.
	Nodes []Node `json:"nodes,omitempty"`
}

// Handler receives state-change events at the host-callback boundary.
// Delivery is fire-and-forget: the service ignores the returned error beyond
// logging it, never retries, and never calls a handler while holding the
// store lock, so handlers are free to query the service re-entrantly.
type Handler interface {
	HandleStateChange(Event) error
}
