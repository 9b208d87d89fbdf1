package bar

import (
	"slices"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/barline/barline/pkg/errors"
	"github.com/barline/barline/pkg/observability"
)

// Service serializes access to one shared State and owns the known-display
// list. Any number of connection goroutines may call it concurrently: every
// operation takes the single store lock for the in-memory work only, and
// notifications are emitted strictly after the lock is released so a sink
// that queries the service back cannot deadlock.
//
// Sink failures are swallowed; the mutation that triggered the event has
// already committed.
type Service struct {
	mu       sync.Mutex
	state    *State
	displays []Display
	handler  Handler

	log *log.Logger
}

// NewService creates a service around an empty store. handler may be nil
// (no notifications); logger may be nil to use the default logger.
func NewService(handler Handler, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		state:   NewState(),
		handler: handler,
		log:     logger,
	}
}

// defaultService is created lazily on first access and lives until process
// exit.
var defaultService = sync.OnceValue(func() *Service {
	return NewService(nil, nil)
})

// Default returns the process-wide service instance. Embedding hosts that
// register a callback handler and start the IPC server against the same
// store use this; everything else should receive a *Service handle
// explicitly.
func Default() *Service {
	return defaultService()
}

// SetHandler installs the notification sink. Intended to be called once at
// startup, before mutations begin.
func (s *Service) SetHandler(h Handler) {
	s.mu.Lock()
	s.handler = h
	s.mu.Unlock()
}

// Add inserts a new node and emits a node_added event.
// An empty node type defaults to item.
func (s *Service) Add(n Node) (Node, error) {
	if n.Type == "" {
		n.Type = TypeItem
	}
	if _, err := ParseNodeType(string(n.Type)); err != nil {
		return Node{}, err
	}

	s.mu.Lock()
	err := s.state.Add(n)
	s.mu.Unlock()

	observability.Store().OnMutation("add", n.Name, err)
	if err != nil {
		return Node{}, err
	}
	s.notify(Event{Kind: EventNodeAdded, Display: n.Display, Node: &n})
	return n, nil
}

// Set applies a property bag to the named node. If the update moved the node
// to another display a node_moved event is emitted, otherwise node_updated.
func (s *Service) Set(name string, props map[string]string) (Node, error) {
	s.mu.Lock()
	oldDisplay, found := s.state.DisplayOf(name)
	var (
		updated Node
		err     error
	)
	if !found {
		err = errors.New(errors.ErrCodeNotFound, "node %q not found", name)
	} else {
		updated, err = s.state.SetProperties(name, props, s.mainDisplayLocked())
	}
	s.mu.Unlock()

	observability.Store().OnMutation("set", name, err)
	if err != nil {
		return Node{}, err
	}

	if updated.Display != oldDisplay {
		s.notify(Event{
			Kind:       EventNodeMoved,
			Display:    updated.Display,
			OldDisplay: oldDisplay,
			Node:       &updated,
		})
	} else {
		s.notify(Event{Kind: EventNodeUpdated, Display: updated.Display, Node: &updated})
	}
	return updated, nil
}

// Remove deletes the named node (cascading for containers) and emits a
// node_removed event for the removal root.
func (s *Service) Remove(name string) (Node, error) {
	s.mu.Lock()
	n, err := s.state.Remove(name)
	s.mu.Unlock()

	observability.Store().OnMutation("remove", name, err)
	if err != nil {
		return Node{}, err
	}
	s.notify(Event{Kind: EventNodeRemoved, Display: n.Display, Name: name})
	return n, nil
}

// Query returns nodes matching the filters: by name (singleton across all
// displays), by display, or everything. Results follow the stored order:
// ascending display id, position-sorted within each display.
func (s *Service) Query(name string, display *uint32) []Node {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case name != "":
		if n, ok := s.state.Get(name); ok {
			return []Node{n}
		}
		return []Node{}
	case display != nil:
		return s.state.NodesForDisplay(*display)
	default:
		return s.state.Nodes()
	}
}

// Len returns the total node count across all displays.
func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Len()
}

// Displays returns the known display list as last pushed by the host.
func (s *Service) Displays() []Display {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.displays)
}

// SetDisplays replaces the known display list. Nodes living on a display
// that disappeared are migrated to the main display (pinned anchors and
// their subtrees stay behind), and one node_moved event is emitted per
// migrated node.
func (s *Service) SetDisplays(displays []Display) {
	s.mu.Lock()
	s.displays = slices.Clone(displays)

	var migrations []Migration
	if len(displays) > 0 {
		known := make(map[uint32]bool, len(displays))
		for _, d := range displays {
			known[d.ID] = true
		}
		var removed []uint32
		for _, id := range s.state.DisplayIDs() {
			if !known[id] {
				removed = append(removed, id)
			}
		}
		if len(removed) > 0 {
			migrations = s.state.Migrate(removed, s.mainDisplayLocked())
		}
	}
	s.mu.Unlock()

	for _, m := range migrations {
		observability.Store().OnMutation("migrate", m.Node.Name, nil)
		n := m.Node
		s.notify(Event{
			Kind:       EventNodeMoved,
			Display:    n.Display,
			OldDisplay: m.From,
			Node:       &n,
		})
	}
}

// MainDisplay returns the id of the current main display, or 0 when the
// host has not pushed a display list yet.
func (s *Service) MainDisplay() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mainDisplayLocked()
}

func (s *Service) mainDisplayLocked() uint32 {
	for _, d := range s.displays {
		if d.IsMain {
			return d.ID
		}
	}
	return 0
}

// Refresh emits a full_refresh event carrying the display's complete node
// set, for hosts that want to rebuild a display from scratch.
func (s *Service) Refresh(display uint32) {
	s.mu.Lock()
	nodes := s.state.NodesForDisplay(display)
	s.mu.Unlock()

	s.notify(Event{Kind: EventFullRefresh, Display: display, Nodes: nodes})
}

// notify hands an event to the sink. Must never be called with s.mu held.
func (s *Service) notify(ev Event) {
	s.mu.Lock()
	h := s.handler
	s.mu.Unlock()
	if h == nil {
		return
	}

	err := h.HandleStateChange(ev)
	observability.Store().OnNotify(string(ev.Kind), err)
	if err != nil {
		s.log.Debug("notification sink failed", "event", ev.Kind, "err", err)
	}
}
