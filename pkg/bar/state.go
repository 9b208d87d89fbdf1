package bar

import (
	"slices"
	"strconv"

	"github.com/barline/barline/pkg/errors"
)

// State is the canonical node store: one slice of nodes per display, each
// kept sorted by position after every mutation, plus a name index so the
// name-keyed hierarchy never needs pointer chasing.
//
// State is not safe for concurrent use; Service wraps it with the single
// store lock.
type State struct {
	nodes map[uint32][]Node
	index map[string]uint32 // node name -> owning display
}

// NewState returns an empty store.
func NewState() *State {
	return &State{
		nodes: make(map[uint32][]Node),
		index: make(map[string]uint32),
	}
}

// Add inserts a new node. It fails if the name collides with any existing
// node on any display, or if a parent is named that is missing or cannot
// hold children. Parent references are checked eagerly, never lazily.
func (s *State) Add(n Node) error {
	if err := errors.ValidateNodeName(n.Name); err != nil {
		return err
	}
	if _, exists := s.index[n.Name]; exists {
		return errors.New(errors.ErrCodeAlreadyExists, "node %q already exists", n.Name)
	}
	if n.Parent != "" {
		parent, ok := s.get(n.Parent)
		if !ok {
			return errors.New(errors.ErrCodeNotFound, "parent %q not found", n.Parent)
		}
		if !parent.Container() {
			return errors.New(errors.ErrCodeInvalidParent, "%q is not a container", n.Parent)
		}
	}

	s.nodes[n.Display] = append(s.nodes[n.Display], n.Clone())
	s.index[n.Name] = n.Display
	s.sortDisplay(n.Display)
	return nil
}

// Remove deletes the named node and, if it is a container, its entire
// transitive descendant set. Descendants are found by fixed-point expansion
// over all displays: children of already-condemned names are condemned until
// nothing new is marked. Returns the originally removed node.
func (s *State) Remove(name string) (Node, error) {
	root, ok := s.get(name)
	if !ok {
		return Node{}, errors.New(errors.ErrCodeNotFound, "node %q not found", name)
	}

	condemned := map[string]bool{name: true}
	if root.Container() {
		for changed := true; changed; {
			changed = false
			for _, col := range s.nodes {
				for i := range col {
					n := &col[i]
					if !condemned[n.Name] && n.Parent != "" && condemned[n.Parent] {
						condemned[n.Name] = true
						changed = true
					}
				}
			}
		}
	}

	for d, col := range s.nodes {
		kept := col[:0]
		for _, n := range col {
			if condemned[n.Name] {
				delete(s.index, n.Name)
				continue
			}
			kept = append(kept, n)
		}
		if len(kept) == 0 {
			delete(s.nodes, d)
		} else {
			s.nodes[d] = kept
		}
	}

	return root, nil
}

// SetProperties applies a partial update to the named node. The "display"
// key is intercepted here rather than in the resolver:
//
//   - present and non-empty: the node is pinned to that display and, if it
//     differs from the current one, physically moved between collections;
//   - present and empty: the node is un-pinned and defers to mainDisplay;
//   - absent: only the local update path runs.
//
// The update is all-or-nothing: any resolver or validation failure leaves
// the store untouched. The returned node reflects the committed state, so
// the caller can compare displays to choose between "updated" and "moved"
// notifications.
func (s *State) SetProperties(name string, props map[string]string, mainDisplay uint32) (Node, error) {
	from, idx, ok := s.find(name)
	if !ok {
		return Node{}, errors.New(errors.ErrCodeNotFound, "node %q not found", name)
	}
	cur := s.nodes[from][idx]

	target := cur.Display
	explicit := cur.DisplayExplicit
	if raw, has := props["display"]; has {
		if raw == "" {
			target = mainDisplay
			explicit = false
		} else {
			v, err := strconv.ParseUint(raw, 10, 32)
			if err != nil {
				return Node{}, errors.New(errors.ErrCodeInvalidValue, "invalid display: %q", raw)
			}
			target = uint32(v)
			explicit = true
		}
	}

	updated, err := ApplyProperties(cur, props)
	if err != nil {
		return Node{}, err
	}

	if updated.Parent != cur.Parent && updated.Parent != "" {
		parent, ok := s.get(updated.Parent)
		if !ok {
			return Node{}, errors.New(errors.ErrCodeNotFound, "parent %q not found", updated.Parent)
		}
		if !parent.Container() {
			return Node{}, errors.New(errors.ErrCodeInvalidParent, "%q is not a container", updated.Parent)
		}
		if s.wouldCycle(name, updated.Parent) {
			return Node{}, errors.New(errors.ErrCodeInvalidParent, "%q is a descendant of %q", updated.Parent, name)
		}
	}

	updated.Display = target
	updated.DisplayExplicit = explicit

	if target != from {
		// Physical move between collections.
		s.nodes[from] = slices.Delete(s.nodes[from], idx, idx+1)
		if len(s.nodes[from]) == 0 {
			delete(s.nodes, from)
		}
		s.nodes[target] = append(s.nodes[target], updated.Clone())
		s.index[name] = target
		s.sortDisplay(target)
	} else {
		s.nodes[from][idx] = updated.Clone()
		s.sortDisplay(from)
	}

	return updated, nil
}

// Get returns a copy of the named node.
func (s *State) Get(name string) (Node, bool) {
	n, ok := s.get(name)
	if !ok {
		return Node{}, false
	}
	return n.Clone(), true
}

// DisplayOf returns the display currently owning the named node.
func (s *State) DisplayOf(name string) (uint32, bool) {
	d, ok := s.index[name]
	return d, ok
}

// Nodes returns every node, grouped by ascending display id with each
// display's run in position order.
func (s *State) Nodes() []Node {
	out := make([]Node, 0, s.Len())
	for _, d := range s.DisplayIDs() {
		for _, n := range s.nodes[d] {
			out = append(out, n.Clone())
		}
	}
	return out
}

// NodesForDisplay returns the display's nodes in position order.
func (s *State) NodesForDisplay(display uint32) []Node {
	col := s.nodes[display]
	out := make([]Node, 0, len(col))
	for _, n := range col {
		out = append(out, n.Clone())
	}
	return out
}

// DisplayIDs returns the ids of all displays that currently hold nodes,
// ascending.
func (s *State) DisplayIDs() []uint32 {
	ids := make([]uint32, 0, len(s.nodes))
	for d := range s.nodes {
		ids = append(ids, d)
	}
	slices.Sort(ids)
	return ids
}

// Len returns the total node count across all displays.
func (s *State) Len() int {
	total := 0
	for _, col := range s.nodes {
		total += len(col)
	}
	return total
}

// get returns the stored node by name via the index.
func (s *State) get(name string) (Node, bool) {
	d, idx, ok := s.find(name)
	if !ok {
		return Node{}, false
	}
	return s.nodes[d][idx], true
}

// find locates a node's display and slice index.
func (s *State) find(name string) (uint32, int, bool) {
	d, ok := s.index[name]
	if !ok {
		return 0, 0, false
	}
	for i := range s.nodes[d] {
		if s.nodes[d][i].Name == name {
			return d, i, true
		}
	}
	return 0, 0, false
}

// wouldCycle reports whether re-parenting name under parent would close a
// loop in the ancestor chain.
func (s *State) wouldCycle(name, parent string) bool {
	for cur := parent; cur != ""; {
		if cur == name {
			return true
		}
		n, ok := s.get(cur)
		if !ok {
			return false
		}
		cur = n.Parent
	}
	return false
}

// sortDisplay restores position order for one display. The sort is stable,
// so equal positions keep their insertion-relative order.
func (s *State) sortDisplay(d uint32) {
	slices.SortStableFunc(s.nodes[d], func(a, b Node) int {
		return int(a.Position) - int(b.Position)
	})
}
