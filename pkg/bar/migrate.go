package bar

// Migration records one node relocated by a display change, with the display
// it left behind.
type Migration struct {
	Node Node
	From uint32
}

// Migrate relocates nodes away from displays that have disappeared.
//
// For each removed display the default is that every node moves to target.
// Two things make a node stay behind: an explicit pin (display_explicit), or
// an ancestor chain that reaches a pinned anchor on the same display. The
// "stay" marking propagates by fixed-point expansion, the same shape as the
// removal cascade, so a pinned container keeps its whole unpinned subtree
// with it rather than having it torn away.
//
// Movers keep their identity and every attribute except the display field,
// are appended to the target collection, and the target is re-sorted. A
// source collection left empty is dropped; one still holding pinned nodes is
// kept so they reappear if the display returns.
//
// Returns one Migration per relocated node so the caller can emit moved
// notifications.
func (s *State) Migrate(removed []uint32, target uint32) []Migration {
	var migrations []Migration

	for _, d := range removed {
		if d == target {
			continue
		}
		col := s.nodes[d]
		if len(col) == 0 {
			continue
		}

		stay := make(map[string]bool)
		for i := range col {
			if col[i].DisplayExplicit {
				stay[col[i].Name] = true
			}
		}
		for changed := true; changed; {
			changed = false
			for i := range col {
				n := &col[i]
				if !stay[n.Name] && n.Parent != "" && stay[n.Parent] {
					stay[n.Name] = true
					changed = true
				}
			}
		}

		kept := make([]Node, 0, len(col))
		moved := false
		for _, n := range col {
			if stay[n.Name] {
				kept = append(kept, n)
				continue
			}
			n.Display = target
			s.nodes[target] = append(s.nodes[target], n)
			s.index[n.Name] = target
			migrations = append(migrations, Migration{Node: n.Clone(), From: d})
			moved = true
		}

		if len(kept) == 0 {
			delete(s.nodes, d)
		} else {
			s.nodes[d] = kept
		}
		if moved {
			s.sortDisplay(target)
		}
	}

	return migrations
}
