package bar

import "testing"

func TestMigrateUnpinnedNodesMove(t *testing.T) {
	s := NewState()
	for _, n := range []Node{
		{Name: "a", Type: TypeItem, Display: 2, Position: 3},
		{Name: "b", Type: TypeItem, Display: 2, Position: 1},
		{Name: "main", Type: TypeItem, Display: 1, Position: 2},
	} {
		if err := s.Add(n); err != nil {
			t.Fatal(err)
		}
	}

	migs := s.Migrate([]uint32{2}, 1)
	if len(migs) != 2 {
		t.Fatalf("migrated %d nodes, want 2", len(migs))
	}
	for _, m := range migs {
		if m.From != 2 || m.Node.Display != 1 {
			t.Errorf("migration %+v should record from=2 to display 1", m)
		}
	}

	// Source collection is dropped once empty.
	if ids := s.DisplayIDs(); len(ids) != 1 || ids[0] != 1 {
		t.Errorf("DisplayIDs = %v, want [1]", ids)
	}
	// Destination is position-sorted after the append.
	if got := names(s.NodesForDisplay(1)); got[0] != "b" || got[1] != "main" || got[2] != "a" {
		t.Errorf("destination order = %v, want [b main a]", got)
	}
}

func TestMigratePinnedAnchorAndSubtreeStay(t *testing.T) {
	s := NewState()
	add := func(n Node) {
		t.Helper()
		if err := s.Add(n); err != nil {
			t.Fatal(err)
		}
	}
	add(Node{Name: "dock", Type: TypeRow, Display: 2, DisplayExplicit: true})
	add(Node{Name: "child", Type: TypeItem, Display: 2, Parent: "dock"})
	add(Node{Name: "stray", Type: TypeItem, Display: 2})

	migs := s.Migrate([]uint32{2}, 1)
	if len(migs) != 1 || migs[0].Node.Name != "stray" {
		t.Fatalf("only the unanchored node should move, got %v", migs)
	}

	// The pinned anchor and its unpinned descendant remain behind, keyed by
	// the vanished display, so they reappear if it returns.
	if got := names(s.NodesForDisplay(2)); len(got) != 2 {
		t.Errorf("display 2 should keep the pinned subtree, got %v", got)
	}
}

func TestMigratePinnedLeafIsItsOwnAnchor(t *testing.T) {
	s := NewState()
	if err := s.Add(Node{Name: "box", Type: TypeBox, Display: 2}); err != nil {
		t.Fatal(err)
	}
	if err := s.Add(Node{Name: "pin", Type: TypeItem, Display: 2, Parent: "box", DisplayExplicit: true}); err != nil {
		t.Fatal(err)
	}

	migs := s.Migrate([]uint32{2}, 1)
	if len(migs) != 1 || migs[0].Node.Name != "box" {
		t.Fatalf("unpinned container should move, got %v", migs)
	}
	if pin, _ := s.Get("pin"); pin.Display != 2 {
		t.Errorf("explicitly pinned leaf should stay, got display %d", pin.Display)
	}
}

func TestMigrateSkipsTargetAndEmptyDisplays(t *testing.T) {
	s := NewState()
	if err := s.Add(Node{Name: "a", Type: TypeItem, Display: 1}); err != nil {
		t.Fatal(err)
	}

	if migs := s.Migrate([]uint32{1, 9}, 1); len(migs) != 0 {
		t.Errorf("nothing should migrate, got %v", migs)
	}
	if _, ok := s.Get("a"); !ok {
		t.Error("node lost during no-op migration")
	}
}
