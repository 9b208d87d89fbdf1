package bar_test

import (
	"fmt"
	"testing"

	"github.com/barline/barline/pkg/bar"
	"github.com/barline/barline/pkg/bridge"
	"github.com/barline/barline/pkg/errors"
)

func newService(t *testing.T) (*bar.Service, *bridge.Recorder) {
	t.Helper()
	rec := &bridge.Recorder{}
	svc := bar.NewService(rec, nil)
	svc.SetDisplays([]bar.Display{
		{ID: 1, Name: "Built-in", IsMain: true},
		{ID: 2, Name: "External"},
	})
	return svc, rec
}

func TestServiceEventSequence(t *testing.T) {
	svc, rec := newService(t)

	if _, err := svc.Add(bar.Node{Name: "bar", Type: bar.TypeRow, Display: 1}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Set("bar", map[string]string{"label": "hello"}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Set("bar", map[string]string{"display": "2"}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Remove("bar"); err != nil {
		t.Fatal(err)
	}

	want := []bar.EventKind{
		bar.EventNodeAdded,
		bar.EventNodeUpdated,
		bar.EventNodeMoved,
		bar.EventNodeRemoved,
	}
	got := rec.Kinds()
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("events = %v, want %v", got, want)
		}
	}

	moved := rec.Events()[2]
	if moved.OldDisplay != 1 || moved.Display != 2 {
		t.Errorf("moved event displays = %d->%d, want 1->2", moved.OldDisplay, moved.Display)
	}
	removed := rec.Events()[3]
	if removed.Name != "bar" || removed.Display != 2 {
		t.Errorf("removed event = %+v", removed)
	}
}

func TestServiceAddDefaultsType(t *testing.T) {
	svc, _ := newService(t)

	n, err := svc.Add(bar.Node{Name: "clock", Display: 1})
	if err != nil {
		t.Fatal(err)
	}
	if n.Type != bar.TypeItem {
		t.Errorf("type = %q, want item", n.Type)
	}
}

func TestServiceSinkFailureDoesNotRollBack(t *testing.T) {
	rec := &bridge.Recorder{Err: fmt.Errorf("sink broken")}
	svc := bar.NewService(rec, nil)

	if _, err := svc.Add(bar.Node{Name: "clock", Type: bar.TypeItem}); err != nil {
		t.Fatalf("sink failure must not surface: %v", err)
	}
	if got := svc.Query("clock", nil); len(got) != 1 {
		t.Error("mutation should stay committed when the sink fails")
	}
}

func TestServiceSinkMayQueryBack(t *testing.T) {
	svc := bar.NewService(nil, nil)
	seen := make(chan int, 1)
	svc.SetHandler(bridge.HandlerFunc(func(ev bar.Event) error {
		// The lock is released before delivery, so this must not deadlock.
		seen <- len(svc.Query("", nil))
		return nil
	}))

	if _, err := svc.Add(bar.Node{Name: "clock", Type: bar.TypeItem}); err != nil {
		t.Fatal(err)
	}
	if got := <-seen; got != 1 {
		t.Errorf("sink saw %d nodes, want the committed mutation", got)
	}
}

func TestServiceSetDisplaysMigrates(t *testing.T) {
	svc, rec := newService(t)

	for _, n := range []bar.Node{
		{Name: "a", Type: bar.TypeItem, Display: 2},
		{Name: "pin", Type: bar.TypeItem, Display: 2, DisplayExplicit: true},
	} {
		if _, err := svc.Add(n); err != nil {
			t.Fatal(err)
		}
	}
	rec.Reset()

	// Display 2 disappears.
	svc.SetDisplays([]bar.Display{{ID: 1, Name: "Built-in", IsMain: true}})

	events := rec.Events()
	if len(events) != 1 {
		t.Fatalf("got %d events, want one moved event", len(events))
	}
	ev := events[0]
	if ev.Kind != bar.EventNodeMoved || ev.Node.Name != "a" || ev.OldDisplay != 2 || ev.Display != 1 {
		t.Errorf("unexpected migration event: %+v", ev)
	}

	two := uint32(2)
	if got := svc.Query("", &two); len(got) != 1 || got[0].Name != "pin" {
		t.Errorf("pinned node should remain on display 2, got %v", got)
	}
}

func TestServiceQueryFilters(t *testing.T) {
	svc, _ := newService(t)
	for _, n := range []bar.Node{
		{Name: "a", Type: bar.TypeItem, Display: 1, Position: 2},
		{Name: "b", Type: bar.TypeItem, Display: 1, Position: 1},
		{Name: "c", Type: bar.TypeItem, Display: 2},
	} {
		if _, err := svc.Add(n); err != nil {
			t.Fatal(err)
		}
	}

	if got := svc.Query("b", nil); len(got) != 1 || got[0].Name != "b" {
		t.Errorf("name query = %v", got)
	}
	if got := svc.Query("ghost", nil); len(got) != 0 {
		t.Errorf("missing name should yield empty result, got %v", got)
	}
	one := uint32(1)
	if got := svc.Query("", &one); len(got) != 2 || got[0].Name != "b" {
		t.Errorf("display query = %v, want [b a]", got)
	}
	if got := svc.Query("", nil); len(got) != 3 {
		t.Errorf("full query = %v", got)
	}
}

func TestServiceSetMissingNode(t *testing.T) {
	svc, rec := newService(t)

	_, err := svc.Set("ghost", map[string]string{"label": "x"})
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Fatalf("got %v, want NOT_FOUND", err)
	}
	if len(rec.Events()) != 0 {
		t.Error("failed mutation must not emit events")
	}
}

func TestServiceRefresh(t *testing.T) {
	svc, rec := newService(t)
	if _, err := svc.Add(bar.Node{Name: "clock", Type: bar.TypeItem, Display: 1}); err != nil {
		t.Fatal(err)
	}
	rec.Reset()

	svc.Refresh(1)

	events := rec.Events()
	if len(events) != 1 || events[0].Kind != bar.EventFullRefresh {
		t.Fatalf("events = %v, want one full_refresh", rec.Kinds())
	}
	if len(events[0].Nodes) != 1 || events[0].Nodes[0].Name != "clock" {
		t.Errorf("refresh payload = %+v", events[0].Nodes)
	}
}

func TestServiceMainDisplay(t *testing.T) {
	svc := bar.NewService(nil, nil)
	if got := svc.MainDisplay(); got != 0 {
		t.Errorf("MainDisplay with no displays = %d, want 0", got)
	}

	svc.SetDisplays([]bar.Display{{ID: 3, Name: "Only"}, {ID: 7, Name: "Main", IsMain: true}})
	if got := svc.MainDisplay(); got != 7 {
		t.Errorf("MainDisplay = %d, want 7", got)
	}
}

func TestDefaultServiceIsSingleton(t *testing.T) {
	if bar.Default() != bar.Default() {
		t.Error("Default must return the same instance")
	}
}
