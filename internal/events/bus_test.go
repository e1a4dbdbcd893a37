package events

import (
	"sync"
	"testing"

	"github.com/abhisek/physiq/internal/logging"
)

func TestPublish_TypedThenWildcard(t *testing.T) {
	bus := NewBus(logging.Discard())
	var order []string
	bus.SubscribeAll(func(e Event) { order = append(order, "all:"+string(e.Type)) })
	bus.Subscribe(NodeUnlocked, func(e Event) { order = append(order, "typed:"+e.NodeID) })
	bus.Subscribe(NodeActivated, func(e Event) { order = append(order, "wrong") })

	bus.Publish(Event{Type: NodeUnlocked, NodeID: "bedside_manner"})

	want := []string{"typed:bedside_manner", "all:node_unlocked"}
	if len(order) != len(want) {
		t.Fatalf("got %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d]: got %q, want %q", i, order[i], want[i])
		}
	}
}

func TestPublish_StampsSequence(t *testing.T) {
	bus := NewBus(logging.Discard())
	a := bus.Publish(Event{Type: ReputationChanged})
	b := bus.Publish(Event{Type: ReputationChanged})
	if b.Seq != a.Seq+1 {
		t.Errorf("got seq %d after %d", b.Seq, a.Seq)
	}
	if a.Time.IsZero() {
		t.Error("time not stamped")
	}
}

func TestUnsubscribe(t *testing.T) {
	bus := NewBus(logging.Discard())
	calls := 0
	sub := bus.Subscribe(SaveError, func(Event) { calls++ })
	all := bus.SubscribeAll(func(Event) { calls++ })

	if !bus.Unsubscribe(sub) {
		t.Error("Unsubscribe(typed): got false, want true")
	}
	if !bus.Unsubscribe(all) {
		t.Error("Unsubscribe(all): got false, want true")
	}
	if bus.Unsubscribe(sub) {
		t.Error("second Unsubscribe: got true, want false")
	}
	bus.Publish(Event{Type: SaveError})
	if calls != 0 {
		t.Errorf("got %d calls after unsubscribe, want 0", calls)
	}
}

func TestPublish_PanickingHandlerIsolated(t *testing.T) {
	bus := NewBus(logging.Discard())
	got := false
	bus.Subscribe(LoadingError, func(Event) { panic("boom") })
	bus.Subscribe(LoadingError, func(Event) { got = true })
	bus.Publish(Event{Type: LoadingError})
	if !got {
		t.Error("second handler not called after first panicked")
	}
}

func TestPublish_Concurrent(t *testing.T) {
	bus := NewBus(logging.Discard())
	var mu sync.Mutex
	n := 0
	bus.SubscribeAll(func(Event) { mu.Lock(); n++; mu.Unlock() })

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bus.Publish(Event{Type: SaveSucceeded})
		}()
	}
	wg.Wait()
	if n != 20 {
		t.Errorf("got %d deliveries, want 20", n)
	}
}

func TestKnown(t *testing.T) {
	if !Known(SpecializationAchieved) {
		t.Error("specialization_achieved should be known")
	}
	if Known("skill_tree_exploded") {
		t.Error("unexpected known type")
	}
}
