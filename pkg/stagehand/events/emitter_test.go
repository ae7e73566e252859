package events

import (
	"fmt"
	"reflect"
	"testing"
)

type payload struct {
	Type  string
	Value int
}

func TestTriggerCallsListenersInOrder(t *testing.T) {
	var e Emitter[payload]
	var got []string

	e.On("step", func(p payload) { got = append(got, fmt.Sprintf("a%d", p.Value)) })
	e.On("step", func(p payload) { got = append(got, fmt.Sprintf("b%d", p.Value)) })
	e.On("stop", func(p payload) { got = append(got, "stop") })

	e.Trigger("step", payload{Type: "step", Value: 1})

	if want := []string{"a1", "b1"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestOnceFiresOnlyOnce(t *testing.T) {
	var e Emitter[payload]
	calls := 0
	e.Once("load", func(payload) { calls++ })

	e.Trigger("load", payload{})
	e.Trigger("load", payload{})

	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
	if e.Count("load") != 0 {
		t.Fatalf("Count = %d, want 0", e.Count("load"))
	}
}

func TestOnceReentrantTriggerDoesNotRepeat(t *testing.T) {
	var e Emitter[payload]
	calls := 0
	e.Once("load", func(payload) {
		calls++
		e.Trigger("load", payload{})
	})

	e.Trigger("load", payload{})

	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestOffDuringDispatchSkipsPendingListener(t *testing.T) {
	var e Emitter[payload]
	var second *Listener[payload]
	calls := 0

	e.On("step", func(payload) { e.Off(second) })
	second = e.On("step", func(payload) { calls++ })

	e.Trigger("step", payload{})

	if calls != 0 {
		t.Fatalf("removed listener ran %d times", calls)
	}
}

func TestOnDuringDispatchWaitsForNextTrigger(t *testing.T) {
	var e Emitter[payload]
	calls := 0
	added := false

	e.On("step", func(payload) {
		if !added {
			added = true
			e.On("step", func(payload) { calls++ })
		}
	})

	e.Trigger("step", payload{})
	if calls != 0 {
		t.Fatalf("listener added mid-dispatch ran during the same trigger")
	}

	e.Trigger("step", payload{})
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestOffTypeAndClear(t *testing.T) {
	var e Emitter[payload]
	e.On("a", func(payload) {})
	e.On("a", func(payload) {})
	l := e.On("b", func(payload) {})

	if n := e.OffType("a"); n != 2 {
		t.Fatalf("OffType = %d, want 2", n)
	}

	e.Clear()
	if e.Off(l) {
		t.Fatal("Off after Clear should report false")
	}
	if e.Count("b") != 0 {
		t.Fatal("Clear left listeners behind")
	}
}

func TestNilHandlerIgnored(t *testing.T) {
	var e Emitter[payload]
	if l := e.On("a", nil); l != nil {
		t.Fatal("nil handler should not produce a listener")
	}
	e.Trigger("a", payload{})
}
