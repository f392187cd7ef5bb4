package link

import (
	"fmt"
	"testing"

	"main/internal/schema"
)

func TestOutboxKeepsFIFOOrder(t *testing.T) {
	o := newOutbox()
	for i := 0; i < 10; i++ {
		o.Push(schema.Envelope{Type: fmt.Sprintf("msg_%d", i), Timestamp: int64(i)})
	}
	if o.Len() != 10 {
		t.Fatalf("queue length: got %d want 10", o.Len())
	}

	for i := 0; i < 10; i++ {
		env, ok := o.Pop()
		if !ok {
			t.Fatalf("pop %d: queue empty early", i)
		}
		if want := fmt.Sprintf("msg_%d", i); env.Type != want {
			t.Fatalf("pop %d: got %q want %q", i, env.Type, want)
		}
	}
	if _, ok := o.Pop(); ok {
		t.Fatal("queue should be empty after draining")
	}
}

func TestOutboxClear(t *testing.T) {
	o := newOutbox()
	for i := 0; i < 5; i++ {
		o.Push(schema.Envelope{Type: "x"})
	}
	o.Clear()
	if o.Len() != 0 {
		t.Fatalf("queue length after clear: got %d want 0", o.Len())
	}
	if _, ok := o.Pop(); ok {
		t.Fatal("pop after clear should report empty")
	}
}
