package link

import (
	"sync"

	"main/internal/schema"
)

// outbox buffers envelopes that could not be transmitted. FIFO, unbounded;
// entries are never reordered.
type outbox struct {
	mu      sync.Mutex
	entries []schema.Envelope
}

func newOutbox() *outbox {
	return &outbox{}
}

// Push appends an envelope to the tail.
func (o *outbox) Push(env schema.Envelope) {
	o.mu.Lock()
	o.entries = append(o.entries, env)
	o.mu.Unlock()
}

// Pop removes and returns the head entry.
func (o *outbox) Pop() (schema.Envelope, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.entries) == 0 {
		return schema.Envelope{}, false
	}
	env := o.entries[0]
	o.entries = o.entries[1:]
	if len(o.entries) == 0 {
		o.entries = nil
	}
	return env, true
}

// Len returns the number of pending entries.
func (o *outbox) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.entries)
}

// Clear discards all pending entries unconditionally.
func (o *outbox) Clear() {
	o.mu.Lock()
	o.entries = nil
	o.mu.Unlock()
}
