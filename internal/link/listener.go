package link

import "main/internal/schema"

// Event names a listener slot in the dispatch table.
type Event string

const (
	EventConnect          Event = "onConnect"
	EventDisconnect       Event = "onDisconnect"
	EventError            Event = "onError"
	EventReconnect        Event = "onReconnect"
	EventMessage          Event = "onMessage"
	EventGuidanceResponse Event = "onGuidanceResponse"
	EventSend             Event = "onSend"
)

// Listeners is the fixed dispatch table. Each slot holds at most one handler;
// registering a slot that is already set overwrites the previous handler.
type Listeners struct {
	// OnConnect fires after the transport opens and before the queue flush.
	OnConnect func()
	// OnDisconnect fires after the transport closes, with a reason string.
	OnDisconnect func(reason string)
	// OnError receives every externally visible failure as an error value.
	OnError func(err error)
	// OnReconnect fires before each automatic reconnection attempt (1-based).
	OnReconnect func(attempt int)
	// OnMessage receives every well-formed inbound envelope.
	OnMessage func(env schema.Envelope)
	// OnGuidanceResponse receives decoded guidance payloads before OnMessage.
	OnGuidanceResponse func(resp schema.GuidanceResponse)
	// OnSend observes every envelope accepted for transmission, exactly once,
	// whether it is written live or queued. Flushing a queued envelope does
	// not fire it again.
	OnSend func(env schema.Envelope)
}

// listenerTable holds the active handlers. Mutated only through merge/remove
// under the client lock; read-only during dispatch.
type listenerTable struct {
	Listeners
}

func (t *listenerTable) merge(l Listeners) {
	if l.OnConnect != nil {
		t.OnConnect = l.OnConnect
	}
	if l.OnDisconnect != nil {
		t.OnDisconnect = l.OnDisconnect
	}
	if l.OnError != nil {
		t.OnError = l.OnError
	}
	if l.OnReconnect != nil {
		t.OnReconnect = l.OnReconnect
	}
	if l.OnMessage != nil {
		t.OnMessage = l.OnMessage
	}
	if l.OnGuidanceResponse != nil {
		t.OnGuidanceResponse = l.OnGuidanceResponse
	}
	if l.OnSend != nil {
		t.OnSend = l.OnSend
	}
}

func (t *listenerTable) remove(e Event) {
	switch e {
	case EventConnect:
		t.OnConnect = nil
	case EventDisconnect:
		t.OnDisconnect = nil
	case EventError:
		t.OnError = nil
	case EventReconnect:
		t.OnReconnect = nil
	case EventMessage:
		t.OnMessage = nil
	case EventGuidanceResponse:
		t.OnGuidanceResponse = nil
	case EventSend:
		t.OnSend = nil
	}
}
