package link

// Handler receives transport events. For a given transport instance events
// fire in the order open, zero or more messages, an optional error, close.
type Handler interface {
	// HandleOpen fires once the transport is ready for writes.
	HandleOpen()
	// HandleMessage delivers one raw inbound frame.
	HandleMessage(frame []byte)
	// HandleError surfaces a transport-level failure. The transport is
	// expected to follow with HandleClose.
	HandleError(err error)
	// HandleClose fires exactly once when the transport ends.
	HandleClose(reason string)
}

// Transport is a single bidirectional message connection.
type Transport interface {
	// Open begins the asynchronous connection attempt. Events flow to the
	// handler passed at dial time; Open itself never blocks.
	Open()
	// Write sends one frame. Valid only while Ready.
	Write(frame []byte) error
	// Ready reports the transport's own readiness, independent of the
	// client state machine.
	Ready() bool
	// Close tears the connection down. Safe to call repeatedly.
	Close() error
}

// Dialer constructs transports. Construction problems (malformed address)
// fail synchronously; network-level outcomes arrive through the handler.
type Dialer interface {
	Dial(addr string, h Handler) (Transport, error)
}
