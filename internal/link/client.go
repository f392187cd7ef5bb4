package link

import (
	"sync"

	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"

	"main/internal/obs"
	"main/internal/schema"
	"main/pkg/exception"
)

const DefaultMaxReconnectAttempts = 5

/*
func (c *Client) Authenticate(req schema.AuthRequest)
func (c *Client) Authenticated() bool
func (c *Client) ClearQueue()
func (c *Client) Connect(address ...string)
func (c *Client) Disconnect()
func (c *Client) IsConnected() bool
func (c *Client) Off(e Event)
func (c *Client) On(l Listeners)
func (c *Client) QueuedCount() int
func (c *Client) RequestGuidance(req schema.GuidanceRequest)
func (c *Client) Send(msgType string, payload any)
func (c *Client) SendAudio(chunk schema.AudioChunk)
func (c *Client) SendIMU(sample schema.IMUSample)
func (c *Client) SendVideoFrame(frame schema.VideoFrame)
func (c *Client) State() State
*/

// Option defines the client runtime configuration.
type Option struct {
	// Addr is the default endpoint used when Connect gets no address.
	Addr string
	// Reconnect enables automatic reconnection after a transport close.
	// Optional; default false.
	Reconnect bool
	// MaxReconnectAttempts caps automatic attempts. Optional; default 5.
	MaxReconnectAttempts int
	// Backoff defines the reconnect delay. Optional; default DefaultBackoff
	// when all fields are zero.
	Backoff Backoff
	// Metrics receives counters when set. Optional.
	Metrics *obs.Metrics

	// dialer constructs transports. Required (nil returns ErrNilDialer);
	// wired by New.
	dialer Dialer
}

func (opt *Option) init(dialer Dialer) {
	opt.dialer = dialer

	if opt.MaxReconnectAttempts <= 0 {
		opt.MaxReconnectAttempts = DefaultMaxReconnectAttempts
	}

	if opt.Backoff.Base == 0 && opt.Backoff.Max == 0 {
		opt.Backoff = DefaultBackoff()
	}
}

// Client owns the single active transport, the connection state, the
// authentication flag and the reconnect attempt counter. All mutations are
// serialized behind one mutex; listeners are always invoked outside it.
type Client struct {
	opt Option

	mu            sync.Mutex
	state         State
	authenticated bool
	attempts      int
	transport     Transport
	gen           uint64
	listeners     listenerTable
	queue         *outbox
	retry         *retryTimer
}

// New validates config and builds a client.
func New(dialer Dialer, option ...Option) (*Client, error) {
	if dialer == nil {
		return nil, exception.ErrNilDialer
	}

	var opt Option
	if len(option) != 0 {
		opt = option[0]
	}

	opt.init(dialer)

	return &Client{
		opt:   opt,
		state: StateDisconnected,
		queue: newOutbox(),
		retry: &retryTimer{},
	}, nil
}

// Connect opens a transport toward the given address, falling back to the
// configured default. A no-op while a transport is already connecting or
// connected. Returns immediately; success and failure arrive via listeners.
func (c *Client) Connect(address ...string) {
	if c == nil {
		return
	}

	c.mu.Lock()
	if c.transport != nil && (c.state == StateConnecting || c.state == StateConnected) {
		c.mu.Unlock()
		return
	}
	addr := c.opt.Addr
	if len(address) != 0 && address[0] != "" {
		addr = address[0]
	}
	c.state = StateConnecting
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	tr, err := c.opt.dialer.Dial(addr, &transportHandler{c: c, gen: gen})
	if err != nil {
		// Construction failures are configuration errors, not transient
		// network errors; no retry is scheduled for them.
		c.mu.Lock()
		c.state = StateFailed
		c.transport = nil
		onError := c.listeners.OnError
		c.mu.Unlock()

		logs.Errorf("construct transport for %q: %v", addr, err)
		if onError != nil {
			onError(errors.Wrapf(err, "construct transport for %q", addr))
		}
		return
	}

	c.mu.Lock()
	if c.gen != gen {
		// Disconnect raced the dial; discard the fresh transport.
		c.mu.Unlock()
		_ = tr.Close()
		return
	}
	c.transport = tr
	c.mu.Unlock()

	tr.Open()
}

// Disconnect closes and discards the active transport and cancels any pending
// reconnect, so a manual disconnect never triggers an auto-reconnect.
// Idempotent.
func (c *Client) Disconnect() {
	if c == nil {
		return
	}

	c.mu.Lock()
	c.retry.Cancel()
	tr := c.transport
	c.transport = nil
	c.gen++
	c.state = StateDisconnected
	c.authenticated = false
	c.mu.Unlock()

	if tr != nil {
		_ = tr.Close()
		logs.Info("link disconnected")
	}
}

// Send builds an envelope and transmits it immediately when connected,
// queueing it otherwise. Never fails toward the caller; all failure is
// absorbed into queueing or the error listener.
func (c *Client) Send(msgType string, payload any) {
	if c == nil {
		return
	}

	env, err := schema.New(msgType, payload)
	if err != nil {
		// An unencodable message cannot be queued either; surface and drop.
		c.mu.Lock()
		onError := c.listeners.OnError
		c.mu.Unlock()

		logs.Errorf("build %s envelope: %v", msgType, err)
		if onError != nil {
			onError(err)
		}
		return
	}

	c.mu.Lock()
	tr := c.transport
	connected := c.state == StateConnected && tr != nil
	onSend := c.listeners.OnSend
	c.mu.Unlock()

	if onSend != nil {
		onSend(env)
	}

	if connected {
		wire, encErr := schema.Encode(env)
		if encErr == nil {
			if writeErr := tr.Write(wire); writeErr == nil {
				c.opt.Metrics.Sent()
				return
			}
		}
	}

	c.queue.Push(env)
	c.opt.Metrics.Queued()
}

// Authenticate sends the handshake request.
func (c *Client) Authenticate(req schema.AuthRequest) {
	c.Send(schema.TypeAuthenticate, req)
}

// SendVideoFrame pushes one captured frame.
func (c *Client) SendVideoFrame(frame schema.VideoFrame) {
	c.Send(schema.TypeVideoFrame, frame)
}

// SendAudio pushes one audio chunk.
func (c *Client) SendAudio(chunk schema.AudioChunk) {
	c.Send(schema.TypeAudio, chunk)
}

// SendIMU pushes one inertial sample.
func (c *Client) SendIMU(sample schema.IMUSample) {
	c.Send(schema.TypeIMUData, sample)
}

// RequestGuidance asks the service for a guidance decision.
func (c *Client) RequestGuidance(req schema.GuidanceRequest) {
	c.Send(schema.TypeRequestGuidance, req)
}

// IsConnected reports whether the state machine and the transport's own
// readiness check both agree the connection is up.
func (c *Client) IsConnected() bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateConnected && c.transport != nil && c.transport.Ready()
}

// State returns the current connection state.
func (c *Client) State() State {
	if c == nil {
		return StateDisconnected
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Authenticated reports whether a connection_ack has been received on the
// current connection.
func (c *Client) Authenticated() bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.authenticated
}

// On merges the given handlers into the dispatch table; a non-nil slot
// overwrites any previously registered handler under the same name.
func (c *Client) On(l Listeners) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.listeners.merge(l)
	c.mu.Unlock()
}

// Off removes the handler under the given slot name.
func (c *Client) Off(e Event) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.listeners.remove(e)
	c.mu.Unlock()
}

// QueuedCount returns the number of envelopes awaiting transmission.
func (c *Client) QueuedCount() int {
	if c == nil {
		return 0
	}
	return c.queue.Len()
}

// ClearQueue discards all pending envelopes.
func (c *Client) ClearQueue() {
	if c == nil {
		return
	}
	c.queue.Clear()
}

// transportHandler routes transport events into the client, tagged with the
// generation they belong to so a discarded transport cannot mutate state.
type transportHandler struct {
	c   *Client
	gen uint64
}

func (h *transportHandler) HandleOpen()                { h.c.handleOpen(h.gen) }
func (h *transportHandler) HandleMessage(frame []byte) { h.c.handleMessage(h.gen, frame) }
func (h *transportHandler) HandleError(err error)      { h.c.handleError(h.gen, err) }
func (h *transportHandler) HandleClose(reason string)  { h.c.handleClose(h.gen, reason) }

func (c *Client) handleOpen(gen uint64) {
	c.mu.Lock()
	if gen != c.gen || c.transport == nil {
		c.mu.Unlock()
		return
	}
	c.state = StateConnected
	c.attempts = 0
	c.retry.Cancel()
	onConnect := c.listeners.OnConnect
	c.mu.Unlock()

	logs.Info("link connected")
	if onConnect != nil {
		onConnect()
	}
	c.flush(gen)
}

func (c *Client) handleMessage(gen uint64, frame []byte) {
	env, err := schema.Decode(frame)
	if err != nil {
		// Malformed frames from a noisy peer are diagnostics, not failures.
		c.opt.Metrics.ParseDrop()
		logs.Warnf("discard inbound frame: %v", err)
		return
	}

	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	if env.Type == schema.TypeConnectionAck {
		c.authenticated = true
	}
	table := c.listeners.Listeners
	c.mu.Unlock()

	c.opt.Metrics.Received()

	switch env.Type {
	case schema.TypeGuidanceResponse:
		if table.OnGuidanceResponse != nil {
			resp, err := schema.DecodeGuidanceResponse(env)
			if err != nil {
				logs.Warnf("decode guidance payload: %v", err)
			} else {
				table.OnGuidanceResponse(resp)
			}
		}
	case schema.TypeError:
		if table.OnError != nil {
			se, err := schema.DecodeServerError(env)
			if err != nil {
				logs.Warnf("decode server error payload: %v", err)
			} else {
				table.OnError(se)
			}
		}
	}

	if table.OnMessage != nil {
		table.OnMessage(env)
	}
}

func (c *Client) handleError(gen uint64, err error) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	// Failed is transient here; the close event that follows an unrecoverable
	// transport error owns the reconnect decision, so nothing is scheduled
	// from the error path.
	c.state = StateFailed
	onError := c.listeners.OnError
	c.mu.Unlock()

	c.opt.Metrics.Failure()
	logs.Warnf("transport error: %v", err)
	if onError != nil {
		onError(errors.Wrap(err, "transport"))
	}
}

func (c *Client) handleClose(gen uint64, reason string) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.transport = nil
	c.authenticated = false
	c.state = StateDisconnected

	scheduled := false
	if c.opt.Reconnect && c.attempts < c.opt.MaxReconnectAttempts {
		c.state = StateReconnecting
		c.retry.Schedule(c.opt.Backoff.Next(c.attempts+1), c.retryNow)
		scheduled = true
	}
	onDisconnect := c.listeners.OnDisconnect
	c.mu.Unlock()

	logs.Infof("link closed: %s, reconnect scheduled: %v", reason, scheduled)
	if onDisconnect != nil {
		onDisconnect(reason)
	}
}

func (c *Client) retryNow() {
	c.mu.Lock()
	if c.state != StateReconnecting {
		c.mu.Unlock()
		return
	}
	c.attempts++
	attempt := c.attempts
	onReconnect := c.listeners.OnReconnect
	c.mu.Unlock()

	c.opt.Metrics.Reconnect()
	logs.Infof("reconnect attempt %d", attempt)
	if onReconnect != nil {
		onReconnect(attempt)
	}
	c.Connect()
}

// flush drains the queue in insertion order while the connection holds. A
// failed write drops that envelope instead of re-queueing it; the drop is
// logged and counted rather than retried.
func (c *Client) flush(gen uint64) {
	for {
		c.mu.Lock()
		if gen != c.gen || c.state != StateConnected || c.transport == nil {
			c.mu.Unlock()
			return
		}
		env, ok := c.queue.Pop()
		if !ok {
			c.mu.Unlock()
			return
		}
		tr := c.transport
		c.mu.Unlock()

		wire, err := schema.Encode(env)
		if err == nil {
			err = tr.Write(wire)
		}
		if err != nil {
			c.opt.Metrics.FlushDrop()
			logs.Warnf("drop queued %s during flush: %v", env.Type, err)
			continue
		}
		c.opt.Metrics.Flushed()
	}
}
