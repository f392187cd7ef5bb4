package link

import (
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/yanun0323/errors"

	"main/pkg/exception"
)

const (
	DefaultDialTimeout  = 10 * time.Second
	DefaultWriteTimeout = 10 * time.Second
)

// WSDialer constructs WebSocket transports.
type WSDialer struct {
	// DialTimeout bounds the opening handshake. Optional; default 10s.
	DialTimeout time.Duration
	// WriteTimeout bounds each frame write. Optional; default 10s.
	WriteTimeout time.Duration
}

// NewWSDialer creates a dialer with default timeouts.
func NewWSDialer() *WSDialer {
	return &WSDialer{}
}

// Dial validates the address synchronously; the network-level open runs only
// once the returned transport's Open is called.
func (d *WSDialer) Dial(addr string, h Handler) (Transport, error) {
	u, err := url.Parse(addr)
	if err != nil {
		return nil, errors.Wrapf(err, "parse address %q", addr)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, errors.Wrapf(exception.ErrBadAddress, "unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, errors.Wrapf(exception.ErrBadAddress, "missing host in %q", addr)
	}
	if h == nil {
		return nil, exception.ErrInvalidArgument
	}

	dialTimeout := d.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = DefaultDialTimeout
	}
	writeTimeout := d.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = DefaultWriteTimeout
	}

	return &wsTransport{
		addr:         u.String(),
		handler:      h,
		dialTimeout:  dialTimeout,
		writeTimeout: writeTimeout,
	}, nil
}

// wsTransport adapts one gorilla connection to the Transport contract.
// Events fire in the order open, messages, error?, close.
type wsTransport struct {
	addr         string
	handler      Handler
	dialTimeout  time.Duration
	writeTimeout time.Duration

	mu      sync.Mutex
	writeMu sync.Mutex
	conn    *websocket.Conn
	ready   atomic.Bool
	closed  atomic.Bool
	opened  atomic.Bool
}

func (t *wsTransport) Open() {
	if !t.opened.CompareAndSwap(false, true) {
		return
	}
	go t.open()
}

func (t *wsTransport) open() {
	dialer := websocket.Dialer{HandshakeTimeout: t.dialTimeout}
	conn, resp, err := dialer.Dial(t.addr, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		t.handler.HandleError(errors.Wrapf(err, "dial %q", t.addr))
		t.handler.HandleClose("dial failed")
		return
	}

	t.mu.Lock()
	if t.closed.Load() {
		t.mu.Unlock()
		_ = conn.Close()
		return
	}
	t.conn = conn
	t.mu.Unlock()

	t.ready.Store(true)
	t.handler.HandleOpen()
	t.readLoop(conn)
}

func (t *wsTransport) readLoop(conn *websocket.Conn) {
	for {
		msgType, frame, err := conn.ReadMessage()
		if err != nil {
			t.ready.Store(false)
			if t.closed.Load() ||
				websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				t.handler.HandleClose("connection closed")
				return
			}
			t.handler.HandleError(errors.Wrap(err, "read frame"))
			t.handler.HandleClose("read failed")
			return
		}
		if msgType != websocket.TextMessage && msgType != websocket.BinaryMessage {
			continue
		}
		t.handler.HandleMessage(frame)
	}
}

func (t *wsTransport) Write(frame []byte) error {
	if t.closed.Load() {
		return exception.ErrConnectionClosed
	}
	t.mu.Lock()
	conn := t.conn
	t.mu.Unlock()
	if conn == nil || !t.ready.Load() {
		return exception.ErrNotConnected
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(t.writeTimeout))
	if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		return errors.Wrap(err, "write frame")
	}
	return nil
}

func (t *wsTransport) Ready() bool {
	return t.ready.Load()
}

func (t *wsTransport) Close() error {
	if !t.closed.CompareAndSwap(false, true) {
		return nil
	}
	t.ready.Store(false)

	t.mu.Lock()
	conn := t.conn
	t.conn = nil
	t.mu.Unlock()
	if conn == nil {
		return nil
	}

	deadline := time.Now().Add(time.Second)
	_ = conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		deadline,
	)
	return conn.Close()
}
