package obs

import "sync/atomic"

// Metrics collects lightweight counters for the link client. All methods are
// safe on a nil receiver so instrumentation stays optional.
type Metrics struct {
	sent       uint64
	queued     uint64
	flushed    uint64
	flushDrops uint64
	parseDrops uint64
	received   uint64
	reconnects uint64
	failures   uint64
}

// Snapshot is a point-in-time view of the counters.
type Snapshot struct {
	Sent       uint64
	Queued     uint64
	Flushed    uint64
	FlushDrops uint64
	ParseDrops uint64
	Received   uint64
	Reconnects uint64
	Failures   uint64
}

// NewMetrics allocates a metrics container.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// Sent records one envelope written live to the transport.
func (m *Metrics) Sent() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.sent, 1)
}

// Queued records one envelope buffered while disconnected.
func (m *Metrics) Queued() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.queued, 1)
}

// Flushed records one queued envelope drained after a connect.
func (m *Metrics) Flushed() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.flushed, 1)
}

// FlushDrop records one queued envelope lost to a failed flush write.
func (m *Metrics) FlushDrop() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.flushDrops, 1)
}

// ParseDrop records one discarded malformed inbound frame.
func (m *Metrics) ParseDrop() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.parseDrops, 1)
}

// Received records one well-formed inbound envelope.
func (m *Metrics) Received() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.received, 1)
}

// Reconnect records one automatic reconnection attempt.
func (m *Metrics) Reconnect() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.reconnects, 1)
}

// Failure records one transport-level error.
func (m *Metrics) Failure() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.failures, 1)
}

// Snapshot returns a copy of the current counter values.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	return Snapshot{
		Sent:       atomic.LoadUint64(&m.sent),
		Queued:     atomic.LoadUint64(&m.queued),
		Flushed:    atomic.LoadUint64(&m.flushed),
		FlushDrops: atomic.LoadUint64(&m.flushDrops),
		ParseDrops: atomic.LoadUint64(&m.parseDrops),
		Received:   atomic.LoadUint64(&m.received),
		Reconnects: atomic.LoadUint64(&m.reconnects),
		Failures:   atomic.LoadUint64(&m.failures),
	}
}
