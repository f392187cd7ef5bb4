/*
Link owns the persistent socket connection to the guidance service.

# Module
  - connection manager: lifecycle, state, authentication flag
  - outbound queue: FIFO buffer for messages sent while disconnected
  - reconnect scheduler: linear-capped backoff, cancellable
  - listener registry: one handler per named slot, last writer wins

# Source
  - envelopes from the WebSocket transport

# Produce
  - decoded envelopes dispatched to registered listeners

Collaborators (navigation, audio, capture) interact only through the Client
surface; they never touch the transport, queue, or scheduler directly.
*/
package link
