package exception

import "errors"

// Connection errors
var (
	ErrNilDialer        = errors.New("link: nil dialer")
	ErrNotConnected     = errors.New("link: not connected")
	ErrConnectionClosed = errors.New("link: connection closed")
	ErrBadAddress       = errors.New("link: bad address")
)
