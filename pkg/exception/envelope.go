package exception

import "errors"

// Envelope errors
var (
	ErrEnvelopeMissingType = errors.New("envelope: missing type field")
	ErrEnvelopeEmptyFrame  = errors.New("envelope: empty frame")
)
