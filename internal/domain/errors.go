package domain

import (
	"errors"
	"fmt"
	"math"
)

// ErrNotFound is returned by repo and service functions when the requested
// record does not exist in its registry.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrInvalid is returned when an operation violates a trip state-machine
// precondition or a value constraint (e.g. starting a trip that is not
// scheduled, a rating outside 0..5, a missing required field).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrInvalid = errors.New("invalid transition or value")

// MaxBlockHeight is the largest block height a registry accepts. Heights are
// stored as Postgres BIGINT.
const MaxBlockHeight uint64 = math.MaxInt64

// ErrTransition is the ErrInvalid raised by the trip state machine: the trip
// exists but its current status does not allow the operation.
// Handlers report it as invalid_transition rather than validation_error.
var ErrTransition = fmt.Errorf("%w: not allowed in current trip status", ErrInvalid)
