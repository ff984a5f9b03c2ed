package contract

import (
	"errors"

	"github.com/google/uuid"

	"github.com/pkordes/medtransport/internal/domain"
)

// Result codes reported when Success is false.
const (
	CodeNotFound = "not_found"
	CodeInvalid  = "invalid"
	CodeInternal = "internal"
)

// Result is the tagged outcome of a contract call. Value is set only on
// success; Error and Code only on failure.
type Result struct {
	TxID    uuid.UUID `json:"txId"`
	Success bool      `json:"success"`
	Value   any       `json:"value,omitempty"`
	Error   string    `json:"error,omitempty"`
	Code    string    `json:"code,omitempty"`

	// Err is the underlying error for in-process callers.
	Err error `json:"-"`
}

func ok(tx uuid.UUID, v any) Result {
	return Result{TxID: tx, Success: true, Value: v}
}

func failed(tx uuid.UUID, err error) Result {
	return Result{TxID: tx, Error: err.Error(), Code: codeOf(err), Err: err}
}

func codeOf(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return CodeNotFound
	case errors.Is(err, domain.ErrInvalid):
		return CodeInvalid
	default:
		return CodeInternal
	}
}
