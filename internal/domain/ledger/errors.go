package ledger

import "errors"

// Ledger domain errors
var (
	ErrOrdersNotAllowed = errors.New("orders are not allowed right now")
)

// NotAllowedError carries the reason orders are currently blocked.
type NotAllowedError struct {
	Reason string
}

func (e *NotAllowedError) Error() string {
	return "orders are not allowed: " + e.Reason
}

func (e *NotAllowedError) Unwrap() error {
	return ErrOrdersNotAllowed
}
