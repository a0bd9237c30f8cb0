package gateway

import (
	"errors"
	"fmt"
)

// ErrUnreachable wraps connectivity failures: the backend could not be
// reached at all. The UI surfaces these as a single generic message.
var ErrUnreachable = errors.New("could not reach backend")

// BusinessError is a non-success response carrying the backend's own detail
// message, surfaced verbatim to the user where available.
type BusinessError struct {
	Status int
	Detail string
}

func (e *BusinessError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend error (status %d): %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("backend error (status %d)", e.Status)
}

// AsBusinessError unwraps err into a BusinessError if it is one.
func AsBusinessError(err error) (*BusinessError, bool) {
	var be *BusinessError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}
