package client

import (
	"errors"
	"fmt"
)

// TransportError is returned for any failed node request: network errors,
// non-2xx responses and responses that do not match the expected shape.
type TransportError struct {
	Op         string
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Body != "":
		return fmt.Sprintf("%s: node returned status %d: %s", e.Op, e.StatusCode, e.Body)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: node returned status %d", e.Op, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return e.Op + ": request failed"
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransportError checks if err is or wraps a TransportError
func IsTransportError(err error) bool {
	var target *TransportError
	return errors.As(err, &target)
}
