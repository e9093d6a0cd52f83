package client

import "errors"

var (
	// ErrUnavailable wraps connection-level failures: the server cannot be
	// reached or the connection died mid-exchange.
	ErrUnavailable = errors.New("server unavailable")

	// ErrInvalidResponse is returned when the server answers with something
	// other than a well-formed OK or ERROR envelope.
	ErrInvalidResponse = errors.New("invalid server response")
)

// ServerError carries the human-readable message of an ERROR envelope.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	return e.Message
}
