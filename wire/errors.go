package wire

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidRequest matches every *RequestError.
var ErrInvalidRequest = errors.New("invalid request")

// RequestError is returned by Request.Validate when the method or target cannot be written on
// the request line: empty, or holding spaces or control characters.
//
// Connection handling: KEEP connection, nothing was sent
type RequestError struct {
	Field string // method or target
	Value string
}

func (e *RequestError) Error() string {
	return "invalid request " + e.Field + " " + strconv.Quote(e.Value)
}

func (e *RequestError) Is(target error) bool {
	return target == ErrInvalidRequest
}

func (e *RequestError) ShouldCloseConnection() bool {
	return false
}

// ParseError is returned when a response cannot be decoded.
//
// Common causes:
//   - Status line not starting with HTTP/
//   - Neither Content-Length nor chunked Transfer-Encoding
//   - Invalid chunk size
//
// Connection handling: CLOSE connection, the stream position is unknown
type ParseError struct {
	Message string
	Err     error // Underlying error, if any
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return "parse error: " + e.Message + ": " + e.Err.Error()
	}
	return "parse error: " + e.Message
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) ShouldCloseConnection() bool {
	return true
}

// StatusError is returned for a status code that ends the exchange.
//
// Terminal statuses (400, 403, 500) are not retried by the transport. Any other status
// outside the successful set is reported the same way with Terminal false.
//
// Connection handling: CLOSE connection, the body is left unread
type StatusError struct {
	Code   int
	Reason string
}

func (e *StatusError) Error() string {
	if e.Reason == "" {
		return "unexpected status " + strconv.Itoa(e.Code)
	}
	return "unexpected status " + strconv.Itoa(e.Code) + " " + e.Reason
}

// Terminal reports whether the status is a final verdict from the server that a retry would
// not change.
func (e *StatusError) Terminal() bool {
	return IsTerminal(e.Code)
}

func (e *StatusError) ShouldCloseConnection() bool {
	return true
}

// ConnectionError wraps I/O errors from socket operations.
//
// Connection handling: Connection is already broken, CLOSE and RECONNECT
type ConnectionError struct {
	Op  string // Operation that failed (dial, read, write)
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection error during %s: %v", e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

func (e *ConnectionError) ShouldCloseConnection() bool {
	return true
}

// ErrorWithConnectionState is implemented by errors that know whether the connection they
// occurred on is still usable.
type ErrorWithConnectionState interface {
	error
	ShouldCloseConnection() bool
}

// ShouldCloseConnection reports whether err leaves the connection unusable. Unknown errors
// are treated as fatal for the connection.
func ShouldCloseConnection(err error) bool {
	if err == nil {
		return false
	}

	var e ErrorWithConnectionState
	if errors.As(err, &e) {
		return e.ShouldCloseConnection()
	}

	return true
}
