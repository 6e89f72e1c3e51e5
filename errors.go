package eshttp

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/pior/eshttp/wire"
)

var (
	ErrTransportClosed        = errors.New("eshttp: transport closed")
	ErrTooManyConnectAttempts = errors.New("eshttp: too many connect attempts")
	ErrUnsupportedScheme      = errors.New("eshttp: unsupported scheme")
	ErrInvalidTarget          = errors.New("eshttp: invalid target")
)

// ResolveError is returned by New when the target host cannot be resolved.
// It is fatal for the transport and never retried.
type ResolveError struct {
	Host string
	Err  error
}

func (e *ResolveError) Error() string {
	return "eshttp: cannot resolve " + strconv.Quote(e.Host) + ": " + e.Err.Error()
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

// ConnectError is returned when no connection could be established within the attempt bound.
// It matches ErrTooManyConnectAttempts with errors.Is and wraps the last dial error.
//
// Connection handling: transport is left disconnected, the next request starts over
type ConnectError struct {
	Addr     string
	Attempts int
	Err      error // last dial error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("eshttp: cannot connect to %s after %d attempts: %v", e.Addr, e.Attempts, e.Err)
}

func (e *ConnectError) Unwrap() []error {
	return []error{ErrTooManyConnectAttempts, e.Err}
}

func (e *ConnectError) ShouldCloseConnection() bool {
	return true
}

// isTerminal reports whether err carries a status that must not be retried.
func isTerminal(err error) bool {
	var statusErr *wire.StatusError
	return errors.As(err, &statusErr) && statusErr.Terminal()
}
