package eshttp

import (
	"context"
	"log/slog"
	"net"
	"time"

	"github.com/pior/eshttp/internal/coarsetime"
	"github.com/sony/gobreaker/v2"
)

// Defaults applied to zero Config fields.
const (
	DefaultKeepAliveTimeout   = 60 * time.Second
	DefaultConnectTimeout     = 5 * time.Second
	DefaultResponseTimeout    = 40 * time.Second
	DefaultMaxConnectAttempts = 5
)

// readBufferSize is the size of a single socket read.
const readBufferSize = 4096

// Config holds the transport options. The zero value is usable.
type Config struct {
	// KeepAlive reuses the connection across requests while it has been idle for less than
	// KeepAliveTimeout. Without it, every request runs on a fresh connection.
	KeepAlive bool

	// KeepAliveTimeout is the idle time after which a kept-alive connection is replaced.
	// Zero means DefaultKeepAliveTimeout.
	KeepAliveTimeout time.Duration

	// ConnectTimeout bounds each connect attempt. Zero means DefaultConnectTimeout.
	ConnectTimeout time.Duration

	// ResponseTimeout bounds each socket read and write. Zero means DefaultResponseTimeout.
	ResponseTimeout time.Duration

	// MaxConnectAttempts is the number of consecutive failed connect attempts after which a
	// request fails. Zero means DefaultMaxConnectAttempts.
	MaxConnectAttempts int

	// Dialer is used to open connections. If nil, a zero net.Dialer is used.
	Dialer *net.Dialer

	// Resolver resolves the target host at construction. If nil, net.DefaultResolver is used.
	Resolver *net.Resolver

	// Logger receives socket errors, retries and unexpected statuses.
	// If nil, slog.Default() is used.
	Logger *slog.Logger

	// NewCircuitBreaker creates the circuit breaker wrapping every request.
	// Called once with the target address. If nil, no circuit breaker is used.
	NewCircuitBreaker func(name string) *gobreaker.CircuitBreaker[*Response]

	// RequestsPerSecond throttles requests before they queue for the connection.
	// Zero disables throttling.
	RequestsPerSecond float64

	// Burst is the number of requests allowed at once when throttling. Zero means 1.
	Burst int

	// TagRequests adds an X-Opaque-Id header with a random UUID to every request, which the
	// server echoes in its task and slow logs.
	TagRequests bool

	// for testing purposes only
	dial func(ctx context.Context, network, addr string) (net.Conn, error)
	now  func() time.Time
}

func (c Config) withDefaults() Config {
	if c.KeepAliveTimeout <= 0 {
		c.KeepAliveTimeout = DefaultKeepAliveTimeout
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = DefaultConnectTimeout
	}
	if c.ResponseTimeout <= 0 {
		c.ResponseTimeout = DefaultResponseTimeout
	}
	if c.MaxConnectAttempts <= 0 {
		c.MaxConnectAttempts = DefaultMaxConnectAttempts
	}
	if c.Dialer == nil {
		c.Dialer = &net.Dialer{}
	}
	if c.Resolver == nil {
		c.Resolver = net.DefaultResolver
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Burst <= 0 {
		c.Burst = 1
	}
	if c.dial == nil {
		c.dial = c.Dialer.DialContext
	}
	if c.now == nil {
		c.now = coarsetime.Now
	}
	return c
}
