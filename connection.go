package eshttp

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"syscall"
	"time"

	"github.com/pior/eshttp/wire"
)

// connection owns the single socket of a transport. It is only used by the holder of the
// transport's session slot, so it needs no locking of its own.
type connection struct {
	addr   string
	cfg    Config
	logger *slog.Logger
	stats  *statsCollector

	conn         net.Conn
	lastActivity time.Time
	attempts     int // consecutive failed connect attempts

	decoder wire.Decoder
	buf     []byte
}

func newConnection(addr string, cfg Config, stats *statsCollector) *connection {
	return &connection{
		addr:   addr,
		cfg:    cfg,
		logger: cfg.Logger.With("addr", addr),
		stats:  stats,
		buf:    make([]byte, readBufferSize),
	}
}

// connect replaces the socket, trying up to MaxConnectAttempts times.
func (c *connection) connect(ctx context.Context) error {
	c.disconnect()

	var lastErr error
	for c.attempts < c.cfg.MaxConnectAttempts {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.attempts++

		dialCtx, cancel := context.WithTimeout(ctx, c.cfg.ConnectTimeout)
		conn, err := c.cfg.dial(dialCtx, "tcp", c.addr)
		cancel()
		if err == nil {
			c.conn = conn
			c.attempts = 0
			c.stats.recordConnect()
			return nil
		}

		lastErr = err
		c.stats.recordConnectError()
		c.logger.Warn("eshttp: connect failed", "attempt", c.attempts, "error", err)
	}

	attempts := c.attempts
	c.attempts = 0
	if lastErr == nil {
		lastErr = errors.New("no attempt made")
	}
	return &ConnectError{Addr: c.addr, Attempts: attempts, Err: lastErr}
}

// disconnect closes the socket. Safe to call when already disconnected.
func (c *connection) disconnect() {
	if c.conn == nil {
		return
	}
	_ = c.conn.Close()
	c.conn = nil
	c.stats.recordDisconnect()
}

// prepare makes sure a socket usable for the next request is open.
func (c *connection) prepare(ctx context.Context) error {
	if c.conn != nil && c.cfg.KeepAlive && c.cfg.now().Sub(c.lastActivity) < c.cfg.KeepAliveTimeout {
		return nil
	}
	return c.connect(ctx)
}

// check is the single funnel for socket errors. Would-block conditions are not errors; any
// other error is logged and closes the socket.
func (c *connection) check(op string, err error) error {
	if err == nil || errors.Is(err, syscall.EAGAIN) || errors.Is(err, syscall.EWOULDBLOCK) {
		return nil
	}
	c.logger.Warn("eshttp: socket error", "op", op, "error", err)
	return c.fail(&wire.ConnectionError{Op: op, Err: err})
}

// fail closes the socket when err leaves it unusable and returns err.
func (c *connection) fail(err error) error {
	if wire.ShouldCloseConnection(err) {
		c.disconnect()
	}
	return err
}

func (c *connection) deadline(ctx context.Context) time.Time {
	d := time.Now().Add(c.cfg.ResponseTimeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(d) {
		return ctxDeadline
	}
	return d
}

// write sends one frame with a single write call. A write of zero bytes reconnects and
// tries once more; a short write fails.
func (c *connection) write(ctx context.Context, frame []byte) error {
	for retried := false; ; retried = true {
		if c.conn == nil {
			return &wire.ConnectionError{Op: "write", Err: net.ErrClosed}
		}

		_ = c.conn.SetWriteDeadline(c.deadline(ctx))
		n, err := c.conn.Write(frame)
		c.stats.recordWrite(n)

		if n == 0 && err == nil && len(frame) > 0 {
			if retried {
				return c.fail(&wire.ConnectionError{Op: "write", Err: io.ErrShortWrite})
			}
			if err := c.connect(ctx); err != nil {
				return err
			}
			continue
		}

		if err := c.check("write", err); err != nil {
			return err
		}
		if n != len(frame) {
			return c.fail(&wire.ConnectionError{Op: "write", Err: io.ErrShortWrite})
		}
		return nil
	}
}

// read feeds socket reads to the decoder until the response is complete.
func (c *connection) read(ctx context.Context) (*wire.Response, error) {
	c.decoder.Reset()

	for {
		if c.conn == nil {
			return nil, &wire.ConnectionError{Op: "read", Err: net.ErrClosed}
		}

		_ = c.conn.SetReadDeadline(c.deadline(ctx))
		n, err := c.conn.Read(c.buf)
		c.stats.recordRead(n)

		if n > 0 {
			progress, decodeErr := c.decoder.Feed(c.buf[:n])
			if decodeErr != nil {
				return c.decoder.Response(), decodeErr
			}
			if progress == wire.Done {
				return c.decoder.Response(), nil
			}
		}

		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		if err := c.check("read", err); err != nil {
			return nil, err
		}
	}
}

// exchange performs one send and receive cycle.
func (c *connection) exchange(ctx context.Context, req *wire.Request) (*Response, error) {
	if err := c.prepare(ctx); err != nil {
		return nil, err
	}

	for _, frame := range req.Frames() {
		if err := c.write(ctx, frame); err != nil {
			return nil, err
		}
	}

	wresp, err := c.read(ctx)
	if err != nil {
		var statusErr *wire.StatusError
		if errors.As(err, &statusErr) {
			c.logger.Warn("eshttp: unexpected status", "method", req.Method, "target", req.Target, "status", statusErr.Code, "reason", statusErr.Reason)
		}
		_ = c.fail(err)
		if isTerminal(err) {
			return &Response{StatusCode: statusErr.Code, Header: wresp.Header}, err
		}
		return nil, err
	}

	if wresp.Close {
		if wire.IsSuccess(wresp.StatusCode) {
			c.logger.Debug("eshttp: response closes the connection", "method", req.Method, "target", req.Target, "status", wresp.StatusCode)
		} else {
			c.logger.Warn("eshttp: response closes the connection", "method", req.Method, "target", req.Target, "status", wresp.StatusCode)
		}
		c.disconnect()
	}

	if c.cfg.KeepAlive {
		c.lastActivity = c.cfg.now()
	} else {
		c.disconnect()
	}

	return &Response{StatusCode: wresp.StatusCode, Header: wresp.Header, Body: wresp.Body}, nil
}
