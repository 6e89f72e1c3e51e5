package eshttp

import (
	"context"
	"errors"
	"net/textproto"

	"github.com/google/uuid"
	"github.com/jackc/puddle/v2"
	"github.com/pior/eshttp/document"
	"github.com/pior/eshttp/wire"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

// Request is one request to the target. Path is appended to the target base path.
type Request struct {
	Method      string
	Path        string
	Body        []byte // sent when non-nil
	ContentType string // defaults to wire.ContentTypeJSON
}

// Transport speaks HTTP/1.1 to one host over one connection.
//
// Requests are serialized: each holds the connection for its whole send and receive cycle,
// and concurrent callers wait in line. A Transport is safe for concurrent use.
type Transport struct {
	target target
	addr   string // resolved ip:port
	cfg    Config

	// session is a pool of exactly one connection. Holding it is the critical section.
	session *puddle.Pool[*connection]

	breaker *gobreaker.CircuitBreaker[*Response]
	limiter *rate.Limiter
	stats   *statsCollector
}

// New parses target ([http://]host[:port][/base-path]), resolves the host and returns a
// transport. Resolution happens once; a failure is returned as *ResolveError.
// No connection is opened until the first request.
func New(target string, cfg Config) (*Transport, error) {
	cfg = cfg.withDefaults()

	t, err := parseTarget(target)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()
	addr, err := resolve(ctx, cfg.Resolver, t)
	if err != nil {
		return nil, err
	}
	cfg.Logger.Debug("eshttp: resolved target", "target", t.String(), "addr", addr)

	tr := &Transport{
		target: t,
		addr:   addr,
		cfg:    cfg,
		stats:  &statsCollector{},
	}

	session, err := puddle.NewPool(&puddle.Config[*connection]{
		Constructor: func(ctx context.Context) (*connection, error) {
			return newConnection(addr, cfg, tr.stats), nil
		},
		Destructor: func(c *connection) {
			c.disconnect()
		},
		MaxSize: 1,
	})
	if err != nil {
		return nil, err
	}
	tr.session = session

	if cfg.NewCircuitBreaker != nil {
		tr.breaker = cfg.NewCircuitBreaker(addr)
	}
	if cfg.RequestsPerSecond > 0 {
		tr.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)
	}

	return tr, nil
}

// Close closes the connection. It waits for the request in progress, if any.
func (t *Transport) Close() {
	t.session.Close()
}

// Addr returns the resolved address of the target.
func (t *Transport) Addr() string {
	return t.addr
}

// Stats returns a snapshot of the transport statistics.
func (t *Transport) Stats() TransportStats {
	s := t.stats.snapshot()

	ps := t.session.Stat()
	s.AcquireWaitCount = uint64(ps.EmptyAcquireCount())
	s.AcquireWaitTimeNs = uint64(ps.EmptyAcquireWaitTime().Nanoseconds())
	s.CanceledAcquires = uint64(ps.CanceledAcquireCount())
	s.InFlight = ps.AcquiredResources()

	if t.breaker != nil {
		s.CircuitBreakerState = t.breaker.State()
		s.CircuitBreakerCounts = t.breaker.Counts()
	}
	return s
}

// Do performs req. A failed attempt is retried once on a fresh connection, unless the server
// answered with a terminal status (400, 403, 500): then the returned response carries the
// status code along with a *wire.StatusError. When both attempts fail, the response is nil.
func (t *Transport) Do(ctx context.Context, req Request) (*Response, error) {
	t.stats.recordRequest()

	resp, err := t.do(ctx, req)
	if err != nil {
		t.stats.recordError()
	}
	return resp, err
}

func (t *Transport) do(ctx context.Context, req Request) (*Response, error) {
	wreq := t.wireRequest(req)
	if err := wreq.Validate(); err != nil {
		return nil, err
	}

	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	if t.breaker == nil {
		return t.roundTrip(ctx, wreq)
	}
	return t.breaker.Execute(func() (*Response, error) {
		return t.roundTrip(ctx, wreq)
	})
}

func (t *Transport) wireRequest(req Request) *wire.Request {
	wreq := &wire.Request{
		Method:      req.Method,
		Target:      wire.JoinTarget(t.target.basePath, req.Path),
		Host:        t.target.hostHeader(),
		KeepAlive:   t.cfg.KeepAlive,
		ContentType: req.ContentType,
		Body:        req.Body,
	}
	if t.cfg.TagRequests {
		wreq.Header = textproto.MIMEHeader{"X-Opaque-Id": {uuid.NewString()}}
	}
	return wreq
}

// roundTrip holds the connection for the whole exchange, including the retry.
func (t *Transport) roundTrip(ctx context.Context, req *wire.Request) (*Response, error) {
	res, err := t.session.Acquire(ctx)
	if err != nil {
		if errors.Is(err, puddle.ErrClosedPool) {
			return nil, ErrTransportClosed
		}
		return nil, err
	}
	defer res.Release()

	conn := res.Value()

	resp, err := conn.exchange(ctx, req)
	if err == nil || isTerminal(err) || ctx.Err() != nil {
		return resp, err
	}

	t.stats.recordRetry()
	t.cfg.Logger.Info("eshttp: retrying request", "addr", t.addr, "method", req.Method, "target", req.Target, "error", err)
	if wire.ShouldCloseConnection(err) {
		conn.disconnect()
	}

	resp, err = conn.exchange(ctx, req)
	if err != nil && !isTerminal(err) {
		return nil, err
	}
	return resp, err
}

// RequestRaw performs a request and returns the status code and body. The status is 0 when no
// response was obtained.
func (t *Transport) RequestRaw(ctx context.Context, method, path string, body []byte, contentType string) (int, []byte, error) {
	resp, err := t.Do(ctx, Request{Method: method, Path: path, Body: body, ContentType: contentType})
	if resp == nil {
		return 0, nil, err
	}
	return resp.StatusCode, resp.Body, err
}

// RequestDocument performs a request and parses the response body as a JSON object. The
// object gets a "status" member holding the HTTP status code.
func (t *Transport) RequestDocument(ctx context.Context, method, path string, body []byte, contentType string) (int, *document.Object, error) {
	resp, err := t.Do(ctx, Request{Method: method, Path: path, Body: body, ContentType: contentType})
	if err != nil {
		if resp == nil {
			return 0, nil, err
		}
		return resp.StatusCode, nil, err
	}

	doc, err := resp.Document()
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, doc, nil
}
