package promexporter

import (
	"context"
	"strings"
	"testing"

	"github.com/pior/eshttp"
	"github.com/pior/eshttp/internal/testutils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	addr  string
	stats eshttp.TransportStats
}

func (f *fakeSource) Addr() string                 { return f.addr }
func (f *fakeSource) Stats() eshttp.TransportStats { return f.stats }

func TestCollectorValues(t *testing.T) {
	src := &fakeSource{
		addr: "10.0.0.1:9200",
		stats: eshttp.TransportStats{
			Requests:            7,
			Retries:             2,
			BytesWritten:        300,
			BytesRead:           1200,
			AcquireWaitTimeNs:   1_500_000_000,
			InFlight:            1,
			CircuitBreakerState: gobreaker.StateOpen,
			CircuitBreakerCounts: gobreaker.Counts{
				Requests:            5,
				TotalFailures:       4,
				ConsecutiveFailures: 3,
			},
		},
	}
	c := NewTransportCollector(src)

	expected := `
# HELP eshttp_requests_total Requests started
# TYPE eshttp_requests_total counter
eshttp_requests_total{addr="10.0.0.1:9200"} 7
# HELP eshttp_retries_total Requests repeated after a failed first attempt
# TYPE eshttp_retries_total counter
eshttp_retries_total{addr="10.0.0.1:9200"} 2
# HELP eshttp_bytes_total Bytes transferred on the socket
# TYPE eshttp_bytes_total counter
eshttp_bytes_total{addr="10.0.0.1:9200",direction="read"} 1200
eshttp_bytes_total{addr="10.0.0.1:9200",direction="written"} 300
# HELP eshttp_acquire_wait_seconds_total Time spent waiting for the connection
# TYPE eshttp_acquire_wait_seconds_total counter
eshttp_acquire_wait_seconds_total{addr="10.0.0.1:9200"} 1.5
# HELP eshttp_in_flight Requests holding the connection
# TYPE eshttp_in_flight gauge
eshttp_in_flight{addr="10.0.0.1:9200"} 1
# HELP eshttp_circuit_breaker_state Circuit breaker state (0=closed, 1=half-open, 2=open)
# TYPE eshttp_circuit_breaker_state gauge
eshttp_circuit_breaker_state{addr="10.0.0.1:9200"} 2
# HELP eshttp_circuit_breaker_failures Circuit breaker failure counts
# TYPE eshttp_circuit_breaker_failures gauge
eshttp_circuit_breaker_failures{addr="10.0.0.1:9200",type="consecutive"} 3
eshttp_circuit_breaker_failures{addr="10.0.0.1:9200",type="total"} 4
`
	err := testutil.CollectAndCompare(c, strings.NewReader(expected),
		"eshttp_requests_total",
		"eshttp_retries_total",
		"eshttp_bytes_total",
		"eshttp_acquire_wait_seconds_total",
		"eshttp_in_flight",
		"eshttp_circuit_breaker_state",
		"eshttp_circuit_breaker_failures",
	)
	require.NoError(t, err)
}

func TestCollectorMultipleTransports(t *testing.T) {
	c := NewTransportCollector(
		&fakeSource{addr: "10.0.0.1:9200"},
		&fakeSource{addr: "10.0.0.2:9200"},
	)

	assert.Equal(t, 2, testutil.CollectAndCount(c, "eshttp_requests_total"))
	assert.Equal(t, 4, testutil.CollectAndCount(c, "eshttp_bytes_total"))
}

func TestCollectorRegistersAndLints(t *testing.T) {
	c := NewTransportCollector(&fakeSource{addr: "10.0.0.1:9200"})

	registry := prometheus.NewRegistry()
	require.NoError(t, registry.Register(c))

	problems, err := testutil.CollectAndLint(c)
	require.NoError(t, err)
	assert.Empty(t, problems)
}

func TestCollectorOverTransport(t *testing.T) {
	srv := testutils.NewServer(t,
		"HTTP/1.1 200 OK\r\nContent-Length: 2\r\n\r\n{}",
	)

	tr, err := eshttp.New(srv.Addr(), eshttp.Config{KeepAlive: true})
	require.NoError(t, err)
	defer tr.Close()

	_, err = tr.Get(context.Background(), "/_cluster/health")
	require.NoError(t, err)

	c := NewTransportCollector(tr)
	expected := `
# HELP eshttp_requests_total Requests started
# TYPE eshttp_requests_total counter
eshttp_requests_total{addr="` + tr.Addr() + `"} 1
# HELP eshttp_connects_total Connections established
# TYPE eshttp_connects_total counter
eshttp_connects_total{addr="` + tr.Addr() + `"} 1
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected),
		"eshttp_requests_total", "eshttp_connects_total"))
}
