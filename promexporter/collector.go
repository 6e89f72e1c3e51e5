// Package promexporter exposes transport statistics as Prometheus metrics.
package promexporter

import (
	"github.com/pior/eshttp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sony/gobreaker/v2"
)

// StatsSource is implemented by *eshttp.Transport.
type StatsSource interface {
	Addr() string
	Stats() eshttp.TransportStats
}

// TransportCollector reads the stats of a set of transports at scrape time.
type TransportCollector struct {
	transports []StatsSource

	requests         *prometheus.Desc
	retries          *prometheus.Desc
	errors           *prometheus.Desc
	connects         *prometheus.Desc
	connectErrors    *prometheus.Desc
	disconnects      *prometheus.Desc
	bytes            *prometheus.Desc
	acquireWaits     *prometheus.Desc
	acquireWaitTime  *prometheus.Desc
	canceledAcquires *prometheus.Desc
	inFlight         *prometheus.Desc

	circuitState    *prometheus.Desc
	circuitRequests *prometheus.Desc
	circuitFailures *prometheus.Desc
}

var _ prometheus.Collector = (*TransportCollector)(nil)

// NewTransportCollector creates a collector over the given transports. Every metric carries
// an "addr" label with the transport address.
func NewTransportCollector(transports ...StatsSource) *TransportCollector {
	desc := func(name, help string, labels ...string) *prometheus.Desc {
		return prometheus.NewDesc("eshttp_"+name, help, append([]string{"addr"}, labels...), nil)
	}

	return &TransportCollector{
		transports: transports,

		requests:         desc("requests_total", "Requests started"),
		retries:          desc("retries_total", "Requests repeated after a failed first attempt"),
		errors:           desc("errors_total", "Requests that returned an error"),
		connects:         desc("connects_total", "Connections established"),
		connectErrors:    desc("connect_errors_total", "Failed connect attempts"),
		disconnects:      desc("disconnects_total", "Connections closed"),
		bytes:            desc("bytes_total", "Bytes transferred on the socket", "direction"), // written, read
		acquireWaits:     desc("acquire_waits_total", "Requests that waited for the connection"),
		acquireWaitTime:  desc("acquire_wait_seconds_total", "Time spent waiting for the connection"),
		canceledAcquires: desc("acquire_canceled_total", "Requests whose context ended while waiting for the connection"),
		inFlight:         desc("in_flight", "Requests holding the connection"),

		circuitState:    desc("circuit_breaker_state", "Circuit breaker state (0=closed, 1=half-open, 2=open)"),
		circuitRequests: desc("circuit_breaker_requests", "Requests tracked by the circuit breaker in the current interval"),
		circuitFailures: desc("circuit_breaker_failures", "Circuit breaker failure counts", "type"), // total, consecutive
	}
}

// Describe implements prometheus.Collector.
func (c *TransportCollector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range []*prometheus.Desc{
		c.requests, c.retries, c.errors, c.connects, c.connectErrors, c.disconnects, c.bytes,
		c.acquireWaits, c.acquireWaitTime, c.canceledAcquires, c.inFlight,
		c.circuitState, c.circuitRequests, c.circuitFailures,
	} {
		ch <- d
	}
}

// Collect implements prometheus.Collector.
func (c *TransportCollector) Collect(ch chan<- prometheus.Metric) {
	for _, t := range c.transports {
		addr := t.Addr()
		s := t.Stats()

		counter := func(d *prometheus.Desc, v uint64, labels ...string) {
			ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, float64(v), append([]string{addr}, labels...)...)
		}
		gauge := func(d *prometheus.Desc, v float64, labels ...string) {
			ch <- prometheus.MustNewConstMetric(d, prometheus.GaugeValue, v, append([]string{addr}, labels...)...)
		}

		counter(c.requests, s.Requests)
		counter(c.retries, s.Retries)
		counter(c.errors, s.Errors)
		counter(c.connects, s.Connects)
		counter(c.connectErrors, s.ConnectErrors)
		counter(c.disconnects, s.Disconnects)
		counter(c.bytes, s.BytesWritten, "written")
		counter(c.bytes, s.BytesRead, "read")
		counter(c.acquireWaits, s.AcquireWaitCount)
		ch <- prometheus.MustNewConstMetric(c.acquireWaitTime, prometheus.CounterValue, float64(s.AcquireWaitTimeNs)/1e9, addr)
		counter(c.canceledAcquires, s.CanceledAcquires)
		gauge(c.inFlight, float64(s.InFlight))

		gauge(c.circuitState, stateValue(s.CircuitBreakerState))
		gauge(c.circuitRequests, float64(s.CircuitBreakerCounts.Requests))
		gauge(c.circuitFailures, float64(s.CircuitBreakerCounts.TotalFailures), "total")
		gauge(c.circuitFailures, float64(s.CircuitBreakerCounts.ConsecutiveFailures), "consecutive")
	}
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
