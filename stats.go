package eshttp

import (
	"sync/atomic"

	"github.com/sony/gobreaker/v2"
)

// TransportStats contains statistics about a transport.
//
// For Prometheus integration, expose these as:
//   - Counters: Requests, Retries, Errors, Connects, ConnectErrors, Disconnects, BytesWritten, BytesRead
//   - Counters: AcquireWaitCount, AcquireWaitTimeNs, CanceledAcquires (callers queued behind another request)
//   - Gauge: InFlight
type TransportStats struct {
	Requests      uint64 // Requests started
	Retries       uint64 // Requests repeated after a failed first attempt
	Errors        uint64 // Requests that returned an error
	Connects      uint64 // Connections established
	ConnectErrors uint64 // Failed connect attempts
	Disconnects   uint64 // Connections closed
	BytesWritten  uint64
	BytesRead     uint64

	// Critical section, one request at a time on the connection
	AcquireWaitCount  uint64 // Requests that had to wait for the connection
	AcquireWaitTimeNs uint64 // Total nanoseconds spent waiting
	CanceledAcquires  uint64 // Requests whose context ended while waiting
	InFlight          int32  // 1 while a request holds the connection

	CircuitBreakerState  gobreaker.State
	CircuitBreakerCounts gobreaker.Counts
}

// statsCollector provides internal methods for updating transport stats.
type statsCollector struct {
	requests      atomic.Uint64
	retries       atomic.Uint64
	errors        atomic.Uint64
	connects      atomic.Uint64
	connectErrors atomic.Uint64
	disconnects   atomic.Uint64
	bytesWritten  atomic.Uint64
	bytesRead     atomic.Uint64
}

func (c *statsCollector) recordRequest()      { c.requests.Add(1) }
func (c *statsCollector) recordRetry()        { c.retries.Add(1) }
func (c *statsCollector) recordError()        { c.errors.Add(1) }
func (c *statsCollector) recordConnect()      { c.connects.Add(1) }
func (c *statsCollector) recordConnectError() { c.connectErrors.Add(1) }
func (c *statsCollector) recordDisconnect()   { c.disconnects.Add(1) }

func (c *statsCollector) recordWrite(n int) {
	if n > 0 {
		c.bytesWritten.Add(uint64(n))
	}
}

func (c *statsCollector) recordRead(n int) {
	if n > 0 {
		c.bytesRead.Add(uint64(n))
	}
}

func (c *statsCollector) snapshot() TransportStats {
	return TransportStats{
		Requests:      c.requests.Load(),
		Retries:       c.retries.Load(),
		Errors:        c.errors.Load(),
		Connects:      c.connects.Load(),
		ConnectErrors: c.connectErrors.Load(),
		Disconnects:   c.disconnects.Load(),
		BytesWritten:  c.bytesWritten.Load(),
		BytesRead:     c.bytesRead.Load(),
	}
}
