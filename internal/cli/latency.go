package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Latency histogram bounds, in microseconds.
const (
	histogramMin     = 1
	histogramMax     = 60_000_000
	histogramSigFigs = 3
)

// Summary describes the latencies of repeated requests.
type Summary struct {
	Requests int
	Errors   int
	Min      time.Duration
	P50      time.Duration
	P90      time.Duration
	P99      time.Duration
	Max      time.Duration
}

type latencies struct {
	hist   *hdrhistogram.Histogram
	errors int
}

func newLatencies() *latencies {
	return &latencies{hist: hdrhistogram.New(histogramMin, histogramMax, histogramSigFigs)}
}

func (l *latencies) record(d time.Duration, err error) {
	if err != nil {
		l.errors++
	}
	us := max(d.Microseconds(), histogramMin)
	_ = l.hist.RecordValue(min(us, histogramMax))
}

func (l *latencies) summary() Summary {
	us := func(v int64) time.Duration { return time.Duration(v) * time.Microsecond }
	return Summary{
		Requests: int(l.hist.TotalCount()),
		Errors:   l.errors,
		Min:      us(l.hist.Min()),
		P50:      us(l.hist.ValueAtQuantile(50)),
		P90:      us(l.hist.ValueAtQuantile(90)),
		P99:      us(l.hist.ValueAtQuantile(99)),
		Max:      us(l.hist.Max()),
	}
}

func (s Summary) print(w io.Writer) {
	fmt.Fprintf(w, "requests: %d  errors: %d\n", s.Requests, s.Errors)
	fmt.Fprintf(w, "latency: min=%s p50=%s p90=%s p99=%s max=%s\n", s.Min, s.P50, s.P90, s.P99, s.Max)
}
