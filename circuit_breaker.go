package eshttp

import (
	"time"

	"github.com/sony/gobreaker/v2"
)

// NewCircuitBreakerConfig returns a Config.NewCircuitBreaker function with common settings:
// the breaker opens when at least 3 requests were seen in the interval and 60% of them failed.
//
// Terminal statuses (400, 403, 500) are answers from a healthy server and count as successes.
func NewCircuitBreakerConfig(maxRequests uint32, interval, timeout time.Duration) func(string) *gobreaker.CircuitBreaker[*Response] {
	return func(name string) *gobreaker.CircuitBreaker[*Response] {
		settings := gobreaker.Settings{
			Name:        name,
			MaxRequests: maxRequests,
			Interval:    interval,
			Timeout:     timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
				return counts.Requests >= 3 && failureRatio >= 0.6
			},
			IsSuccessful: func(err error) bool {
				return err == nil || isTerminal(err)
			},
		}
		return gobreaker.NewCircuitBreaker[*Response](settings)
	}
}
