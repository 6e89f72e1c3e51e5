// Package coarsetime provides a clock refreshed every 50ms by a background ticker, for timestamps
// where that resolution is enough, such as connection idle times.
//
// The ticker starts on first use.
package coarsetime

import (
	"sync"
	"sync/atomic"
	"time"
)

const Resolution = 50 * time.Millisecond

var (
	now   atomic.Pointer[time.Time]
	start sync.Once
)

func run() {
	t := time.Now()
	now.Store(&t)

	ticker := time.NewTicker(Resolution)
	go func() {
		for tick := range ticker.C {
			now.Store(&tick)
		}
	}()
}

// Now returns the current time, late by at most Resolution.
func Now() time.Time {
	start.Do(run)
	return *now.Load()
}
