package eshttp

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/pior/eshttp/wire"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCircuitBreakerConfig(t *testing.T) {
	cb := NewCircuitBreakerConfig(1, time.Second, time.Second)("10.0.0.1:9200")
	require.NotNil(t, cb)

	assert.Equal(t, "10.0.0.1:9200", cb.Name())
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestCircuitBreaker_NeedsThreeRequests(t *testing.T) {
	cb := NewCircuitBreakerConfig(1, time.Minute, time.Minute)("test")

	fail := func() (*Response, error) { return nil, errors.New("connection refused") }

	// Two failures are not enough data
	for range 2 {
		_, err := cb.Execute(fail)
		require.Error(t, err)
		assert.Equal(t, gobreaker.StateClosed, cb.State())
	}

	_, err := cb.Execute(fail)
	require.Error(t, err)
	assert.Equal(t, gobreaker.StateOpen, cb.State())

	_, err = cb.Execute(fail)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}

func TestCircuitBreaker_FailureRatio(t *testing.T) {
	cb := NewCircuitBreakerConfig(1, time.Minute, time.Minute)("test")

	ok := func() (*Response, error) { return &Response{StatusCode: 200}, nil }
	fail := func() (*Response, error) { return nil, errors.New("broken pipe") }

	// 1 failure out of 3 stays below 60%
	_, _ = cb.Execute(ok)
	_, _ = cb.Execute(ok)
	_, _ = cb.Execute(fail)
	assert.Equal(t, gobreaker.StateClosed, cb.State())

	// 3 out of 5
	_, _ = cb.Execute(fail)
	assert.Equal(t, gobreaker.StateClosed, cb.State())
	_, _ = cb.Execute(fail)
	assert.Equal(t, gobreaker.StateOpen, cb.State())
}

func TestCircuitBreaker_TerminalStatusIsSuccess(t *testing.T) {
	cb := NewCircuitBreakerConfig(1, time.Minute, time.Minute)("test")

	for _, code := range []int{400, 403, 500, 400, 500} {
		resp, err := cb.Execute(func() (*Response, error) {
			return &Response{StatusCode: code}, fmt.Errorf("request: %w", &wire.StatusError{Code: code})
		})
		require.Error(t, err)
		assert.Equal(t, code, resp.StatusCode)
	}

	assert.Equal(t, gobreaker.StateClosed, cb.State())
	assert.Equal(t, uint32(0), cb.Counts().TotalFailures)
}

func TestCircuitBreaker_UnhandledStatusIsFailure(t *testing.T) {
	cb := NewCircuitBreakerConfig(1, time.Minute, time.Minute)("test")

	for range 3 {
		_, _ = cb.Execute(func() (*Response, error) {
			return nil, &wire.StatusError{Code: 503}
		})
	}
	assert.Equal(t, gobreaker.StateOpen, cb.State())
}
