package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	data := []byte(`
target: http://es.local:9200/logs
keep_alive: true
keep_alive_timeout: 30s
connect_timeout: 2s
response_timeout: 1m
max_connect_attempts: 3
requests_per_second: 50
burst: 5
tag_requests: true
`)
	cfg, err := ParseConfig(data)
	require.NoError(t, err)

	assert.Equal(t, "http://es.local:9200/logs", cfg.Target)

	tc := cfg.TransportConfig()
	assert.True(t, tc.KeepAlive)
	assert.Equal(t, 30*time.Second, tc.KeepAliveTimeout)
	assert.Equal(t, 2*time.Second, tc.ConnectTimeout)
	assert.Equal(t, time.Minute, tc.ResponseTimeout)
	assert.Equal(t, 3, tc.MaxConnectAttempts)
	assert.Equal(t, 50.0, tc.RequestsPerSecond)
	assert.Equal(t, 5, tc.Burst)
	assert.True(t, tc.TagRequests)
}

func TestParseConfigEmpty(t *testing.T) {
	for _, data := range []string{"", "\n", "# nothing\n"} {
		cfg, err := ParseConfig([]byte(data))
		require.NoError(t, err)
		assert.Equal(t, FileConfig{}, *cfg)
	}
}

func TestParseConfigErrors(t *testing.T) {
	_, err := ParseConfig([]byte("targett: localhost\n"))
	assert.Error(t, err, "unknown field")

	_, err = ParseConfig([]byte("connect_timeout: soon\n"))
	assert.Error(t, err, "bad duration")
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docreq.yaml")
	require.NoError(t, os.WriteFile(path, []byte("target: localhost:9200\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9200", cfg.Target)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
