package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pior/eshttp"
	"gopkg.in/yaml.v3"
)

// FileConfig is the content of a --config file.
//
//	target: http://localhost:9200
//	keep_alive: true
//	connect_timeout: 2s
//	requests_per_second: 50
type FileConfig struct {
	Target             string        `yaml:"target"`
	KeepAlive          bool          `yaml:"keep_alive"`
	KeepAliveTimeout   time.Duration `yaml:"keep_alive_timeout"`
	ConnectTimeout     time.Duration `yaml:"connect_timeout"`
	ResponseTimeout    time.Duration `yaml:"response_timeout"`
	MaxConnectAttempts int           `yaml:"max_connect_attempts"`
	RequestsPerSecond  float64       `yaml:"requests_per_second"`
	Burst              int           `yaml:"burst"`
	TagRequests        bool          `yaml:"tag_requests"`
}

// LoadConfig reads a YAML config file.
func LoadConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig parses YAML config data. Unknown fields are rejected. Empty data yields an empty config.
func ParseConfig(data []byte) (*FileConfig, error) {
	var cfg FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// TransportConfig converts the file settings to a transport config.
func (c *FileConfig) TransportConfig() eshttp.Config {
	return eshttp.Config{
		KeepAlive:          c.KeepAlive,
		KeepAliveTimeout:   c.KeepAliveTimeout,
		ConnectTimeout:     c.ConnectTimeout,
		ResponseTimeout:    c.ResponseTimeout,
		MaxConnectAttempts: c.MaxConnectAttempts,
		RequestsPerSecond:  c.RequestsPerSecond,
		Burst:              c.Burst,
		TagRequests:        c.TagRequests,
	}
}
