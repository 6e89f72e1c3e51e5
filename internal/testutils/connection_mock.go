package testutils

import (
	"bytes"
	"io"
	"net"
	"sync"
	"time"
)

// ConnectionMock is a scripted net.Conn. Each Read returns bytes from at most one scripted
// segment, so a response split into segments arrives over several reads.
type ConnectionMock struct {
	mu       sync.Mutex
	segments [][]byte
	writeBuf bytes.Buffer
	writes   int
	closed   bool

	// ReadErr is returned once the segments are consumed. Defaults to io.EOF.
	ReadErr error

	// WriteFunc, when set, replaces the default write into the capture buffer.
	WriteFunc func(b []byte) (int, error)
}

// NewConnectionMock creates a mock connection whose reads return the given segments in order.
func NewConnectionMock(segments ...string) *ConnectionMock {
	m := &ConnectionMock{}
	for _, s := range segments {
		m.segments = append(m.segments, []byte(s))
	}
	return m
}

// Split cuts data into segments of at most size bytes.
func Split(data string, size int) []string {
	var out []string
	for len(data) > 0 {
		n := min(size, len(data))
		out = append(out, data[:n])
		data = data[n:]
	}
	return out
}

func (m *ConnectionMock) Read(b []byte) (n int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, net.ErrClosed
	}
	if len(m.segments) == 0 {
		if m.ReadErr != nil {
			return 0, m.ReadErr
		}
		return 0, io.EOF
	}

	n = copy(b, m.segments[0])
	m.segments[0] = m.segments[0][n:]
	if len(m.segments[0]) == 0 {
		m.segments = m.segments[1:]
	}
	return n, nil
}

func (m *ConnectionMock) Write(b []byte) (n int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.writes++
	if m.WriteFunc != nil {
		return m.WriteFunc(b)
	}
	if m.closed {
		return 0, net.ErrClosed
	}
	return m.writeBuf.Write(b)
}

func (m *ConnectionMock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *ConnectionMock) LocalAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0}
}

func (m *ConnectionMock) RemoteAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 9200}
}

func (m *ConnectionMock) SetDeadline(t time.Time) error      { return nil }
func (m *ConnectionMock) SetReadDeadline(t time.Time) error  { return nil }
func (m *ConnectionMock) SetWriteDeadline(t time.Time) error { return nil }

// GetWrittenRequest returns the raw request bytes written to the mock connection
func (m *ConnectionMock) GetWrittenRequest() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writeBuf.String()
}

// Writes returns the number of Write calls.
func (m *ConnectionMock) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// Closed reports whether Close was called.
func (m *ConnectionMock) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
