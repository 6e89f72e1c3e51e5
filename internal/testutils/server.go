package testutils

import (
	"bufio"
	"io"
	"net"
	"net/http"
	"sync"
	"testing"
)

// RecordedRequest is a request received by Server.
type RecordedRequest struct {
	Conn             int // index of the connection it arrived on
	Method           string
	Target           string
	Host             string
	Header           http.Header
	TransferEncoding []string
	ContentLength    int64
	Body             []byte
}

// Server is an in-process HTTP/1.1 server on 127.0.0.1 that answers each request with the
// next scripted raw response. An empty response sends nothing and keeps the connection open.
// When the script is exhausted it closes the connection.
type Server struct {
	ln net.Listener

	mu        sync.Mutex
	responses []string
	requests  []RecordedRequest
	conns     int
}

// NewServer starts a server and stops it when the test ends.
func NewServer(t testing.TB, responses ...string) *Server {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	s := &Server{ln: ln, responses: responses}
	go s.serve()
	t.Cleanup(func() { _ = ln.Close() })
	return s
}

// Addr returns host:port of the listener.
func (s *Server) Addr() string {
	return s.ln.Addr().String()
}

// Push appends responses to the script.
func (s *Server) Push(responses ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses = append(s.responses, responses...)
}

// Conns returns the number of accepted connections.
func (s *Server) Conns() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conns
}

// Requests returns the requests received so far.
func (s *Server) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedRequest(nil), s.requests...)
}

func (s *Server) serve() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}

		s.mu.Lock()
		index := s.conns
		s.conns++
		s.mu.Unlock()

		go s.handle(index, conn)
	}
}

func (s *Server) handle(index int, conn net.Conn) {
	defer conn.Close()
	reader := bufio.NewReader(conn)

	for {
		req, err := http.ReadRequest(reader)
		if err != nil {
			return
		}
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return
		}

		s.mu.Lock()
		s.requests = append(s.requests, RecordedRequest{
			Conn:             index,
			Method:           req.Method,
			Target:           req.RequestURI,
			Host:             req.Host,
			Header:           req.Header,
			TransferEncoding: req.TransferEncoding,
			ContentLength:    req.ContentLength,
			Body:             body,
		})
		if len(s.responses) == 0 {
			s.mu.Unlock()
			return
		}
		response := s.responses[0]
		s.responses = s.responses[1:]
		s.mu.Unlock()

		if response == "" {
			continue
		}
		if _, err := io.WriteString(conn, response); err != nil {
			return
		}
	}
}
