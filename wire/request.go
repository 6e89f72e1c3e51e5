package wire

import (
	"net/textproto"
	"slices"
	"strconv"
	"strings"
)

// ChunkSize is the body size from which requests switch to chunked transfer encoding, and
// the largest chunk sent.
const ChunkSize = 1024

const crlf = "\r\n"

// Content types accepted by the transport.
const (
	ContentTypeJSON       = "application/json"
	ContentTypeURLEncoded = "application/x-www-form-urlencoded"
	ContentTypeText       = "text/plain"
)

var lastChunk = []byte("0\r\n\r\n")

// Request is one HTTP/1.1 request to frame.
type Request struct {
	Method    string
	Target    string // request-target, for example /index/_search
	Host      string // Host header value
	KeepAlive bool

	// Header holds extra header fields, written in key order.
	Header textproto.MIMEHeader

	// ContentType is only sent with a body. Empty means ContentTypeJSON.
	ContentType string

	// Body is sent when non-nil, even if empty.
	Body []byte
}

// Validate checks that the method and target can be written on the request line.
func (r *Request) Validate() error {
	if !validToken(r.Method) {
		return &RequestError{Field: "method", Value: r.Method}
	}
	if !validToken(r.Target) {
		return &RequestError{Field: "target", Value: r.Target}
	}
	return nil
}

// validToken reports whether s is non-empty and free of spaces and control characters.
func validToken(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if c := s[i]; c <= ' ' || c == 0x7f {
			return false
		}
	}
	return true
}

// JoinTarget appends suffix to base with exactly one slash between them. An empty suffix
// yields base.
func JoinTarget(base, suffix string) string {
	if base == "" {
		base = "/"
	}
	suffix = strings.TrimPrefix(suffix, "/")
	if suffix == "" {
		return base
	}
	if base[len(base)-1] != '/' {
		return base + "/" + suffix
	}
	return base + suffix
}

// Chunked reports whether the body is sent with chunked transfer encoding.
func (r *Request) Chunked() bool {
	return len(r.Body) >= ChunkSize
}

// AppendHead appends the request line and headers to dst. Bodies shorter than ChunkSize are
// appended after the headers.
func (r *Request) AppendHead(dst []byte) []byte {
	dst = append(dst, r.Method...)
	dst = append(dst, ' ')
	dst = append(dst, r.Target...)
	dst = append(dst, " HTTP/1.1\r\n"...)

	dst = appendField(dst, "Host", r.Host)
	dst = appendField(dst, "Accept", "*/*")
	if r.KeepAlive {
		dst = appendField(dst, "Connection", "Keep-Alive")
	}

	keys := make([]string, 0, len(r.Header))
	for k := range r.Header {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		for _, v := range r.Header[k] {
			dst = appendField(dst, k, v)
		}
	}

	if r.Body == nil {
		return append(dst, crlf...)
	}

	contentType := r.ContentType
	if contentType == "" {
		contentType = ContentTypeJSON
	}
	dst = appendField(dst, "Content-Type", contentType)

	if r.Chunked() {
		dst = appendField(dst, "Transfer-Encoding", "chunked")
		return append(dst, crlf...)
	}

	dst = append(dst, "Content-Length: "...)
	dst = strconv.AppendInt(dst, int64(len(r.Body)), 10)
	dst = append(dst, crlf+crlf...)
	return append(dst, r.Body...)
}

// Frames returns the byte frames of the request in sending order, each meant for one write
// call: the head (with an inline body), then for chunked bodies one frame per chunk and the
// terminating zero chunk.
func (r *Request) Frames() [][]byte {
	frames := [][]byte{r.AppendHead(nil)}
	if !r.Chunked() {
		return frames
	}

	for body := r.Body; len(body) > 0; {
		n := min(len(body), ChunkSize)
		frames = append(frames, AppendChunk(nil, body[:n]))
		body = body[n:]
	}
	return append(frames, lastChunk)
}

// AppendChunk appends p framed as one chunk: hex size, CRLF, data, CRLF.
func AppendChunk(dst, p []byte) []byte {
	dst = strconv.AppendUint(dst, uint64(len(p)), 16)
	dst = append(dst, crlf...)
	dst = append(dst, p...)
	return append(dst, crlf...)
}

func appendField(dst []byte, key, value string) []byte {
	dst = append(dst, key...)
	dst = append(dst, ": "...)
	dst = append(dst, value...)
	return append(dst, crlf...)
}
