package wire

import (
	"bytes"
	"net/textproto"
	"strconv"
	"strings"
)

// Progress tells the reader whether the response is complete.
type Progress uint8

const (
	NeedMoreData Progress = iota
	Done
)

func (p Progress) String() string {
	if p == Done {
		return "done"
	}
	return "need more data"
}

// maxLineLength bounds status, header and chunk size lines.
const maxLineLength = 64 * 1024

// preallocLimit caps the body buffer reserved up front from Content-Length.
const preallocLimit = 1 << 20

// Response is a decoded HTTP response.
type Response struct {
	Proto      string // HTTP/1.1
	StatusCode int
	Reason     string
	Header     textproto.MIMEHeader
	Body       []byte

	// Close is set when the connection must not be reused after this response.
	Close bool
}

type decodeState uint8

const (
	stateStatusLine decodeState = iota
	stateHeaders
	stateBody
	stateChunkSize
	stateChunkData
	stateChunkEnd
	stateTrailers
	stateDone
)

// Decoder incrementally decodes one HTTP/1.1 response from arbitrarily split input.
//
// The zero value is ready to use. A Decoder is not safe for concurrent use.
type Decoder struct {
	buf   []byte
	pos   int // start of unconsumed input in buf
	state decodeState

	remaining int64 // body or chunk bytes still expected
	resp      Response
	err       error
}

// Reset prepares d for the next response, keeping its buffer.
func (d *Decoder) Reset() {
	*d = Decoder{buf: d.buf[:0]}
}

// Response returns the decoded response. It is complete once Feed has returned Done.
func (d *Decoder) Response() *Response {
	r := d.resp
	return &r
}

// Feed adds p to the input and decodes as far as possible.
//
// It returns NeedMoreData until the whole response has been seen, then Done. Errors are
// sticky: *StatusError when the status line carries a status that ends the exchange,
// *ParseError for malformed input. Input after the end of the response is ignored.
func (d *Decoder) Feed(p []byte) (Progress, error) {
	if d.err != nil || d.state == stateDone {
		return Done, d.err
	}

	if d.pos > 0 {
		d.buf = append(d.buf[:0], d.buf[d.pos:]...)
		d.pos = 0
	}
	d.buf = append(d.buf, p...)

	for {
		var (
			advanced bool
			err      error
		)

		switch d.state {
		case stateStatusLine:
			advanced, err = d.statusLine()
		case stateHeaders:
			advanced, err = d.headerLine()
		case stateBody:
			advanced = d.body()
		case stateChunkSize:
			advanced, err = d.chunkSize()
		case stateChunkData:
			advanced = d.chunkData()
		case stateChunkEnd:
			advanced, err = d.chunkEnd()
		case stateTrailers:
			advanced, err = d.trailerLine()
		case stateDone:
			return Done, nil
		}

		if err != nil {
			d.err = err
			d.state = stateDone
			return Done, err
		}
		if !advanced {
			return NeedMoreData, nil
		}
	}
}

// line returns the next CRLF terminated line without its terminator.
func (d *Decoder) line() (string, bool, error) {
	data := d.buf[d.pos:]
	i := bytes.IndexByte(data, '\n')
	if i > maxLineLength || (i < 0 && len(data) > maxLineLength) {
		return "", false, &ParseError{Message: "line too long"}
	}
	if i < 0 {
		return "", false, nil
	}
	d.pos += i + 1
	return string(bytes.TrimSuffix(data[:i], []byte{'\r'})), true, nil
}

func (d *Decoder) statusLine() (bool, error) {
	line, ok, err := d.line()
	if !ok {
		return false, err
	}

	proto, rest, _ := strings.Cut(line, " ")
	if !strings.HasPrefix(proto, "HTTP/") {
		return false, &ParseError{Message: "malformed status line " + strconv.Quote(line)}
	}

	codeText, reason, _ := strings.Cut(strings.TrimLeft(rest, " "), " ")
	code, err := strconv.Atoi(codeText)
	if err != nil {
		return false, &ParseError{Message: "malformed status code " + strconv.Quote(codeText), Err: err}
	}

	d.resp.Proto = proto
	d.resp.StatusCode = code
	d.resp.Reason = reason
	d.resp.Header = make(textproto.MIMEHeader)

	switch dispatchStatus(code) {
	case dispatchTerminal, dispatchUnhandled:
		d.resp.Close = true
		return false, &StatusError{Code: code, Reason: reason}
	case dispatchNotFound:
		d.resp.Close = true
	}

	d.state = stateHeaders
	return true, nil
}

func (d *Decoder) headerLine() (bool, error) {
	line, ok, err := d.line()
	if !ok {
		return false, err
	}

	if line == "" {
		return true, d.startBody()
	}

	key, value, found := strings.Cut(line, ":")
	if !found || key == "" {
		return false, &ParseError{Message: "malformed header line " + strconv.Quote(line)}
	}
	d.resp.Header.Add(textproto.CanonicalMIMEHeaderKey(strings.TrimSpace(key)), strings.TrimSpace(value))
	return true, nil
}

// startBody picks the body framing. Content-Length wins over chunked encoding.
func (d *Decoder) startBody() error {
	if strings.EqualFold(d.resp.Header.Get("Connection"), "close") {
		d.resp.Close = true
	}

	if text := d.resp.Header.Get("Content-Length"); text != "" {
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil || n < 0 {
			return &ParseError{Message: "invalid Content-Length " + strconv.Quote(text), Err: err}
		}
		d.resp.Body = make([]byte, 0, min(n, preallocLimit))
		d.remaining = n
		d.state = stateBody
		if n == 0 {
			d.state = stateDone
		}
		return nil
	}

	if isChunked(d.resp.Header) {
		d.resp.Body = []byte{}
		d.state = stateChunkSize
		return nil
	}

	return &ParseError{Message: "response has neither Content-Length nor chunked Transfer-Encoding"}
}

func isChunked(h textproto.MIMEHeader) bool {
	values := h.Values("Transfer-Encoding")
	if len(values) == 0 {
		return false
	}
	codings := strings.Split(values[len(values)-1], ",")
	return strings.EqualFold(strings.TrimSpace(codings[len(codings)-1]), "chunked")
}

// take moves up to remaining buffered bytes into the body.
func (d *Decoder) take() {
	n := min(int64(len(d.buf)-d.pos), d.remaining)
	d.resp.Body = append(d.resp.Body, d.buf[d.pos:d.pos+int(n)]...)
	d.pos += int(n)
	d.remaining -= n
}

func (d *Decoder) body() bool {
	d.take()
	if d.remaining > 0 {
		return false
	}
	d.state = stateDone
	return true
}

func (d *Decoder) chunkSize() (bool, error) {
	line, ok, err := d.line()
	if !ok {
		return false, err
	}

	text, _, _ := strings.Cut(line, ";") // chunk extensions are ignored
	text = strings.TrimSpace(text)
	size, err := strconv.ParseInt(text, 16, 64)
	if err != nil || size < 0 {
		return false, &ParseError{Message: "invalid chunk size " + strconv.Quote(text), Err: err}
	}

	if size == 0 {
		d.state = stateTrailers
		return true, nil
	}
	d.remaining = size
	d.state = stateChunkData
	return true, nil
}

func (d *Decoder) chunkData() bool {
	d.take()
	if d.remaining > 0 {
		return false
	}
	d.state = stateChunkEnd
	return true
}

func (d *Decoder) chunkEnd() (bool, error) {
	line, ok, err := d.line()
	if !ok {
		return false, err
	}
	if line != "" {
		return false, &ParseError{Message: "missing CRLF after chunk data"}
	}
	d.state = stateChunkSize
	return true, nil
}

func (d *Decoder) trailerLine() (bool, error) {
	line, ok, err := d.line()
	if !ok {
		return false, err
	}
	if line == "" {
		d.state = stateDone
	}
	return true, nil
}
