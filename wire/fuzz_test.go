package wire

import (
	"bytes"
	"testing"
)

func FuzzDecoderSplit(f *testing.F) {
	f.Add([]byte("HTTP/1.1 200 OK\r\nContent-Length: 5\r\n\r\nhello"), 3)
	f.Add([]byte("HTTP/1.1 201 Created\r\nTransfer-Encoding: chunked\r\n\r\n5\r\nhello\r\n3;x=y\r\nabc\r\n0\r\n\r\n"), 7)
	f.Add([]byte("HTTP/1.1 404 Not Found\r\n\r\n"), 1)
	f.Add([]byte("HTTP/1.1 500 Internal Server Error\r\n\r\n"), 10)
	f.Add([]byte("HTTP/1.1 200 OK\r\nContent-Length: -1\r\n\r\n"), 2)
	f.Add([]byte("garbage"), 4)

	f.Fuzz(func(t *testing.T, data []byte, split int) {
		whole := &Decoder{}
		wantProgress, wantErr := whole.Feed(data)

		if split <= 0 || split > len(data) {
			split = 1
		}
		parts := &Decoder{}
		var progress Progress
		var err error
		for rest := data; len(rest) > 0 && progress != Done && err == nil; {
			n := min(split, len(rest))
			progress, err = parts.Feed(rest[:n])
			rest = rest[n:]
		}
		if len(data) == 0 {
			progress, err = parts.Feed(nil)
		}

		if (wantErr == nil) != (err == nil) {
			t.Fatalf("split %d changed the error: whole=%v split=%v", split, wantErr, err)
		}
		if wantProgress != progress {
			t.Fatalf("split %d changed the progress: whole=%v split=%v", split, wantProgress, progress)
		}
		if progress == Done {
			a, b := whole.Response(), parts.Response()
			if a.StatusCode != b.StatusCode || !bytes.Equal(a.Body, b.Body) {
				t.Fatalf("split %d changed the response: %d %q vs %d %q", split, a.StatusCode, a.Body, b.StatusCode, b.Body)
			}
		}
	})
}

func FuzzRequestFrames(f *testing.F) {
	f.Add("GET", "/", []byte(nil))
	f.Add("PUT", "/idx/_doc/1", []byte(`{"a":1}`))
	f.Add("POST", "/_bulk", bytes.Repeat([]byte("x"), 2500))

	f.Fuzz(func(t *testing.T, method, target string, body []byte) {
		r := &Request{Method: method, Target: target, Host: "localhost", Body: body}
		frames := r.Frames()

		if !bytes.HasPrefix(frames[0], []byte(method+" "+target+" HTTP/1.1\r\n")) {
			t.Fatalf("bad request line: %q", frames[0])
		}
		if !r.Chunked() {
			if len(frames) != 1 || !bytes.HasSuffix(frames[0], body) {
				t.Fatalf("inline body not appended: %d frames", len(frames))
			}
			return
		}

		var got []byte
		for _, frame := range frames[1 : len(frames)-1] {
			size := bytes.IndexByte(frame, '\r')
			chunk := frame[size+2 : len(frame)-2]
			if len(chunk) > ChunkSize {
				t.Fatalf("chunk of %d bytes", len(chunk))
			}
			got = append(got, chunk...)
		}
		if !bytes.Equal(body, got) {
			t.Fatal("chunks do not reassemble the body")
		}
		if string(frames[len(frames)-1]) != "0\r\n\r\n" {
			t.Fatalf("bad last chunk: %q", frames[len(frames)-1])
		}
	})
}
