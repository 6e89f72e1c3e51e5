// Package wire implements the HTTP/1.1 subset spoken by eshttp on a single socket.
//
// Requests are framed by Request.Frames: one head frame, with the body inline when it is
// shorter than ChunkSize, otherwise followed by chunked transfer frames of at most ChunkSize
// bytes and a terminating zero chunk.
//
// Responses are read by a Decoder fed with whatever the socket returned:
//
//	var d wire.Decoder
//	for {
//		n, err := conn.Read(buf)
//		...
//		progress, err := d.Feed(buf[:n])
//		if err != nil {
//			// *StatusError for terminal statuses, *ParseError for malformed input
//		}
//		if progress == wire.Done {
//			break
//		}
//	}
//	resp := d.Response()
//
// Only the statuses 200, 201 and 302 are successful. 400, 403 and 500 end the response at the
// status line with a *StatusError. 404 is decoded in full but marks the connection for closing.
// Any other status is an error.
package wire
