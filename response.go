package eshttp

import (
	"net/textproto"

	"github.com/pior/eshttp/document"
	"github.com/tidwall/gjson"
)

// StatusMember is the member added to response documents to carry the HTTP status code.
const StatusMember = "status"

// Response is a response read from the target.
type Response struct {
	StatusCode int
	Header     textproto.MIMEHeader
	Body       []byte
}

// Document parses the body as a JSON object and sets its "status" member to the status code.
// An empty body yields an object holding only the status.
//
// The object references the response body.
func (r *Response) Document() (*document.Object, error) {
	obj := document.NewObject()
	if len(r.Body) > 0 {
		var err error
		obj, err = document.ParseObject(r.Body)
		if err != nil {
			return nil, err
		}
	}
	obj.Set(StatusMember, document.Int(int64(r.StatusCode)))
	return obj, nil
}

// Lookup reads the value at a gjson path, such as "hits.total.value", straight from the body
// without building a document.
func (r *Response) Lookup(path string) gjson.Result {
	return gjson.GetBytes(r.Body, path)
}
