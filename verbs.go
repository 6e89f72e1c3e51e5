package eshttp

import (
	"context"

	"github.com/pior/eshttp/document"
	"github.com/pior/eshttp/wire"
)

// HTTP methods used by the verb helpers.
const (
	MethodGet    = "GET"
	MethodPut    = "PUT"
	MethodPost   = "POST"
	MethodDelete = "DELETE"
)

// Get fetches the document at path.
func (t *Transport) Get(ctx context.Context, path string) (*document.Object, error) {
	_, doc, err := t.RequestDocument(ctx, MethodGet, path, nil, "")
	return doc, err
}

// Put sends body as JSON to path. A nil body sends no content.
func (t *Transport) Put(ctx context.Context, path string, body *document.Object) (*document.Object, error) {
	return t.send(ctx, MethodPut, path, body)
}

// Post sends body as JSON to path. A nil body sends no content.
func (t *Transport) Post(ctx context.Context, path string, body *document.Object) (*document.Object, error) {
	return t.send(ctx, MethodPost, path, body)
}

// Delete deletes the resource at path.
func (t *Transport) Delete(ctx context.Context, path string) (*document.Object, error) {
	_, doc, err := t.RequestDocument(ctx, MethodDelete, path, nil, "")
	return doc, err
}

// RawPost posts form as an URL-encoded body, as the scroll continuation endpoints accept.
func (t *Transport) RawPost(ctx context.Context, path, form string) (*document.Object, error) {
	_, doc, err := t.RequestDocument(ctx, MethodPost, path, []byte(form), wire.ContentTypeURLEncoded)
	return doc, err
}

var bodyBuffers = newByteBufferPool(1024)

func (t *Transport) send(ctx context.Context, method, path string, body *document.Object) (*document.Object, error) {
	if body == nil {
		_, doc, err := t.RequestDocument(ctx, method, path, nil, "")
		return doc, err
	}

	buf := bodyBuffers.Get()
	defer bodyBuffers.Put(buf)
	*buf = document.AppendCompact((*buf)[:0], document.ObjectValue(body))

	_, doc, err := t.RequestDocument(ctx, method, path, *buf, wire.ContentTypeJSON)
	return doc, err
}
