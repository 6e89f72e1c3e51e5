package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/pior/eshttp/internal/testutils"
	"github.com/pior/eshttp/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func response(status, body string) string {
	return fmt.Sprintf("HTTP/1.1 %s\r\nContent-Type: application/json\r\nContent-Length: %d\r\n\r\n%s", status, len(body), body)
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestGetPrintsDocument(t *testing.T) {
	srv := testutils.NewServer(t, response("200 OK", `{"name":"node"}`))

	out, err := execute(t, srv.Addr(), "/", "--color=never")
	require.NoError(t, err)

	assert.Equal(t, "{\n\t\"name\": \"node\",\n\t\"status\": 200\n}\n", out)

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "GET", reqs[0].Method)
	assert.Equal(t, "/", reqs[0].Target)
}

func TestPostSendsData(t *testing.T) {
	srv := testutils.NewServer(t, response("201 Created", `{"result":"created"}`))

	out, err := execute(t, "http://"+srv.Addr()+"/logs", "_doc/1", "-X", "put", "-d", `{"msg":"hello"}`, "--color", "never")
	require.NoError(t, err)
	assert.Contains(t, out, "\"status\": 201")

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "PUT", reqs[0].Method)
	assert.Equal(t, "/logs/_doc/1", reqs[0].Target)
	assert.Equal(t, wire.ContentTypeJSON, reqs[0].Header.Get("Content-Type"))
	assert.Equal(t, `{"msg":"hello"}`, string(reqs[0].Body))
}

func TestInvalidDataIsRejectedBeforeSending(t *testing.T) {
	srv := testutils.NewServer(t)

	_, err := execute(t, srv.Addr(), "/", "-d", `{"msg":`)
	require.Error(t, err)
	assert.Equal(t, 0, srv.Conns())
}

func TestExtract(t *testing.T) {
	srv := testutils.NewServer(t, response("200 OK", `{"hits":{"total":{"value":3}}}`))

	out, err := execute(t, srv.Addr(), "/_search", "--extract", "hits.total.value")
	require.NoError(t, err)
	assert.Equal(t, "3\n", out)
}

func TestExtractMissingPath(t *testing.T) {
	srv := testutils.NewServer(t, response("200 OK", `{}`))

	_, err := execute(t, srv.Addr(), "/", "-e", "hits.total")
	assert.ErrorContains(t, err, `path "hits.total" not found`)
}

func TestTerminalStatusFails(t *testing.T) {
	srv := testutils.NewServer(t, response("400 Bad Request", `{"error":"parse"}`))

	_, err := execute(t, srv.Addr(), "/")

	var statusErr *wire.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, 400, statusErr.Code)
}

func TestSchemaFlag(t *testing.T) {
	schemaPath := filepath.Join(t.TempDir(), "schema.json")
	require.NoError(t, os.WriteFile(schemaPath, []byte(nodeSchema), 0o600))

	srv := testutils.NewServer(t, response("200 OK", `{"name":"node"}`))
	_, err := execute(t, srv.Addr(), "/", "--schema", schemaPath)
	require.NoError(t, err)

	srv = testutils.NewServer(t, response("200 OK", `{"name":1}`))
	_, err = execute(t, srv.Addr(), "/", "--schema", schemaPath)
	var schemaErr *SchemaError
	assert.ErrorAs(t, err, &schemaErr)
}

func TestRepeatPrintsSummary(t *testing.T) {
	srv := testutils.NewServer(t,
		response("200 OK", `{}`),
		response("200 OK", `{}`),
		response("200 OK", `{}`),
	)

	out, err := execute(t, srv.Addr(), "/", "-n", "3", "--keep-alive")
	require.NoError(t, err)

	assert.Contains(t, out, "requests: 3  errors: 0\n")
	assert.Equal(t, 1, srv.Conns())
	assert.Len(t, srv.Requests(), 3)
}

func TestTargetFromConfigFile(t *testing.T) {
	srv := testutils.NewServer(t, response("200 OK", `{"ok":true}`))

	path := filepath.Join(t.TempDir(), "docreq.yaml")
	config := fmt.Sprintf("target: http://%s/base\ntag_requests: true\n", srv.Addr())
	require.NoError(t, os.WriteFile(path, []byte(config), 0o600))

	out, err := execute(t, "--config", path, "_stats", "--color=never")
	require.NoError(t, err)
	assert.Contains(t, out, "\"ok\": true")

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/base/_stats", reqs[0].Target)
	assert.NotEmpty(t, reqs[0].Header.Get("X-Opaque-Id"))
}

func TestUsageErrors(t *testing.T) {
	_, err := execute(t, "/")
	assert.ErrorContains(t, err, "no target")

	_, err = execute(t, "localhost:9200", "/", "-n", "0")
	assert.ErrorContains(t, err, "invalid repeat count")

	_, err = execute(t, "localhost:9200", "/", "--color", "sometimes")
	assert.ErrorContains(t, err, "invalid color mode")

	_, err = execute(t)
	assert.Error(t, err)
}
