package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/pior/eshttp/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUseColor(t *testing.T) {
	var buf bytes.Buffer

	for mode, want := range map[string]bool{
		ColorAlways: true,
		ColorNever:  false,
		ColorAuto:   false, // not a terminal
		"":          false,
	} {
		got, err := useColor(mode, &buf)
		require.NoError(t, err, mode)
		assert.Equal(t, want, got, mode)
	}

	_, err := useColor("sometimes", &buf)
	assert.Error(t, err)
}

const nodeSchema = `{
	"type": "object",
	"required": ["name", "status"],
	"properties": {
		"name": {"type": "string"},
		"status": {"type": "integer", "minimum": 200, "maximum": 299}
	}
}`

func TestSchemaValidate(t *testing.T) {
	schema, err := CompileSchema([]byte(nodeSchema))
	require.NoError(t, err)

	doc, err := document.ParseObject([]byte(`{"name":"node-1"}`))
	require.NoError(t, err)
	doc.Set("status", document.Int(200))
	assert.NoError(t, schema.Validate(doc))

	doc.Set("status", document.Int(404))
	var schemaErr *SchemaError
	assert.ErrorAs(t, schema.Validate(doc), &schemaErr)

	doc, err = document.ParseObject([]byte(`{"status":200}`))
	require.NoError(t, err)
	assert.ErrorAs(t, schema.Validate(doc), &schemaErr)
}

func TestCompileSchemaInvalid(t *testing.T) {
	_, err := CompileSchema([]byte(`{"type": 12}`))
	assert.Error(t, err)

	_, err = CompileSchema([]byte(`{"type":`))
	assert.Error(t, err)
}

func TestLatencySummary(t *testing.T) {
	lat := newLatencies()
	for i := 1; i <= 100; i++ {
		var err error
		if i%10 == 0 {
			err = assert.AnError
		}
		lat.record(time.Duration(i)*time.Millisecond, err)
	}

	s := lat.summary()
	assert.Equal(t, 100, s.Requests)
	assert.Equal(t, 10, s.Errors)
	assert.InDelta(t, time.Millisecond, s.Min, float64(10*time.Microsecond))
	assert.InDelta(t, 50*time.Millisecond, s.P50, float64(100*time.Microsecond))
	assert.InDelta(t, 90*time.Millisecond, s.P90, float64(100*time.Microsecond))
	assert.InDelta(t, 100*time.Millisecond, s.Max, float64(100*time.Microsecond))

	var buf bytes.Buffer
	s.print(&buf)
	assert.Contains(t, buf.String(), "requests: 100  errors: 10\n")
	assert.Contains(t, buf.String(), "latency: min=")
}
