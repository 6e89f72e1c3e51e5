package document

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompactRoundTrip(t *testing.T) {
	in := `{"a":1,"b":[true,null,"x\"y"],"c":{}}`
	v := mustParse(t, in)
	assert.Equal(t, in, v.String())

	again := mustParse(t, v.String())
	assert.True(t, v.Equal(again))
}

func TestCompactKeysSorted(t *testing.T) {
	v := mustParse(t, `{"b":1,"a":2}`)
	assert.Equal(t, `{"a":2,"b":1}`, v.String())
}

func TestBuiltStringsAreEscaped(t *testing.T) {
	o := NewObject()
	o.Set("q", String(`say "hi"`))
	o.Set("nl", String("a\nb\x01"))

	assert.Equal(t, `{"nl":"a\nb\u0001","q":"say \"hi\""}`, ObjectValue(o).String())
}

func TestEscapedTextIsNotDecodedOnRead(t *testing.T) {
	o := NewObject()
	o.Set("s", String(`a"b`))

	back, err := ParseObject([]byte(ObjectValue(o).String()))
	require.NoError(t, err)

	s, _ := back.Get("s")
	text, err := s.AsString()
	require.NoError(t, err)
	assert.Equal(t, `a\"b`, text)
	assert.NotEqual(t, `a"b`, text)
}

func TestPretty(t *testing.T) {
	v := mustParse(t, `{"a":1,"b":[true,{}],"c":{"d":"x"}}`)

	want := "{\n" +
		"\t\"a\": 1,\n" +
		"\t\"b\": [\n" +
		"\t\ttrue,\n" +
		"\t\t{}\n" +
		"\t],\n" +
		"\t\"c\": {\n" +
		"\t\t\"d\": \"x\"\n" +
		"\t}\n" +
		"}"
	assert.Equal(t, want, Pretty(v))
	assert.Equal(t, "null", Pretty(Null()))
	assert.Equal(t, "[]", Pretty(ArrayValue(NewArray())))
}

func TestColoredPrinter(t *testing.T) {
	v := mustParse(t, `{"a":1}`)

	out := NewPrinter(true).Sprint(v)
	assert.Contains(t, out, "\x1b[")

	plain := NewPrinter(false).Sprint(v)
	assert.NotContains(t, plain, "\x1b[")
	assert.Equal(t, Pretty(v), plain)

	stripped := out
	for strings.Contains(stripped, "\x1b[") {
		i := strings.Index(stripped, "\x1b[")
		j := strings.IndexByte(stripped[i:], 'm')
		stripped = stripped[:i] + stripped[i+j+1:]
	}
	assert.Equal(t, plain, stripped)
}

func TestBuiltKeysAreEscaped(t *testing.T) {
	o := NewObject()
	o.Set(`k"q`, Int(1))
	o.Set("tab\there", Int(2))
	o.Set("plain", Int(3))

	out := o.String()
	assert.Equal(t, `{"k\"q":1,"plain":3,"tab\there":2}`, out)

	again, err := ParseObject([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, 3, again.Len())
	assert.True(t, again.Has(`k\"q`), "parsed keys stay in wire form")
	assert.Equal(t, out, again.String())

	assert.Contains(t, Pretty(ObjectValue(o)), "\t\"k\\\"q\": 1")

	o.Delete(`k"q`)
	o.Set(`k"q`, Int(4))
	assert.Equal(t, `{"k\"q":4,"plain":3,"tab\there":2}`, o.String())
}

func TestNilContainersWriteEmpty(t *testing.T) {
	assert.Equal(t, "{}", ObjectValue(nil).String())
	assert.Equal(t, "[]", ArrayValue(nil).String())
}
