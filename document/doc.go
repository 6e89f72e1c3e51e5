// Package document implements the JSON document model used by eshttp: a Value tagged union
// with Object and Array containers, a zero-copy parser and a compact/indented writer.
//
// # Parsing
//
// Parse builds a tree directly over the input bytes. Scalars reference sub-slices of the
// input, and string escape sequences are kept as they appear on the wire:
//
//	v, err := document.Parse([]byte(`{"name":"a\"b","count":2}`))
//	obj, _ := v.AsObject()
//	name, _ := obj.Get("name")
//	s, _ := name.AsString() // `a\"b`, not `a"b`
//
// Strings built in Go with String are escaped when written, so writing and reading back a
// string holding a quote does not return the original text.
//
// # Equality
//
// Value.Equal compares structurally. Numbers compare by numeric value, so 1 and 1.0 are equal.
// Arrays compare as multisets: [1,2] equals [2,1] but not [1,2,2]. WeakEqual also treats null
// as equal to 0, false, "" and empty containers.
//
// # Errors
//
// Malformed text yields *SyntaxError. Typed accessors (AsString, AsInt, AsFloat, AsObject,
// AsArray) return *TypeError when used on a value of another kind.
package document
