package document

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrMissingInstance is returned when a value is tagged as a container but holds none.
	ErrMissingInstance = errors.New("document: container instance missing")

	// ErrAlreadySet is returned when a value holding a container is set again.
	ErrAlreadySet = errors.New("document: value already holds a container")
)

// SyntaxError is a structural fault in JSON text.
type SyntaxError struct {
	Offset  int // byte offset in the input where the fault was detected
	Message string
}

func (e *SyntaxError) Error() string {
	return "document: syntax error at offset " + strconv.Itoa(e.Offset) + ": " + e.Message
}

// TypeError is returned by a typed accessor used on a value of another kind.
type TypeError struct {
	Want Kind
	Got  Kind
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("document: not %s (value is %s)", article(e.Want), e.Got)
}

func article(k Kind) string {
	switch k {
	case KindObject, KindArray:
		return "an " + k.String()
	}
	return "a " + k.String()
}

// NumberError is returned when numeric text cannot be interpreted.
type NumberError struct {
	Text string
	Err  error
}

func (e *NumberError) Error() string {
	return fmt.Sprintf("document: invalid number %q", e.Text)
}

func (e *NumberError) Unwrap() error { return e.Err }

// KeyError is returned when a required member is absent.
type KeyError struct {
	Key string
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("document: member %q not found", e.Key)
}

// DuplicateKeyError is returned when merging objects that share a key.
type DuplicateKeyError struct {
	Key string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("document: cannot merge objects, key %q appears in both", e.Key)
}
