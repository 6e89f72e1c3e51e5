package document

import "strconv"

const maxDepth = 1000

// Parse reads one JSON value from data.
//
// The returned tree references data: string, number and boolean values keep sub-slices of it
// and string escapes are left as they are. Do not modify data while the tree is in use, or
// Clone the tree first.
func Parse(data []byte) (Value, error) {
	p := &parser{data: data}
	v, err := p.value(0)
	if err != nil {
		return Value{}, err
	}
	if err := p.end(); err != nil {
		return Value{}, err
	}
	return v, nil
}

// ParseObject reads a JSON object from data. See Parse for the lifetime of the result.
func ParseObject(data []byte) (*Object, error) {
	p := &parser{data: data}
	p.skipSpace()
	if p.peek() != '{' {
		return nil, p.errorf("object does not start with {")
	}
	o, err := p.object(0)
	if err != nil {
		return nil, err
	}
	if err := p.end(); err != nil {
		return nil, err
	}
	return o, nil
}

// parser is a cursor over a borrowed byte span.
type parser struct {
	data []byte
	pos  int
}

func (p *parser) eof() bool { return p.pos >= len(p.data) }

// peek returns the byte under the cursor, or 0 at the end of input.
func (p *parser) peek() byte {
	if p.pos >= len(p.data) {
		return 0
	}
	return p.data[p.pos]
}

func (p *parser) advance() {
	if p.pos < len(p.data) {
		p.pos++
	}
}

func (p *parser) skipSpace() {
	for p.pos < len(p.data) && isSpace(p.data[p.pos]) {
		p.pos++
	}
}

func (p *parser) end() error {
	p.skipSpace()
	if !p.eof() {
		return p.errorf("unexpected data after top-level value")
	}
	return nil
}

func (p *parser) errorf(msg string) *SyntaxError {
	return &SyntaxError{Offset: p.pos, Message: msg}
}

func (p *parser) value(depth int) (Value, error) {
	p.skipSpace()
	if p.eof() {
		return Value{}, p.errorf("unexpected end of input")
	}

	switch c := p.peek(); c {
	case '}', ']', ',':
		// Empty slot: null, nothing consumed.
		return Value{}, nil

	case '{':
		o, err := p.object(depth + 1)
		if err != nil {
			return Value{}, err
		}
		return ObjectValue(o), nil

	case '[':
		a, err := p.array(depth + 1)
		if err != nil {
			return Value{}, err
		}
		return ArrayValue(a), nil

	case '"':
		s, err := p.quoted()
		if err != nil {
			return Value{}, err
		}
		return Value{kind: KindString, raw: s}, nil

	case 't', 'f':
		start := p.pos
		tok := p.token()
		if string(tok) != "true" && string(tok) != "false" {
			return Value{}, &SyntaxError{Offset: start, Message: "invalid literal " + string(tok)}
		}
		return Value{kind: KindBool, raw: tok}, nil

	case 'n':
		start := p.pos
		if tok := p.token(); string(tok) != "null" {
			return Value{}, &SyntaxError{Offset: start, Message: "invalid literal " + string(tok)}
		}
		return Value{}, nil

	default:
		if isNumberStart(c) {
			return Value{kind: KindNumber, raw: p.token()}, nil
		}
		return Value{}, p.errorf("unexpected character " + strconv.QuoteRune(rune(c)))
	}
}

// token scans a bare scalar up to the next delimiter.
func (p *parser) token() []byte {
	start := p.pos
	for p.pos < len(p.data) && !isDelimiter(p.data[p.pos]) {
		p.pos++
	}
	return p.data[start:p.pos]
}

// quoted scans a string starting at the opening quote and returns the raw text between the
// quotes. A quote preceded by an odd run of backslashes is part of the text.
func (p *parser) quoted() ([]byte, error) {
	open := p.pos
	p.advance()
	start := p.pos

	backslashes := 0
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if c == '"' && backslashes%2 == 0 {
			s := p.data[start:p.pos]
			p.advance()
			return s, nil
		}
		if c == '\\' {
			backslashes++
		} else {
			backslashes = 0
		}
		p.pos++
	}
	return nil, &SyntaxError{Offset: open, Message: "unterminated string"}
}

func (p *parser) object(depth int) (*Object, error) {
	if depth > maxDepth {
		return nil, p.errorf("maximum nesting depth exceeded")
	}
	open := p.pos
	p.advance() // {

	o := NewObject()
	for {
		p.skipSpace()
		switch p.peek() {
		case '}':
			p.advance()
			return o, nil
		case '"':
		default:
			if p.eof() {
				return nil, &SyntaxError{Offset: open, Message: "unterminated object"}
			}
			return nil, p.errorf("object key does not start with a quote")
		}

		key, err := p.quoted()
		if err != nil {
			return nil, err
		}

		p.skipSpace()
		if p.peek() != ':' {
			return nil, p.errorf("missing colon after object key")
		}
		p.advance()

		v, err := p.value(depth)
		if err != nil {
			return nil, err
		}
		o.setRaw(string(key), v)

		p.skipSpace()
		switch p.peek() {
		case '}':
			p.advance()
			return o, nil
		case ',':
			p.advance()
		default:
			if p.eof() {
				return nil, &SyntaxError{Offset: open, Message: "unterminated object"}
			}
			return nil, p.errorf("missing comma between object members")
		}
	}
}

func (p *parser) array(depth int) (*Array, error) {
	if depth > maxDepth {
		return nil, p.errorf("maximum nesting depth exceeded")
	}
	open := p.pos
	p.advance() // [

	a := &Array{}
	p.skipSpace()
	if p.peek() == ']' {
		p.advance()
		return a, nil
	}

	for {
		v, err := p.value(depth)
		if err != nil {
			return nil, err
		}
		a.elements = append(a.elements, v)

		p.skipSpace()
		switch p.peek() {
		case ']':
			p.advance()
			return a, nil
		case ',':
			p.advance()
		default:
			if p.eof() {
				return nil, &SyntaxError{Offset: open, Message: "unterminated array"}
			}
			return nil, p.errorf("missing comma between array elements")
		}
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func isDelimiter(c byte) bool {
	return isSpace(c) || c == ',' || c == '}' || c == ']'
}

func isNumberStart(c byte) bool {
	return (c >= '0' && c <= '9') || c == '-' || c == '+' || c == '.' || c == 'e' || c == 'E'
}

