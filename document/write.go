package document

import (
	"strings"

	"github.com/fatih/color"
)

// AppendCompact appends the compact JSON form of v to dst.
//
// Strings built with String are escaped; parsed strings are written back as the raw text they
// were read from. Object keys are written verbatim.
func AppendCompact(dst []byte, v Value) []byte {
	switch v.kind {
	case KindObject:
		if v.obj == nil {
			return append(dst, "{}"...)
		}
		return appendObject(dst, v.obj)
	case KindArray:
		if v.arr == nil {
			return append(dst, "[]"...)
		}
		return appendArray(dst, v.arr)
	}
	return appendScalar(dst, v)
}

func appendScalar(dst []byte, v Value) []byte {
	switch v.kind {
	case KindString:
		dst = append(dst, '"')
		if v.escape {
			dst = AppendEscaped(dst, v.raw)
		} else {
			dst = append(dst, v.raw...)
		}
		return append(dst, '"')
	case KindBool, KindNumber:
		return append(dst, v.raw...)
	}
	return append(dst, "null"...)
}

func appendObject(dst []byte, o *Object) []byte {
	dst = append(dst, '{')
	first := true
	for k, v := range o.All() {
		if !first {
			dst = append(dst, ',')
		}
		first = false
		dst = o.appendKey(dst, k)
		dst = append(dst, ':')
		dst = AppendCompact(dst, v)
	}
	return append(dst, '}')
}

func appendArray(dst []byte, a *Array) []byte {
	dst = append(dst, '[')
	for i, v := range a.elements {
		if i > 0 {
			dst = append(dst, ',')
		}
		dst = AppendCompact(dst, v)
	}
	return append(dst, ']')
}

// AppendEscaped appends s with quotes, backslashes and control characters escaped.
func AppendEscaped(dst, s []byte) []byte {
	const hex = "0123456789abcdef"
	for _, c := range s {
		switch c {
		case '\\':
			dst = append(dst, '\\', '\\')
		case '"':
			dst = append(dst, '\\', '"')
		case '\b':
			dst = append(dst, '\\', 'b')
		case '\f':
			dst = append(dst, '\\', 'f')
		case '\n':
			dst = append(dst, '\\', 'n')
		case '\r':
			dst = append(dst, '\\', 'r')
		case '\t':
			dst = append(dst, '\\', 't')
		default:
			if c < 0x20 {
				dst = append(dst, '\\', 'u', '0', '0', hex[c>>4], hex[c&0xf])
				continue
			}
			dst = append(dst, c)
		}
	}
	return dst
}

// Printer renders values in indented form, one indent unit per container depth.
type Printer struct {
	indent string
	key    *color.Color
	scalar *color.Color
}

var plainPrinter = NewPrinter(false)

// NewPrinter returns a printer indenting with tabs. When colored is set, keys are printed
// green and bold and scalar values yellow, regardless of the terminal.
func NewPrinter(colored bool) *Printer {
	p := &Printer{indent: "\t"}
	if colored {
		p.key = color.New(color.FgGreen, color.Bold)
		p.key.EnableColor()
		p.scalar = color.New(color.FgYellow)
		p.scalar.EnableColor()
	}
	return p
}

// Pretty renders v indented, without colors.
func Pretty(v Value) string {
	return plainPrinter.Sprint(v)
}

// Sprint renders v indented.
func (p *Printer) Sprint(v Value) string {
	var sb strings.Builder
	p.write(&sb, v, 0)
	return sb.String()
}

func (p *Printer) write(sb *strings.Builder, v Value, depth int) {
	switch {
	case v.kind == KindObject && v.obj != nil && !v.obj.IsEmpty():
		sb.WriteString("{\n")
		first := true
		for k, mv := range v.obj.All() {
			if !first {
				sb.WriteString(",\n")
			}
			first = false
			p.writeIndent(sb, depth+1)
			p.paint(sb, p.key, string(v.obj.appendKey(nil, k)))
			sb.WriteString(": ")
			p.write(sb, mv, depth+1)
		}
		sb.WriteByte('\n')
		p.writeIndent(sb, depth)
		sb.WriteByte('}')

	case v.kind == KindArray && v.arr != nil && !v.arr.IsEmpty():
		sb.WriteString("[\n")
		for i, ev := range v.arr.elements {
			if i > 0 {
				sb.WriteString(",\n")
			}
			p.writeIndent(sb, depth+1)
			p.write(sb, ev, depth+1)
		}
		sb.WriteByte('\n')
		p.writeIndent(sb, depth)
		sb.WriteByte(']')

	case v.kind == KindObject || v.kind == KindArray:
		sb.Write(AppendCompact(nil, v))

	default:
		p.paint(sb, p.scalar, string(appendScalar(nil, v)))
	}
}

func (p *Printer) writeIndent(sb *strings.Builder, depth int) {
	for range depth {
		sb.WriteString(p.indent)
	}
}

func (p *Printer) paint(sb *strings.Builder, c *color.Color, s string) {
	if c == nil {
		sb.WriteString(s)
		return
	}
	sb.WriteString(c.Sprint(s))
}
