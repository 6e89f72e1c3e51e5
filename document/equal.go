package document

import (
	"bytes"
	"encoding/binary"
	"math"
	"strconv"

	"github.com/zeebo/xxh3"
)

// Equal reports structural equality. Kinds must match; numbers compare by numeric value;
// containers compare recursively, arrays as multisets.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}

	switch v.kind {
	case KindNull:
		return true

	case KindObject:
		if v.obj == nil || o.obj == nil {
			return v.obj == o.obj
		}
		return v.obj.Equal(o.obj)

	case KindArray:
		if v.arr == nil || o.arr == nil {
			return v.arr == o.arr
		}
		return v.arr.Equal(o.arr)

	case KindBool:
		return v.Bool() == o.Bool()

	case KindNumber:
		a, errA := strconv.ParseFloat(string(v.raw), 64)
		b, errB := strconv.ParseFloat(string(o.raw), 64)
		if errA == nil && errB == nil {
			return a == b
		}
		return bytes.Equal(v.raw, o.raw)
	}

	return bytes.Equal(v.raw, o.raw)
}

// WeakEqual is Equal extended across kinds: null equals zero, false, the empty string (or the
// string "null"), an empty object and an empty array.
func WeakEqual(a, b Value) bool {
	if a.kind == KindNull && b.kind != KindNull {
		return nullish(b)
	}
	if b.kind == KindNull && a.kind != KindNull {
		return nullish(a)
	}
	return a.Equal(b)
}

func nullish(v Value) bool {
	switch v.kind {
	case KindNumber:
		f, _ := v.AsFloat()
		return f == 0
	case KindBool:
		return !v.Bool()
	case KindObject:
		return v.obj == nil || v.obj.IsEmpty()
	case KindArray:
		return v.arr == nil || v.arr.IsEmpty()
	case KindString:
		return len(v.raw) == 0 || string(v.raw) == "null"
	}
	return false
}

// Hash returns a fingerprint of v such that Equal values hash alike.
func (v Value) Hash() uint64 {
	return xxh3.Hash(v.appendHashInput(make([]byte, 0, 32)))
}

func (v Value) appendHashInput(b []byte) []byte {
	b = append(b, byte(v.kind))

	switch v.kind {
	case KindObject:
		if v.obj == nil {
			return b
		}
		for k, mv := range v.obj.All() {
			b = binary.LittleEndian.AppendUint32(b, uint32(len(k)))
			b = append(b, k...)
			b = binary.LittleEndian.AppendUint64(b, mv.Hash())
		}

	case KindArray:
		if v.arr == nil {
			return b
		}
		// Order-independent combination, arrays compare as multisets.
		var sum uint64
		for _, ev := range v.arr.elements {
			sum += ev.Hash()
		}
		b = binary.LittleEndian.AppendUint64(b, uint64(len(v.arr.elements)))
		b = binary.LittleEndian.AppendUint64(b, sum)

	case KindBool:
		if v.Bool() {
			b = append(b, 1)
		} else {
			b = append(b, 0)
		}

	case KindNumber:
		if f, err := strconv.ParseFloat(string(v.raw), 64); err == nil {
			if f == 0 {
				f = 0 // -0 equals 0
			}
			b = append(b, 'f')
			b = binary.LittleEndian.AppendUint64(b, math.Float64bits(f))
		} else {
			b = append(b, 't')
			b = append(b, v.raw...)
		}

	case KindString:
		b = append(b, v.raw...)
	}

	return b
}
