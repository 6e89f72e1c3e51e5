package document

import (
	"iter"
	"slices"
)

// Array is an ordered sequence of values. Duplicates are allowed.
type Array struct {
	elements []Value
}

// NewArray returns an array holding a copy of the given elements.
func NewArray(elements ...Value) *Array {
	return &Array{elements: slices.Clone(elements)}
}

func (a *Array) Append(v ...Value) { a.elements = append(a.elements, v...) }

func (a *Array) IsEmpty() bool { return a.Len() == 0 }
func (a *Array) Clear()        { a.elements = a.elements[:0] }

func (a *Array) Len() int {
	if a == nil {
		return 0
	}
	return len(a.elements)
}

// At returns the element at index i. It panics when i is out of range, like a slice index.
func (a *Array) At(i int) Value { return a.elements[i] }

// First returns the first element, if any.
func (a *Array) First() (Value, bool) {
	if len(a.elements) == 0 {
		return Value{}, false
	}
	return a.elements[0], true
}

// All iterates over index and element pairs in order.
func (a *Array) All() iter.Seq2[int, Value] {
	return slices.All(a.elements)
}

// Values iterates over elements in order.
func (a *Array) Values() iter.Seq[Value] {
	return slices.Values(a.elements)
}

// Equal reports multiset equality: both arrays hold the same elements with the same
// multiplicities, in any order. Multiplicities count, so [1,1,2] and [1,2,2] differ even
// though each contains every element of the other. A nil array is empty.
func (a *Array) Equal(other *Array) bool {
	if a.Len() != other.Len() {
		return false
	}
	if a.Len() == 0 {
		return true
	}

	// Bucket our elements by hash; each element of other consumes one equal element.
	buckets := make(map[uint64][]int, len(a.elements))
	for i, v := range a.elements {
		h := v.Hash()
		buckets[h] = append(buckets[h], i)
	}

	for _, ov := range other.elements {
		h := ov.Hash()
		candidates := buckets[h]
		match := -1
		for j, i := range candidates {
			if a.elements[i].Equal(ov) {
				match = j
				break
			}
		}
		if match < 0 {
			return false
		}
		buckets[h] = slices.Delete(candidates, match, match+1)
	}
	return true
}

// Clone returns a deep copy.
func (a *Array) Clone() *Array {
	c := &Array{elements: make([]Value, len(a.elements))}
	for i, v := range a.elements {
		c.elements[i] = v.Clone()
	}
	return c
}

// String renders the array as compact JSON.
func (a *Array) String() string {
	return string(appendArray(nil, a))
}
