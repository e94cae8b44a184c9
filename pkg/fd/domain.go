// Package fd provides a small finite-domain constraint solver used to
// check satisfiability of combinatorial test models.
//
// This file defines the Domain interface and its bitset implementation.
// Unlike general-purpose CP domains, values here are 0-based indices into
// a parameter's value list: a parameter with three values has the domain
// {0, 1, 2}.
package fd

import (
	"fmt"
	"math/bits"
	"strings"
)

// Domain is an immutable finite set of non-negative integer values.
// Operations that change the set return a new Domain.
type Domain interface {
	// Count returns the number of values in the domain.
	// An empty domain represents an inconsistent state.
	Count() int

	// Has reports whether value is in the domain.
	Has(value int) bool

	// Remove returns a domain without value.
	Remove(value int) Domain

	// IsSingleton returns true if the domain holds exactly one value.
	IsSingleton() bool

	// SingletonValue returns the only value of a singleton domain.
	// Behavior is undefined for non-singleton domains.
	SingletonValue() int

	// IterateValues calls f for each value in ascending order.
	IterateValues(f func(value int))

	// Intersect returns the values present in both domains.
	Intersect(other Domain) Domain

	// Equal reports whether both domains hold the same values.
	Equal(other Domain) bool

	// Size returns the size of the value universe [0, Size).
	Size() int

	String() string
}

// BitSetDomain stores a domain over [0, size) as a bitset; bit i represents value i.
type BitSetDomain struct {
	size  int
	words []uint64
}

// NewBitSetDomain creates a domain containing every value in [0, size).
func NewBitSetDomain(size int) *BitSetDomain {
	d := newEmptyDomain(size)
	for i := 0; i < d.size; i++ {
		d.words[i/64] |= 1 << uint(i%64)
	}
	return d
}

// NewBitSetDomainFromValues creates a domain over [0, size) holding only values.
// Values outside the universe are ignored.
func NewBitSetDomainFromValues(size int, values []int) *BitSetDomain {
	d := newEmptyDomain(size)
	for _, v := range values {
		if v >= 0 && v < d.size {
			d.words[v/64] |= 1 << uint(v%64)
		}
	}
	return d
}

func newEmptyDomain(size int) *BitSetDomain {
	if size <= 0 {
		return &BitSetDomain{}
	}
	return &BitSetDomain{size: size, words: make([]uint64, (size+63)/64)}
}

// Count uses popcount over the words.
func (d *BitSetDomain) Count() int {
	count := 0
	for _, word := range d.words {
		count += bits.OnesCount64(word)
	}
	return count
}

// Has is O(1).
func (d *BitSetDomain) Has(value int) bool {
	if value < 0 || value >= d.size {
		return false
	}
	return (d.words[value/64]>>uint(value%64))&1 == 1
}

// Remove returns a copy of d without value.
func (d *BitSetDomain) Remove(value int) Domain {
	if !d.Has(value) {
		return d
	}
	words := make([]uint64, len(d.words))
	copy(words, d.words)
	words[value/64] &^= 1 << uint(value%64)
	return &BitSetDomain{size: d.size, words: words}
}

// IsSingleton returns true if exactly one bit is set.
func (d *BitSetDomain) IsSingleton() bool {
	return d.Count() == 1
}

// SingletonValue returns the lowest value of the domain.
// Panics if the domain is empty.
func (d *BitSetDomain) SingletonValue() int {
	for i, word := range d.words {
		if word != 0 {
			return i*64 + bits.TrailingZeros64(word)
		}
	}
	panic("SingletonValue called on empty domain")
}

// IterateValues visits values in ascending order.
func (d *BitSetDomain) IterateValues(f func(value int)) {
	for i, word := range d.words {
		for word != 0 {
			offset := bits.TrailingZeros64(word)
			f(i*64 + offset)
			word &= word - 1
		}
	}
}

// Intersect returns d ∩ other. Works across implementations by membership
// testing when other is not a BitSetDomain.
func (d *BitSetDomain) Intersect(other Domain) Domain {
	result := newEmptyDomain(d.size)
	if o, ok := other.(*BitSetDomain); ok {
		for i := range result.words {
			if i < len(o.words) {
				result.words[i] = d.words[i] & o.words[i]
			}
		}
		return result
	}
	d.IterateValues(func(v int) {
		if other.Has(v) {
			result.words[v/64] |= 1 << uint(v%64)
		}
	})
	return result
}

// Equal compares membership, not universe size.
func (d *BitSetDomain) Equal(other Domain) bool {
	if other == nil || d.Count() != other.Count() {
		return false
	}
	equal := true
	d.IterateValues(func(v int) {
		if !other.Has(v) {
			equal = false
		}
	})
	return equal
}

// Size returns the universe size.
func (d *BitSetDomain) Size() int {
	return d.size
}

// Values returns the domain contents as a sorted slice.
func (d *BitSetDomain) Values() []int {
	values := make([]int, 0, d.Count())
	d.IterateValues(func(v int) {
		values = append(values, v)
	})
	return values
}

// String renders the domain as {a,b,c}.
func (d *BitSetDomain) String() string {
	parts := make([]string, 0, d.Count())
	d.IterateValues(func(v int) {
		parts = append(parts, fmt.Sprintf("%d", v))
	})
	return "{" + strings.Join(parts, ",") + "}"
}
