// Package varset implements VarSet, the set of environment entries
// "definitely initialized" at a program point, as specified in
// spec.md §3/§4.3.
//
// Per spec.md §9's design note, membership is a bitset indexed by
// env.EntryID rather than a hash set of pointers, giving O(1)
// membership and fast union/intersect. VarSet is immutable: every
// operation returns a new set.
package varset

import "github.com/minilang/minic/internal/env"

// VarSet is an immutable set of env.EntryID.
type VarSet struct {
	bits []uint64
}

const wordBits = 64

func wordIndex(id env.EntryID) int { return int(id) / wordBits }
func bitMask(id env.EntryID) uint64 { return 1 << uint(int(id)%wordBits) }

// Empty returns the empty VarSet.
func Empty() VarSet { return VarSet{} }

func (s VarSet) cloneBits(minWords int) []uint64 {
	n := len(s.bits)
	if n < minWords {
		n = minWords
	}
	bits := make([]uint64, n)
	copy(bits, s.bits)
	return bits
}

// Add returns a new VarSet with id additionally marked initialized.
// Adding env.ErrEntry is a no-op: the synthetic error binding is never
// tracked, so UseBeforeInit can never fire on it.
func (s VarSet) Add(id env.EntryID) VarSet {
	if id == env.ErrEntry {
		return s
	}
	bits := s.cloneBits(wordIndex(id) + 1)
	bits[wordIndex(id)] |= bitMask(id)
	return VarSet{bits: bits}
}

// Contains reports whether id is a member of s.
func (s VarSet) Contains(id env.EntryID) bool {
	if id == env.ErrEntry {
		// The error entry is always "initialized" so a prior
		// UndeclaredId does not also cascade a UseBeforeInit.
		return true
	}
	w := wordIndex(id)
	if w < 0 || w >= len(s.bits) {
		return false
	}
	return s.bits[w]&bitMask(id) != 0
}

// Union returns the set of ids present in either a or b.
func Union(a, b VarSet) VarSet {
	n := len(a.bits)
	if len(b.bits) > n {
		n = len(b.bits)
	}
	bits := make([]uint64, n)
	for i := range bits {
		var av, bv uint64
		if i < len(a.bits) {
			av = a.bits[i]
		}
		if i < len(b.bits) {
			bv = b.bits[i]
		}
		bits[i] = av | bv
	}
	return VarSet{bits: bits}
}

// Intersect returns the set of ids present in both a and b.
func Intersect(a, b VarSet) VarSet {
	n := len(a.bits)
	if len(b.bits) < n {
		n = len(b.bits)
	}
	bits := make([]uint64, n)
	for i := 0; i < n; i++ {
		bits[i] = a.bits[i] & b.bits[i]
	}
	return VarSet{bits: bits}
}

// Trim returns the ids in s that are not also in baseline: the
// "newly initialized beyond baseline" set spec.md §4.3's If rule needs.
func Trim(s, baseline VarSet) VarSet {
	bits := make([]uint64, len(s.bits))
	for i := range bits {
		var bv uint64
		if i < len(baseline.bits) {
			bv = baseline.bits[i]
		}
		bits[i] = s.bits[i] &^ bv
	}
	return VarSet{bits: bits}
}

// Equal reports whether a and b contain exactly the same ids.
func Equal(a, b VarSet) bool {
	n := len(a.bits)
	if len(b.bits) > n {
		n = len(b.bits)
	}
	for i := 0; i < n; i++ {
		var av, bv uint64
		if i < len(a.bits) {
			av = a.bits[i]
		}
		if i < len(b.bits) {
			bv = b.bits[i]
		}
		if av != bv {
			return false
		}
	}
	return true
}
