// Package linkmode defines the wM-Bus RF/framing profiles a dongle can
// listen on and a meter can require, and the bitset used to express both.
package linkmode

import "strings"

// Mode is a single wM-Bus link mode bit.
type Mode uint32

const (
	S1 Mode = 1 << iota
	S1m
	T1
	C1
	C2
	N1a
	N1b
	N1c
	N1d
	N1e
	N1f
	N2a
	N2b
	N2c
	N2d
	N2e
	N2f
)

var names = []struct {
	mode Mode
	name string
}{
	{S1, "S1"}, {S1m, "S1m"}, {T1, "T1"}, {C1, "C1"}, {C2, "C2"},
	{N1a, "N1a"}, {N1b, "N1b"}, {N1c, "N1c"}, {N1d, "N1d"}, {N1e, "N1e"}, {N1f, "N1f"},
	{N2a, "N2a"}, {N2b, "N2b"}, {N2c, "N2c"}, {N2d, "N2d"}, {N2e, "N2e"}, {N2f, "N2f"},
}

// Set is a bitset over the link-mode enumeration. The zero value is the
// empty set.
type Set uint32

// Of builds a Set from individual modes.
func Of(modes ...Mode) Set {
	var s Set
	for _, m := range modes {
		s |= Set(m)
	}
	return s
}

// Add returns the set with m added.
func (s Set) Add(m Mode) Set { return s | Set(m) }

// Has reports whether m is a member of s.
func (s Set) Has(m Mode) bool { return s&Set(m) != 0 }

// Union returns the union of s and other.
func (s Set) Union(other Set) Set { return s | other }

// Supports reports whether s contains at least one mode also in other —
// i.e. whether a dongle listening on s can hear a meter requiring other.
func (s Set) Supports(other Set) bool { return s&other != 0 }

// HasAll reports whether s is a superset of other.
func (s Set) HasAll(other Set) bool { return s&other == other }

// Bits returns the raw bitset value.
func (s Set) Bits() uint32 { return uint32(s) }

// String renders the set as a "|"-joined list of mode names, e.g. "T1|C1".
func (s Set) String() string {
	var parts []string
	for _, n := range names {
		if s.Has(n.mode) {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Parse looks up a mode by its conventional name (case-sensitive, as used in
// telegrams and driver tables: "T1", "C1", "S1m", ...). ok is false for an
// unrecognized name.
func Parse(name string) (Mode, bool) {
	for _, n := range names {
		if n.name == name {
			return n.mode, true
		}
	}
	return 0, false
}
