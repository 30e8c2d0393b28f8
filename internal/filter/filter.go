// Package filter implements the static pruning predicates applied to
// every enumerated algorithm before it reaches the verifier (spec
// component C4): viability, Viglietta's retain rule, and the weak
// coverage filter.
package filter

import (
	"github.com/xdefago/synth-light/internal/algorithm"
	"github.com/xdefago/synth-light/internal/modelspace"
)

// Predicate reports whether an algorithm survives one static filter.
type Predicate func(a *algorithm.Algorithm) bool

// Options selects which opt-in filters are active. Viability is always
// applied and has no corresponding flag.
type Options struct {
	RetainRule bool
	WeakFilter bool
}

// Chain builds the ordered predicate list spec.md §4.4 specifies: viability
// first, then retain (if enabled), then weak (if enabled). Callers should
// short-circuit on the first predicate that returns false.
func Chain(opts Options) []Predicate {
	chain := []Predicate{Viability}
	if opts.RetainRule {
		chain = append(chain, Retain)
	}
	if opts.WeakFilter {
		chain = append(chain, Weak)
	}
	return chain
}

// Survives runs a's decisions through every predicate in chain, stopping
// at the first rejection. Returns true only if every predicate passes.
func Survives(a *algorithm.Algorithm, chain []Predicate) bool {
	for _, p := range chain {
		if !p(a) {
			return false
		}
	}
	return true
}

// Viability drops an algorithm if it moves from any same-position
// observation. Once gathered, a viable algorithm must stay put; any move
// from SAME instantly breaks gathering. Observations without a position
// component (class L) are not subject to this check.
func Viability(a *algorithm.Algorithm) bool {
	d := a.Domain
	if !d.HasPos {
		return true
	}
	for i, obs := range d.Observations() {
		if obs.SamePosition && a.At(i).Move != modelspace.MoveStay {
			return false
		}
	}
	return true
}

// Retain implements Viglietta's retain rule: a robot's new color equals
// its own color exactly when the other robot holds the same color as it.
// Meaningful only when both own and other color are observable (FULL
// class); domains missing either color component pass vacuously.
func Retain(a *algorithm.Algorithm) bool {
	d := a.Domain
	if !d.HasMe || !d.HasOther {
		return true
	}
	for i, obs := range d.Observations() {
		dec := a.At(i)
		retained := dec.NewColor == obs.MeColor
		sawSameColor := obs.MeColor == obs.OtherColor
		if retained != sawSameColor {
			return false
		}
	}
	return true
}

// Weak drops an algorithm if the colors it ever writes, union the colors
// it ever reads in the observation domain, fail to cover [0,K). Leaving a
// color entirely unused makes K effectively smaller, duplicating a
// smaller-K search (spec.md §4.4, §9 open question).
func Weak(a *algorithm.Algorithm) bool {
	d := a.Domain
	covered := make([]bool, d.Colors)

	for i, obs := range d.Observations() {
		if d.HasMe {
			covered[obs.MeColor] = true
		}
		if d.HasOther {
			covered[obs.OtherColor] = true
		}
		covered[a.At(i).NewColor] = true
	}

	for _, ok := range covered {
		if !ok {
			return false
		}
	}
	return true
}
