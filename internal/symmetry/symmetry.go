// Package symmetry canonicalizes algorithms under color-permutation
// isomorphism (spec component C5): of every orbit {A^π : π ∈ Sym(K)}, it
// picks the lexicographically smallest canonical code as the
// representative, so exactly one survivor per orbit reaches the verifier.
package symmetry

import (
	"github.com/xdefago/synth-light/internal/algorithm"
	"github.com/xdefago/synth-light/internal/modelspace"
)

// Permutations returns every permutation of [0,K) as a slice where
// perm[c] is the color c maps to. K<=5 keeps K! <= 120, so explicit
// enumeration is simpler and faster than any group-theoretic shortcut
// (spec.md §9).
func Permutations(k int) [][]int {
	identity := make([]int, k)
	for i := range identity {
		identity[i] = i
	}
	var out [][]int
	permute(identity, 0, &out)
	return out
}

// permute generates all permutations of elems in place via Heap-style
// recursive swapping, appending a copy of each to *out.
func permute(elems []int, i int, out *[][]int) {
	if i == len(elems) {
		cp := make([]int, len(elems))
		copy(cp, elems)
		*out = append(*out, cp)
		return
	}
	for j := i; j < len(elems); j++ {
		elems[i], elems[j] = elems[j], elems[i]
		permute(elems, i+1, out)
		elems[i], elems[j] = elems[j], elems[i]
	}
}

// Apply computes A^π: for every observation index j, A^π(π·o) = π·A(o),
// so the decision stored at slot j is A's decision at the observation that
// maps to slot j under π, with the move unchanged and the written color
// remapped through π (spec.md §3's invariant; move is permutation-invariant).
func Apply(a *algorithm.Algorithm, perm []int) *algorithm.Algorithm {
	d := a.Domain
	inverse := invert(perm)

	out := make([]modelspace.Decision, d.Size())
	for j, target := range d.Observations() {
		source := d.Permute(target, inverse)
		sourceIdx := d.IndexOf(source.MeColor, source.OtherColor, source.SamePosition)
		dec := a.At(sourceIdx)
		out[j] = modelspace.Decision{Move: dec.Move, NewColor: perm[dec.NewColor]}
	}
	return algorithm.New(d, out)
}

func invert(perm []int) []int {
	inv := make([]int, len(perm))
	for from, to := range perm {
		inv[to] = from
	}
	return inv
}

// CanonicalSuffix returns the lexicographically smallest suffix among
// {A^π : π ∈ Sym(K)}. K=1 collapses to the identity permutation, so an
// algorithm is always its own representative.
func CanonicalSuffix(a *algorithm.Algorithm, perms [][]int) string {
	best := a.Suffix()
	for _, perm := range perms {
		candidate := Apply(a, perm).Suffix()
		if candidate < best {
			best = candidate
		}
	}
	return best
}

// IsRepresentative reports whether a is the orbit representative picked by
// CanonicalSuffix, i.e. its own suffix already equals the orbit minimum.
// At most one algorithm per orbit satisfies this.
func IsRepresentative(a *algorithm.Algorithm, perms [][]int) bool {
	return a.Suffix() == CanonicalSuffix(a, perms)
}
