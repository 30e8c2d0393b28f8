// Package enumerate produces the lazy, partitionable sequence of every
// syntactically possible algorithm for a domain (spec component C3). The
// sequence is treated as an odometer over (3*K)-valued digits, one per
// observation slot, with slot 0 (observation index 0) as the least
// significant digit.
package enumerate

import (
	"math/big"

	"github.com/xdefago/synth-light/internal/algorithm"
	"github.com/xdefago/synth-light/internal/modelspace"
)

// Enumerator knows the total syntactic space for a domain and can split it
// into disjoint, contiguous partitions without materializing any
// algorithm.
type Enumerator struct {
	domain *modelspace.Domain
	base   int      // 3*K: per-slot cardinality
	total  *big.Int // base^D
}

// New builds an Enumerator over domain's full (3*K)^D space.
func New(domain *modelspace.Domain) *Enumerator {
	base := 3 * domain.Colors
	total := new(big.Int).Exp(big.NewInt(int64(base)), big.NewInt(int64(domain.Size())), nil)
	return &Enumerator{domain: domain, base: base, total: total}
}

// Total returns the total number of syntactically possible algorithms,
// (3*K)^D.
func (e *Enumerator) Total() *big.Int {
	return new(big.Int).Set(e.total)
}

// Range is a disjoint, contiguous half-open slice [Lo, Hi) of the
// enumerator's index space.
type Range struct {
	Lo, Hi *big.Int
}

// Partition splits the full index space into p disjoint, contiguous
// ranges whose concatenation equals the full space (spec.md §3 and §8).
// Boundaries are computed as floor(total*i/p), so ranges differ in size
// by at most one when total is not evenly divisible by p.
func (e *Enumerator) Partition(p int) []Range {
	if p <= 0 {
		p = 1
	}
	ranges := make([]Range, p)
	pBig := big.NewInt(int64(p))
	prevHi := big.NewInt(0)
	for i := 0; i < p; i++ {
		hi := new(big.Int).Mul(e.total, big.NewInt(int64(i+1)))
		hi.Div(hi, pBig)
		ranges[i] = Range{Lo: new(big.Int).Set(prevHi), Hi: hi}
		prevHi = hi
	}
	return ranges
}

// Cursor iterates one partition's algorithms in lexicographic decision
// order. A Cursor is single-pass: once Next returns false it is exhausted,
// and re-traversal requires a fresh Cursor over the same range.
type Cursor struct {
	domain *modelspace.Domain
	base   int
	cur    *big.Int
	hi     *big.Int
}

// Cursor returns a fresh, single-pass iterator over r.
func (e *Enumerator) Cursor(r Range) *Cursor {
	return &Cursor{
		domain: e.domain,
		base:   e.base,
		cur:    new(big.Int).Set(r.Lo),
		hi:     r.Hi,
	}
}

// Next decodes the current index into an Algorithm and advances the
// cursor. Returns false once the cursor has consumed its whole range.
func (c *Cursor) Next() (*algorithm.Algorithm, bool) {
	if c.cur.Cmp(c.hi) >= 0 {
		return nil, false
	}

	decisions := decode(c.cur, c.base, c.domain.Colors, c.domain.Size())
	c.cur.Add(c.cur, big.NewInt(1))
	return algorithm.New(c.domain, decisions), true
}

// decode converts a mixed-radix index into a decision vector. Slot 0
// (observation index 0) is the least significant digit, per spec.md §4.3.
// Each base-(3*K) digit splits into (moveIdx, color) = (digit/K, digit%K).
func decode(index *big.Int, base, colors, size int) []modelspace.Decision {
	decisions := make([]modelspace.Decision, size)
	remaining := new(big.Int).Set(index)
	baseBig := big.NewInt(int64(base))
	colorsBig := big.NewInt(int64(colors))

	moveOrder := [3]modelspace.Move{modelspace.MoveStay, modelspace.MoveToHalf, modelspace.MoveToOther}

	for slot := 0; slot < size; slot++ {
		digit := new(big.Int)
		remaining.DivMod(remaining, baseBig, digit)

		moveIdx := new(big.Int)
		color := new(big.Int)
		moveIdx.DivMod(digit, colorsBig, color)

		decisions[slot] = modelspace.Decision{
			Move:     moveOrder[moveIdx.Int64()],
			NewColor: int(color.Int64()),
		}
	}
	return decisions
}
