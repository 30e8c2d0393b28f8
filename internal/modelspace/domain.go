package modelspace

import (
	"fmt"
	"strconv"
	"strings"
)

// Observation is one tuple of inputs a robot's transition function may
// see during an activation. Which fields are meaningful is determined by
// the Domain that produced it: a field the domain excludes is always
// zero-valued and must not be inspected directly by callers.
type Observation struct {
	MeColor      int
	OtherColor   int
	SamePosition bool
}

// Domain is the finite, indexable set of observations permitted under one
// (LightClass, ClassL) combination for a given color count K (spec
// component C1). Observations are assigned contiguous indices in the
// canonical order derived from spec.md §8's worked examples: the
// same/different-position split is the most significant grouping, the
// acting robot's own color is next, and the other robot's color varies
// fastest.
type Domain struct {
	Class    LightClass
	Colors   int
	ClassL   bool
	HasMe    bool
	HasOther bool
	HasPos   bool

	observations []Observation
	header       string
}

// NewDomain builds the observation domain for (class, colors, classL).
// Returns a configuration error if colors is out of [MinColors, MaxColors].
func NewDomain(class LightClass, colors int, classL bool) (*Domain, error) {
	if colors < MinColors || colors > MaxColors {
		return nil, fmt.Errorf("modelspace: color count %d out of range [%d,%d]", colors, MinColors, MaxColors)
	}

	d := &Domain{
		Class:    class,
		Colors:   colors,
		ClassL:   classL,
		HasMe:    class == Full || class == Internal,
		HasOther: class == Full || class == External,
		HasPos:   !classL,
	}
	d.build()
	return d, nil
}

// posSpan, meSpan, otherSpan are the per-component cardinalities: 2 (or 1)
// for position, Colors (or 1) for each color slot that is enabled.
func (d *Domain) posSpan() int {
	if d.HasPos {
		return 2
	}
	return 1
}

func (d *Domain) meSpan() int {
	if d.HasMe {
		return d.Colors
	}
	return 1
}

func (d *Domain) otherSpan() int {
	if d.HasOther {
		return d.Colors
	}
	return 1
}

func (d *Domain) build() {
	posN, meN, otherN := d.posSpan(), d.meSpan(), d.otherSpan()
	d.observations = make([]Observation, 0, posN*meN*otherN)
	tokens := make([]string, 0, cap(d.observations))

	// Same-position (index 0) is enumerated before different-position
	// (index 1), matching spec.md §8 scenario 1's header ordering.
	for posIdx := 0; posIdx < posN; posIdx++ {
		same := posIdx == 0
		for me := 0; me < meN; me++ {
			for other := 0; other < otherN; other++ {
				obs := Observation{SamePosition: same}
				if d.HasMe {
					obs.MeColor = me
				}
				if d.HasOther {
					obs.OtherColor = other
				}
				d.observations = append(d.observations, obs)
				tokens = append(tokens, d.token(obs))
			}
		}
	}
	d.header = strings.Join(tokens, "_")
}

// Size returns D, the number of observations in the domain.
func (d *Domain) Size() int {
	return len(d.observations)
}

// Observations returns the domain's observations in canonical index order.
// The returned slice must not be mutated.
func (d *Domain) Observations() []Observation {
	return d.observations
}

// At returns the observation at a canonical index.
func (d *Domain) At(index int) Observation {
	return d.observations[index]
}

// IndexOf returns the canonical index of the observation described by the
// given component values. Components the domain does not expose are
// ignored (pass any value; 0/false is conventional).
func (d *Domain) IndexOf(meColor, otherColor int, samePosition bool) int {
	meN, otherN := d.meSpan(), d.otherSpan()

	posIdx := 0
	if d.HasPos && !samePosition {
		posIdx = 1
	}
	meIdx := 0
	if d.HasMe {
		meIdx = meColor
	}
	otherIdx := 0
	if d.HasOther {
		otherIdx = otherColor
	}
	return posIdx*(meN*otherN) + meIdx*otherN + otherIdx
}

// Header returns the '_'-joined sequence of observation tokens that
// uniquely names this domain's index layout (spec.md §3, "Canonical code").
func (d *Domain) Header() string {
	return d.header
}

// token renders one observation as its header/fragment token: the color
// digits present in canonical order, followed by 's' or 'd' when position
// is part of the domain.
func (d *Domain) token(obs Observation) string {
	var sb strings.Builder
	if d.HasMe {
		sb.WriteString(strconv.Itoa(obs.MeColor))
	}
	if d.HasOther {
		sb.WriteString(strconv.Itoa(obs.OtherColor))
	}
	if d.HasPos {
		if obs.SamePosition {
			sb.WriteByte('s')
		} else {
			sb.WriteByte('d')
		}
	}
	return sb.String()
}

// Permute returns the observation obtained by applying color permutation perm (perm[c] is where color c maps to) to
// obs's color components. The position component is unaffected, per
// spec.md §3's invariant that a permutation acts only on colors.
func (d *Domain) Permute(obs Observation, perm []int) Observation {
	out := obs
	if d.HasMe {
		out.MeColor = perm[obs.MeColor]
	}
	if d.HasOther {
		out.OtherColor = perm[obs.OtherColor]
	}
	return out
}
