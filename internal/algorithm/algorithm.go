// Package algorithm encodes one candidate robot transition function as a
// vector of decisions indexed by observation, and converts it to and from
// the canonical code string defined in spec.md §3 and §6 (spec component
// C2).
package algorithm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xdefago/synth-light/internal/modelspace"
)

// Algorithm is a total function from a Domain's observation indices to
// decisions. It owns its Decisions slice; callers that need to keep an
// algorithm across a filter or canonicalization pass should treat it as
// read-only, per spec.md §3's lifecycle note.
type Algorithm struct {
	Domain    *modelspace.Domain
	Decisions []modelspace.Decision
}

// New builds an Algorithm from an explicit decision vector. The caller is
// responsible for decisions having len(decisions) == domain.Size().
func New(domain *modelspace.Domain, decisions []modelspace.Decision) *Algorithm {
	return &Algorithm{Domain: domain, Decisions: decisions}
}

// At returns the decision for the observation at the given canonical index.
func (a *Algorithm) At(index int) modelspace.Decision {
	return a.Decisions[index]
}

// Decide returns the decision an algorithm makes given concrete observation
// component values, using the domain's index layout.
func (a *Algorithm) Decide(meColor, otherColor int, samePosition bool) modelspace.Decision {
	return a.Decisions[a.Domain.IndexOf(meColor, otherColor, samePosition)]
}

// Suffix renders the '_'-joined sequence of per-slot decision tokens that,
// appended to the domain header with "__", forms the algorithm's canonical
// code.
func (a *Algorithm) Suffix() string {
	tokens := make([]string, len(a.Decisions))
	for i, dec := range a.Decisions {
		tokens[i] = dec.Token()
	}
	return strings.Join(tokens, "_")
}

// Code renders the full canonical code: header, "__", suffix.
func (a *Algorithm) Code() string {
	return a.Domain.Header() + "__" + a.Suffix()
}

// Decode parses a canonical code string against domain, validating that
// the header matches exactly and every decision token is well-formed.
// Returns a configuration-shaped error (not wrapped in errs.ErrConfiguration
// here, since algorithm has no opinion on error taxonomy; callers wrap it).
func Decode(domain *modelspace.Domain, code string) (*Algorithm, error) {
	header, suffix, ok := strings.Cut(code, "__")
	if !ok {
		return nil, fmt.Errorf("algorithm: code %q is missing the '__' header/suffix separator", code)
	}
	if header != domain.Header() {
		return nil, fmt.Errorf("algorithm: code header %q does not match domain header %q", header, domain.Header())
	}

	var tokens []string
	if suffix != "" {
		tokens = strings.Split(suffix, "_")
	}
	if len(tokens) != domain.Size() {
		return nil, fmt.Errorf("algorithm: code has %d decision tokens, domain expects %d", len(tokens), domain.Size())
	}

	decisions := make([]modelspace.Decision, domain.Size())
	for i, tok := range tokens {
		dec, err := decodeToken(tok, domain.Colors)
		if err != nil {
			return nil, fmt.Errorf("algorithm: decision %d (%q): %w", i, tok, err)
		}
		decisions[i] = dec
	}
	return New(domain, decisions), nil
}

func decodeToken(tok string, colors int) (modelspace.Decision, error) {
	if len(tok) < 2 {
		return modelspace.Decision{}, fmt.Errorf("token too short")
	}
	move, ok := modelspace.MoveFromToken(tok[0])
	if !ok {
		return modelspace.Decision{}, fmt.Errorf("unknown move letter %q", tok[0])
	}
	color, err := strconv.Atoi(tok[1:])
	if err != nil || strconv.Itoa(color) != tok[1:] {
		return modelspace.Decision{}, fmt.Errorf("invalid color digits %q", tok[1:])
	}
	if color < 0 || color >= colors {
		return modelspace.Decision{}, fmt.Errorf("color %d out of range [0,%d)", color, colors)
	}
	return modelspace.Decision{Move: move, NewColor: color}, nil
}
