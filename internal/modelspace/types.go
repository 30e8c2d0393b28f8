// Package modelspace defines the data model shared by every stage of the
// synthesizer: colors, positions, moves, light classes, and the observation
// domain a candidate algorithm is defined over (spec component C1).
package modelspace

import (
	"fmt"
	"strings"
)

// Position is the relative placement of the two robots as seen by one of
// them during an activation.
type Position int

const (
	// Same means both robots occupy the same point.
	Same Position = iota
	// Near means the robots are at different points, within the rigidity
	// model's "near" classification.
	Near
	// Far means the robots are at different points and the acting robot's
	// movement is non-rigid (it may be interrupted before reaching Near).
	// Rigid movement models never produce Far as an initial observation.
	Far
)

func (p Position) String() string {
	switch p {
	case Same:
		return "SAME"
	case Near:
		return "NEAR"
	case Far:
		return "FAR"
	default:
		return "UNKNOWN_POSITION"
	}
}

// Move is the action a robot's transition function selects for one
// activation. MoveMiss is never chosen by an algorithm; the scheduler
// produces it when an activation is interrupted.
type Move int

const (
	MoveStay Move = iota
	MoveToHalf
	MoveToOther
	MoveMiss
)

// moveTokens gives the one-letter code used in a canonical decision token.
var moveTokens = map[Move]byte{
	MoveStay:    'S',
	MoveToHalf:  'H',
	MoveToOther: 'O',
}

var tokenMoves = map[byte]Move{
	'S': MoveStay,
	'H': MoveToHalf,
	'O': MoveToOther,
}

func (m Move) String() string {
	switch m {
	case MoveStay:
		return "STAY"
	case MoveToHalf:
		return "TO_HALF"
	case MoveToOther:
		return "TO_OTHER"
	case MoveMiss:
		return "MISS"
	default:
		return "UNKNOWN_MOVE"
	}
}

// Token returns the single-character canonical-code token for a chosen
// move. Only the three algorithm-selectable moves have a token; calling
// Token on MoveMiss panics since MISS is never part of an encoded decision.
func (m Move) Token() byte {
	t, ok := moveTokens[m]
	if !ok {
		panic(fmt.Sprintf("modelspace: move %v has no canonical token", m))
	}
	return t
}

// MoveFromToken decodes a single-character canonical-code token back into
// a Move. Returns false if the byte names no chosen move.
func MoveFromToken(b byte) (Move, bool) {
	m, ok := tokenMoves[b]
	return m, ok
}

// LightClass selects which components of an observation a robot's
// transition function may inspect.
type LightClass int

const (
	// Full exposes (own color, other's color, same-position flag).
	Full LightClass = iota
	// External exposes (other's color, same-position flag); own color is
	// not observable.
	External
	// Internal exposes (own color, same-position flag); the other robot's
	// color is not observable.
	Internal
)

func (c LightClass) String() string {
	switch c {
	case Full:
		return "FULL"
	case External:
		return "EXTERNAL"
	case Internal:
		return "INTERNAL"
	default:
		return "UNKNOWN_LIGHT_CLASS"
	}
}

// ParseLightClass parses the case-insensitive class name used in config
// files and CLI flags.
func ParseLightClass(s string) (LightClass, error) {
	switch strings.ToUpper(s) {
	case "FULL":
		return Full, nil
	case "EXTERNAL":
		return External, nil
	case "INTERNAL":
		return Internal, nil
	default:
		return 0, fmt.Errorf("modelspace: unknown light class %q", s)
	}
}

// MinColors and MaxColors bound the configured color count K (spec.md §3).
const (
	MinColors = 1
	MaxColors = 5
)

// Decision is the output a transition function produces for one
// observation: the move to perform and the color to adopt afterward.
type Decision struct {
	Move     Move
	NewColor int
}

// Token renders a Decision as its two-or-more-character canonical-code
// token, e.g. "S0", "O1", "H4".
func (d Decision) Token() string {
	return fmt.Sprintf("%c%d", d.Move.Token(), d.NewColor)
}
