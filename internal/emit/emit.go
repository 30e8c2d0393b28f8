// Package emit renders a surviving algorithm as the model-description
// fragment the checker's static templates expect to include (spec
// component C6), and exposes those templates as embedded, read-only data
// rather than generated code (spec.md §9's "cyclic model definitions"
// design note).
package emit

import (
	"embed"
	"fmt"
	"strings"

	"github.com/xdefago/synth-light/internal/algorithm"
	"github.com/xdefago/synth-light/internal/modelspace"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// FragmentFileName is the name robots.pml.tmpl includes; the emitter's
// output must be written under exactly this name in the verifier's
// scratch subdirectory.
const FragmentFileName = "algorithm.pml"

// StaticTemplates are the fixed files the verifier copies alongside the
// generated fragment. Keys are the destination file names (".tmpl" is
// stripped); values are their contents.
func StaticTemplates() (map[string][]byte, error) {
	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return nil, fmt.Errorf("emit: reading embedded templates: %w", err)
	}

	out := make(map[string][]byte, len(entries))
	for _, entry := range entries {
		data, err := templateFS.ReadFile("templates/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("emit: reading template %s: %w", entry.Name(), err)
		}
		out[strings.TrimSuffix(entry.Name(), ".tmpl")] = data
	}
	return out, nil
}

// moveMacro names the types.pml constant for a chosen move.
func moveMacro(m modelspace.Move) string {
	switch m {
	case modelspace.MoveStay:
		return "MOVE_STAY"
	case modelspace.MoveToHalf:
		return "MOVE_TO_HALF"
	case modelspace.MoveToOther:
		return "MOVE_TO_OTHER"
	default:
		return "MOVE_MISS"
	}
}

// Render produces the algorithm.pml fragment text for a: a name macro, the
// ALGO_HOOK binding, MAX_COLOR/NUM_COLORS, and a guarded chain mapping
// each observation to its decision, testing equality only on the
// components the domain exposes (spec.md §4.6, §6).
func Render(a *algorithm.Algorithm) string {
	d := a.Domain
	name := "ALGO_SYNTH_" + d.Header() + "__" + a.Suffix()
	fnName := strings.ToLower(name)

	var sb strings.Builder
	fmt.Fprintf(&sb, "/* Generated by synth-light; do not edit. */\n\n")
	fmt.Fprintf(&sb, "#define ALGO_NAME \"%s\"\n", name)
	fmt.Fprintf(&sb, "#define MAX_COLOR %d\n", d.Colors-1)
	fmt.Fprintf(&sb, "#define NUM_COLORS %d\n\n", d.Colors)
	fmt.Fprintf(&sb, "#define ALGO_HOOK(me, other, same, move_out, color_out) \\\n\t%s(me, other, same, move_out, color_out)\n\n", fnName)
	fmt.Fprintf(&sb, "inline %s(me, other, same, move_out, color_out) {\n", fnName)
	sb.WriteString("\tif\n")

	for i, obs := range d.Observations() {
		dec := a.At(i)
		guard := guardFor(d, obs)
		fmt.Fprintf(&sb, "\t:: (%s) -> move_out = %s; color_out = %d;\n", guard, moveMacro(dec.Move), dec.NewColor)
	}
	sb.WriteString("\t:: else -> move_out = MOVE_STAY; color_out = me; /* unreachable: domain is total */\n")
	sb.WriteString("\tfi\n}\n")
	return sb.String()
}

// guardFor renders the branch guard for one observation, testing equality
// on exactly the components the domain exposes.
func guardFor(d *modelspace.Domain, obs modelspace.Observation) string {
	var clauses []string
	if d.HasMe {
		clauses = append(clauses, fmt.Sprintf("me == %d", obs.MeColor))
	}
	if d.HasOther {
		clauses = append(clauses, fmt.Sprintf("other == %d", obs.OtherColor))
	}
	if d.HasPos {
		if obs.SamePosition {
			clauses = append(clauses, "same == POS_SAME")
		} else {
			clauses = append(clauses, "same == POS_DIFF")
		}
	}
	if len(clauses) == 0 {
		return "true"
	}
	return strings.Join(clauses, " && ")
}
