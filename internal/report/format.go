package report

import (
	"os"

	"github.com/mattn/go-isatty"
)

// DefaultIsJSON picks JSON-lines output when stdout is not a terminal
// (piped to a file or another process) and a terse one-line-per-entry
// format when it is, the same heuristic the corpus's CLI layer uses to
// decide between a human-facing and a machine-facing renderer.
func DefaultIsJSON() bool {
	return !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd())
}
