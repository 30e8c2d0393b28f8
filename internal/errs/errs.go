// Package errs holds the sentinel errors shared across synth-light's
// packages, so callers can branch with errors.Is instead of string
// matching. Each sentinel corresponds to one error kind from the
// search-and-verify pipeline's error model.
package errs

import "errors"

var (
	// ErrConfiguration marks an invalid light class, color count, scheduler
	// name, or a malformed canonical algorithm code. Fatal: surfaced
	// immediately to the caller of Run.
	ErrConfiguration = errors.New("synthlight: configuration error")

	// ErrWorkspace marks a failure to create or mount the scratch
	// workspace. A failed fast-storage mount falls back to a plain
	// directory with a warning; other workspace errors are fatal.
	ErrWorkspace = errors.New("synthlight: workspace error")

	// ErrToolInvocation marks a checker/compiler invocation failure not
	// explained by a counterexample: missing binary, non-zero exit,
	// malformed fragment, or I/O failure. Per-algorithm; the search
	// continues and the verdict records "tool error".
	ErrToolInvocation = errors.New("synthlight: tool invocation error")

	// ErrToolTimeout marks a checker invocation that exceeded its
	// per-call wall-clock ceiling.
	ErrToolTimeout = errors.New("synthlight: tool timeout")
)
