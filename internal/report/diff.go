package report

import (
	"fmt"
	"strings"

	godiff "github.com/sourcegraph/go-diff/diff"
)

// UnifiedSurvivorDiff renders the line-by-line unified diff between two
// survivor lists (one-code-per-line, as Survivors returns them) and
// parses it back with go-diff, the way the corpus's diff package builds a
// unified diff by hand and hands it to godiff.ParseMultiFileDiff for
// structured hunks rather than re-deriving them. Tests use this to assert
// a sequential and a partitioned-parallel run produce the same survivor
// set (spec.md §8 scenario 6): an empty hunk list means no difference.
func UnifiedSurvivorDiff(label string, sequential, parallelResult []string) (*godiff.FileDiff, error) {
	unified := buildUnifiedDiff(label, sequential, parallelResult)
	if unified == "" {
		return &godiff.FileDiff{OrigName: label, NewName: label}, nil
	}

	fileDiffs, err := godiff.ParseMultiFileDiff([]byte(unified))
	if err != nil {
		return nil, fmt.Errorf("report: parsing survivor diff: %w", err)
	}
	if len(fileDiffs) == 0 {
		return &godiff.FileDiff{OrigName: label, NewName: label}, nil
	}
	return fileDiffs[0], nil
}

// buildUnifiedDiff produces a minimal single-hunk unified diff text for
// two whole-file line lists, sufficient for the short survivor lists this
// package compares (not a general-purpose diff algorithm).
func buildUnifiedDiff(label string, oldLines, newLines []string) string {
	if equalLines(oldLines, newLines) {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- %s.sequential\n", label)
	fmt.Fprintf(&sb, "+++ %s.parallel\n", label)
	fmt.Fprintf(&sb, "@@ -1,%d +1,%d @@\n", len(oldLines), len(newLines))
	for _, line := range oldLines {
		fmt.Fprintf(&sb, "-%s\n", line)
	}
	for _, line := range newLines {
		fmt.Fprintf(&sb, "+%s\n", line)
	}
	return sb.String()
}

func equalLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
