// Package report collects verifier outcomes into the final survivor set a
// run produces, and writes that set to a sink — file, stream, or, for
// long-lived archives, cloud storage (spec component C9's output side,
// spec.md §7).
package report

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/xdefago/synth-light/internal/verify"
)

// Verdict is the terminal classification of one algorithm within a run.
type Verdict string

const (
	VerdictGathers        Verdict = "gathers"
	VerdictCounterexample Verdict = "counterexample"
	VerdictToolError      Verdict = "tool_error"
	VerdictTimeout        Verdict = "timeout"
)

// verdictFromOutcome maps a verifier outcome onto the report's verdict
// vocabulary, keeping the two enums independent so report's on-disk shape
// doesn't change if verify's internal classification grows.
func verdictFromOutcome(o verify.Outcome) Verdict {
	switch o {
	case verify.Gathers:
		return VerdictGathers
	case verify.Counterexample:
		return VerdictCounterexample
	case verify.Timeout:
		return VerdictTimeout
	default:
		return VerdictToolError
	}
}

// Entry is one algorithm's recorded result.
type Entry struct {
	Code     string        `json:"code"`
	Verdict  Verdict       `json:"verdict"`
	Detail   string        `json:"detail,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

// NewEntry builds an Entry from a verifier result.
func NewEntry(code string, res *verify.Result) Entry {
	return Entry{Code: code, Verdict: verdictFromOutcome(res.Outcome), Detail: res.Detail, Duration: res.Duration}
}

// Report is the full accumulated result of one run.
type Report struct {
	Entries []Entry `json:"entries"`
}

// Survivors returns the codes of every algorithm verdicted "gathers", in a
// deterministic, sorted order so sequential and parallel runs over the
// same search space produce byte-identical reports (spec.md §8 scenario
// 6's determinism requirement).
func (r *Report) Survivors() []string {
	out := make([]string, 0, len(r.Entries))
	for _, e := range r.Entries {
		if e.Verdict == VerdictGathers {
			out = append(out, e.Code)
		}
	}
	sort.Strings(out)
	return out
}

// Sort orders entries by code, so two reports built by differently
// partitioned parallel runs compare equal regardless of completion order.
func (r *Report) Sort() {
	sort.Slice(r.Entries, func(i, j int) bool { return r.Entries[i].Code < r.Entries[j].Code })
}

// Sink receives a finished Report.
type Sink interface {
	Write(r *Report) error
}

// FileSink writes the report as a single JSON document to a path.
type FileSink struct {
	Path string
}

func (s FileSink) Write(r *Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("report: marshaling: %w", err)
	}
	if err := os.WriteFile(s.Path, data, 0o644); err != nil {
		return fmt.Errorf("report: writing %s: %w", s.Path, err)
	}
	return nil
}

// StreamSink writes one JSON-lines entry per call to Append, for callers
// that want results as they land rather than buffered into one Report.
// Terse output vs. structured JSON lines is chosen by the caller, the way
// the corpus's CLI layer checks isatty before picking a renderer.
type StreamSink struct {
	w      io.Writer
	bw     *bufio.Writer
	isJSON bool
}

// NewStreamSink wraps w. asJSON selects JSON-lines output; otherwise each
// entry is rendered as a terse one-line summary.
func NewStreamSink(w io.Writer, asJSON bool) *StreamSink {
	return &StreamSink{w: w, bw: bufio.NewWriter(w), isJSON: asJSON}
}

// Append writes one entry immediately, flushing the buffer.
func (s *StreamSink) Append(e Entry) error {
	if s.isJSON {
		data, err := json.Marshal(e)
		if err != nil {
			return err
		}
		if _, err := s.bw.Write(data); err != nil {
			return err
		}
		if err := s.bw.WriteByte('\n'); err != nil {
			return err
		}
	} else {
		if _, err := fmt.Fprintf(s.bw, "%-12s %-14s %s\n", e.Code, e.Verdict, e.Detail); err != nil {
			return err
		}
	}
	return s.bw.Flush()
}
