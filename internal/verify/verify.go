// Package verify drives the external model-checker toolchain against one
// candidate algorithm's emitted fragment (spec component C8): translate,
// compile, run with a liveness property and a search-depth bound, and
// optionally replay a counterexample trail. The checker binaries
// themselves are opaque child processes, per spec.md §1's explicit
// exclusion of the checker from the synthesizer's own scope.
package verify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/xdefago/synth-light/internal/algorithm"
	"github.com/xdefago/synth-light/internal/config"
	"github.com/xdefago/synth-light/internal/emit"
	"github.com/xdefago/synth-light/internal/errs"
	"github.com/xdefago/synth-light/internal/logging"
)

var tracer = otel.Tracer("synthlight.verify")

// Outcome classifies how a verifier invocation concluded.
type Outcome int

const (
	// Gathers means the liveness property held: the algorithm passes.
	Gathers Outcome = iota
	// Counterexample means the checker found a run violating the property.
	Counterexample
	// ToolError means a child process failed for a reason unrelated to the
	// property itself (missing binary, non-zero exit, malformed fragment).
	ToolError
	// Timeout means the invocation exceeded its wall-clock ceiling.
	Timeout
)

func (o Outcome) String() string {
	switch o {
	case Gathers:
		return "gathers"
	case Counterexample:
		return "counterexample"
	case ToolError:
		return "tool_error"
	case Timeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Result is the outcome of one verifier invocation against one algorithm.
type Result struct {
	Outcome  Outcome
	Detail   string
	Duration time.Duration
}

// Toolchain names the external binaries the verifier drives.
type Toolchain struct {
	SpinPath string
	CCPath   string
}

// ProbeToolchain locates the checker translator and a C compiler on PATH,
// the way the corpus's lint runner probes for installed linters before
// attempting to use them.
func ProbeToolchain() (*Toolchain, error) {
	spinPath, err := exec.LookPath("spin")
	if err != nil {
		return nil, fmt.Errorf("%w: spin not found on PATH: %v", errs.ErrToolInvocation, err)
	}
	ccPath, err := exec.LookPath("cc")
	if err != nil {
		ccPath, err = exec.LookPath("gcc")
		if err != nil {
			return nil, fmt.Errorf("%w: no C compiler (cc or gcc) found on PATH: %v", errs.ErrToolInvocation, err)
		}
	}
	return &Toolchain{SpinPath: spinPath, CCPath: ccPath}, nil
}

// Driver verifies algorithms by assembling a scratch workspace and running
// the checker toolchain against it.
type Driver struct {
	Toolchain *Toolchain
	Timeout   time.Duration
	Depth     int
	Logger    *logging.Logger
}

// NewDriver builds a Driver from a probed toolchain and run flags.
func NewDriver(tc *Toolchain, flags config.RunFlags, logger *logging.Logger) *Driver {
	if logger == nil {
		logger = logging.Default()
	}
	return &Driver{
		Toolchain: tc,
		Timeout:   time.Duration(flags.VerifierTimeoutS) * time.Second,
		Depth:     flags.SearchDepth,
		Logger:    logger.With("component", "verifier"),
	}
}

// Verify materializes a's fragment alongside the static templates in dir,
// then runs the checker pipeline: translate, compile, run, and (on a
// counterexample) replay the trail.
func (d *Driver) Verify(ctx context.Context, dir string, a *algorithm.Algorithm, params config.ModelParams) (*Result, error) {
	ctx, span := tracer.Start(ctx, "Driver.Verify", trace.WithAttributes(
		attribute.String("algorithm.code", a.Code()),
		attribute.String("model.scheduler", params.Scheduler),
		attribute.String("model.rigidity", params.Rigidity),
	))
	defer span.End()

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, d.Timeout)
	defer cancel()

	if err := materialize(dir, a); err != nil {
		span.RecordError(err)
		return nil, err
	}

	defines := schedulerDefines(params)

	spinArgs := append(append([]string{"-a"}, defines...), "model.pml")
	if err := d.run(ctx, dir, d.Toolchain.SpinPath, spinArgs...); err != nil {
		return classify(ctx, err, start, "translate")
	}

	pancPath := filepath.Join(dir, "pan.c")
	if _, err := os.Stat(pancPath); err != nil {
		return &Result{Outcome: ToolError, Duration: time.Since(start)},
			fmt.Errorf("%w: spin did not produce pan.c", errs.ErrToolInvocation)
	}

	if err := d.run(ctx, dir, d.Toolchain.CCPath, "-o", "pan", "pan.c"); err != nil {
		return classify(ctx, err, start, "compile")
	}

	trailPath := filepath.Join(dir, "pan.trail")
	watcher, err := fsnotify.NewWatcher()
	if err == nil {
		_ = watcher.Add(dir)
		defer watcher.Close()
	}

	runArgs := []string{"-a", "-m" + strconv.Itoa(d.Depth)}
	runErr := d.run(ctx, dir, filepath.Join(dir, "pan"), runArgs...)

	trailFound := fileExists(trailPath)
	if watcher != nil {
		trailFound = trailFound || awaitTrail(watcher, 200*time.Millisecond)
	}

	if runErr != nil && !trailFound {
		return classify(ctx, runErr, start, "run")
	}

	if trailFound {
		detail := "liveness property violated"
		if out, err := d.captureOutput(ctx, dir, d.Toolchain.SpinPath, "-t", "model.pml"); err == nil {
			detail = out
		}
		return &Result{Outcome: Counterexample, Detail: detail, Duration: time.Since(start)}, nil
	}

	return &Result{Outcome: Gathers, Duration: time.Since(start)}, nil
}

// materialize writes a's rendered fragment and the static templates into
// dir.
func materialize(dir string, a *algorithm.Algorithm) error {
	if err := os.WriteFile(filepath.Join(dir, emit.FragmentFileName), []byte(emit.Render(a)), 0o644); err != nil {
		return fmt.Errorf("%w: writing algorithm fragment: %v", errs.ErrToolInvocation, err)
	}
	templates, err := emit.StaticTemplates()
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrToolInvocation, err)
	}
	for name, content := range templates {
		if err := os.WriteFile(filepath.Join(dir, name), content, 0o644); err != nil {
			return fmt.Errorf("%w: writing template %s: %v", errs.ErrToolInvocation, name, err)
		}
	}
	return nil
}

// schedulerDefines renders the scheduler/rigidity preprocessor symbols the
// templates branch on, passed through without interpretation per spec.md
// §9's redesign note.
func schedulerDefines(params config.ModelParams) []string {
	return []string{
		"-DSCHED_NAME=" + params.Scheduler,
		"-DSCHED_" + params.Scheduler + "=1",
		"-DRIGIDITY_" + params.Rigidity + "=1",
	}
}

func (d *Driver) run(ctx context.Context, dir, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w (stderr: %s)", name, err, stderr.String())
	}
	return nil
}

func (d *Driver) captureOutput(ctx context.Context, dir, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func classify(ctx context.Context, err error, start time.Time, stage string) (*Result, error) {
	if ctx.Err() == context.DeadlineExceeded {
		return &Result{Outcome: Timeout, Duration: time.Since(start)},
			fmt.Errorf("%w: %s", errs.ErrToolTimeout, stage)
	}
	if ee, ok := asExitError(err); ok {
		return &Result{Outcome: ToolError, Duration: time.Since(start)},
			fmt.Errorf("%w: %s failed with exit code %d", errs.ErrToolInvocation, stage, ee.ExitCode())
	}
	return &Result{Outcome: ToolError, Duration: time.Since(start)},
		fmt.Errorf("%w: %s: %v", errs.ErrToolInvocation, stage, err)
}

func asExitError(err error) (*exec.ExitError, bool) {
	var ee *exec.ExitError
	ok := errors.As(err, &ee)
	return ee, ok
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// awaitTrail blocks briefly for an fsnotify create event naming pan.trail,
// used as a fast path alongside the os.Stat fallback above.
func awaitTrail(watcher *fsnotify.Watcher, wait time.Duration) bool {
	timer := time.NewTimer(wait)
	defer timer.Stop()
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return false
			}
			if ev.Op&fsnotify.Create != 0 && filepath.Base(ev.Name) == "pan.trail" {
				return true
			}
		case <-timer.C:
			return false
		}
	}
}
