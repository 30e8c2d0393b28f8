// Package orchestrator wires the search-and-verify pipeline end to end
// (spec component C9): build the observation domain, partition the
// enumeration space across workers, apply filters and canonicalization,
// verify survivors, and collect the result into a Report.
package orchestrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/xdefago/synth-light/internal/algorithm"
	"github.com/xdefago/synth-light/internal/config"
	"github.com/xdefago/synth-light/internal/enumerate"
	"github.com/xdefago/synth-light/internal/errs"
	"github.com/xdefago/synth-light/internal/filter"
	"github.com/xdefago/synth-light/internal/logging"
	"github.com/xdefago/synth-light/internal/progress"
	"github.com/xdefago/synth-light/internal/report"
	"github.com/xdefago/synth-light/internal/symmetry"
	"github.com/xdefago/synth-light/internal/verify"
	"github.com/xdefago/synth-light/internal/workspace"
)

// Options configures one Run beyond the model/run parameters: an optional
// progress sink, a result cache, and a logger.
type Options struct {
	ProgressSink progress.Sink
	Cache        Cache
	Logger       *logging.Logger
}

// Cache is the interface a resumable result store implements (spec
// component C13). Orchestrator consults it before verifying and records
// into it after, so a killed and restarted run skips already-verified
// codes.
type Cache interface {
	Lookup(code string) (report.Entry, bool)
	Store(entry report.Entry) error
}

// cancelFlag is the cooperative cancellation mechanism spec.md §9 resolves
// "let the child finish" for: set it and workers stop *between* verifier
// invocations, never mid child-process.
type cancelFlag struct {
	mu   sync.Mutex
	stop bool
}

func (c *cancelFlag) Set() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stop = true
}

func (c *cancelFlag) IsSet() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stop
}

// Run executes the full pipeline for one (model, run-flags) configuration
// and returns the accumulated Report.
func Run(ctx context.Context, params config.ModelParams, flags config.RunFlags, opts Options) (*report.Report, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := flags.Validate(); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.With("component", "orchestrator")

	domain, err := params.Domain()
	if err != nil {
		return nil, err
	}

	enumerator := enumerate.New(domain)
	chain := filter.Chain(filter.Options{RetainRule: params.Retain, WeakFilter: params.Weak})
	perms := symmetry.Permutations(domain.Colors)

	toolchain, err := verify.ProbeToolchain()
	if err != nil {
		return nil, err
	}
	driver := verify.NewDriver(toolchain, flags, logger)

	root, releaseRoot, err := workspace.Acquire(workspace.Options{
		BaseDir:     flags.WorkspaceBaseDir,
		PreferTmpfs: flags.UseTmpfs,
	})
	if err != nil {
		return nil, err
	}
	defer releaseRoot()
	if flags.UseTmpfs && root.Backing != workspace.BackingTmpfs {
		logger.Warn("tmpfs workspace unavailable, using a plain directory", "workspace", root.Dir)
	}

	logger.Info("starting run",
		"scheduler", params.Scheduler, "light_class", params.LightClass,
		"colors", params.Colors, "total_space", enumerator.Total().String(),
		"workers", flags.Parallelism, "workspace", root.Dir)

	ranges := enumerator.Partition(flags.Parallelism)

	var mu sync.Mutex
	var entries []report.Entry
	var enumerated, survivedFilters, verified, passed int64
	var cancel cancelFlag

	// Watch the caller's context independently of the errgroup's derived
	// context: setting cancel only stops workers between iterations, it
	// never reaches into a running verifier invocation. The context handed
	// to driver.Verify below is context.Background, so a host-initiated
	// cancellation lets the current child process run to completion.
	watchDone := make(chan struct{})
	defer close(watchDone)
	go func() {
		select {
		case <-ctx.Done():
			cancel.Set()
		case <-watchDone:
		}
	}()

	group, _ := errgroup.WithContext(ctx)
	for _, r := range ranges {
		r := r
		group.Go(func() error {
			cursor := enumerator.Cursor(r)
			for {
				if cancel.IsSet() {
					return nil
				}
				a, ok := cursor.Next()
				if !ok {
					return nil
				}
				mu.Lock()
				enumerated++
				mu.Unlock()

				if !filter.Survives(a, chain) {
					continue
				}
				mu.Lock()
				survivedFilters++
				mu.Unlock()

				if !symmetry.IsRepresentative(a, perms) {
					continue
				}

				entry, err := verifyOne(context.Background(), driver, root.Dir, a, params, opts.Cache)
				if err != nil {
					logger.Warn("verifier invocation failed", "code", a.Code(), "error", err)
				}

				mu.Lock()
				verified++
				if entry.Verdict == report.VerdictGathers {
					passed++
				}
				entries = append(entries, entry)
				ev := progress.Event{
					EnumeratedCount: enumerated, SurvivedFilters: survivedFilters,
					VerifiedCount: verified, PassedCount: passed,
					LastCode: entry.Code, LastOutcome: string(entry.Verdict),
				}
				mu.Unlock()

				if opts.ProgressSink != nil {
					opts.ProgressSink.Report(ctx, ev)
				}
			}
		})
	}

	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrToolInvocation, err)
	}

	rep := &report.Report{Entries: entries}
	rep.Sort()

	if flags.ReportPath != "" {
		if err := (report.FileSink{Path: flags.ReportPath}).Write(rep); err != nil {
			return rep, err
		}
	}

	logger.Info("run complete",
		"enumerated", enumerated, "survived_filters", survivedFilters,
		"verified", verified, "passed", passed)

	return rep, nil
}

// verifyOne checks the cache, then runs the verifier, recording the
// result back into the cache so a restarted run can skip it.
func verifyOne(ctx context.Context, driver *verify.Driver, workspaceRoot string, a *algorithm.Algorithm, params config.ModelParams, cache Cache) (report.Entry, error) {
	code := a.Code()

	if cache != nil {
		if entry, ok := cache.Lookup(code); ok {
			return entry, nil
		}
	}

	subdir := filepath.Join(workspaceRoot, "invoke-"+uuid.NewString())
	if err := os.Mkdir(subdir, 0o755); err != nil {
		return report.Entry{}, fmt.Errorf("%w: %v", errs.ErrWorkspace, err)
	}
	defer os.RemoveAll(subdir)

	res, err := driver.Verify(ctx, subdir, a, params)
	if res == nil {
		return report.Entry{Code: code, Verdict: report.VerdictToolError, Detail: errDetail(err)}, err
	}

	entry := report.NewEntry(code, res)
	if cache != nil {
		if cerr := cache.Store(entry); cerr != nil {
			return entry, cerr
		}
	}
	return entry, err
}

func errDetail(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
