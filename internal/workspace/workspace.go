// Package workspace allocates and tears down the scratch root directory
// of a run, under which each verifier invocation gets its own subdirectory
// for its model-description tree (spec component C7). Acquire prefers a tmpfs-backed directory when the caller
// asks for one and the platform supports it, falling back to an ordinary
// temporary directory otherwise.
package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/google/uuid"
	"golang.org/x/sys/unix"

	"github.com/xdefago/synth-light/internal/errs"
)

// Scratch is one allocated, exclusively-owned verifier workspace.
type Scratch struct {
	// Dir is the scratch root; per-invocation subdirectories are created
	// beneath it.
	Dir string
	// Backing reports how Dir is provisioned, for logging.
	Backing Backing
}

// Backing names how a Scratch's directory is provisioned.
type Backing string

const (
	// BackingTmpfs means Dir is the mount point of a dedicated tmpfs.
	BackingTmpfs Backing = "tmpfs"
	// BackingDisk means Dir is an ordinary temporary directory.
	BackingDisk Backing = "disk"
)

// Options configures Acquire.
type Options struct {
	// BaseDir is the parent directory new scratch directories are created
	// under. Empty means os.TempDir().
	BaseDir string
	// PreferTmpfs requests a tmpfs mount when the host supports it
	// (Linux only; ignored elsewhere).
	PreferTmpfs bool
	// TmpfsSizeBytes bounds the tmpfs mount's size, if used. Zero means the
	// kernel default (typically half of physical RAM).
	TmpfsSizeBytes int64
}

// Acquire creates a fresh, uniquely-named scratch directory and returns it
// along with a release function the caller should defer immediately.
// Release is best-effort: spec.md §4.7 does not require cleanup to survive
// a killed process, only to run when the caller unwinds normally.
func Acquire(opts Options) (*Scratch, func() error, error) {
	base := opts.BaseDir
	if base == "" {
		base = os.TempDir()
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, nil, fmt.Errorf("%w: creating workspace base dir %s: %v", errs.ErrWorkspace, base, err)
	}

	dir := filepath.Join(base, "synth-light-"+uuid.NewString())
	if err := os.Mkdir(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("%w: creating scratch dir %s: %v", errs.ErrWorkspace, dir, err)
	}

	if opts.PreferTmpfs && runtime.GOOS == "linux" {
		if err := mountTmpfs(dir, opts.TmpfsSizeBytes); err == nil {
			s := &Scratch{Dir: dir, Backing: BackingTmpfs}
			return s, releaseFunc(s), nil
		}
		// Mount failed (likely insufficient privilege): fall through to the
		// plain directory already created above.
	}

	s := &Scratch{Dir: dir, Backing: BackingDisk}
	return s, releaseFunc(s), nil
}

func releaseFunc(s *Scratch) func() error {
	return func() error {
		var errUnmount error
		if s.Backing == BackingTmpfs {
			errUnmount = unix.Unmount(s.Dir, 0)
		}
		errRemove := os.RemoveAll(s.Dir)
		return errors.Join(errUnmount, errRemove)
	}
}

func mountTmpfs(dir string, sizeBytes int64) error {
	data := "mode=0755"
	if sizeBytes > 0 {
		data = fmt.Sprintf("size=%d,%s", sizeBytes, data)
	}
	return unix.Mount("tmpfs", dir, "tmpfs", 0, data)
}
