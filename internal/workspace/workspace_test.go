package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAcquireCreatesUniqueDiskBackedDir(t *testing.T) {
	base := t.TempDir()

	s1, release1, err := Acquire(Options{BaseDir: base})
	require.NoError(t, err)
	require.Equal(t, BackingDisk, s1.Backing)
	require.DirExists(t, s1.Dir)
	require.True(t, filepath.Dir(s1.Dir) == base || filepath.Dir(s1.Dir) == filepath.Clean(base))

	s2, release2, err := Acquire(Options{BaseDir: base})
	require.NoError(t, err)
	require.NotEqual(t, s1.Dir, s2.Dir)

	require.NoError(t, release1())
	require.NoError(t, release2())
	require.NoDirExists(t, s1.Dir)
	require.NoDirExists(t, s2.Dir)
}

func TestAcquireDefaultsBaseDirToTempDir(t *testing.T) {
	s, release, err := Acquire(Options{})
	require.NoError(t, err)
	defer release()
	require.DirExists(t, s.Dir)
	require.Equal(t, os.TempDir(), filepath.Dir(s.Dir))
}

func TestReleaseIsSafeToCallAfterManualRemoval(t *testing.T) {
	base := t.TempDir()
	s, release, err := Acquire(Options{BaseDir: base})
	require.NoError(t, err)

	require.NoError(t, os.RemoveAll(s.Dir))
	require.NoError(t, release())
}
