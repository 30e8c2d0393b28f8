package verify

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xdefago/synth-light/internal/algorithm"
	"github.com/xdefago/synth-light/internal/config"
	"github.com/xdefago/synth-light/internal/modelspace"
)

// writeStub creates an executable shell script named name under dir,
// standing in for a toolchain binary during tests (no real spin/cc
// install is assumed to be present on the test host).
func writeStub(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	script := "#!/bin/sh\n" + body + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func testAlgorithm(t *testing.T) *algorithm.Algorithm {
	t.Helper()
	d, err := modelspace.NewDomain(modelspace.Full, 2, false)
	require.NoError(t, err)
	a, err := algorithm.Decode(d, "00s_01s_10s_11s_00d_01d_10d_11d__S0_S0_S1_S1_S1_S0_O1_H0")
	require.NoError(t, err)
	return a
}

func TestVerifyClassifiesGathersWhenNoTrailProduced(t *testing.T) {
	binDir := t.TempDir()
	spin := writeStub(t, binDir, "spin", `
case "$1" in
  -a) echo ok > "$PWD/pan.c" ;;
  -t) echo "no trail" ;;
esac
`)
	cc := writeStub(t, binDir, "cc", `echo '#!/bin/sh
exit 0' > "$2"; chmod +x "$2"`)

	dir := t.TempDir()
	drv := &Driver{
		Toolchain: &Toolchain{SpinPath: spin, CCPath: cc},
		Timeout:   5 * time.Second,
		Depth:     1000,
	}

	res, err := drv.Verify(context.Background(), dir, testAlgorithm(t), config.DefaultModelParams())
	require.NoError(t, err)
	require.Equal(t, Gathers, res.Outcome)
	require.FileExists(t, filepath.Join(dir, "algorithm.pml"))
	require.FileExists(t, filepath.Join(dir, "model.pml"))
}

func TestVerifyClassifiesCounterexampleWhenTrailProduced(t *testing.T) {
	binDir := t.TempDir()
	spin := writeStub(t, binDir, "spin", `
case "$1" in
  -a) echo ok > "$PWD/pan.c" ;;
  -t) echo "counterexample replay output" ;;
esac
`)
	cc := writeStub(t, binDir, "cc", `echo '#!/bin/sh
touch pan.trail
exit 1' > "$2"; chmod +x "$2"`)

	dir := t.TempDir()
	drv := &Driver{
		Toolchain: &Toolchain{SpinPath: spin, CCPath: cc},
		Timeout:   5 * time.Second,
		Depth:     1000,
	}

	res, err := drv.Verify(context.Background(), dir, testAlgorithm(t), config.DefaultModelParams())
	require.NoError(t, err)
	require.Equal(t, Counterexample, res.Outcome)
	require.NotEmpty(t, res.Detail)
}

func TestVerifyReportsToolErrorWhenSpinMissingPanC(t *testing.T) {
	binDir := t.TempDir()
	spin := writeStub(t, binDir, "spin", `exit 0`) // never writes pan.c
	cc := writeStub(t, binDir, "cc", `exit 0`)

	dir := t.TempDir()
	drv := &Driver{
		Toolchain: &Toolchain{SpinPath: spin, CCPath: cc},
		Timeout:   5 * time.Second,
		Depth:     1000,
	}

	res, err := drv.Verify(context.Background(), dir, testAlgorithm(t), config.DefaultModelParams())
	require.Error(t, err)
	require.Equal(t, ToolError, res.Outcome)
}

func TestVerifyReportsTimeoutOnSlowToolchain(t *testing.T) {
	binDir := t.TempDir()
	spin := writeStub(t, binDir, "spin", `sleep 2; echo ok > "$PWD/pan.c"`)
	cc := writeStub(t, binDir, "cc", `exit 0`)

	dir := t.TempDir()
	drv := &Driver{
		Toolchain: &Toolchain{SpinPath: spin, CCPath: cc},
		Timeout:   50 * time.Millisecond,
		Depth:     1000,
	}

	res, err := drv.Verify(context.Background(), dir, testAlgorithm(t), config.DefaultModelParams())
	require.Error(t, err)
	require.Equal(t, Timeout, res.Outcome)
}

func TestMaterializeWritesFragmentAndTemplates(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, materialize(dir, testAlgorithm(t)))
	for _, name := range []string{"algorithm.pml", "types.pml", "robots.pml", "schedulers.pml", "model.pml"} {
		require.FileExists(t, filepath.Join(dir, name))
	}
}
