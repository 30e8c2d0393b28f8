package emit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xdefago/synth-light/internal/algorithm"
	"github.com/xdefago/synth-light/internal/modelspace"
)

func mustDomain(t *testing.T, class modelspace.LightClass, colors int, classL bool) *modelspace.Domain {
	t.Helper()
	d, err := modelspace.NewDomain(class, colors, classL)
	require.NoError(t, err)
	return d
}

func TestRenderIncludesNameAndColorMacros(t *testing.T) {
	d := mustDomain(t, modelspace.Full, 2, false)
	a, err := algorithm.Decode(d, "00s_01s_10s_11s_00d_01d_10d_11d__S0_S0_S1_S1_S1_S0_O1_H0")
	require.NoError(t, err)

	frag := Render(a)

	require.Contains(t, frag, `#define ALGO_NAME "ALGO_SYNTH_`+d.Header()+"__"+a.Suffix()+`"`)
	require.Contains(t, frag, "#define MAX_COLOR 1")
	require.Contains(t, frag, "#define NUM_COLORS 2")
	require.Contains(t, frag, "ALGO_HOOK(me, other, same, move_out, color_out)")
}

func TestRenderEmitsOneGuardPerObservation(t *testing.T) {
	d := mustDomain(t, modelspace.Full, 2, false)
	a, err := algorithm.Decode(d, "00s_01s_10s_11s_00d_01d_10d_11d__S0_S0_S1_S1_S1_S0_O1_H0")
	require.NoError(t, err)

	frag := Render(a)
	guardCount := strings.Count(frag, "\t:: (")
	require.Equal(t, d.Size(), guardCount)
}

func TestRenderGuardsReferenceOnlyExposedComponents(t *testing.T) {
	// External/classL domain exposes only the other robot's color: guards
	// must never mention "me ==" or "same ==".
	d := mustDomain(t, modelspace.External, 4, true)
	decisions := make([]modelspace.Decision, d.Size())
	for i := range decisions {
		decisions[i] = modelspace.Decision{Move: modelspace.MoveStay, NewColor: 0}
	}
	a := algorithm.New(d, decisions)

	frag := Render(a)
	require.NotContains(t, frag, "me ==")
	require.NotContains(t, frag, "same ==")
	require.Contains(t, frag, "other ==")
}

func TestRenderDecisionBranchesMatchDecodedMoves(t *testing.T) {
	d := mustDomain(t, modelspace.Full, 2, false)
	a, err := algorithm.Decode(d, "00s_01s_10s_11s_00d_01d_10d_11d__S0_S0_S1_S1_S1_S0_O1_H0")
	require.NoError(t, err)

	frag := Render(a)

	// First observation (00s) decides S0: stay, color 0.
	require.Contains(t, frag, "me == 0 && other == 0 && same == POS_SAME) -> move_out = MOVE_STAY; color_out = 0;")
	// Observation 10d decides O1: move to other robot's position, color 1.
	require.Contains(t, frag, "me == 1 && other == 0 && same == POS_DIFF) -> move_out = MOVE_TO_OTHER; color_out = 1;")
	// Observation 11d decides H0: move to halfway point, color 0.
	require.Contains(t, frag, "me == 1 && other == 1 && same == POS_DIFF) -> move_out = MOVE_TO_HALF; color_out = 0;")
}

func TestStaticTemplatesCoverExpectedFiles(t *testing.T) {
	files, err := StaticTemplates()
	require.NoError(t, err)
	require.Contains(t, files, "types.pml")
	require.Contains(t, files, "robots.pml")
	require.Contains(t, files, "schedulers.pml")
	require.Contains(t, files, "model.pml")
	for name, content := range files {
		require.NotEmptyf(t, content, "template %s must not be empty", name)
	}
}
