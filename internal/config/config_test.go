package config

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xdefago/synth-light/internal/errs"
)

func TestDefaultsAreValid(t *testing.T) {
	require.NoError(t, DefaultModelParams().Validate())
	require.NoError(t, DefaultRunFlags().Validate())
}

func TestDefaultsBuildScenarioOneDomain(t *testing.T) {
	d, err := DefaultModelParams().Domain()
	require.NoError(t, err)
	require.Equal(t, 8, d.Size())
	require.Equal(t, "00s_01s_10s_11s_00d_01d_10d_11d", d.Header())
}

func TestValidateRejectsUnknownLightClass(t *testing.T) {
	m := DefaultModelParams()
	m.LightClass = "ULTRAVIOLET"
	require.ErrorIs(t, m.Validate(), errs.ErrConfiguration)
}

func TestValidateRejectsUnknownScheduler(t *testing.T) {
	m := DefaultModelParams()
	m.Scheduler = "round-robin"
	require.Error(t, m.Validate())
}

func TestValidateRejectsColorCountOutOfRange(t *testing.T) {
	m := DefaultModelParams()
	m.Colors = 6
	require.Error(t, m.Validate())
}

func TestLoadParsesModelAndRunFlags(t *testing.T) {
	doc := []byte(`
model:
  light_class: EXTERNAL
  num_colors: 4
  class_l: true
  scheduler: centralized
  rigidity: rigid
run:
  parallelism: 8
  search_depth: 5000
  verifier_timeout_seconds: 15
`)
	f, err := Load(doc)
	require.NoError(t, err)
	require.Equal(t, "EXTERNAL", f.Model.LightClass)
	require.True(t, f.Model.ClassL)
	require.Equal(t, 8, f.Run.Parallelism)
}

func TestLoadRejectsInvalidModel(t *testing.T) {
	doc := []byte(`
model:
  light_class: BOGUS
  num_colors: 2
  scheduler: async
  rigidity: rigid
run:
  parallelism: 1
  search_depth: 1
  verifier_timeout_seconds: 1
`)
	_, err := Load(doc)
	require.Error(t, err)
}
