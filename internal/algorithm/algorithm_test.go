package algorithm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xdefago/synth-light/internal/modelspace"
)

func exampleDomain(t *testing.T) *modelspace.Domain {
	t.Helper()
	d, err := modelspace.NewDomain(modelspace.Full, 2, false)
	require.NoError(t, err)
	return d
}

func TestDecodeEncodeRoundTrip(t *testing.T) {
	d := exampleDomain(t)
	// spec.md §8 scenario 1's worked example algorithm.
	code := "00s_01s_10s_11s_00d_01d_10d_11d__S0_S0_S1_S1_S1_S0_O1_H0"

	a, err := Decode(d, code)
	require.NoError(t, err)
	require.Equal(t, code, a.Code())

	require.Equal(t, modelspace.Decision{Move: modelspace.MoveStay, NewColor: 0}, a.At(0))
	require.Equal(t, modelspace.Decision{Move: modelspace.MoveToOther, NewColor: 1}, a.At(6))
	require.Equal(t, modelspace.Decision{Move: modelspace.MoveToHalf, NewColor: 0}, a.At(7))
}

func TestDecodeRejectsWrongHeader(t *testing.T) {
	d := exampleDomain(t)
	_, err := Decode(d, "wrong_header__S0_S0_S1_S1_S1_S0_O1_H0")
	require.Error(t, err)
}

func TestDecodeRejectsWrongTokenCount(t *testing.T) {
	d := exampleDomain(t)
	_, err := Decode(d, d.Header()+"__S0_S0")
	require.Error(t, err)
}

func TestDecodeRejectsBadToken(t *testing.T) {
	d := exampleDomain(t)
	_, err := Decode(d, d.Header()+"__X0_S0_S1_S1_S1_S0_O1_H0")
	require.Error(t, err)

	_, err = Decode(d, d.Header()+"__S9_S0_S1_S1_S1_S0_O1_H0")
	require.Error(t, err)
}

func TestDecideUsesDomainIndex(t *testing.T) {
	d := exampleDomain(t)
	code := "00s_01s_10s_11s_00d_01d_10d_11d__S0_S0_S1_S1_S1_S0_O1_H0"
	a, err := Decode(d, code)
	require.NoError(t, err)

	require.Equal(t, modelspace.Decision{Move: modelspace.MoveToOther, NewColor: 1}, a.Decide(1, 0, false))
}
