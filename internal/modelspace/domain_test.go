package modelspace

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDomainFullK2Header(t *testing.T) {
	d, err := NewDomain(Full, 2, false)
	require.NoError(t, err)
	require.Equal(t, 8, d.Size())
	require.Equal(t, "00s_01s_10s_11s_00d_01d_10d_11d", d.Header())
}

func TestDomainFullK1(t *testing.T) {
	// spec.md §8 scenario 2: class=FULL, K=1 -> domain size 2.
	d, err := NewDomain(Full, 1, false)
	require.NoError(t, err)
	require.Equal(t, 2, d.Size())
	require.Equal(t, "00s_00d", d.Header())
}

func TestDomainExternalClassLK4(t *testing.T) {
	// spec.md §8 scenario 3: class=EXTERNAL, K=4, ClassL=true -> 4
	// tokens, no s/d suffix letters.
	d, err := NewDomain(External, 4, true)
	require.NoError(t, err)
	require.Equal(t, 4, d.Size())
	require.Equal(t, "0_1_2_3", d.Header())
	require.False(t, d.HasMe)
	require.False(t, d.HasPos)
	require.True(t, d.HasOther)
}

func TestDomainInternal(t *testing.T) {
	d, err := NewDomain(Internal, 3, false)
	require.NoError(t, err)
	require.Equal(t, 6, d.Size())
	require.False(t, d.HasOther)
	require.True(t, d.HasMe)
	require.Equal(t, "0s_1s_2s_0d_1d_2d", d.Header())
}

func TestDomainRejectsInvalidColorCount(t *testing.T) {
	_, err := NewDomain(Full, 0, false)
	require.Error(t, err)

	_, err = NewDomain(Full, MaxColors+1, false)
	require.Error(t, err)
}

func TestDomainIndexOfRoundTrips(t *testing.T) {
	d, err := NewDomain(Full, 3, false)
	require.NoError(t, err)

	for i, obs := range d.Observations() {
		require.Equal(t, i, d.IndexOf(obs.MeColor, obs.OtherColor, obs.SamePosition))
	}
}

func TestDomainPermute(t *testing.T) {
	d, err := NewDomain(Full, 3, false)
	require.NoError(t, err)

	perm := []int{1, 2, 0} // 0->1, 1->2, 2->0
	obs := Observation{MeColor: 0, OtherColor: 1, SamePosition: true}
	permuted := d.Permute(obs, perm)
	require.Equal(t, 1, permuted.MeColor)
	require.Equal(t, 2, permuted.OtherColor)
	require.True(t, permuted.SamePosition)
}
