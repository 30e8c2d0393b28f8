package cache

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xdefago/synth-light/internal/report"
)

func TestLookupMissesOnEmptyStore(t *testing.T) {
	s, err := OpenInMemory()
	require.NoError(t, err)
	defer s.Close()

	_, ok := s.Lookup("h__s")
	require.False(t, ok)
}

func TestStoreThenLookupRoundTrips(t *testing.T) {
	s, err := OpenInMemory()
	require.NoError(t, err)
	defer s.Close()

	entry := report.Entry{Code: "h__s", Verdict: report.VerdictGathers, Detail: ""}
	require.NoError(t, s.Store(entry))

	got, ok := s.Lookup("h__s")
	require.True(t, ok)
	require.Equal(t, entry, got)
}

func TestStoreOverwritesPriorEntry(t *testing.T) {
	s, err := OpenInMemory()
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Store(report.Entry{Code: "h__s", Verdict: report.VerdictToolError}))
	require.NoError(t, s.Store(report.Entry{Code: "h__s", Verdict: report.VerdictGathers}))

	got, ok := s.Lookup("h__s")
	require.True(t, ok)
	require.Equal(t, report.VerdictGathers, got.Verdict)
}

func TestOpenPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	s1, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s1.Store(report.Entry{Code: "h__s", Verdict: report.VerdictGathers}))
	require.NoError(t, s1.Close())

	s2, err := Open(dir)
	require.NoError(t, err)
	defer s2.Close()

	got, ok := s2.Lookup("h__s")
	require.True(t, ok)
	require.Equal(t, report.VerdictGathers, got.Verdict)
}
