package state

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLastProject_EmptyWhenUnset(t *testing.T) {
	s := openTemp(t)
	got, err := s.LastProject()
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestSetLastProject_RoundTrip(t *testing.T) {
	s := openTemp(t)
	require.NoError(t, s.SetLastProject("p1"))
	got, err := s.LastProject()
	require.NoError(t, err)
	assert.Equal(t, "p1", got)
}

func TestSetLastProject_Overwrites(t *testing.T) {
	s := openTemp(t)
	require.NoError(t, s.SetLastProject("p1"))
	require.NoError(t, s.SetLastProject("p2"))
	got, err := s.LastProject()
	require.NoError(t, err)
	assert.Equal(t, "p2", got)
}

func TestOpen_CreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "state.db")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.SetLastProject("p1"))
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.SetLastProject("p1"))
	require.NoError(t, s.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()
	got, err := s2.LastProject()
	require.NoError(t, err)
	assert.Equal(t, "p1", got)
}
