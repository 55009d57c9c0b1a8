package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"Emberveil/internal/game"
)

type staticSource []game.Profile

func (s staticSource) All() ([]game.Profile, error) { return s, nil }

func TestArchiverSnapshotRoundTrip(t *testing.T) {
	a, err := NewArchiver(t.TempDir())
	require.NoError(t, err)
	a.now = func() time.Time {
		return time.Date(2026, 8, 28, 12, 30, 0, 0, time.UTC)
	}

	source := staticSource{testProfile("Ada"), testProfile("Bob")}
	path, err := a.Snapshot(source)
	require.NoError(t, err)
	require.Equal(t, "players-20260828T123000.json.gz", filepath.Base(path))

	profiles, err := ReadArchive(path)
	require.NoError(t, err)
	require.Equal(t, []game.Profile(source), profiles)
}

func TestArchiverSnapshotFromFileStore(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, fs.Save(testProfile("Ada")))

	a, err := NewArchiver(t.TempDir())
	require.NoError(t, err)

	path, err := a.Snapshot(fs)
	require.NoError(t, err)

	profiles, err := ReadArchive(path)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	require.Equal(t, "Ada", profiles[0].Name)
}

func TestReadArchiveMissingFile(t *testing.T) {
	_, err := ReadArchive(filepath.Join(t.TempDir(), "absent.json.gz"))
	require.Error(t, err)
}
