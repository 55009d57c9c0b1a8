package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"Emberveil/internal/game"
)

func testProfile(name string) game.Profile {
	return game.Profile{
		Name:       name,
		Room:       "square",
		Health:     80,
		MaxHealth:  80,
		Mana:       50,
		MaxMana:    50,
		Attack:     5,
		Defense:    3,
		Level:      1,
		Experience: 40,
		Inventory:  []string{"lantern"},
		Spells:     []string{"fireball"},
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	want := testProfile("Ada")
	require.NoError(t, s.Save(want))

	got, found, err := s.Load("Ada")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, want, got)
}

func TestFileStoreLoadIsCaseInsensitive(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, s.Save(testProfile("Ada")))

	_, found, err := s.Load("ada")
	require.NoError(t, err)
	require.True(t, found)
}

func TestFileStoreLoadMissing(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, found, err := s.Load("Nobody")
	require.NoError(t, err)
	require.False(t, found)
}

func TestFileStoreSaveRequiresName(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.Error(t, s.Save(game.Profile{}))
}

func TestFileStoreSaveOverwrites(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	first := testProfile("Ada")
	require.NoError(t, s.Save(first))
	second := first
	second.Level = 2
	second.Experience = 210
	require.NoError(t, s.Save(second))

	got, found, err := s.Load("Ada")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 2, got.Level)
}

func TestFileStoreAll(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, s.Save(testProfile("Ada")))
	require.NoError(t, s.Save(testProfile("Bob")))

	profiles, err := s.All()
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	names := map[string]bool{}
	for _, p := range profiles {
		names[p.Name] = true
	}
	require.True(t, names["Ada"])
	require.True(t, names["Bob"])
}
