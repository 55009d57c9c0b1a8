package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"Emberveil/internal/game"
)

// FileStore persists player profiles as one JSON file per player. Writes go
// through a temp file and rename, so a crash mid-save leaves the previous
// profile intact.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("store: player directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create players directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(name string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(name)))
	return filepath.Join(s.dir, hex.EncodeToString(sum[:])+".json")
}

func (s *FileStore) Load(name string) (game.Profile, bool, error) {
	data, err := os.ReadFile(s.path(name))
	if os.IsNotExist(err) {
		return game.Profile{}, false, nil
	}
	if err != nil {
		return game.Profile{}, false, fmt.Errorf("read player file: %w", err)
	}
	var profile game.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return game.Profile{}, false, fmt.Errorf("decode player file: %w", err)
	}
	return profile, true, nil
}

func (s *FileStore) Save(profile game.Profile) error {
	if strings.TrimSpace(profile.Name) == "" {
		return fmt.Errorf("store: profile requires a name")
	}
	tmp, err := os.CreateTemp(s.dir, "player-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp player file: %w", err)
	}
	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(profile); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write player file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp player file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(profile.Name)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace player file: %w", err)
	}
	return nil
}

// All returns every stored profile, used by the archiver.
func (s *FileStore) All() ([]game.Profile, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read players directory: %w", err)
	}
	profiles := make([]game.Profile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read player file %s: %w", entry.Name(), err)
		}
		var profile game.Profile
		if err := json.Unmarshal(data, &profile); err != nil {
			continue
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}
