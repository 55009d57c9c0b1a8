package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/gzip"

	"Emberveil/internal/game"
)

// ProfileSource is anything that can enumerate stored profiles.
type ProfileSource interface {
	All() ([]game.Profile, error)
}

// Archiver writes compressed point-in-time snapshots of every player profile.
// Each snapshot is a standalone gzip JSON file, so a single archive can be
// restored or inspected without the originals.
type Archiver struct {
	dir string
	now func() time.Time
}

func NewArchiver(dir string) (*Archiver, error) {
	if dir == "" {
		return nil, fmt.Errorf("store: archive directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create archive directory: %w", err)
	}
	return &Archiver{dir: dir, now: time.Now}, nil
}

// Snapshot archives every profile from the source and returns the archive
// file path.
func (a *Archiver) Snapshot(source ProfileSource) (string, error) {
	profiles, err := source.All()
	if err != nil {
		return "", fmt.Errorf("collect profiles: %w", err)
	}
	name := fmt.Sprintf("players-%s.json.gz", a.now().UTC().Format("20060102T150405"))
	path := filepath.Join(a.dir, name)

	tmp, err := os.CreateTemp(a.dir, "archive-*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp archive: %w", err)
	}
	zw := gzip.NewWriter(tmp)
	enc := json.NewEncoder(zw)
	if err := enc.Encode(profiles); err != nil {
		zw.Close()
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write archive: %w", err)
	}
	if err := zw.Close(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("finish archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close temp archive: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("place archive: %w", err)
	}
	return path, nil
}

// ReadArchive decodes a snapshot produced by Snapshot.
func ReadArchive(path string) ([]game.Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()
	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("read archive: %w", err)
	}
	defer zr.Close()
	var profiles []game.Profile
	if err := json.NewDecoder(zr).Decode(&profiles); err != nil {
		return nil, fmt.Errorf("decode archive: %w", err)
	}
	return profiles, nil
}
