package statefile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"techtreck/internal/domain"
)

// Store implements ports.TimerStateStore as a JSON file.
type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the state file location.
func (s *Store) Path() string { return s.path }

// Load reads the saved state. A missing file yields a zero state.
func (s *Store) Load() (domain.TimerState, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.TimerState{}, nil
	}
	if err != nil {
		return domain.TimerState{}, fmt.Errorf("read timer state: %w", err)
	}
	var st domain.TimerState
	if err := json.Unmarshal(b, &st); err != nil {
		return domain.TimerState{}, fmt.Errorf("parse timer state %s: %w", s.path, err)
	}
	return st, nil
}

// Save replaces the state file atomically.
func (s *Store) Save(st domain.TimerState) error {
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".timer-*.json")
	if err != nil {
		return fmt.Errorf("write timer state: %w", err)
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write timer state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write timer state: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write timer state: %w", err)
	}
	return nil
}
