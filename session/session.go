// Package session remembers the viewer state between runs.
package session

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// DefaultExpiry is how long a saved session stays valid.
const DefaultExpiry = 14 * 24 * time.Hour

// ErrCorrupt is returned alongside the zero State when the session file
// can't be decoded.
var ErrCorrupt = errors.New("corrupt session file")

type State struct {
	LastShader string
	Saved      time.Time
}

type Store struct {
	path   string
	expiry time.Duration
	now    func() time.Time
}

type Option func(*Store)

func WithExpiry(d time.Duration) Option {
	return func(s *Store) { s.expiry = d }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(path string, options ...Option) *Store {
	s := &Store{
		path:   path,
		expiry: DefaultExpiry,
		now:    time.Now,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// DefaultPath is the session file in the user config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("session: %w", err)
	}
	return filepath.Join(dir, "shaderviewer", "session.gob"), nil
}

func (s *Store) Path() string {
	return s.path
}

// Load reads the saved state. A missing or expired session yields the zero
// State and no error.
func (s *Store) Load() (State, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return State{}, nil
	}
	if err != nil {
		return State{}, fmt.Errorf("session: %w", err)
	}
	defer f.Close()

	var state State
	if err := gob.NewDecoder(f).Decode(&state); err != nil {
		return State{}, fmt.Errorf("%w %v: %v", ErrCorrupt, s.path, err)
	}

	if s.now().Sub(state.Saved) > s.expiry {
		return State{}, nil
	}
	return state, nil
}

// Save stamps state with the current time and writes it atomically.
func (s *Store) Save(state State) error {
	state.Saved = s.now()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("session: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("session: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := gob.NewEncoder(tmp).Encode(state); err != nil {
		tmp.Close()
		return fmt.Errorf("session: encoding: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("session: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("session: %w", err)
	}
	return nil
}

// Clear removes the saved session.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("session: %w", err)
	}
	return nil
}
