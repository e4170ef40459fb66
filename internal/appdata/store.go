package appdata

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/afero"
)

// Common errors
var (
	ErrNilFs       = errors.New("filesystem cannot be nil")
	ErrNilLogger   = errors.New("logger cannot be nil")
	ErrEmptyDir    = errors.New("data directory cannot be empty")
	ErrFileMissing = errors.New("app data file does not exist")
)

// Store persists small named JSON documents under an application data
// directory. It holds unrelated app data only; the generation core never
// reads or writes through it.
type Store struct {
	fs     afero.Fs
	dir    string
	logger *slog.Logger
}

// NewStore creates a Store rooted at dir on the given filesystem.
func NewStore(fs afero.Fs, dir string, logger *slog.Logger) (*Store, error) {
	if fs == nil {
		return nil, ErrNilFs
	}
	if dir == "" {
		return nil, ErrEmptyDir
	}
	if logger == nil {
		return nil, ErrNilLogger
	}

	return &Store{
		fs:     fs,
		dir:    dir,
		logger: logger.With("component", "appdata_store"),
	}, nil
}

// Save writes value as indented JSON to the named document, creating the
// data directory if needed.
func (s *Store) Save(name string, value any) error {
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}

	path := filepath.Join(s.dir, name)
	if err := afero.WriteFile(s.fs, path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}

	s.logger.Debug("app data saved", "path", path)
	return nil
}

// Load reads the named document into out. Returns ErrFileMissing if the
// document has never been saved.
func (s *Store) Load(name string, out any) error {
	path := filepath.Join(s.dir, name)

	exists, err := afero.Exists(s.fs, path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", name, err)
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrFileMissing, name)
	}

	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", name, err)
	}

	s.logger.Debug("app data loaded", "path", path)
	return nil
}

// Clear removes the named document. Returns ErrFileMissing if it does not
// exist.
func (s *Store) Clear(name string) error {
	path := filepath.Join(s.dir, name)

	exists, err := afero.Exists(s.fs, path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", name, err)
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrFileMissing, name)
	}

	if err := s.fs.Remove(path); err != nil {
		return fmt.Errorf("failed to remove %s: %w", name, err)
	}

	s.logger.Debug("app data cleared", "path", path)
	return nil
}
