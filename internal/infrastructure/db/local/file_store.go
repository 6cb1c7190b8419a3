package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

// FileStore persists credential slots as one JSON object in a file so a
// session survives a restart of the shell. Writes go to a temp file in the
// same directory followed by a rename, so a crash never leaves a torn file.
type FileStore struct {
	path string
	log  zerolog.Logger
	mu   sync.Mutex
}

func NewFileStore(path string, log zerolog.Logger) *FileStore {
	return &FileStore{path: path, log: log}
}

func (s *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slots, err := s.load()
	if err != nil {
		return "", false, err
	}
	v, ok := slots[key]
	return v, ok, nil
}

func (s *FileStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slots, err := s.load()
	if err != nil {
		return err
	}
	slots[key] = value
	return s.save(slots)
}

// Delete removes keys in a single write. The file is removed once empty.
func (s *FileStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slots, err := s.load()
	if err != nil {
		return err
	}
	for _, k := range keys {
		delete(slots, k)
	}
	if len(slots) == 0 {
		if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("credential file: remove: %w", err)
		}
		return nil
	}
	return s.save(slots)
}

// Ping checks that the credential directory exists or can be created.
func (s *FileStore) Ping(context.Context) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("credential file: %w", err)
	}
	return nil
}

// load returns the stored slots. A missing file is an empty store; an
// unparsable file is logged and treated as empty so the next write repairs
// it.
func (s *FileStore) load() (map[string]string, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, fmt.Errorf("credential file: read: %w", err)
	}

	slots := make(map[string]string)
	if err := json.Unmarshal(raw, &slots); err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("credential file unreadable, ignoring contents")
		return make(map[string]string), nil
	}
	return slots, nil
}

func (s *FileStore) save(slots map[string]string) error {
	raw, err := json.MarshalIndent(slots, "", "  ")
	if err != nil {
		return fmt.Errorf("credential file: encode: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("credential file: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".credentials-*.tmp")
	if err != nil {
		return fmt.Errorf("credential file: temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("credential file: write: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("credential file: chmod: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("credential file: close: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("credential file: rename: %w", err)
	}
	return nil
}
