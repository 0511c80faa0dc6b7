package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"prepdeck/internal/modules/practice/domain"
	practiceout "prepdeck/internal/modules/practice/port/out"
)

type FileStateStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStateStore(path string) practiceout.StateStore {
	return &FileStateStore{path: path}
}

func (s *FileStateStore) Load(_ context.Context) (domain.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.State{}, nil
		}
		return domain.State{}, fmt.Errorf("read practice state: %w", err)
	}
	state := domain.State{}
	if err := yaml.Unmarshal(payload, &state); err != nil {
		return domain.State{}, fmt.Errorf("decode practice state: %w", err)
	}
	return state, nil
}

// Save replaces the state file atomically.
func (s *FileStateStore) Save(_ context.Context, state domain.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create practice state dir: %w", err)
	}
	payload, err := yaml.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal practice state: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("write practice state: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace practice state: %w", err)
	}
	return nil
}
