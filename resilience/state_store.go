// api/resilience/state_store.go
package resilience

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dev-mohitbeniwal/fleet/api/model"
)

// StateStore persists breaker state so an open circuit survives a restart.
type StateStore interface {
	Load(key string) (model.CircuitBreakerState, error)
	Save(key string, state model.CircuitBreakerState) error
}

// FileStateStore writes one JSON file per breaker key.
type FileStateStore struct {
	dir string
}

func NewFileStateStore(dir string) (*FileStateStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStateStore{dir: dir}, nil
}

var keySanitizer = strings.NewReplacer("/", "_", "\\", "_", ":", "_", ">", "", " ", "_")

func (s *FileStateStore) path(key string) string {
	return filepath.Join(s.dir, "circuit_"+keySanitizer.Replace(key)+".json")
}

// Load returns a zero (closed) state when no file exists yet.
func (s *FileStateStore) Load(key string) (model.CircuitBreakerState, error) {
	var state model.CircuitBreakerState
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return state, nil
	}
	if err != nil {
		return state, err
	}
	if err := json.Unmarshal(data, &state); err != nil {
		return model.CircuitBreakerState{}, fmt.Errorf("decode circuit state %s: %w", key, err)
	}
	return state, nil
}

func (s *FileStateStore) Save(key string, state model.CircuitBreakerState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, "circuit-*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path(key))
}

// MemoryStateStore keeps state in process memory only.
type MemoryStateStore struct {
	mu     sync.Mutex
	states map[string]model.CircuitBreakerState
}

func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{states: make(map[string]model.CircuitBreakerState)}
}

func (s *MemoryStateStore) Load(key string) (model.CircuitBreakerState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[key], nil
}

func (s *MemoryStateStore) Save(key string, state model.CircuitBreakerState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[key] = state
	return nil
}
