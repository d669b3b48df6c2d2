package worktree

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/flotilla-dev/flotilla/internal/domain"
)

// idRecord pins a worktree's identity and creation time across list calls.
type idRecord struct {
	CreatedAt time.Time `json:"createdAt"`
	ID        string    `json:"id"`
}

// idStore persists one idRecord per worktree name in a JSON file under the
// repository's state directory. Worktrees created out-of-band get a record
// minted the first time they are listed.
type idStore struct {
	path  string
	clock domain.Clock
	mu    sync.Mutex
}

func newIDStore(path string, clock domain.Clock) *idStore {
	return &idStore{path: path, clock: clock}
}

// ensure returns the record for name, minting and persisting one if absent.
func (s *idStore) ensure(name string) (idRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return idRecord{}, err
	}
	if rec, ok := records[name]; ok {
		return rec, nil
	}

	rec := idRecord{
		ID:        uuid.NewString(),
		CreatedAt: s.clock.Now().UTC(),
	}
	records[name] = rec
	if err := s.save(records); err != nil {
		return idRecord{}, err
	}
	return rec, nil
}

// drop forgets the record for name. Best effort; a leftover record is
// harmless and replaced on recreation.
func (s *idStore) drop(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return
	}
	if _, ok := records[name]; !ok {
		return
	}
	delete(records, name)
	_ = s.save(records)
}

func (s *idStore) load() (map[string]idRecord, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]idRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read worktree ids: %w", err)
	}

	records := map[string]idRecord{}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse worktree ids: %w", err)
	}
	return records, nil
}

func (s *idStore) save(records map[string]idRecord) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode worktree ids: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write worktree ids: %w", err)
	}
	return nil
}
