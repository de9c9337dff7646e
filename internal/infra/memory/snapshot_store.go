package memory

import (
	"context"
	"sync"

	"timed-quiz-service/internal/domain"
)

// SnapshotStore keeps each player's finished session in its persisted key-value
// form. A save swaps the whole field group in one step; a clear drops it.
type SnapshotStore struct {
	mu      sync.RWMutex
	players map[string]map[string]string
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{players: make(map[string]map[string]string)}
}

func (s *SnapshotStore) Save(_ context.Context, playerID string, snapshot domain.Snapshot) error {
	fields, err := domain.EncodeSnapshot(snapshot)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.players[playerID] = fields
	s.mu.Unlock()
	return nil
}

func (s *SnapshotStore) Load(_ context.Context, playerID string) (domain.Snapshot, error) {
	s.mu.RLock()
	fields, ok := s.players[playerID]
	s.mu.RUnlock()
	if !ok {
		return domain.Snapshot{}, domain.ErrSnapshotNotFound
	}
	return domain.DecodeSnapshot(fields)
}

func (s *SnapshotStore) Clear(_ context.Context, playerID string) error {
	s.mu.Lock()
	delete(s.players, playerID)
	s.mu.Unlock()
	return nil
}

// Fields returns a copy of the raw stored fields, for inspection.
func (s *SnapshotStore) Fields(playerID string) map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fields, ok := s.players[playerID]
	if !ok {
		return nil
	}
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}
