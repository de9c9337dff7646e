package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"timed-quiz-service/internal/domain"
)

// SnapshotStore persists finished sessions as one hash per player:
// HSET quiz:result:{playerID} score .. totalQuestions .. percentage .. userAnswers .. questions ..
// Saves run in MULTI/EXEC so readers never see a partial group.
type SnapshotStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSnapshotStore(client *redis.Client, ttl time.Duration) *SnapshotStore {
	return &SnapshotStore{client: client, ttl: ttl}
}

func (s *SnapshotStore) Save(ctx context.Context, playerID string, snapshot domain.Snapshot) error {
	fields, err := domain.EncodeSnapshot(snapshot)
	if err != nil {
		return err
	}
	values := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		values[k] = v
	}
	key := s.key(playerID)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, values)
		if s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (s *SnapshotStore) Load(ctx context.Context, playerID string) (domain.Snapshot, error) {
	fields, err := s.client.HGetAll(ctx, s.key(playerID)).Result()
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("load snapshot: %w", err)
	}
	return domain.DecodeSnapshot(fields)
}

func (s *SnapshotStore) Clear(ctx context.Context, playerID string) error {
	if err := s.client.Del(ctx, s.key(playerID)).Err(); err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}
	return nil
}

func (s *SnapshotStore) key(playerID string) string {
	return "quiz:result:" + playerID
}
