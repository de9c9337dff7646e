package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"timed-quiz-service/internal/app"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Notes:
//   - Controllers own goroutine-backed countdowns, so they stay in a local map.
//   - Redis marks which players have a live session on some instance
//     (quiz:player:{playerID}). The marker is a best-effort hint for operators and
//     other instances; it expires after the configured TTL unless Put or Get refresh it.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.Controller
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.Controller),
	}
}

func (s *SessionStore) Put(playerID string, c *app.Controller) *app.Controller {
	s.mu.Lock()
	defer s.mu.Unlock()
	previous := s.sessions[playerID]
	s.sessions[playerID] = c
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(playerID), "1", s.ttl).Err()
	return previous
}

// Get returns the live controller and refreshes its marker.
func (s *SessionStore) Get(playerID string) (*app.Controller, bool) {
	s.mu.RLock()
	session, ok := s.sessions[playerID]
	s.mu.RUnlock()
	if ok {
		_ = s.client.Expire(context.Background(), s.key(playerID), s.ttl).Err()
	}
	return session, ok
}

func (s *SessionStore) Delete(playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[playerID]; !ok {
		return
	}
	delete(s.sessions, playerID)
	_ = s.client.Del(context.Background(), s.key(playerID)).Err()
}

func (s *SessionStore) key(playerID string) string {
	return "quiz:player:" + playerID
}
