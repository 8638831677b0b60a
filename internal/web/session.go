package web

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"customer-insights/internal/common/database"
)

// SessionStore keeps page state between requests of one browser session.
type SessionStore interface {
	Load(ctx context.Context, sessionID string) (PageState, error)
	Save(ctx context.Context, sessionID string, state PageState) error
}

type memoryEntry struct {
	state     PageState
	expiresAt time.Time
}

// MemoryStore is a process local SessionStore. Entries expire after ttl.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		now:     time.Now,
		entries: map[string]memoryEntry{},
	}
}

func (s *MemoryStore) Load(_ context.Context, sessionID string) (PageState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[sessionID]
	if !ok {
		return PageState{}, nil
	}
	if s.ttl > 0 && s.now().After(entry.expiresAt) {
		delete(s.entries, sessionID)
		return PageState{}, nil
	}
	return entry.state, nil
}

func (s *MemoryStore) Save(_ context.Context, sessionID string, state PageState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[sessionID] = memoryEntry{state: state, expiresAt: s.now().Add(s.ttl)}

	// opportunistic sweep keeps abandoned sessions from piling up
	if s.ttl > 0 {
		now := s.now()
		for id, e := range s.entries {
			if now.After(e.expiresAt) {
				delete(s.entries, id)
			}
		}
	}
	return nil
}

// RedisStore keeps page state in Redis as JSON so several web instances can share sessions.
type RedisStore struct {
	client *database.RedisClient
	ttl    time.Duration
	prefix string
}

func NewRedisStore(client *database.RedisClient, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl, prefix: "insights:session:"}
}

func (s *RedisStore) key(sessionID string) string {
	return s.prefix + sessionID
}

func (s *RedisStore) Load(ctx context.Context, sessionID string) (PageState, error) {
	raw, found, err := s.client.Get(ctx, s.key(sessionID))
	if err != nil {
		return PageState{}, fmt.Errorf("load session: %w", err)
	}
	if !found {
		return PageState{}, nil
	}

	var state PageState
	if err := json.Unmarshal(raw, &state); err != nil {
		return PageState{}, fmt.Errorf("decode session: %w", err)
	}
	return state, nil
}

func (s *RedisStore) Save(ctx context.Context, sessionID string, state PageState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(sessionID), raw, s.ttl); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}
