package state

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"qkart/storefront/internal/domain"

	"github.com/redis/go-redis/v9"
)

// ErrNoSession is returned when no user is logged in for the profile
var ErrNoSession = errors.New("no session")

// SessionStore persists the logged in user between runs
type SessionStore interface {
	GetSession(ctx context.Context) (*domain.Session, error)
	SetSession(ctx context.Context, session *domain.Session) error
	ClearSession(ctx context.Context) error
}

type redisSessionStore struct {
	redisClient *redis.Client
	key         string
}

// NewRedisSessionStore keeps the session of one profile in a Redis hash
func NewRedisSessionStore(redisClient *redis.Client, profile string) SessionStore {
	return &redisSessionStore{
		redisClient: redisClient,
		key:         "storefront:session:" + profile,
	}
}

func (s *redisSessionStore) GetSession(ctx context.Context) (*domain.Session, error) {
	fields, err := s.redisClient.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get session %s: %w", s.key, err)
	}

	if len(fields) == 0 || fields["token"] == "" {
		return nil, ErrNoSession
	}

	balance, err := strconv.ParseFloat(fields["balance"], 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse balance for session %s: %w", s.key, err)
	}

	return &domain.Session{
		Username: fields["username"],
		Token:    fields["token"],
		Balance:  balance,
	}, nil
}

func (s *redisSessionStore) SetSession(ctx context.Context, session *domain.Session) error {
	err := s.redisClient.HSet(ctx, s.key,
		"username", session.Username,
		"token", session.Token,
		"balance", strconv.FormatFloat(session.Balance, 'f', -1, 64),
	).Err() // No expiration
	if err != nil {
		return fmt.Errorf("failed to set session %s: %w", s.key, err)
	}
	return nil
}

func (s *redisSessionStore) ClearSession(ctx context.Context) error {
	if err := s.redisClient.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("failed to clear session %s: %w", s.key, err)
	}
	return nil
}

type memorySessionStore struct {
	mu      sync.RWMutex
	session *domain.Session
}

// NewMemorySessionStore keeps the session for the lifetime of the process
func NewMemorySessionStore() SessionStore {
	return &memorySessionStore{}
}

func (s *memorySessionStore) GetSession(_ context.Context) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.session == nil {
		return nil, ErrNoSession
	}
	session := *s.session
	return &session, nil
}

func (s *memorySessionStore) SetSession(_ context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *session
	s.session = &copied
	return nil
}

func (s *memorySessionStore) ClearSession(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = nil
	return nil
}
