package users

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore はプロセス内で完結する Store です。開発・テスト用です。
type MemoryStore struct {
	mu         sync.RWMutex
	byUsername map[string]User
}

// NewMemoryStore は空の MemoryStore を作成します。
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byUsername: make(map[string]User)}
}

// Create はユーザーを追加します。既に同じユーザー名があれば ErrDuplicateUsername です。
func (s *MemoryStore) Create(ctx context.Context, username, passwordHash string) (*User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byUsername[username]; exists {
		return nil, ErrDuplicateUsername
	}
	user := User{ID: uuid.NewString(), Username: username, PasswordHash: passwordHash}
	s.byUsername[username] = user
	return &user, nil
}

// FindByUsername はユーザー名でユーザーを検索します。
func (s *MemoryStore) FindByUsername(ctx context.Context, username string) (*User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.byUsername[username]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}
