package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const userKeyPrefix = "user:"

// RedisStore はユーザー名をキーに JSON を保存する Store です。
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore は RedisStore を作成します。
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

// Create は SETNX でユーザーを登録します。既にキーがあれば ErrDuplicateUsername です。
func (s *RedisStore) Create(ctx context.Context, username, passwordHash string) (*User, error) {
	user := &User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
	}
	payload, err := json.Marshal(redisUser{ID: user.ID, Username: user.Username, PasswordHash: user.PasswordHash})
	if err != nil {
		return nil, err
	}

	ok, err := s.rdb.SetNX(ctx, userKey(username), payload, 0).Result()
	if err != nil {
		return nil, fmt.Errorf("setnx user: %w", err)
	}
	if !ok {
		return nil, ErrDuplicateUsername
	}
	return user, nil
}

// FindByUsername はユーザー名でユーザーを取得します。
func (s *RedisStore) FindByUsername(ctx context.Context, username string) (*User, error) {
	data, err := s.rdb.Get(ctx, userKey(username)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	var stored redisUser
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &User{ID: stored.ID, Username: stored.Username, PasswordHash: stored.PasswordHash}, nil
}

// User は PasswordHash を JSON に出さないため、保存用の型を分けています。
type redisUser struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"passwordHash"`
}

func userKey(username string) string {
	return userKeyPrefix + username
}
