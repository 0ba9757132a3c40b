// Package users はユーザー資格情報の永続化を提供します。
package users

import (
	"context"
	"errors"
)

var (
	// ErrNotFound はユーザーが存在しないことを表します。
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateUsername はユーザー名が既に使われていることを表します。
	ErrDuplicateUsername = errors.New("username already exists")
)

// User は登録済みユーザーです。PasswordHash はレスポンスに含めません。
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}

// Store はユーザーの保存先です。
// Create はユーザー名の一意性をストレージ側で原子的に保証しなければなりません。
type Store interface {
	Create(ctx context.Context, username, passwordHash string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
}
