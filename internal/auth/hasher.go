package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt は 72 バイトを超える入力を扱えません。
const maxPasswordBytes = 72

// ErrPasswordTooLong はパスワードがハッシュ可能な長さを超えていることを表します。
var ErrPasswordTooLong = errors.New("password exceeds 72 bytes")

// Hasher はパスワードの一方向ハッシュと照合を行います。
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// BcryptHasher は bcrypt による Hasher です。呼び出しごとにソルトが変わります。
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher は BcryptHasher を作成します。範囲外の cost は DefaultCost になります。
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	if len(plaintext) > maxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify は一致する場合のみ true を返します。壊れたハッシュも false です。
func (h *BcryptHasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
