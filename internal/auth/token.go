package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrUnauthenticated は全ての認証失敗の基底エラーです。
	ErrUnauthenticated = errors.New("unauthenticated")

	ErrTokenExpired          = fmt.Errorf("%w: token expired", ErrUnauthenticated)
	ErrTokenSignatureInvalid = fmt.Errorf("%w: token signature invalid", ErrUnauthenticated)
	ErrTokenMalformed        = fmt.Errorf("%w: token malformed", ErrUnauthenticated)
)

// Issuer はベアラートークンを発行・検証します。
type Issuer interface {
	Issue(userID string) (string, error)
	Validate(token string) (string, error)
}

// JWTIssuer は HS256 署名の JWT を扱う Issuer です。サーバー側に状態を持ちません。
type JWTIssuer struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewJWTIssuer は JWTIssuer を作成します。key を変更すると発行済みトークンは全て無効になります。
func NewJWTIssuer(key []byte, ttl time.Duration) *JWTIssuer {
	return &JWTIssuer{key: key, ttl: ttl, now: time.Now}
}

// Issue は sub=userID, exp=now+ttl のトークンを発行します。
func (i *JWTIssuer) Issue(userID string) (string, error) {
	if userID == "" {
		return "", errors.New("userID is required")
	}
	now := i.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.key)
}

// Validate は署名と有効期限を検証し、トークンの subject を返します。
func (i *JWTIssuer) Validate(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return i.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "", ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "", ErrTokenSignatureInvalid
	case err != nil:
		return "", fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}
	if claims.Subject == "" {
		return "", ErrTokenMalformed
	}
	return claims.Subject, nil
}
