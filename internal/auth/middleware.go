package auth

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/task-api/internal/apierr"
)

// ContextUserKey は、認可済みユーザー ID をハンドラーへ渡すためのキーです。
const ContextUserKey = "auth.userID"

// RequireToken は Authorization: Bearer ヘッダーを検証するミドルウェアを返します。
// 検証に失敗した場合は後続のハンドラーを実行せずに 401 を返します。
func (m *Manager) RequireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			apierr.Respond(c, m.logger, apierr.New(apierr.CodeUnauthorized, "認証トークンが必要です。", nil))
			return
		}

		userID, err := m.issuer.Validate(token)
		if err != nil {
			if errors.Is(err, ErrTokenExpired) {
				apierr.Respond(c, m.logger, apierr.New(apierr.CodeTokenExpired, "トークンの有効期限が切れました。", err))
				return
			}
			apierr.Respond(c, m.logger, apierr.New(apierr.CodeTokenInvalid, "トークンが不正です。", err))
			return
		}

		c.Set(ContextUserKey, userID)
		c.Next()
	}
}

// UserID は RequireToken が設定したユーザー ID を返します。
func UserID(c *gin.Context) (string, bool) {
	userID := c.GetString(ContextUserKey)
	return userID, userID != ""
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
