// Package auth は登録・ログイン、トークン発行と検証、リクエスト認可を提供します。
package auth

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/task-api/internal/apierr"
	"github.com/yourusername/task-api/internal/users"
)

// Manager は認証処理に必要な依存関係をまとめた構造体です。
type Manager struct {
	store  users.Store
	hasher Hasher
	issuer Issuer
	logger *log.Logger

	// 存在しないユーザーのログインでも照合を 1 回行うためのハッシュ
	dummyHash string
}

// NewManager は認証マネージャーを作成します。
func NewManager(store users.Store, hasher Hasher, issuer Issuer, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.Default()
	}
	dummy, err := hasher.Hash("not-a-real-password")
	if err != nil {
		logger.Printf("failed to prepare dummy hash: %v", err)
	}
	return &Manager{
		store:     store,
		hasher:    hasher,
		issuer:    issuer,
		logger:    logger,
		dummyHash: dummy,
	}
}

type credentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func bindCredentials(c *gin.Context) (*credentialsRequest, error) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, apierr.New(apierr.CodeInvalidInput, "username と password を JSON で送ってください。", err)
	}
	if strings.TrimSpace(req.Username) == "" {
		return nil, apierr.Invalid("username", "username を入力してください。")
	}
	return &req, nil
}

// Register は POST /auth/register のハンドラーです。
func (m *Manager) Register(c *gin.Context) {
	req, err := bindCredentials(c)
	if err != nil {
		apierr.Respond(c, m.logger, err)
		return
	}

	hash, err := m.hasher.Hash(req.Password)
	if err != nil {
		if errors.Is(err, ErrPasswordTooLong) {
			apierr.Respond(c, m.logger, apierr.Invalid("password", "password は 72 バイト以内で指定してください。"))
			return
		}
		apierr.Respond(c, m.logger, err)
		return
	}

	// 事前チェックは行わず、ストレージの一意制約で重複を判定する
	user, err := m.store.Create(c.Request.Context(), req.Username, hash)
	if err != nil {
		if errors.Is(err, users.ErrDuplicateUsername) {
			apierr.Respond(c, m.logger, apierr.New(apierr.CodeUsernameTaken, "このユーザー名は既に使われています。", err))
			return
		}
		apierr.Respond(c, m.logger, err)
		return
	}

	token, err := m.issuer.Issue(user.ID)
	if err != nil {
		apierr.Respond(c, m.logger, err)
		return
	}
	c.JSON(http.StatusCreated, tokenResponse{Token: token})
}

// Login は POST /auth/login のハンドラーです。
func (m *Manager) Login(c *gin.Context) {
	req, err := bindCredentials(c)
	if err != nil {
		apierr.Respond(c, m.logger, err)
		return
	}

	invalid := apierr.New(apierr.CodeInvalidCredentials, "ユーザー名またはパスワードが正しくありません。", nil)

	user, err := m.store.FindByUsername(c.Request.Context(), req.Username)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			m.hasher.Verify(req.Password, m.dummyHash)
			apierr.Respond(c, m.logger, invalid)
			return
		}
		apierr.Respond(c, m.logger, err)
		return
	}

	if !m.hasher.Verify(req.Password, user.PasswordHash) {
		apierr.Respond(c, m.logger, invalid)
		return
	}

	token, err := m.issuer.Issue(user.ID)
	if err != nil {
		apierr.Respond(c, m.logger, err)
		return
	}
	c.JSON(http.StatusOK, tokenResponse{Token: token})
}
