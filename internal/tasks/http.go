package tasks

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/task-api/internal/apierr"
	"github.com/yourusername/task-api/internal/auth"
)

// TaskService はハンドラーが利用するタスク操作です。
type TaskService interface {
	List(ctx context.Context, ownerID string) ([]Task, error)
	Get(ctx context.Context, id, ownerID string) (*Task, error)
	Create(ctx context.Context, ownerID string, in TaskInput) (*Task, error)
	Update(ctx context.Context, id, ownerID string, in TaskInput) (*Task, error)
	Delete(ctx context.Context, id, ownerID string) error
}

// HandlerOptions はハンドラー共通の設定です。
type HandlerOptions struct {
	Logger *log.Logger
}

// RegisterRoutes は /tasks 以下のルートを登録します。
// group には auth.Manager.RequireToken を適用しておく必要があります。
func RegisterRoutes(group gin.IRoutes, svc TaskService, opts HandlerOptions) {
	group.GET("/tasks", ListHandler(svc, opts))
	group.GET("/tasks/:id", GetHandler(svc, opts))
	group.POST("/tasks", CreateHandler(svc, opts))
	group.PUT("/tasks/:id", UpdateHandler(svc, opts))
	group.DELETE("/tasks/:id", DeleteHandler(svc, opts))
}

func requireOwner(c *gin.Context, opts HandlerOptions) (string, bool) {
	ownerID, ok := auth.UserID(c)
	if !ok {
		apierr.Respond(c, opts.Logger, apierr.New(apierr.CodeUnauthorized, "認証トークンが必要です。", nil))
		return "", false
	}
	return ownerID, true
}

func bindInput(c *gin.Context, opts HandlerOptions) (TaskInput, bool) {
	var in TaskInput
	if err := c.ShouldBindJSON(&in); err != nil {
		apierr.Respond(c, opts.Logger, apierr.New(apierr.CodeInvalidInput, "リクエスト本文を JSON で送ってください。", err))
		return in, false
	}
	return in, true
}

// ListHandler は GET /tasks のハンドラーを返します。
func ListHandler(svc TaskService, opts HandlerOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, ok := requireOwner(c, opts)
		if !ok {
			return
		}
		list, err := svc.List(c.Request.Context(), ownerID)
		if err != nil {
			apierr.Respond(c, opts.Logger, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// GetHandler は GET /tasks/:id のハンドラーを返します。
func GetHandler(svc TaskService, opts HandlerOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, ok := requireOwner(c, opts)
		if !ok {
			return
		}
		t, err := svc.Get(c.Request.Context(), c.Param("id"), ownerID)
		if err != nil {
			apierr.Respond(c, opts.Logger, err)
			return
		}
		c.JSON(http.StatusOK, t)
	}
}

// CreateHandler は POST /tasks のハンドラーを返します。
func CreateHandler(svc TaskService, opts HandlerOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, ok := requireOwner(c, opts)
		if !ok {
			return
		}
		in, ok := bindInput(c, opts)
		if !ok {
			return
		}
		t, err := svc.Create(c.Request.Context(), ownerID, in)
		if err != nil {
			apierr.Respond(c, opts.Logger, err)
			return
		}
		c.JSON(http.StatusCreated, t)
	}
}

// UpdateHandler は PUT /tasks/:id のハンドラーを返します。
func UpdateHandler(svc TaskService, opts HandlerOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, ok := requireOwner(c, opts)
		if !ok {
			return
		}
		in, ok := bindInput(c, opts)
		if !ok {
			return
		}
		t, err := svc.Update(c.Request.Context(), c.Param("id"), ownerID, in)
		if err != nil {
			apierr.Respond(c, opts.Logger, err)
			return
		}
		c.JSON(http.StatusOK, t)
	}
}

// DeleteHandler は DELETE /tasks/:id のハンドラーを返します。
func DeleteHandler(svc TaskService, opts HandlerOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, ok := requireOwner(c, opts)
		if !ok {
			return
		}
		if err := svc.Delete(c.Request.Context(), c.Param("id"), ownerID); err != nil {
			apierr.Respond(c, opts.Logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"result": "Task deleted"})
	}
}
