// Package main はAPIサーバーのエントリーポイントです。
package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/task-api/internal/auth"
	"github.com/yourusername/task-api/internal/config"
	"github.com/yourusername/task-api/internal/tasks"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

// run は設定とストレージを準備してサーバーを起動します。
// 戻る前に必ずストレージを閉じます。
func run() error {
	// 設定の読み込み
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := log.Default()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := setupStorage(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to set up storage: %w", err)
	}
	defer backend.Close()

	gin.SetMode(cfg.GinMode)

	// Ginルーターの初期化（デフォルトミドルウェア: Logger, Recovery）
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	origins := strings.Split(cfg.CORSAllowedOrigins, ",")
	if len(origins) == 1 && origins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
	}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	setupRoutes(router, cfg, backend, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}
	logger.Printf("Starting API server on %s (mode: %s, store: %s)", srv.Addr, cfg.GinMode, cfg.StoreDriver)
	return serve(ctx, srv, logger)
}

// serve は ctx が終了するかリスナーが失敗するまでリクエストを処理します。
// ctx の終了時は処理中のリクエストを待ってから戻ります。
func serve(ctx context.Context, srv *http.Server, logger *log.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	logger.Printf("Shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

// handleHealth はヘルスチェックエンドポイントのハンドラーです。
func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "task-api",
		"version": "0.1.0",
	})
}

// setupRoutes は認証とタスク API の配線を行います。
func setupRoutes(router *gin.Engine, cfg *config.Config, backend *storageBackend, logger *log.Logger) {
	router.GET("/health", handleHealth)

	issuer := auth.NewJWTIssuer(signingKey(cfg, logger), cfg.TokenTTL())
	hasher := auth.NewBcryptHasher(cfg.BcryptCost)
	authManager := auth.NewManager(backend.users, hasher, issuer, logger)

	// 登録・ログインはトークン不要
	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/register", authManager.Register)
		authRoutes.POST("/login", authManager.Login)
	}

	protected := router.Group("")
	protected.Use(authManager.RequireToken())
	tasks.RegisterRoutes(protected, tasks.NewService(backend.tasks), tasks.HandlerOptions{Logger: logger})
}

// signingKey は設定された秘密鍵を返します。未設定の場合はプロセス限りの鍵を生成します。
func signingKey(cfg *config.Config, logger *log.Logger) []byte {
	if cfg.JWTSecretKey != "" {
		return []byte(cfg.JWTSecretKey)
	}
	key := make([]byte, 32)
	// Go 1.24 以降の rand.Read はエラーを返しません
	_, _ = rand.Read(key)
	logger.Printf("JWT_SECRET_KEY is not set; using an ephemeral key (tokens will not survive a restart)")
	return key
}
