// Package apierr は API 全体で共有するエラー表現とレスポンス変換を提供します。
package apierr

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// エラーコード
const (
	CodeInvalidInput       = "INVALID_INPUT"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeTokenInvalid       = "TOKEN_INVALID"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeTaskNotFound       = "TASK_NOT_FOUND"
	CodeUsernameTaken      = "USERNAME_TAKEN"
	CodeInternal           = "INTERNAL_ERROR"
)

var statusByCode = map[string]int{
	CodeInvalidInput:       http.StatusBadRequest,
	CodeUnauthorized:       http.StatusUnauthorized,
	CodeTokenExpired:       http.StatusUnauthorized,
	CodeTokenInvalid:       http.StatusUnauthorized,
	CodeInvalidCredentials: http.StatusUnauthorized,
	CodeTaskNotFound:       http.StatusNotFound,
	CodeUsernameTaken:      http.StatusConflict,
}

// Error はクライアントへ返すエラーを表します。
type Error struct {
	Code    string
	Message string
	// Field はバリデーションエラーの対象フィールドです。
	Field string
	Err   error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Code + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Status は HTTP ステータスコードを返します。
func (e *Error) Status() int {
	if status, ok := statusByCode[e.Code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// New は Error を作成します。
func New(code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Err: cause}
}

// Invalid はフィールド単位のバリデーションエラーを作成します。
func Invalid(field, message string) *Error {
	return &Error{Code: CodeInvalidInput, Message: message, Field: field}
}

// Respond は err をステータスコードと JSON ボディに変換して返します。
// 内部エラーは logger に記録し、詳細はクライアントに返しません。
func Respond(c *gin.Context, logger *log.Logger, err error) {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Status() != http.StatusInternalServerError {
		body := gin.H{
			"code":    apiErr.Code,
			"message": apiErr.Message,
		}
		if apiErr.Field != "" {
			body["field"] = apiErr.Field
		}
		c.AbortWithStatusJSON(apiErr.Status(), body)
		return
	}

	if logger == nil {
		logger = log.Default()
	}
	logger.Printf("%s %s failed: %v", c.Request.Method, c.FullPath(), err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"code":    CodeInternal,
		"message": "サーバー内部でエラーが発生しました。",
	})
}
