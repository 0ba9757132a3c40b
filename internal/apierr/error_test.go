package apierr

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func respond(t *testing.T, err error) (*httptest.ResponseRecorder, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var logs bytes.Buffer
	logger := log.New(&logs, "", 0)

	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)
	ctx.Request = httptest.NewRequest(http.MethodGet, "/tasks", nil)
	Respond(ctx, logger, err)
	return rec, logs.String()
}

func TestRespondStatusMapping(t *testing.T) {
	tests := []struct {
		code   string
		status int
	}{
		{CodeInvalidInput, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeTokenExpired, http.StatusUnauthorized},
		{CodeTokenInvalid, http.StatusUnauthorized},
		{CodeInvalidCredentials, http.StatusUnauthorized},
		{CodeTaskNotFound, http.StatusNotFound},
		{CodeUsernameTaken, http.StatusConflict},
	}
	for _, tt := range tests {
		rec, _ := respond(t, fmt.Errorf("wrapped: %w", New(tt.code, "msg", nil)))
		if rec.Code != tt.status {
			t.Fatalf("%s: status = %d, want %d", tt.code, rec.Code, tt.status)
		}
		var payload map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("failed to parse response: %v", err)
		}
		if payload["code"] != tt.code {
			t.Fatalf("code = %q, want %q", payload["code"], tt.code)
		}
	}
}

func TestRespondValidationField(t *testing.T) {
	rec, _ := respond(t, Invalid("title", "too long"))
	var payload map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if payload["field"] != "title" {
		t.Fatalf("field = %q", payload["field"])
	}
}

func TestRespondInternalHidesDetails(t *testing.T) {
	rec, logs := respond(t, errors.New("dial tcp: connection refused"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "connection refused") {
		t.Fatalf("internal detail leaked: %s", rec.Body.String())
	}
	if !strings.Contains(logs, "connection refused") {
		t.Fatalf("expected error to be logged, got %q", logs)
	}
}
