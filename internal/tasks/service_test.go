package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/task-api/internal/apierr"
)

func codeOf(err error) string {
	var apiErr *apierr.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return ""
}

// countingRepository はリポジトリ呼び出しを数えます。
type countingRepository struct {
	Repository
	calls int
}

func (r *countingRepository) Insert(ctx context.Context, task *Task) error {
	r.calls++
	return r.Repository.Insert(ctx, task)
}

func (r *countingRepository) Update(ctx context.Context, id, ownerID string, mutate func(*Task) error) (*Task, error) {
	r.calls++
	return r.Repository.Update(ctx, id, ownerID, mutate)
}

func (r *countingRepository) Delete(ctx context.Context, id, ownerID string) (int64, error) {
	r.calls++
	return r.Repository.Delete(ctx, id, ownerID)
}

func TestServiceCreate(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	task, err := svc.Create(context.Background(), "alice", validInput())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if _, err := uuid.Parse(task.ID); err != nil {
		t.Fatalf("expected uuid id, got %q", task.ID)
	}
	if task.OwnerID != "alice" || task.Description != "" || task.Status != StatusPending {
		t.Fatalf("unexpected task: %#v", task)
	}
	if !task.DueDate.Equal(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected due date: %v", task.DueDate)
	}
}

func TestServiceValidationBeforePersistence(t *testing.T) {
	repo := &countingRepository{Repository: NewMemoryRepository()}
	svc := NewService(repo)

	in := validInput()
	in.Status = strPtr("unknown")
	if _, err := svc.Create(context.Background(), "alice", in); codeOf(err) != apierr.CodeInvalidInput {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.Update(context.Background(), uuid.NewString(), "alice", TaskInput{}); codeOf(err) != apierr.CodeInvalidInput {
		t.Fatalf("expected validation error, got %v", err)
	}
	if repo.calls != 0 {
		t.Fatalf("repository called %d times", repo.calls)
	}
}

func TestServicePartialUpdate(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	in := validInput()
	in.Description = strPtr("details")
	created, err := svc.Create(ctx, "alice", in)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	updated, err := svc.Update(ctx, created.ID, "alice", TaskInput{Status: strPtr("completed")})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Status != StatusCompleted {
		t.Fatalf("status = %q", updated.Status)
	}
	if updated.Title != created.Title || updated.Description != created.Description || !updated.DueDate.Equal(created.DueDate) {
		t.Fatalf("unrelated fields changed: before=%#v after=%#v", created, updated)
	}

	stored, err := svc.Get(ctx, created.ID, "alice")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if *stored != *updated {
		t.Fatalf("stored = %#v, want %#v", stored, updated)
	}
}

func TestServiceOwnershipLooksLikeAbsence(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	created, err := svc.Create(ctx, "alice", validInput())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	missing := uuid.NewString()

	for _, id := range []string{created.ID, missing, "not-a-uuid"} {
		if _, err := svc.Get(ctx, id, "bob"); codeOf(err) != apierr.CodeTaskNotFound {
			t.Fatalf("Get(%s): expected not found, got %v", id, err)
		}
		if _, err := svc.Update(ctx, id, "bob", TaskInput{Title: strPtr("x")}); codeOf(err) != apierr.CodeTaskNotFound {
			t.Fatalf("Update(%s): expected not found, got %v", id, err)
		}
		if err := svc.Delete(ctx, id, "bob"); codeOf(err) != apierr.CodeTaskNotFound {
			t.Fatalf("Delete(%s): expected not found, got %v", id, err)
		}
	}

	if _, err := svc.Get(ctx, created.ID, "alice"); err != nil {
		t.Fatalf("owner lost access: %v", err)
	}
}

func TestServiceDelete(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	created, err := svc.Create(ctx, "alice", validInput())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if err := svc.Delete(ctx, created.ID, "alice"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if err := svc.Delete(ctx, created.ID, "alice"); codeOf(err) != apierr.CodeTaskNotFound {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
	list, err := svc.List(ctx, "alice")
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty list, got %#v", list)
	}
}
