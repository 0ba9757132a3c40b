package tasks

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/yourusername/task-api/internal/apierr"
)

// Service は入力の検証とリポジトリ操作をまとめます。
type Service struct {
	repo Repository
}

// NewService は Service を作成します。
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func notFound(cause error) error {
	return apierr.New(apierr.CodeTaskNotFound, "タスクが見つかりません。", cause)
}

// normalizeID は UUID として解釈できない ID を存在しないものとして扱います。
func normalizeID(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", notFound(ErrNotFound)
	}
	return parsed.String(), nil
}

// List は所有者のタスクを返します。
func (s *Service) List(ctx context.Context, ownerID string) ([]Task, error) {
	list, err := s.repo.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []Task{}
	}
	return list, nil
}

// Get は所有者のタスクを 1 件返します。
func (s *Service) Get(ctx context.Context, id, ownerID string) (*Task, error) {
	id, err := normalizeID(id)
	if err != nil {
		return nil, err
	}
	t, err := s.repo.Get(ctx, id, ownerID)
	if errors.Is(err, ErrNotFound) {
		return nil, notFound(err)
	}
	return t, err
}

// Create は入力を検証してタスクを作成します。
func (s *Service) Create(ctx context.Context, ownerID string, in TaskInput) (*Task, error) {
	due, err := validateCreate(in)
	if err != nil {
		return nil, err
	}

	t := &Task{
		ID:      uuid.NewString(),
		Title:   *in.Title,
		DueDate: due,
		Status:  Status(*in.Status),
		OwnerID: ownerID,
	}
	if in.Description != nil {
		t.Description = *in.Description
	}

	if err := s.repo.Insert(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Update は指定されたフィールドだけを書き換えます。指定のないフィールドは保存済みの値のままです。
func (s *Service) Update(ctx context.Context, id, ownerID string, in TaskInput) (*Task, error) {
	due, err := validateUpdate(in)
	if err != nil {
		return nil, err
	}
	id, err = normalizeID(id)
	if err != nil {
		return nil, err
	}

	t, err := s.repo.Update(ctx, id, ownerID, func(t *Task) error {
		if in.Title != nil {
			t.Title = *in.Title
		}
		if in.Description != nil {
			t.Description = *in.Description
		}
		if due != nil {
			t.DueDate = *due
		}
		if in.Status != nil {
			t.Status = Status(*in.Status)
		}
		return nil
	})
	if errors.Is(err, ErrNotFound) {
		return nil, notFound(err)
	}
	return t, err
}

// Delete はタスクを削除します。
func (s *Service) Delete(ctx context.Context, id, ownerID string) error {
	id, err := normalizeID(id)
	if err != nil {
		return err
	}
	n, err := s.repo.Delete(ctx, id, ownerID)
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound(ErrNotFound)
	}
	return nil
}
