package tasks

import (
	"context"
	"fmt"
	"sync"
)

// MemoryRepository はプロセス内で完結する Repository です。開発・テスト用です。
type MemoryRepository struct {
	mu      sync.RWMutex
	byOwner map[string]map[string]Task
}

// NewMemoryRepository は空の MemoryRepository を作成します。
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byOwner: make(map[string]map[string]Task)}
}

// List は所有者のタスクを期限順に返します。
func (r *MemoryRepository) List(ctx context.Context, ownerID string) ([]Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]Task, 0, len(r.byOwner[ownerID]))
	for _, t := range r.byOwner[ownerID] {
		list = append(list, t)
	}
	sortTasks(list)
	return list, nil
}

// Get は所有者のタスクのコピーを返します。
func (r *MemoryRepository) Get(ctx context.Context, id, ownerID string) (*Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.byOwner[ownerID][id]
	if !ok {
		return nil, ErrNotFound
	}
	return &t, nil
}

// Insert はタスクを追加します。
func (r *MemoryRepository) Insert(ctx context.Context, task *Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	owned, ok := r.byOwner[task.OwnerID]
	if !ok {
		owned = make(map[string]Task)
		r.byOwner[task.OwnerID] = owned
	}
	if _, exists := owned[task.ID]; exists {
		return fmt.Errorf("task id collision: %s", task.ID)
	}
	owned[task.ID] = *task
	return nil
}

// Update はコピーに mutate を適用し、成功した場合だけ保存します。
func (r *MemoryRepository) Update(ctx context.Context, id, ownerID string, mutate func(*Task) error) (*Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.byOwner[ownerID][id]
	if !ok {
		return nil, ErrNotFound
	}
	next := current
	if err := mutate(&next); err != nil {
		return nil, err
	}
	next.ID, next.OwnerID = id, ownerID
	r.byOwner[ownerID][id] = next
	return &next, nil
}

// Delete はタスクを削除し、削除した件数を返します。
func (r *MemoryRepository) Delete(ctx context.Context, id, ownerID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byOwner[ownerID][id]; !ok {
		return 0, nil
	}
	delete(r.byOwner[ownerID], id)
	return 1, nil
}
