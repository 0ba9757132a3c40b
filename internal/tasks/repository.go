package tasks

import "context"

// Repository はタスクの保存先です。全ての操作は所有者で絞り込みます。
type Repository interface {
	// List は所有者の全タスクを期日順に返します。
	List(ctx context.Context, ownerID string) ([]Task, error)
	Get(ctx context.Context, id, ownerID string) (*Task, error)
	Insert(ctx context.Context, task *Task) error
	// Update は取得・mutate・書き込みを 1 つの原子的な単位で行います。
	// mutate がエラーを返した場合は何も書き込みません。
	Update(ctx context.Context, id, ownerID string, mutate func(*Task) error) (*Task, error)
	// Delete は削除した件数を返します。
	Delete(ctx context.Context, id, ownerID string) (int64, error)
}
