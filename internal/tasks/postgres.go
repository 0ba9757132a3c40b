package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const taskColumns = `id, title, description, due_date, status, owner_id`

// PostgresRepository は tasks テーブルを使う Repository です。
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository は PostgresRepository を作成します。
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*Task, error) {
	var t Task
	var status string
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &t.DueDate, &status, &t.OwnerID); err != nil {
		return nil, err
	}
	t.Status = Status(status)
	t.DueDate = t.DueDate.UTC()
	return &t, nil
}

// List は所有者のタスクを期限の昇順で返します。
func (r *PostgresRepository) List(ctx context.Context, ownerID string) ([]Task, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE owner_id = $1 ORDER BY due_date, id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("select tasks: %w", err)
	}
	defer rows.Close()

	list := make([]Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		list = append(list, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return list, nil
}

// Get は所有者のタスクを 1 件返します。
func (r *PostgresRepository) Get(ctx context.Context, id, ownerID string) (*Task, error) {
	t, err := scanTask(r.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND owner_id = $2`, id, ownerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select task: %w", err)
	}
	return t, nil
}

// Insert はタスクを追加します。
func (r *PostgresRepository) Insert(ctx context.Context, task *Task) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (`+taskColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		task.ID, task.Title, task.Description, task.DueDate, string(task.Status), task.OwnerID)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

// Update は行ロックを取ってから書き戻します。途中で失敗した場合はロールバックされます。
func (r *PostgresRepository) Update(ctx context.Context, id, ownerID string, mutate func(*Task) error) (*Task, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	t, err := scanTask(tx.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND owner_id = $2 FOR UPDATE`, id, ownerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select task: %w", err)
	}

	if err := mutate(t); err != nil {
		return nil, err
	}
	t.ID, t.OwnerID = id, ownerID

	res, err := tx.ExecContext(ctx,
		`UPDATE tasks SET title = $1, description = $2, due_date = $3, status = $4 WHERE id = $5 AND owner_id = $6`,
		t.Title, t.Description, t.DueDate, string(t.Status), id, ownerID)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return t, nil
}

// Delete はタスクを削除し、削除した行数を返します。
func (r *PostgresRepository) Delete(ctx context.Context, id, ownerID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return 0, fmt.Errorf("delete task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return affected, nil
}
