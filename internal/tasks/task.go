// Package tasks はユーザーごとのタスク管理を提供します。
package tasks

import (
	"errors"
	"sort"
	"time"
)

// ErrNotFound は指定した所有者のタスクが存在しないことを表します。
// 他ユーザーのタスクも同じく ErrNotFound になります。
var ErrNotFound = errors.New("task not found")

// Status はタスクの進行状態です。
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// Valid は定義済みの状態かどうかを返します。
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	default:
		return false
	}
}

// Task は 1 件のタスクです。
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"dueDate"`
	Status      Status    `json:"status"`
	OwnerID     string    `json:"ownerId"`
}

// TaskInput は作成・更新リクエストの本文です。nil のフィールドは「指定なし」です。
type TaskInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"dueDate"`
	Status      *string `json:"status"`
}

func (in TaskInput) empty() bool {
	return in.Title == nil && in.Description == nil && in.DueDate == nil && in.Status == nil
}

// sortTasks は期日順（同じ期日なら ID 順）に並べ替えます。
func sortTasks(list []Task) {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].DueDate.Equal(list[j].DueDate) {
			return list[i].DueDate.Before(list[j].DueDate)
		}
		return list[i].ID < list[j].ID
	})
}
