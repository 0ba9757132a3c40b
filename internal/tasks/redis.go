package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	taskKeyPrefix = "tasks:"

	// WATCH が失敗するのは他の書き込みが成功したときだけなので、
	// 同時更新がこの回数未満であれば必ずどれかの試行で書き込めます。
	maxUpdateAttempts = 64
	updateBackoffBase = 2 * time.Millisecond
	updateBackoffMax  = 50 * time.Millisecond
)

// RedisRepository は所有者ごとのハッシュ tasks:<ownerID> にタスクを保存します。
// キー自体が所有者で分かれているため、他ユーザーのタスクには届きません。
type RedisRepository struct {
	rdb *redis.Client
}

// NewRedisRepository は RedisRepository を作成します。
func NewRedisRepository(rdb *redis.Client) *RedisRepository {
	return &RedisRepository{rdb: rdb}
}

// List は所有者のハッシュからタスクを読み出して期限順に並べます。
func (r *RedisRepository) List(ctx context.Context, ownerID string) ([]Task, error) {
	values, err := r.rdb.HVals(ctx, ownerKey(ownerID)).Result()
	if err != nil {
		return nil, fmt.Errorf("hvals: %w", err)
	}
	list := make([]Task, 0, len(values))
	for _, v := range values {
		var t Task
		if err := json.Unmarshal([]byte(v), &t); err != nil {
			return nil, fmt.Errorf("decode task: %w", err)
		}
		list = append(list, t)
	}
	sortTasks(list)
	return list, nil
}

// Get は所有者のタスクを 1 件返します。
func (r *RedisRepository) Get(ctx context.Context, id, ownerID string) (*Task, error) {
	return getTask(ctx, r.rdb, ownerKey(ownerID), id)
}

// Insert は HSETNX でタスクを追加します。
func (r *RedisRepository) Insert(ctx context.Context, task *Task) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return err
	}
	ok, err := r.rdb.HSetNX(ctx, ownerKey(task.OwnerID), task.ID, payload).Result()
	if err != nil {
		return fmt.Errorf("hsetnx: %w", err)
	}
	if !ok {
		return fmt.Errorf("task id collision: %s", task.ID)
	}
	return nil
}

// Update は WATCH で楽観ロックし、競合した場合は再試行します。
func (r *RedisRepository) Update(ctx context.Context, id, ownerID string, mutate func(*Task) error) (*Task, error) {
	key := ownerKey(ownerID)
	var updated *Task

	txf := func(tx *redis.Tx) error {
		t, err := getTask(ctx, tx, key, id)
		if err != nil {
			return err
		}
		if err := mutate(t); err != nil {
			return err
		}
		t.ID, t.OwnerID = id, ownerID
		payload, err := json.Marshal(t)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, id, payload)
			return nil
		})
		if err == nil {
			updated = t
		}
		return err
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := r.rdb.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			if err := sleepBackoff(ctx, attempt); err != nil {
				return nil, err
			}
			continue
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}
	return nil, fmt.Errorf("update task %s: too many concurrent modifications", id)
}

// sleepBackoff は試行回数に応じたジッター付きの待機を行います。
func sleepBackoff(ctx context.Context, attempt int) error {
	ceiling := updateBackoffBase << min(attempt, 5)
	if ceiling > updateBackoffMax {
		ceiling = updateBackoffMax
	}
	timer := time.NewTimer(time.Duration(rand.Int63n(int64(ceiling))) + 1)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Delete は HDEL でタスクを削除し、削除した件数を返します。
func (r *RedisRepository) Delete(ctx context.Context, id, ownerID string) (int64, error) {
	n, err := r.rdb.HDel(ctx, ownerKey(ownerID), id).Result()
	if err != nil {
		return 0, fmt.Errorf("hdel: %w", err)
	}
	return n, nil
}

type hashGetter interface {
	HGet(ctx context.Context, key, field string) *redis.StringCmd
}

func getTask(ctx context.Context, c hashGetter, key, id string) (*Task, error) {
	data, err := c.HGet(ctx, key, id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("hget: %w", err)
	}
	var t Task
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decode task: %w", err)
	}
	return &t, nil
}

func ownerKey(ownerID string) string {
	return taskKeyPrefix + ownerID
}
