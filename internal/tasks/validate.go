package tasks

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/yourusername/task-api/internal/apierr"
)

// MaxTitleLength はタイトルの最大文字数です。
const MaxTitleLength = 100

// ISO-8601 として受け付ける形式。オフセットのない値は UTC とみなします。
// 区切りは T と空白の両方、オフセットは +hh:mm と +hhmm の両方を受け付けます。
var dueDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04Z0700",
	"2006-01-02T15:04",
	"2006-01-02T15",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z0700",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04Z07:00",
	"2006-01-02 15:04Z0700",
	"2006-01-02 15:04",
	"2006-01-02 15",
	"2006-01-02",
}

// ParseDueDate は ISO-8601 形式の日時を UTC に変換します。
func ParseDueDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, apierr.Invalid("dueDate", "dueDate は ISO 8601 形式で指定してください。")
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return apierr.Invalid("title", "title を入力してください。")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return apierr.Invalid("title", "title は 100 文字以内で指定してください。")
	}
	return nil
}

func validateStatus(status string) error {
	if !Status(status).Valid() {
		return apierr.Invalid("status", "status は pending / in-progress / completed のいずれかを指定してください。")
	}
	return nil
}

// validateCreate は作成時の入力を検証し、最初に見つかったエラーを返します。
func validateCreate(in TaskInput) (time.Time, error) {
	if in.Title == nil {
		return time.Time{}, apierr.Invalid("title", "title は必須です。")
	}
	if err := validateTitle(*in.Title); err != nil {
		return time.Time{}, err
	}
	if in.Status == nil {
		return time.Time{}, apierr.Invalid("status", "status は必須です。")
	}
	if err := validateStatus(*in.Status); err != nil {
		return time.Time{}, err
	}
	if in.DueDate == nil {
		return time.Time{}, apierr.Invalid("dueDate", "dueDate は必須です。")
	}
	return ParseDueDate(*in.DueDate)
}

// validateUpdate は指定されたフィールドだけを検証します。
func validateUpdate(in TaskInput) (*time.Time, error) {
	if in.empty() {
		return nil, apierr.Invalid("", "更新する項目を指定してください。")
	}
	if in.Title != nil {
		if err := validateTitle(*in.Title); err != nil {
			return nil, err
		}
	}
	if in.Status != nil {
		if err := validateStatus(*in.Status); err != nil {
			return nil, err
		}
	}
	if in.DueDate == nil {
		return nil, nil
	}
	due, err := ParseDueDate(*in.DueDate)
	if err != nil {
		return nil, err
	}
	return &due, nil
}
