package task

import (
	"errors"
	"time"

	"github.com/taskcheck/api/internal/fill"
	"github.com/taskcheck/api/internal/validate"
)

var ErrNotFound = errors.New("task not found")

// Task is a user-owned to-do item. Timestamps are stamped by the
// handlers right before a write, never taken from the client, and the
// owner is fixed at creation.
type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title" validate:"required,min=1,max=255"`
	Description *string    `json:"description" validate:"omitempty,max=1000"`
	IsDone      bool       `json:"isDone"`
	CreatedAt   *time.Time `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt"`
	OwnerID     int64      `json:"-"`
}

// FillSchema exposes the client-settable fields for payload population.
// id, timestamps and the owner are deliberately absent.
func (t *Task) FillSchema() fill.Schema {
	return fill.Schema{
		{Name: "title", Kind: fill.String, Set: func(v any) { t.Title = v.(string) }},
		{Name: "description", Kind: fill.String, Nullable: true, Set: func(v any) {
			if v == nil {
				t.Description = nil
				return
			}
			s := v.(string)
			t.Description = &s
		}},
		{Name: "isDone", Kind: fill.Bool, Set: func(v any) { t.IsDone = v.(bool) }},
	}
}

// StampCreate sets both timestamps ahead of the first persistence.
func (t *Task) StampCreate(now time.Time) {
	created := now.UTC()
	updated := created
	t.CreatedAt = &created
	t.UpdatedAt = &updated
}

// StampUpdate refreshes the update timestamp ahead of any mutation.
func (t *Task) StampUpdate(now time.Time) {
	updated := now.UTC()
	t.UpdatedAt = &updated
}

func (t *Task) Validate() []validate.Violation {
	return validate.Struct(t)
}
