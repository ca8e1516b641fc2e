package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskcheck/api/internal/domain/task"
	"github.com/taskcheck/api/internal/observability"
)

type TasksRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewTasksRepo(pool *pgxpool.Pool, prom *observability.Prom) *TasksRepo {
	return &TasksRepo{pool: pool, prom: prom}
}

func (r *TasksRepo) Create(ctx context.Context, t *task.Task) error {
	return r.prom.ObserveDB("tasks.create", func() error {
		return r.pool.QueryRow(
			ctx,
			`INSERT INTO tasks (title, description, is_done, owner_id, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING id`,
			t.Title,
			t.Description,
			t.IsDone,
			t.OwnerID,
			t.CreatedAt,
			t.UpdatedAt,
		).Scan(&t.ID)
	})
}

func (r *TasksRepo) GetByID(ctx context.Context, id int64) (task.Task, error) {
	var t task.Task

	err := r.prom.ObserveDB("tasks.get_by_id", func() error {
		return r.pool.QueryRow(
			ctx,
			`SELECT id, title, description, is_done, owner_id, created_at, updated_at
			 FROM tasks
			 WHERE id = $1`,
			id,
		).Scan(&t.ID, &t.Title, &t.Description, &t.IsDone, &t.OwnerID, &t.CreatedAt, &t.UpdatedAt)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return task.Task{}, task.ErrNotFound
		}
		return task.Task{}, err
	}
	return t, nil
}

func (r *TasksRepo) Update(ctx context.Context, t *task.Task) error {
	err := r.prom.ObserveDB("tasks.update", func() error {
		tag, err := r.pool.Exec(
			ctx,
			`UPDATE tasks
			 SET title = $2,
			     description = $3,
			     is_done = $4,
			     updated_at = $5
			 WHERE id = $1`,
			t.ID,
			t.Title,
			t.Description,
			t.IsDone,
			t.UpdatedAt,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return task.ErrNotFound
		}
		return nil
	})
	return err
}

func (r *TasksRepo) Delete(ctx context.Context, id int64) error {
	return r.prom.ObserveDB("tasks.delete", func() error {
		tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return task.ErrNotFound
		}
		return nil
	})
}

// ListByOwner returns one page of the owner's tasks, newest first.
func (r *TasksRepo) ListByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]task.Task, error) {
	out := make([]task.Task, 0, limit)

	err := r.prom.ObserveDB("tasks.list_by_owner", func() error {
		rows, err := r.pool.Query(
			ctx,
			`SELECT id, title, description, is_done, owner_id, created_at, updated_at
			 FROM tasks
			 WHERE owner_id = $1
			 ORDER BY id DESC
			 LIMIT $2 OFFSET $3`,
			ownerID,
			limit,
			offset,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var t task.Task
			if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.IsDone, &t.OwnerID, &t.CreatedAt, &t.UpdatedAt); err != nil {
				return err
			}
			out = append(out, t)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *TasksRepo) CountByOwner(ctx context.Context, ownerID int64) (int, error) {
	var total int

	err := r.prom.ObserveDB("tasks.count_by_owner", func() error {
		return r.pool.QueryRow(
			ctx,
			`SELECT COUNT(*) FROM tasks WHERE owner_id = $1`,
			ownerID,
		).Scan(&total)
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}
