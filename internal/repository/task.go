package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Alok5code/project-task-management-api/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// TaskRepository stores tasks. Every method is scoped by owner: a task that
// belongs to another user behaves exactly like a missing one.
type TaskRepository interface {
	CreateTask(ctx context.Context, task *models.Task) error
	ListTasks(ctx context.Context, ownerID int64, filter models.TaskFilter) ([]*models.Task, error)
	GetTask(ctx context.Context, ownerID, id int64) (*models.Task, error)
	UpdateTask(ctx context.Context, ownerID, id int64, update models.TaskUpdate, updatedAt time.Time) (*models.Task, error)
	DeleteTask(ctx context.Context, ownerID, id int64) (bool, error)
}

type taskRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewTaskRepository(db *sqlx.DB, logger *zap.Logger) TaskRepository {
	return &taskRepository{db: db, logger: logger}
}

const taskColumns = `id, owner_id, title, description, status, priority, created_at, updated_at`

func (r *taskRepository) CreateTask(ctx context.Context, task *models.Task) error {
	query := r.db.Rebind(`INSERT INTO tasks (owner_id, title, description, status, priority, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`)
	err := r.db.QueryRowxContext(ctx, query,
		task.OwnerID, task.Title, task.Description, string(task.Status), string(task.Priority),
		task.CreatedAt, task.UpdatedAt,
	).Scan(&task.ID)
	if err != nil {
		r.logger.Error("Failed to create task", zap.Int64("owner_id", task.OwnerID), zap.Error(err))
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

func (r *taskRepository) ListTasks(ctx context.Context, ownerID int64, filter models.TaskFilter) ([]*models.Task, error) {
	var b strings.Builder
	b.WriteString(`SELECT ` + taskColumns + ` FROM tasks WHERE owner_id = ?`)
	args := []interface{}{ownerID}

	if filter.Status != "" {
		b.WriteString(` AND status = ?`)
		args = append(args, string(filter.Status))
	}
	if filter.Priority != "" {
		b.WriteString(` AND priority = ?`)
		args = append(args, string(filter.Priority))
	}
	b.WriteString(` ORDER BY id`)

	tasks := []*models.Task{}
	if err := r.db.SelectContext(ctx, &tasks, r.db.Rebind(b.String()), args...); err != nil {
		r.logger.Error("Failed to list tasks", zap.Int64("owner_id", ownerID), zap.Error(err))
		return nil, err
	}
	return tasks, nil
}

// GetTask returns (nil, nil) when the owner has no task with that id.
func (r *taskRepository) GetTask(ctx context.Context, ownerID, id int64) (*models.Task, error) {
	return getTask(ctx, r.db, ownerID, id)
}

// UpdateTask applies the non-nil fields of update and returns the stored
// result, or (nil, nil) when the owner has no task with that id.
func (r *taskRepository) UpdateTask(ctx context.Context, ownerID, id int64, update models.TaskUpdate, updatedAt time.Time) (*models.Task, error) {
	sets := []string{"updated_at = ?"}
	args := []interface{}{updatedAt}

	if update.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *update.Title)
	}
	if update.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *update.Description)
	}
	if update.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, string(*update.Status))
	}
	if update.Priority != nil {
		sets = append(sets, "priority = ?")
		args = append(args, string(*update.Priority))
	}
	args = append(args, id, ownerID)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := tx.Rebind(`UPDATE tasks SET ` + strings.Join(sets, ", ") + ` WHERE id = ? AND owner_id = ?`)
	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to update task", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rowsAffected == 0 {
		return nil, nil
	}

	task, err := getTask(ctx, tx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteTask reports whether a task was removed.
func (r *taskRepository) DeleteTask(ctx context.Context, ownerID, id int64) (bool, error) {
	query := r.db.Rebind(`DELETE FROM tasks WHERE id = ? AND owner_id = ?`)
	result, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		r.logger.Error("Failed to delete task", zap.Int64("id", id), zap.Error(err))
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected > 0, nil
}

type queryer interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	Rebind(query string) string
}

func getTask(ctx context.Context, q queryer, ownerID, id int64) (*models.Task, error) {
	var task models.Task
	query := q.Rebind(`SELECT ` + taskColumns + ` FROM tasks WHERE id = ? AND owner_id = ?`)
	err := q.GetContext(ctx, &task, query, id, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &task, nil
}
