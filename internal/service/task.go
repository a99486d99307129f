package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Alok5code/project-task-management-api/internal/models"
	"github.com/Alok5code/project-task-management-api/internal/repository"

	"go.uber.org/zap"
)

// TaskService manages the tasks of an authenticated owner. A task owned by
// someone else is reported as ErrTaskNotFound.
type TaskService interface {
	CreateTask(ctx context.Context, ownerID int64, input CreateTaskInput) (*models.Task, error)
	ListTasks(ctx context.Context, ownerID int64, filter TaskFilterInput) ([]*models.Task, error)
	GetTask(ctx context.Context, ownerID, id int64) (*models.Task, error)
	UpdateTask(ctx context.Context, ownerID, id int64, input UpdateTaskInput) (*models.Task, error)
	DeleteTask(ctx context.Context, ownerID, id int64) error
}

type taskService struct {
	repo   repository.TaskRepository
	logger *zap.Logger
	now    func() time.Time
}

func NewTaskService(repo repository.TaskRepository, logger *zap.Logger) TaskService {
	return &taskService{repo: repo, logger: logger, now: time.Now}
}

func (s *taskService) CreateTask(ctx context.Context, ownerID int64, input CreateTaskInput) (*models.Task, error) {
	if err := input.Validate(); err != nil {
		return nil, asValidationError(err)
	}

	now := s.now().UTC()
	task := &models.Task{
		OwnerID:     ownerID,
		Title:       input.Title,
		Description: input.Description,
		Status:      models.StatusTodo,
		Priority:    models.TaskPriority(input.Priority),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.CreateTask(ctx, task); err != nil {
		return nil, err
	}

	s.logger.Info("Task created", zap.Int64("user_id", ownerID), zap.Int64("task_id", task.ID))
	return task, nil
}

func (s *taskService) ListTasks(ctx context.Context, ownerID int64, filter TaskFilterInput) ([]*models.Task, error) {
	if err := filter.Validate(); err != nil {
		return nil, asValidationError(err)
	}

	tasks, err := s.repo.ListTasks(ctx, ownerID, models.TaskFilter{
		Status:   models.TaskStatus(filter.Status),
		Priority: models.TaskPriority(filter.Priority),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

func (s *taskService) GetTask(ctx context.Context, ownerID, id int64) (*models.Task, error) {
	task, err := s.repo.GetTask(ctx, ownerID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

// UpdateTask applies the fields present in input. Validation runs before the
// emptiness check so an invalid value is reported even if it is the only one.
func (s *taskService) UpdateTask(ctx context.Context, ownerID, id int64, input UpdateTaskInput) (*models.Task, error) {
	if err := input.Validate(); err != nil {
		return nil, asValidationError(err)
	}

	update := input.toUpdate()
	if update.Empty() {
		return nil, ErrEmptyUpdate
	}

	task, err := s.repo.UpdateTask(ctx, ownerID, id, update, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}

	s.logger.Info("Task updated", zap.Int64("user_id", ownerID), zap.Int64("task_id", id))
	return task, nil
}

func (s *taskService) DeleteTask(ctx context.Context, ownerID, id int64) error {
	deleted, err := s.repo.DeleteTask(ctx, ownerID, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if !deleted {
		return ErrTaskNotFound
	}

	s.logger.Info("Task deleted", zap.Int64("user_id", ownerID), zap.Int64("task_id", id))
	return nil
}
