package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/Alok5code/project-task-management-api/internal/models"
	"github.com/Alok5code/project-task-management-api/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestTaskService_Lifecycle(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	owner, _ := env.register(t, "alice")

	task, err := env.tasks.CreateTask(ctx, owner, service.CreateTaskInput{Title: "Write report", Priority: "high"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusTodo, task.Status)
	assert.Equal(t, models.PriorityHigh, task.Priority)
	assert.Nil(t, task.Description)
	assert.Equal(t, task.CreatedAt, task.UpdatedAt)

	updated, err := env.tasks.UpdateTask(ctx, owner, task.ID, service.UpdateTaskInput{
		Status:      strPtr("done"),
		Description: strPtr("sent on Friday"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusDone, updated.Status)
	assert.Equal(t, "Write report", updated.Title)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "sent on Friday", *updated.Description)
	assert.False(t, updated.UpdatedAt.Before(task.UpdatedAt))

	tasks, err := env.tasks.ListTasks(ctx, owner, service.TaskFilterInput{Status: "done"})
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	require.NoError(t, env.tasks.DeleteTask(ctx, owner, task.ID))
	assert.ErrorIs(t, env.tasks.DeleteTask(ctx, owner, task.ID), service.ErrTaskNotFound)
	_, err = env.tasks.GetTask(ctx, owner, task.ID)
	assert.ErrorIs(t, err, service.ErrTaskNotFound)
}

func TestTaskService_CreateValidation(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	owner, _ := env.register(t, "alice")

	tests := []struct {
		name  string
		input service.CreateTaskInput
		field string
	}{
		{"missing title", service.CreateTaskInput{Priority: "low"}, "title"},
		{"short title", service.CreateTaskInput{Title: "ab", Priority: "low"}, "title"},
		{"long title", service.CreateTaskInput{Title: strings.Repeat("a", 101), Priority: "low"}, "title"},
		{"missing priority", service.CreateTaskInput{Title: "Valid title"}, "priority"},
		{"unknown priority", service.CreateTaskInput{Title: "Valid title", Priority: "urgent"}, "priority"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.tasks.CreateTask(context.Background(), owner, tt.input)
			var ve *service.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, ve.Fields, tt.field)
		})
	}
}

func TestTaskService_UpdateErrors(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	owner, _ := env.register(t, "alice")
	task, err := env.tasks.CreateTask(ctx, owner, service.CreateTaskInput{Title: "Valid title", Priority: "low"})
	require.NoError(t, err)

	_, err = env.tasks.UpdateTask(ctx, owner, task.ID, service.UpdateTaskInput{})
	assert.ErrorIs(t, err, service.ErrEmptyUpdate)

	var ve *service.ValidationError
	_, err = env.tasks.UpdateTask(ctx, owner, task.ID, service.UpdateTaskInput{Status: strPtr("archived")})
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "status")

	_, err = env.tasks.UpdateTask(ctx, owner, task.ID, service.UpdateTaskInput{Title: strPtr("")})
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "title")

	_, err = env.tasks.UpdateTask(ctx, owner, task.ID+100, service.UpdateTaskInput{Priority: strPtr("high")})
	assert.ErrorIs(t, err, service.ErrTaskNotFound)
}

func TestTaskService_OwnerIsolation(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	alice, _ := env.register(t, "alice")
	bob, _ := env.register(t, "bob")

	task, err := env.tasks.CreateTask(ctx, alice, service.CreateTaskInput{Title: "Private task", Priority: "medium"})
	require.NoError(t, err)

	_, err = env.tasks.GetTask(ctx, bob, task.ID)
	assert.ErrorIs(t, err, service.ErrTaskNotFound)
	_, err = env.tasks.UpdateTask(ctx, bob, task.ID, service.UpdateTaskInput{Title: strPtr("Hijacked task")})
	assert.ErrorIs(t, err, service.ErrTaskNotFound)
	assert.ErrorIs(t, env.tasks.DeleteTask(ctx, bob, task.ID), service.ErrTaskNotFound)

	bobTasks, err := env.tasks.ListTasks(ctx, bob, service.TaskFilterInput{})
	require.NoError(t, err)
	assert.Empty(t, bobTasks)

	got, err := env.tasks.GetTask(ctx, alice, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Private task", got.Title)
}

func TestTaskService_ListFilterValidation(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	owner, _ := env.register(t, "alice")

	var ve *service.ValidationError
	_, err := env.tasks.ListTasks(context.Background(), owner, service.TaskFilterInput{Priority: "urgent"})
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "priority")
}
