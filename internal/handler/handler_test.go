package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Alok5code/project-task-management-api/internal/models"
	"github.com/Alok5code/project-task-management-api/internal/service"
	"github.com/Alok5code/project-task-management-api/internal/token"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var errDatabaseDown = errors.New("pq: connection refused")

type brokenTaskService struct{}

func (brokenTaskService) CreateTask(context.Context, int64, service.CreateTaskInput) (*models.Task, error) {
	return nil, errDatabaseDown
}

func (brokenTaskService) ListTasks(context.Context, int64, service.TaskFilterInput) ([]*models.Task, error) {
	return nil, errDatabaseDown
}

func (brokenTaskService) GetTask(context.Context, int64, int64) (*models.Task, error) {
	return nil, errDatabaseDown
}

func (brokenTaskService) UpdateTask(context.Context, int64, int64, service.UpdateTaskInput) (*models.Task, error) {
	return nil, errDatabaseDown
}

func (brokenTaskService) DeleteTask(context.Context, int64, int64) error {
	return errDatabaseDown
}

type brokenAuthService struct{}

func (brokenAuthService) Register(context.Context, string, string) (token.Token, error) {
	return token.Token{}, errDatabaseDown
}

func (brokenAuthService) Login(context.Context, string, string) (token.Token, error) {
	return token.Token{}, errDatabaseDown
}

func withUser(c *gin.Context) {
	c.Set("currentUser", &models.User{ID: 1, Username: "alice"})
}

func TestTaskHandler_InternalErrorsAreHidden(t *testing.T) {
	t.Parallel()
	h := NewTaskHandler(brokenTaskService{}, zap.NewNop())
	r := gin.New()
	r.GET("/tasks", withUser, h.GetTasks)
	r.POST("/tasks", withUser, h.CreateTask)
	r.GET("/tasks/:id", withUser, h.GetTaskByID)
	r.DELETE("/tasks/:id", withUser, h.DeleteTask)

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/tasks", nil),
		httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(`{"title":"Valid","priority":"low"}`)),
		httptest.NewRequest(http.MethodGet, "/tasks/1", nil),
		httptest.NewRequest(http.MethodDelete, "/tasks/1", nil),
	} {
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code, "%s %s", req.Method, req.URL.Path)
		assert.NotContains(t, w.Body.String(), "connection refused")
	}
}

func TestTaskHandler_WithoutCurrentUser(t *testing.T) {
	t.Parallel()
	h := NewTaskHandler(brokenTaskService{}, zap.NewNop())
	r := gin.New()
	r.GET("/tasks", h.GetTasks)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tasks", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
}

func TestAuthHandler_InternalErrorsAreHidden(t *testing.T) {
	t.Parallel()
	log := logrus.New()
	log.SetOutput(io.Discard)
	h := NewAuthHandler(brokenAuthService{}, log)
	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)

	for _, path := range []string{"/auth/register", "/auth/login"} {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"username":"alice","password":"Goodpass1!"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code, path)
		assert.NotContains(t, w.Body.String(), "connection refused")
	}
}

func TestWriteServiceError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		err    error
		status int
	}{
		{&service.ValidationError{Fields: map[string]string{"title": "cannot be blank"}}, http.StatusBadRequest},
		{service.ErrUsernameTaken, http.StatusBadRequest},
		{service.ErrInvalidCredentials, http.StatusUnauthorized},
		{service.ErrNotAuthenticated, http.StatusUnauthorized},
		{service.ErrTaskNotFound, http.StatusNotFound},
		{service.ErrEmptyUpdate, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		assert.True(t, writeServiceError(c, tt.err))
		assert.Equal(t, tt.status, w.Code, tt.err.Error())
	}

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.False(t, writeServiceError(c, errDatabaseDown))
}
