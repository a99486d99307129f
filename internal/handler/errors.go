package handler

import (
	"errors"
	"net/http"

	"github.com/Alok5code/project-task-management-api/internal/service"

	"github.com/gin-gonic/gin"
)

// writeServiceError maps a service error to its response. It returns false
// for errors the caller should log and report as 500.
func writeServiceError(c *gin.Context, err error) bool {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "fields": validationErr.Fields})
	case errors.Is(err, service.ErrUsernameTaken):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username already taken"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case errors.Is(err, service.ErrNotAuthenticated):
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Could not validate credentials"})
	case errors.Is(err, service.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
	case errors.Is(err, service.ErrEmptyUpdate):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "No valid data provided"})
	default:
		return false
	}
	return true
}
