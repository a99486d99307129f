package handler

import (
	"net/http"

	"github.com/Alok5code/project-task-management-api/internal/middleware"
	"github.com/Alok5code/project-task-management-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AuthHandler interface {
	Register(c *gin.Context)
	Login(c *gin.Context)
	Me(c *gin.Context)
}

type authHandler struct {
	authService service.AuthService
	log         *logrus.Logger
}

func NewAuthHandler(authService service.AuthService, log *logrus.Logger) AuthHandler {
	return &authHandler{authService: authService, log: log}
}

// CredentialsRequest is accepted as JSON or as a form. Login also accepts the
// OAuth2 password grant form; its other fields are ignored.
type CredentialsRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// Register handles POST /auth/register
func (h *authHandler) Register(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBind(&req); err != nil {
		h.log.WithField("request_id", middleware.RequestID(c)).Warnf("Failed to bind registration request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	tok, err := h.authService.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if writeServiceError(c, err) {
			return
		}
		h.log.WithField("request_id", middleware.RequestID(c)).Errorf("Failed to register user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register user"})
		return
	}

	c.JSON(http.StatusOK, tok)
}

// Login handles POST /auth/login
func (h *authHandler) Login(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBind(&req); err != nil {
		h.log.WithField("request_id", middleware.RequestID(c)).Warnf("Failed to bind login request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	tok, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if writeServiceError(c, err) {
			return
		}
		h.log.WithField("request_id", middleware.RequestID(c)).Errorf("Failed to login user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to login"})
		return
	}

	c.JSON(http.StatusOK, tok)
}

// Me handles GET /auth/me
func (h *authHandler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		writeServiceError(c, service.ErrNotAuthenticated)
		return
	}

	c.JSON(http.StatusOK, user)
}
