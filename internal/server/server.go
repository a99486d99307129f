package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/Alok5code/project-task-management-api/internal/handler"
	"github.com/Alok5code/project-task-management-api/internal/middleware"
	"github.com/Alok5code/project-task-management-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
)

// Options configures the HTTP listener.
type Options struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Services are the application services the routes are served by.
type Services struct {
	Auth  service.AuthService
	Tasks service.TaskService
	Guard middleware.Authorizer
}

type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	opts       Options
	log        *logrus.Logger
	logger     *zap.Logger
}

func NewServer(opts Options, services Services, log *logrus.Logger, logger *zap.Logger) *Server {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(log))

	s := &Server{
		router: router,
		opts:   opts,
		log:    log,
		logger: logger,
	}
	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort("", opts.Port),
		Handler:      router,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	}

	s.setupRoutes(services)

	return s
}

func (s *Server) setupRoutes(services Services) {
	authHandler := handler.NewAuthHandler(services.Auth, s.log)
	taskHandler := handler.NewTaskHandler(services.Tasks, s.logger)
	requireAuth := middleware.RequireAuth(services.Guard, s.logger)

	// Ping route for health check
	s.router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	authGroup := s.router.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/me", requireAuth, authHandler.Me)

	tasks := s.router.Group("/tasks")
	tasks.Use(requireAuth)
	{
		tasks.GET("", taskHandler.GetTasks)
		tasks.POST("", taskHandler.CreateTask)
		tasks.GET("/:id", taskHandler.GetTaskByID)
		tasks.PUT("/:id", taskHandler.UpdateTask)
		tasks.DELETE("/:id", taskHandler.DeleteTask)
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
