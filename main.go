package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Alok5code/project-task-management-api/internal/config"
	"github.com/Alok5code/project-task-management-api/internal/crypto"
	"github.com/Alok5code/project-task-management-api/internal/repository"
	"github.com/Alok5code/project-task-management-api/internal/server"
	"github.com/Alok5code/project-task-management-api/internal/service"
	"github.com/Alok5code/project-task-management-api/internal/token"
)

const defaultConfigPath = "configs/config.yml"

// minSecretLength is the HMAC key size below which a warning is logged.
const minSecretLength = 32

func main() {
	bootLogger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}

	// Load configuration
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = defaultConfigPath
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		bootLogger.Fatal("Failed to load config", zap.String("path", cfgPath), zap.Error(err))
	}

	logger, err := newLogger(cfg)
	if err != nil {
		bootLogger.Fatal("Failed to build logger", zap.Error(err))
	}
	defer func() {
		_ = logger.Sync() // Flushes buffer, if any
	}()

	if len(cfg.Auth.SecretKey.Bytes()) < minSecretLength {
		logger.Warn("Secret key is shorter than recommended", zap.Int("min_bytes", minSecretLength))
	}

	// Database connection
	db, err := repository.NewDB(cfg.Database.Driver, cfg.Database.URL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	if err := repository.MigrateDB(db, logger); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	hasher, err := crypto.NewPasswordHasher(crypto.HasherConfig{
		MemoryKiB:     cfg.Password.MemoryKiB,
		Iterations:    cfg.Password.Iterations,
		Parallelism:   cfg.Password.Parallelism,
		SaltLength:    cfg.Password.SaltLength,
		KeyLength:     cfg.Password.KeyLength,
		MaxConcurrent: cfg.Password.MaxConcurrent,
	})
	if err != nil {
		logger.Fatal("Failed to initialize password hasher", zap.Error(err))
	}

	codec, err := token.NewCodec(token.Config{
		Secret:    cfg.Auth.SecretKey,
		Algorithm: cfg.Auth.Algorithm,
		TTL:       cfg.TokenTTL(),
		Leeway:    cfg.Auth.ClockSkew,
	})
	if err != nil {
		logger.Fatal("Failed to initialize token codec", zap.Error(err))
	}

	// Context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Initialize repositories and services
	authRepo := repository.NewAuthRepository(db, logger)
	taskRepo := repository.NewTaskRepository(db, logger)

	authenticator, err := service.NewAuthenticator(ctx, authRepo, hasher, logger)
	if err != nil {
		logger.Fatal("Failed to initialize authenticator", zap.Error(err))
	}

	services := server.Services{
		Auth:  service.NewAuthService(authRepo, authenticator, hasher, codec, logger),
		Tasks: service.NewTaskService(taskRepo, logger),
		Guard: service.NewAccessGuard(codec, authRepo, logger),
	}

	gin.SetMode(cfg.Server.Mode)

	// Initialize and run the server
	srv := server.NewServer(server.Options{
		Port:            cfg.Server.Port,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, services, newAccessLog(cfg), logger)

	if err := srv.Run(ctx); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}

	logger.Info("Application stopped.")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	zapCfg := zap.NewProductionConfig()
	if cfg.Log.Development {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}

func newAccessLog(cfg *config.Config) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	log.SetFormatter(&logrus.JSONFormatter{})
	if cfg.Log.Development {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		log.SetLevel(level)
	}
	return log
}
