package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Alok5code/project-task-management-api/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// AuthRepository persists users and their credentials. It is the only writer
// of the users table; username uniqueness is enforced by the database.
type AuthRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

type authRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewAuthRepository(db *sqlx.DB, logger *zap.Logger) AuthRepository {
	return &authRepository{db: db, logger: logger}
}

// CreateUser inserts user and fills in its ID. A taken username yields ErrDuplicate.
func (r *authRepository) CreateUser(ctx context.Context, user *models.User) error {
	query := r.db.Rebind(`INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?) RETURNING id`)
	err := r.db.QueryRowxContext(ctx, query, user.Username, user.PasswordHash, user.CreatedAt).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		r.logger.Error("Failed to create user", zap.Error(err))
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByUsername returns (nil, nil) when no user has exactly that username.
func (r *authRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	query := r.db.Rebind(`SELECT id, username, password_hash, created_at FROM users WHERE username = ?`)
	err := r.db.GetContext(ctx, &user, query, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByID returns (nil, nil) when the user does not exist.
func (r *authRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	query := r.db.Rebind(`SELECT id, username, password_hash, created_at FROM users WHERE id = ?`)
	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}
