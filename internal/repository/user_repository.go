package repository

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"citizen-services/internal/database"
	"citizen-services/internal/models"
)

// UserRepository handles identity record persistence.
type UserRepository struct {
	*database.Repository
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *database.Database, logger *zap.Logger) *UserRepository {
	return &UserRepository{
		Repository: database.NewRepository(db, logger.Named("user_repository")),
	}
}

// Create persists a new user. Username and email carry unique
// constraints; violations surface as apperrors.ErrDuplicateKey.
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	query := `
		INSERT INTO users (id, username, email, password_hash, first_name, last_name, role, created_at)
		VALUES (:id, :username, :email, :password_hash, :first_name, :last_name, :role, :created_at)`

	_, err := r.DB().NamedExecContext(ctx, query, u)
	return mapError(err, "failed to create user")
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User

	query := `
		SELECT id, username, email, password_hash, first_name, last_name, role, created_at
		FROM users
		WHERE id = $1`

	if err := r.DB().GetContext(ctx, &u, query, id); err != nil {
		return nil, mapError(err, "failed to get user")
	}
	return &u, nil
}

// GetByLogin retrieves a user by username or email.
func (r *UserRepository) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	var u models.User

	query := `
		SELECT id, username, email, password_hash, first_name, last_name, role, created_at
		FROM users
		WHERE username = $1 OR email = $1`

	if err := r.DB().GetContext(ctx, &u, query, login); err != nil {
		return nil, mapError(err, "failed to get user by login")
	}
	return &u, nil
}
