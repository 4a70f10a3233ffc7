package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"citizen-services/internal/models"
)

// UserStore is the persistence contract the auth service needs.
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	GetByLogin(ctx context.Context, login string) (*models.User, error)
}

// Service handles registration and login. Self-registration always
// produces citizen accounts; staff accounts are provisioned out of band.
type Service struct {
	users  UserStore
	tokens *TokenManager
	logger *zap.Logger
}

// NewService creates an auth service.
func NewService(users UserStore, tokens *TokenManager, logger *zap.Logger) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
		logger: logger.Named("auth"),
	}
}

// Register creates a citizen account and returns it with a fresh token.
func (s *Service) Register(ctx context.Context, req *models.RegisterRequest) (*models.LoginResponse, error) {
	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}

	user := &models.User{
		ID:           uuid.New(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         models.RoleCitizen,
		CreatedAt:    time.Now(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User registered", zap.String("username", user.Username))
	return s.respond(user)
}

// Login authenticates a user by username or email.
func (s *Service) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.users.GetByLogin(ctx, req.Username)
	if err != nil {
		return nil, errors.New("invalid credentials")
	}
	if !CheckPassword(req.Password, user.PasswordHash) {
		return nil, errors.New("invalid credentials")
	}

	s.logger.Info("User logged in", zap.String("username", user.Username))
	return s.respond(user)
}

func (s *Service) respond(user *models.User) (*models.LoginResponse, error) {
	token, expiresAt, err := s.tokens.Generate(user)
	if err != nil {
		return nil, err
	}

	sanitized := *user
	sanitized.PasswordHash = ""
	return &models.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      sanitized,
	}, nil
}
