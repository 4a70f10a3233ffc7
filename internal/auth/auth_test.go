package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"citizen-services/internal/apperrors"
	"citizen-services/internal/config"
	"citizen-services/internal/models"
)

func testTokenManager(ttl time.Duration) *TokenManager {
	return NewTokenManager(&config.AuthConfig{
		JWTSecret: "test-secret",
		TokenTTL:  ttl,
	})
}

func TestTokenRoundTrip(t *testing.T) {
	tokens := testTokenManager(time.Hour)
	user := &models.User{ID: uuid.New(), Username: "asha", Role: models.RoleCitizen}

	signed, expiresAt, err := tokens.Generate(user)
	require.NoError(t, err)
	assert.NotEmpty(t, signed)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := tokens.Validate(signed)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, models.RoleCitizen, claims.Role)
	assert.Equal(t, "citizen-services", claims.Issuer)
}

func TestTokenWrongSecret(t *testing.T) {
	signed, _, err := testTokenManager(time.Hour).Generate(&models.User{ID: uuid.New(), Role: models.RoleStaff})
	require.NoError(t, err)

	other := NewTokenManager(&config.AuthConfig{JWTSecret: "different-secret", TokenTTL: time.Hour})
	_, err = other.Validate(signed)
	assert.Error(t, err)
}

func TestTokenUnsignedAlgorithmRejected(t *testing.T) {
	tokens := testTokenManager(time.Hour)

	claims := &Claims{
		UserID: uuid.New().String(),
		Role:   models.RoleStaff,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = tokens.Validate(unsigned)
	assert.Error(t, err, "only HS256 tokens are accepted")
}

func TestTokenExpired(t *testing.T) {
	tokens := testTokenManager(-time.Minute)
	signed, _, err := tokens.Generate(&models.User{ID: uuid.New(), Role: models.RoleCitizen})
	require.NoError(t, err)

	_, err = tokens.Validate(signed)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, CheckPassword("s3cret-pass", hash))
	assert.False(t, CheckPassword("wrong-pass", hash))
}

// fakeAuthUserStore keys users by username and email.
type fakeAuthUserStore struct {
	users []models.User
}

func (s *fakeAuthUserStore) Create(_ context.Context, u *models.User) error {
	for _, existing := range s.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return apperrors.ErrDuplicateKey
		}
	}
	s.users = append(s.users, *u)
	return nil
}

func (s *fakeAuthUserStore) GetByLogin(_ context.Context, login string) (*models.User, error) {
	for _, u := range s.users {
		if u.Username == login || u.Email == login {
			out := u
			return &out, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func TestRegisterAndLogin(t *testing.T) {
	store := &fakeAuthUserStore{}
	svc := NewService(store, testTokenManager(time.Hour), zap.NewNop())
	ctx := context.Background()

	resp, err := svc.Register(ctx, &models.RegisterRequest{
		Username:  "asha",
		Email:     "asha@example.com",
		Password:  "s3cret-pass",
		FirstName: "Asha",
		LastName:  "Rao",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, models.RoleCitizen, resp.User.Role, "self-registration always yields citizens")
	assert.Empty(t, resp.User.PasswordHash)

	t.Run("duplicate username rejected", func(t *testing.T) {
		_, err := svc.Register(ctx, &models.RegisterRequest{
			Username: "asha",
			Email:    "other@example.com",
			Password: "whatever",
		})
		assert.ErrorIs(t, err, apperrors.ErrDuplicateKey)
	})

	t.Run("login by username", func(t *testing.T) {
		resp, err := svc.Login(ctx, &models.LoginRequest{Username: "asha", Password: "s3cret-pass"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
	})

	t.Run("login by email", func(t *testing.T) {
		resp, err := svc.Login(ctx, &models.LoginRequest{Username: "asha@example.com", Password: "s3cret-pass"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
	})

	t.Run("wrong password gives a generic error", func(t *testing.T) {
		_, err := svc.Login(ctx, &models.LoginRequest{Username: "asha", Password: "nope"})
		require.Error(t, err)
		assert.EqualError(t, err, "invalid credentials")
	})

	t.Run("unknown user gives the same generic error", func(t *testing.T) {
		_, err := svc.Login(ctx, &models.LoginRequest{Username: "ghost", Password: "nope"})
		require.Error(t, err)
		assert.EqualError(t, err, "invalid credentials")
	})
}
