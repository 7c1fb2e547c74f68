package auth

import (
	"context"
	"os"
	"testing"
	"time"

	"crm-service/internal/config"
	domainUser "crm-service/internal/domain/user"
	"crm-service/internal/logger"
	"crm-service/internal/testutil"
	appErrors "crm-service/pkg/errors"
	"crm-service/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init("test")
	os.Exit(m.Run())
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:        "test-secret",
			ExpiryMinutes: 30,
		},
	}
}

func seedUser(t *testing.T, repo *testutil.MemoryUserRepository, username, password string, deleted bool) *domainUser.User {
	t.Helper()

	hash, err := utils.HashPassword(password)
	require.NoError(t, err)

	user := &domainUser.User{
		Username: username,
		Password: hash,
	}
	if deleted {
		now := time.Now()
		user.DeletedAt = &now
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestLoginIssuesBearerToken(t *testing.T) {
	repo := testutil.NewMemoryUserRepository()
	cfg := testConfig()
	seedUser(t, repo, "johndoe", "s3cr3t", false)

	service := NewService(repo, cfg)
	resp, err := service.Login(context.Background(), &LoginRequest{
		Username: "johndoe",
		Password: "s3cr3t",
	})

	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.TokenType)

	subject, err := utils.ValidateToken(resp.AccessToken, cfg.JWT.Secret)
	require.NoError(t, err)
	assert.Equal(t, "johndoe", subject)
}

func TestLoginUnknownUsername(t *testing.T) {
	service := NewService(testutil.NewMemoryUserRepository(), testConfig())

	_, err := service.Login(context.Background(), &LoginRequest{
		Username: "nobody",
		Password: "whatever",
	})

	assert.ErrorIs(t, err, domainUser.ErrUserNotFound)
}

func TestLoginSoftDeletedUser(t *testing.T) {
	repo := testutil.NewMemoryUserRepository()
	seedUser(t, repo, "ghost", "s3cr3t", true)

	service := NewService(repo, testConfig())
	_, err := service.Login(context.Background(), &LoginRequest{
		Username: "ghost",
		Password: "s3cr3t",
	})

	assert.ErrorIs(t, err, domainUser.ErrUserNotFound)
}

func TestLoginWrongPassword(t *testing.T) {
	repo := testutil.NewMemoryUserRepository()
	seedUser(t, repo, "johndoe", "s3cr3t", false)

	service := NewService(repo, testConfig())
	_, err := service.Login(context.Background(), &LoginRequest{
		Username: "johndoe",
		Password: "wrong",
	})

	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
}

func TestCurrentUserResolvesSubject(t *testing.T) {
	repo := testutil.NewMemoryUserRepository()
	cfg := testConfig()
	seeded := seedUser(t, repo, "johndoe", "s3cr3t", false)

	token, err := utils.CreateAccessToken("johndoe", cfg.JWT.Secret, time.Minute)
	require.NoError(t, err)

	service := NewService(repo, cfg)
	user, err := service.CurrentUser(context.Background(), token)

	require.NoError(t, err)
	assert.Equal(t, seeded.ID, user.ID)
	assert.Equal(t, "johndoe", user.Username)
}

func TestCurrentUserRejectsGarbageToken(t *testing.T) {
	service := NewService(testutil.NewMemoryUserRepository(), testConfig())

	_, err := service.CurrentUser(context.Background(), "not-a-token")

	assert.ErrorIs(t, err, appErrors.ErrInvalidToken)
}

func TestCurrentUserRejectsExpiredToken(t *testing.T) {
	repo := testutil.NewMemoryUserRepository()
	cfg := testConfig()
	seedUser(t, repo, "johndoe", "s3cr3t", false)

	token, err := utils.CreateAccessToken("johndoe", cfg.JWT.Secret, -time.Minute)
	require.NoError(t, err)

	service := NewService(repo, cfg)
	_, err = service.CurrentUser(context.Background(), token)

	assert.ErrorIs(t, err, appErrors.ErrInvalidToken)
}

func TestCurrentUserDeletedSubject(t *testing.T) {
	repo := testutil.NewMemoryUserRepository()
	cfg := testConfig()
	seedUser(t, repo, "ghost", "s3cr3t", true)

	token, err := utils.CreateAccessToken("ghost", cfg.JWT.Secret, time.Minute)
	require.NoError(t, err)

	service := NewService(repo, cfg)
	_, err = service.CurrentUser(context.Background(), token)

	assert.ErrorIs(t, err, domainUser.ErrUserNotFound)
}
