package user

import (
	"context"
	"os"
	"testing"
	"time"

	domainUser "crm-service/internal/domain/user"
	"crm-service/internal/logger"
	"crm-service/internal/testutil"
	"crm-service/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init("test")
	os.Exit(m.Run())
}

func boolPtr(b bool) *bool { return &b }

func strPtr(s string) *string { return &s }

func TestCreateHashesPassword(t *testing.T) {
	repo := testutil.NewMemoryUserRepository()
	service := NewService(repo)

	created, err := service.Create(context.Background(), &CreateUserRequest{
		Username: "johndoe",
		Password: "s3cr3t",
	})
	require.NoError(t, err)

	stored, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cr3t", stored.Password)
	assert.True(t, utils.CheckPassword(stored.Password, "s3cr3t"))
	assert.False(t, stored.IsAdmin)
}

func TestCreateDuplicateUsername(t *testing.T) {
	repo := testutil.NewMemoryUserRepository()
	service := NewService(repo)

	_, err := service.Create(context.Background(), &CreateUserRequest{
		Username: "johndoe",
		Password: "one",
	})
	require.NoError(t, err)

	_, err = service.Create(context.Background(), &CreateUserRequest{
		Username: "johndoe",
		Password: "two",
	})
	assert.ErrorIs(t, err, domainUser.ErrUsernameTaken)

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestUpdateIsSparse(t *testing.T) {
	repo := testutil.NewMemoryUserRepository()
	service := NewService(repo)

	created, err := service.Create(context.Background(), &CreateUserRequest{
		Username: "johndoe",
		Password: "s3cr3t",
		IsAdmin:  boolPtr(true),
	})
	require.NoError(t, err)

	err = service.Update(context.Background(), created.ID, &UpdateUserRequest{
		Username: strPtr("janedoe"),
	})
	require.NoError(t, err)

	stored, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "janedoe", stored.Username)
	assert.True(t, stored.IsAdmin)
	assert.True(t, utils.CheckPassword(stored.Password, "s3cr3t"))
	assert.NotNil(t, stored.UpdatedAt)
}

func TestUpdateRehashesPassword(t *testing.T) {
	repo := testutil.NewMemoryUserRepository()
	service := NewService(repo)

	created, err := service.Create(context.Background(), &CreateUserRequest{
		Username: "johndoe",
		Password: "old",
	})
	require.NoError(t, err)

	err = service.Update(context.Background(), created.ID, &UpdateUserRequest{
		Password: strPtr("new"),
	})
	require.NoError(t, err)

	stored, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "new", stored.Password)
	assert.True(t, utils.CheckPassword(stored.Password, "new"))
	assert.False(t, utils.CheckPassword(stored.Password, "old"))
}

func TestUpdateUsernameCollision(t *testing.T) {
	repo := testutil.NewMemoryUserRepository()
	service := NewService(repo)

	_, err := service.Create(context.Background(), &CreateUserRequest{
		Username: "johndoe",
		Password: "one",
	})
	require.NoError(t, err)

	created, err := service.Create(context.Background(), &CreateUserRequest{
		Username: "janedoe",
		Password: "two",
	})
	require.NoError(t, err)

	err = service.Update(context.Background(), created.ID, &UpdateUserRequest{
		Username: strPtr("johndoe"),
	})
	assert.ErrorIs(t, err, domainUser.ErrUsernameTaken)

	// keeping the same username is not a collision
	err = service.Update(context.Background(), created.ID, &UpdateUserRequest{
		Username: strPtr("janedoe"),
	})
	assert.NoError(t, err)
}

func TestUpdateUnknownUser(t *testing.T) {
	service := NewService(testutil.NewMemoryUserRepository())

	err := service.Update(context.Background(), uuid.New(), &UpdateUserRequest{
		Username: strPtr("whoever"),
	})
	assert.ErrorIs(t, err, domainUser.ErrUserNotFound)
}

func TestDeleteIsIdempotent(t *testing.T) {
	repo := testutil.NewMemoryUserRepository()
	service := NewService(repo)

	created, err := service.Create(context.Background(), &CreateUserRequest{
		Username: "johndoe",
		Password: "s3cr3t",
	})
	require.NoError(t, err)

	require.NoError(t, service.Delete(context.Background(), created.ID))

	first, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, first.DeletedAt)

	time.Sleep(5 * time.Millisecond)
	require.NoError(t, service.Delete(context.Background(), created.ID))

	second, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, second.DeletedAt)
	assert.True(t, first.DeletedAt.Equal(*second.DeletedAt))
}

func TestListFilterComposition(t *testing.T) {
	repo := testutil.NewMemoryUserRepository()
	service := NewService(repo)
	ctx := context.Background()

	_, err := service.Create(ctx, &CreateUserRequest{Username: "admin", Password: "pw", IsAdmin: boolPtr(true)})
	require.NoError(t, err)
	_, err = service.Create(ctx, &CreateUserRequest{Username: "alive", Password: "pw"})
	require.NoError(t, err)
	gone, err := service.Create(ctx, &CreateUserRequest{Username: "gone", Password: "pw"})
	require.NoError(t, err)
	require.NoError(t, service.Delete(ctx, gone.ID))

	// defaults: live non-admin accounts only
	resp, err := service.List(ctx, &ListUsersRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "alive", resp.Items[0].Username)
	assert.Equal(t, int64(1), resp.Total)
	assert.Equal(t, 1, resp.TotalPages)

	// admins included, deleted still excluded
	resp, err = service.List(ctx, &ListUsersRequest{OnlyUsers: boolPtr(false)})
	require.NoError(t, err)
	assert.Len(t, resp.Items, 2)

	// everything
	resp, err = service.List(ctx, &ListUsersRequest{
		OnlyUsers:   boolPtr(false),
		OnlyActives: boolPtr(false),
	})
	require.NoError(t, err)
	assert.Len(t, resp.Items, 3)
	assert.Equal(t, int64(3), resp.Total)
}

func TestListPagination(t *testing.T) {
	repo := testutil.NewMemoryUserRepository()
	service := NewService(repo)
	ctx := context.Background()

	for _, name := range []string{"u1", "u2", "u3"} {
		_, err := service.Create(ctx, &CreateUserRequest{Username: name, Password: "pw"})
		require.NoError(t, err)
	}

	resp, err := service.List(ctx, &ListUsersRequest{Page: 2, Size: 2})
	require.NoError(t, err)
	assert.Len(t, resp.Items, 1)
	assert.Equal(t, int64(3), resp.Total)
	assert.Equal(t, 2, resp.Page)
	assert.Equal(t, 2, resp.TotalPages)
}

func TestResponseOmitsPassword(t *testing.T) {
	repo := testutil.NewMemoryUserRepository()
	service := NewService(repo)

	created, err := service.Create(context.Background(), &CreateUserRequest{
		Username: "johndoe",
		Password: "s3cr3t",
	})
	require.NoError(t, err)

	resp, err := service.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "johndoe", resp.Username)
	assert.Equal(t, created.ID, resp.ID)
}
