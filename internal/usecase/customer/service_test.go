package customer

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"testing"
	"time"

	domainCustomer "crm-service/internal/domain/customer"
	domainUser "crm-service/internal/domain/user"
	"crm-service/internal/logger"
	"crm-service/internal/testutil"
	appErrors "crm-service/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init("test")
	os.Exit(m.Run())
}

type fakeImageStorage struct {
	keys []string
	data [][]byte
	err  error
}

func (f *fakeImageStorage) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.keys = append(f.keys, key)
	f.data = append(f.data, data)
	return "https://images.example.com/" + key, nil
}

func testActor() *domainUser.User {
	return &domainUser.User{
		ID:       uuid.New(),
		Username: "operator",
		IsAdmin:  false,
	}
}

func strPtr(s string) *string { return &s }

func TestCreateStampsCreator(t *testing.T) {
	repo := testutil.NewMemoryCustomerRepository()
	service := NewService(repo, nil)
	actor := testActor()

	resp, err := service.Create(context.Background(), &CreateCustomerRequest{
		ID:      "cust-1",
		Name:    "John",
		Surname: "Doe",
	}, actor)
	require.NoError(t, err)

	assert.Equal(t, actor.ID, resp.CreatedByID)
	assert.Nil(t, resp.UpdatedByID)
	assert.Nil(t, resp.DtUpdated)

	stored, err := repo.GetByID(context.Background(), "cust-1")
	require.NoError(t, err)
	assert.Equal(t, actor.ID, stored.CreatedByID)
	assert.Nil(t, stored.UpdatedByID)
}

func TestCreateDuplicateID(t *testing.T) {
	repo := testutil.NewMemoryCustomerRepository()
	service := NewService(repo, nil)
	actor := testActor()

	_, err := service.Create(context.Background(), &CreateCustomerRequest{
		ID:      "cust-1",
		Name:    "John",
		Surname: "Doe",
	}, actor)
	require.NoError(t, err)

	_, err = service.Create(context.Background(), &CreateCustomerRequest{
		ID:      "cust-1",
		Name:    "Jane",
		Surname: "Doe",
	}, actor)
	assert.ErrorIs(t, err, domainCustomer.ErrCustomerIDTaken)
}

func TestUpdateIsSparseAndStampsActor(t *testing.T) {
	repo := testutil.NewMemoryCustomerRepository()
	service := NewService(repo, nil)
	creator := testActor()
	editor := testActor()

	_, err := service.Create(context.Background(), &CreateCustomerRequest{
		ID:       "cust-1",
		Name:     "John",
		Surname:  "Doe",
		PhotoURL: strPtr("https://images.example.com/old.jpg"),
	}, creator)
	require.NoError(t, err)

	err = service.Update(context.Background(), "cust-1", &UpdateCustomerRequest{
		Name: strPtr("Johnny"),
	}, editor)
	require.NoError(t, err)

	stored, err := repo.GetByID(context.Background(), "cust-1")
	require.NoError(t, err)
	assert.Equal(t, "Johnny", stored.Name)
	assert.Equal(t, "Doe", stored.Surname)
	require.NotNil(t, stored.PhotoURL)
	assert.Equal(t, "https://images.example.com/old.jpg", *stored.PhotoURL)
	assert.Equal(t, creator.ID, stored.CreatedByID)
	require.NotNil(t, stored.UpdatedByID)
	assert.Equal(t, editor.ID, *stored.UpdatedByID)
	assert.NotNil(t, stored.UpdatedAt)
}

func TestEmptyUpdateStillStampsAudit(t *testing.T) {
	repo := testutil.NewMemoryCustomerRepository()
	service := NewService(repo, nil)
	actor := testActor()

	_, err := service.Create(context.Background(), &CreateCustomerRequest{
		ID:      "cust-1",
		Name:    "John",
		Surname: "Doe",
	}, actor)
	require.NoError(t, err)

	err = service.Update(context.Background(), "cust-1", &UpdateCustomerRequest{}, actor)
	require.NoError(t, err)

	stored, err := repo.GetByID(context.Background(), "cust-1")
	require.NoError(t, err)
	assert.Equal(t, "John", stored.Name)
	assert.NotNil(t, stored.UpdatedAt)
	require.NotNil(t, stored.UpdatedByID)
	assert.Equal(t, actor.ID, *stored.UpdatedByID)
}

func TestUpdateUnknownCustomer(t *testing.T) {
	service := NewService(testutil.NewMemoryCustomerRepository(), nil)

	err := service.Update(context.Background(), "missing", &UpdateCustomerRequest{
		Name: strPtr("Johnny"),
	}, testActor())
	assert.ErrorIs(t, err, domainCustomer.ErrCustomerNotFound)
}

func TestDeleteIsIdempotent(t *testing.T) {
	repo := testutil.NewMemoryCustomerRepository()
	service := NewService(repo, nil)
	actor := testActor()

	_, err := service.Create(context.Background(), &CreateCustomerRequest{
		ID:      "cust-1",
		Name:    "John",
		Surname: "Doe",
	}, actor)
	require.NoError(t, err)

	require.NoError(t, service.Delete(context.Background(), "cust-1", actor))

	first, err := repo.GetByID(context.Background(), "cust-1")
	require.NoError(t, err)
	require.NotNil(t, first.DeletedAt)

	time.Sleep(5 * time.Millisecond)
	require.NoError(t, service.Delete(context.Background(), "cust-1", actor))

	second, err := repo.GetByID(context.Background(), "cust-1")
	require.NoError(t, err)
	require.NotNil(t, second.DeletedAt)
	assert.True(t, first.DeletedAt.Equal(*second.DeletedAt))
}

func TestListExcludesDeletedByDefault(t *testing.T) {
	repo := testutil.NewMemoryCustomerRepository()
	service := NewService(repo, nil)
	actor := testActor()
	ctx := context.Background()

	_, err := service.Create(ctx, &CreateCustomerRequest{ID: "cust-1", Name: "John", Surname: "Doe"}, actor)
	require.NoError(t, err)
	_, err = service.Create(ctx, &CreateCustomerRequest{ID: "cust-2", Name: "Jane", Surname: "Doe"}, actor)
	require.NoError(t, err)
	require.NoError(t, service.Delete(ctx, "cust-2", actor))

	resp, err := service.List(ctx, &ListCustomersRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "cust-1", resp.Items[0].ID)
	assert.Equal(t, int64(1), resp.Total)

	showDeleted := false
	resp, err = service.List(ctx, &ListCustomersRequest{OnlyActives: &showDeleted})
	require.NoError(t, err)
	assert.Len(t, resp.Items, 2)
}

func TestGetReturnsDeletedCustomer(t *testing.T) {
	repo := testutil.NewMemoryCustomerRepository()
	service := NewService(repo, nil)
	actor := testActor()
	ctx := context.Background()

	_, err := service.Create(ctx, &CreateCustomerRequest{ID: "cust-1", Name: "John", Surname: "Doe"}, actor)
	require.NoError(t, err)
	require.NoError(t, service.Delete(ctx, "cust-1", actor))

	resp, err := service.Get(ctx, "cust-1")
	require.NoError(t, err)
	assert.NotNil(t, resp.DtDeleted)
}

func TestUploadPhotoStoresAndRecordsURL(t *testing.T) {
	repo := testutil.NewMemoryCustomerRepository()
	images := &fakeImageStorage{}
	service := NewService(repo, images)
	actor := testActor()
	ctx := context.Background()

	_, err := service.Create(ctx, &CreateCustomerRequest{ID: "cust-1", Name: "John", Surname: "Doe"}, actor)
	require.NoError(t, err)

	payload := []byte{0xFF, 0xD8, 0xFF, 0xE0}
	resp, err := service.UploadPhoto(ctx, "cust-1", &UploadPhotoRequest{
		Image: base64.StdEncoding.EncodeToString(payload),
	}, actor)
	require.NoError(t, err)

	assert.Equal(t, "https://images.example.com/customers/cust-1.jpg", resp.PhotoURL)
	require.Len(t, images.keys, 1)
	assert.Equal(t, "customers/cust-1.jpg", images.keys[0])
	assert.Equal(t, payload, images.data[0])

	stored, err := repo.GetByID(ctx, "cust-1")
	require.NoError(t, err)
	require.NotNil(t, stored.PhotoURL)
	assert.Equal(t, resp.PhotoURL, *stored.PhotoURL)
}

func TestUploadPhotoRejectsInvalidBase64(t *testing.T) {
	repo := testutil.NewMemoryCustomerRepository()
	service := NewService(repo, &fakeImageStorage{})
	actor := testActor()
	ctx := context.Background()

	_, err := service.Create(ctx, &CreateCustomerRequest{ID: "cust-1", Name: "John", Surname: "Doe"}, actor)
	require.NoError(t, err)

	_, err = service.UploadPhoto(ctx, "cust-1", &UploadPhotoRequest{
		Image: "%%% not base64 %%%",
	}, actor)

	var appErr *appErrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "IMAGE_NOT_VALID", appErr.Code)
}

func TestUploadPhotoWithoutStorage(t *testing.T) {
	repo := testutil.NewMemoryCustomerRepository()
	service := NewService(repo, nil)
	actor := testActor()
	ctx := context.Background()

	_, err := service.Create(ctx, &CreateCustomerRequest{ID: "cust-1", Name: "John", Surname: "Doe"}, actor)
	require.NoError(t, err)

	_, err = service.UploadPhoto(ctx, "cust-1", &UploadPhotoRequest{
		Image: base64.StdEncoding.EncodeToString([]byte("img")),
	}, actor)

	var appErr *appErrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "STORAGE_DISABLED", appErr.Code)
}
