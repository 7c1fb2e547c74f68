package customer

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	domainCustomer "crm-service/internal/domain/customer"
	domainUser "crm-service/internal/domain/user"
	"crm-service/internal/logger"
	"crm-service/internal/storage"
	appErrors "crm-service/pkg/errors"
	"crm-service/pkg/utils"

	"go.uber.org/zap"
)

// Service implements the customer CRUD use cases. Every mutation records the
// acting user on the customer row.
type Service struct {
	customers domainCustomer.Repository
	images    storage.ImageStorage
}

// NewService creates a customer service. images may be nil when no object
// store is configured; photo uploads are then rejected.
func NewService(customers domainCustomer.Repository, images storage.ImageStorage) *Service {
	return &Service{
		customers: customers,
		images:    images,
	}
}

func (s *Service) Create(ctx context.Context, req *CreateCustomerRequest, actor *domainUser.User) (*CustomerResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	existing, err := s.customers.GetByID(ctx, req.ID)
	if err != nil && !errors.Is(err, domainCustomer.ErrCustomerNotFound) {
		return nil, fmt.Errorf("failed to check existing customer: %w", err)
	}
	if existing != nil {
		logger.Warn("Customer creation with taken id",
			zap.String("customer_id", req.ID),
			zap.String("event", "customer_create_failed_duplicate_id"),
		)
		return nil, domainCustomer.ErrCustomerIDTaken
	}

	customer := &domainCustomer.Customer{
		ID:          req.ID,
		Name:        req.Name,
		Surname:     req.Surname,
		PhotoURL:    req.PhotoURL,
		CreatedAt:   time.Now(),
		CreatedByID: actor.ID,
	}

	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, err
	}

	logger.Info("Customer created",
		zap.String("customer_id", customer.ID),
		zap.String("created_by", actor.ID.String()),
		zap.String("event", "customer_created"),
	)

	return ToCustomerResponse(customer), nil
}

func (s *Service) Get(ctx context.Context, customerID string) (*CustomerResponse, error) {
	customer, err := s.customers.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return ToCustomerResponse(customer), nil
}

func (s *Service) List(ctx context.Context, req *ListCustomersRequest) (*CustomerListResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	filter := domainCustomer.Filter{
		OnlyActives: true,
		Page:        req.Page,
		Size:        req.Size,
	}
	if req.OnlyActives != nil {
		filter.OnlyActives = *req.OnlyActives
	}

	customers, total, err := s.customers.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return toCustomerListResponse(customers, total, filter.Page, filter.Size), nil
}

func (s *Service) Update(ctx context.Context, customerID string, req *UpdateCustomerRequest, actor *domainUser.User) error {
	if err := utils.ValidateStruct(req); err != nil {
		return appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	if _, err := s.customers.GetByID(ctx, customerID); err != nil {
		return err
	}

	patch := domainCustomer.Update{
		Name:      req.Name,
		Surname:   req.Surname,
		PhotoURL:  req.PhotoURL,
		DeletedAt: req.DtDeleted,
	}

	if err := s.customers.Update(ctx, customerID, patch, actor.ID); err != nil {
		return err
	}

	logger.Info("Customer updated",
		zap.String("customer_id", customerID),
		zap.String("updated_by", actor.ID.String()),
		zap.String("event", "customer_updated"),
	)

	return nil
}

// Delete soft-deletes the customer. The existence check does not filter by
// active state, so deleting an already-deleted customer succeeds and keeps
// the original delete timestamp.
func (s *Service) Delete(ctx context.Context, customerID string, actor *domainUser.User) error {
	existing, err := s.customers.GetByID(ctx, customerID)
	if err != nil {
		return err
	}
	if existing.DeletedAt != nil {
		return nil
	}

	now := time.Now()
	patch := domainCustomer.Update{DeletedAt: &now}
	if err := s.customers.Update(ctx, customerID, patch, actor.ID); err != nil {
		return err
	}

	logger.Info("Customer soft-deleted",
		zap.String("customer_id", customerID),
		zap.String("deleted_by", actor.ID.String()),
		zap.String("event", "customer_deleted"),
	)

	return nil
}

// UploadPhoto decodes a base64 image, stores it under the customer's key and
// records the resulting URL on the record.
func (s *Service) UploadPhoto(ctx context.Context, customerID string, req *UploadPhotoRequest, actor *domainUser.User) (*PhotoResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}
	if s.images == nil {
		return nil, appErrors.NewAppError("STORAGE_DISABLED", "Image storage is not configured", nil)
	}

	if _, err := s.customers.GetByID(ctx, customerID); err != nil {
		return nil, err
	}

	data, err := base64.StdEncoding.DecodeString(req.Image)
	if err != nil {
		return nil, appErrors.NewAppError("IMAGE_NOT_VALID", "Image is not valid base64", err)
	}

	key := fmt.Sprintf("customers/%s.jpg", customerID)
	url, err := s.images.Upload(ctx, key, data, "image/jpeg")
	if err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}

	patch := domainCustomer.Update{PhotoURL: &url}
	if err := s.customers.Update(ctx, customerID, patch, actor.ID); err != nil {
		return nil, err
	}

	logger.Info("Customer photo stored",
		zap.String("customer_id", customerID),
		zap.String("photo_url", url),
		zap.String("event", "customer_photo_uploaded"),
	)

	return &PhotoResponse{PhotoURL: url}, nil
}

func toCustomerListResponse(customers []*domainCustomer.Customer, total int64, page, size int) *CustomerListResponse {
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}

	items := make([]*CustomerResponse, len(customers))
	for i, c := range customers {
		items[i] = ToCustomerResponse(c)
	}

	totalPages := int((total + int64(size) - 1) / int64(size))

	return &CustomerListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		Size:       size,
		TotalPages: totalPages,
	}
}
