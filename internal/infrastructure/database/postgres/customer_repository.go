package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainCustomer "crm-service/internal/domain/customer"
	"crm-service/internal/infrastructure/database/postgres/models"
	appErrors "crm-service/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CustomerRepository implements domain customer.Repository
type CustomerRepository struct {
	db *DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *DB) domainCustomer.Repository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.DB.WithContext(ctx).Model(&models.CustomerModel{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count customers: %w", err)
	}
	return count, nil
}

func (r *CustomerRepository) Create(ctx context.Context, c *domainCustomer.Customer) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	// updated_by stays null until the first update
	c.UpdatedAt = nil
	c.UpdatedByID = nil

	dbModel := toCustomerModel(c)
	if err := r.db.Insert(ctx, dbModel); err != nil {
		if errors.Is(err, appErrors.ErrDuplicateKey) {
			return domainCustomer.ErrCustomerIDTaken
		}
		return domainCustomer.ErrNotCreated
	}

	return nil
}

func (r *CustomerRepository) GetByID(ctx context.Context, customerID string) (*domainCustomer.Customer, error) {
	var dbModel models.CustomerModel
	err := r.db.DB.WithContext(ctx).First(&dbModel, "id = ?", customerID).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainCustomer.ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	return toCustomerEntity(&dbModel), nil
}

func (r *CustomerRepository) Update(ctx context.Context, customerID string, patch domainCustomer.Update, actorID uuid.UUID) error {
	// The acting user is stamped on every call, whatever the patch holds.
	updates := map[string]interface{}{
		"dt_updated":    time.Now(),
		"updated_by_id": actorID,
	}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Surname != nil {
		updates["surname"] = *patch.Surname
	}
	if patch.PhotoURL != nil {
		updates["photo_url"] = *patch.PhotoURL
	}
	if patch.DeletedAt != nil {
		updates["dt_deleted"] = *patch.DeletedAt
	}

	rows, err := r.db.UpdateColumns(ctx, &models.CustomerModel{}, customerID, updates)
	if err != nil {
		return err
	}
	if rows == 0 {
		return domainCustomer.ErrCustomerNotFound
	}

	return nil
}

func (r *CustomerRepository) List(ctx context.Context, filter domainCustomer.Filter) ([]*domainCustomer.Customer, int64, error) {
	db := r.db.DB.WithContext(ctx).Model(&models.CustomerModel{})

	if filter.OnlyActives {
		db = db.Where("dt_deleted IS NULL")
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count customers: %w", err)
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	size := filter.Size
	if size <= 0 {
		size = 20
	}
	offset := (page - 1) * size

	var dbModels []models.CustomerModel
	err := db.Order("dt_created ASC").
		Limit(size).
		Offset(offset).
		Find(&dbModels).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list customers: %w", err)
	}

	customers := make([]*domainCustomer.Customer, len(dbModels))
	for i := range dbModels {
		customers[i] = toCustomerEntity(&dbModels[i])
	}

	return customers, total, nil
}

// Converters between domain entities and database models

func toCustomerModel(c *domainCustomer.Customer) *models.CustomerModel {
	return &models.CustomerModel{
		ID:          c.ID,
		Name:        c.Name,
		Surname:     c.Surname,
		PhotoURL:    c.PhotoURL,
		DtCreated:   c.CreatedAt,
		DtUpdated:   c.UpdatedAt,
		DtDeleted:   c.DeletedAt,
		CreatedByID: c.CreatedByID,
		UpdatedByID: c.UpdatedByID,
	}
}

func toCustomerEntity(m *models.CustomerModel) *domainCustomer.Customer {
	return &domainCustomer.Customer{
		ID:          m.ID,
		Name:        m.Name,
		Surname:     m.Surname,
		PhotoURL:    m.PhotoURL,
		CreatedAt:   m.DtCreated,
		UpdatedAt:   m.DtUpdated,
		DeletedAt:   m.DtDeleted,
		CreatedByID: m.CreatedByID,
		UpdatedByID: m.UpdatedByID,
	}
}
