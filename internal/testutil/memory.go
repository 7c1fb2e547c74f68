// Package testutil provides in-memory repository implementations used by
// the service and handler tests. They mirror the semantics of the postgres
// repositories: conflict errors, sparse patches and unconditional audit
// stamps.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	domainCustomer "crm-service/internal/domain/customer"
	domainUser "crm-service/internal/domain/user"

	"github.com/google/uuid"
)

type MemoryUserRepository struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domainUser.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[uuid.UUID]*domainUser.User)}
}

func (r *MemoryUserRepository) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

func (r *MemoryUserRepository) Create(ctx context.Context, u *domainUser.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Username == u.Username {
			return domainUser.ErrUsernameTaken
		}
	}

	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}

	clone := *u
	r.users[u.ID] = &clone
	return nil
}

func (r *MemoryUserRepository) GetByID(ctx context.Context, userID uuid.UUID) (*domainUser.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok {
		return nil, domainUser.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *MemoryUserRepository) GetByUsername(ctx context.Context, username string) (*domainUser.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domainUser.ErrUserNotFound
}

func (r *MemoryUserRepository) Update(ctx context.Context, userID uuid.UUID, patch domainUser.Update) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok {
		return domainUser.ErrUserNotFound
	}

	if patch.Username != nil {
		for id, existing := range r.users {
			if id != userID && existing.Username == *patch.Username {
				return domainUser.ErrUsernameTaken
			}
		}
		u.Username = *patch.Username
	}
	if patch.Password != nil {
		u.Password = *patch.Password
	}
	if patch.IsAdmin != nil {
		u.IsAdmin = *patch.IsAdmin
	}
	if patch.DeletedAt != nil {
		deleted := *patch.DeletedAt
		u.DeletedAt = &deleted
	}

	now := time.Now()
	u.UpdatedAt = &now
	return nil
}

func (r *MemoryUserRepository) List(ctx context.Context, filter domainUser.Filter) ([]*domainUser.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*domainUser.User
	for _, u := range r.users {
		if filter.OnlyUsers && u.IsAdmin {
			continue
		}
		if filter.OnlyActives && u.DeletedAt != nil {
			continue
		}
		clone := *u
		matched = append(matched, &clone)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})

	return paginate(matched, filter.Page, filter.Size)
}

type MemoryCustomerRepository struct {
	mu        sync.Mutex
	customers map[string]*domainCustomer.Customer
}

func NewMemoryCustomerRepository() *MemoryCustomerRepository {
	return &MemoryCustomerRepository{customers: make(map[string]*domainCustomer.Customer)}
}

func (r *MemoryCustomerRepository) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.customers)), nil
}

func (r *MemoryCustomerRepository) Create(ctx context.Context, c *domainCustomer.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.customers[c.ID]; exists {
		return domainCustomer.ErrCustomerIDTaken
	}

	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	c.UpdatedAt = nil
	c.UpdatedByID = nil

	clone := *c
	r.customers[c.ID] = &clone
	return nil
}

func (r *MemoryCustomerRepository) GetByID(ctx context.Context, customerID string) (*domainCustomer.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.customers[customerID]
	if !ok {
		return nil, domainCustomer.ErrCustomerNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *MemoryCustomerRepository) Update(ctx context.Context, customerID string, patch domainCustomer.Update, actorID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.customers[customerID]
	if !ok {
		return domainCustomer.ErrCustomerNotFound
	}

	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.Surname != nil {
		c.Surname = *patch.Surname
	}
	if patch.PhotoURL != nil {
		url := *patch.PhotoURL
		c.PhotoURL = &url
	}
	if patch.DeletedAt != nil {
		deleted := *patch.DeletedAt
		c.DeletedAt = &deleted
	}

	// stamped on every call, like the postgres repository
	now := time.Now()
	c.UpdatedAt = &now
	actor := actorID
	c.UpdatedByID = &actor
	return nil
}

func (r *MemoryCustomerRepository) List(ctx context.Context, filter domainCustomer.Filter) ([]*domainCustomer.Customer, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*domainCustomer.Customer
	for _, c := range r.customers {
		if filter.OnlyActives && c.DeletedAt != nil {
			continue
		}
		clone := *c
		matched = append(matched, &clone)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})

	return paginate(matched, filter.Page, filter.Size)
}

func paginate[T any](items []*T, page, size int) ([]*T, int64, error) {
	total := int64(len(items))

	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}

	start := (page - 1) * size
	if start >= len(items) {
		return nil, total, nil
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}

	return items[start:end], total, nil
}
