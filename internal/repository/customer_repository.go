package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/Wayfarer-Travel/service-itinerary/internal/domain"
	customerDomain "github.com/Wayfarer-Travel/service-itinerary/internal/domain/customer"
)

// MemoryCustomerRepository implements CustomerRepository in process memory.
type MemoryCustomerRepository struct {
	mu         sync.RWMutex
	byID       map[string]*customerDomain.Customer
	byUsername map[string]string
}

func NewMemoryCustomerRepository() *MemoryCustomerRepository {
	return &MemoryCustomerRepository{
		byID:       make(map[string]*customerDomain.Customer),
		byUsername: make(map[string]string),
	}
}

func (r *MemoryCustomerRepository) FindByID(ctx context.Context, id string) (*customerDomain.Customer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok {
		return nil, domain.NewNotFoundError("Customer", id)
	}
	return c, nil
}

func (r *MemoryCustomerRepository) FindByUsername(ctx context.Context, username string) (*customerDomain.Customer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUsername[usernameKey(username)]
	if !ok {
		return nil, domain.NewNotFoundError("Customer", username)
	}
	return r.byID[id], nil
}

// Save inserts or replaces the customer. Usernames are unique, case-insensitively.
func (r *MemoryCustomerRepository) Save(ctx context.Context, c *customerDomain.Customer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	key := usernameKey(c.Username())
	if existing, ok := r.byUsername[key]; ok && existing != c.ID() {
		return domain.NewValidationError("username is already taken")
	}
	r.byID[c.ID()] = c
	r.byUsername[key] = c.ID()
	return nil
}

// Count returns the number of stored customers.
func (r *MemoryCustomerRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

func usernameKey(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
