package customer

import "context"

// CustomerRepository defines lookup and storage operations for customer accounts.
type CustomerRepository interface {
	FindByID(ctx context.Context, id string) (*Customer, error)
	FindByUsername(ctx context.Context, username string) (*Customer, error)
	Save(ctx context.Context, c *Customer) error
}
