package customer

import "context"

// Repository defines the interface for customer data storage.
type Repository interface {
	// GetByPhone returns the customer for a phone number, or ErrNotFound.
	GetByPhone(ctx context.Context, phone string) (*Customer, error)
	// GetOrCreate inserts a customer row for the phone number if none exists
	// and returns the row either way. The insert is a unique-constraint upsert
	// so concurrent calls cannot create duplicates. On creation the WhatsApp
	// number defaults to the phone number.
	GetOrCreate(ctx context.Context, phone string) (*Customer, error)
	Update(ctx context.Context, c *Customer) error
}
