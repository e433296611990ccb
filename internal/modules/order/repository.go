package order

import "context"

// Repository defines the interface for order data storage.
type Repository interface {
	// CreateOrder inserts the order and all its items atomically.
	CreateOrder(ctx context.Context, o *Order) error
	// GetByOrderID resolves an order by its opaque token, items included, or
	// ErrNotFound.
	GetByOrderID(ctx context.Context, orderID string) (*Order, error)
	// List returns orders newest first, optionally filtered by customer phone
	// number and status.
	List(ctx context.Context, phone string, status OrderStatus) ([]*Order, error)
	UpdateStatus(ctx context.Context, id int64, status OrderStatus) error

	// GetMedicineLine resolves pricing for an active medicine, or ErrNotFound.
	GetMedicineLine(ctx context.Context, medicineID int64) (*MedicineLine, error)
	// PharmacyActive reports whether the pharmacy exists and is active.
	PharmacyActive(ctx context.Context, pharmacyID int64) (bool, error)
}
