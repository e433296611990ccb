package pharmacy

import "context"

// Repository defines the interface for pharmacy data storage.
type Repository interface {
	// List returns active pharmacies, optionally filtered by a free-text
	// search over name, city and pincode.
	List(ctx context.Context, search string) ([]*Pharmacy, error)
	// GetByID returns an active pharmacy or ErrNotFound.
	GetByID(ctx context.Context, id int64) (*Pharmacy, error)
	Create(ctx context.Context, p *Pharmacy) error
	Update(ctx context.Context, p *Pharmacy) error

	// Nearby matches active pharmacies by exact pincode, or failing that by
	// case-insensitive city substring.
	Nearby(ctx context.Context, pincode, city string) ([]*Pharmacy, error)

	// ListInventory returns a pharmacy's in-stock batches with medicine names
	// resolved.
	ListInventory(ctx context.Context, pharmacyID int64) ([]*PharmacyInventory, error)
	UpsertInventory(ctx context.Context, inv *PharmacyInventory) error
}
