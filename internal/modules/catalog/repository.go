package catalog

import "context"

// Repository defines the interface for catalog data storage.
type Repository interface {
	ListCategories(ctx context.Context) ([]*Category, error)
	CreateCategory(ctx context.Context, c *Category) error

	ListManufacturers(ctx context.Context) ([]*Manufacturer, error)
	CreateManufacturer(ctx context.Context, m *Manufacturer) error

	ListMedicines(ctx context.Context, filter MedicineFilter) ([]*Medicine, error)
	// GetMedicine returns an active medicine with category, manufacturer and
	// aliases resolved, or ErrNotFound.
	GetMedicine(ctx context.Context, id int64) (*Medicine, error)
	CreateMedicine(ctx context.Context, m *Medicine) error
	UpdateMedicine(ctx context.Context, m *Medicine) error
	AddAlias(ctx context.Context, medicineID int64, alias string) error

	// Search matches the query case-insensitively against name, generic name,
	// brand name and aliases of active medicines, deduplicated.
	Search(ctx context.Context, query string, limit int) ([]*Medicine, error)
	// SuggestByKeyword matches a keyword against name, generic name and
	// composition of active OTC medicines.
	SuggestByKeyword(ctx context.Context, keyword string, limit int) ([]*Medicine, error)

	PharmacyExists(ctx context.Context, pharmacyID int64) (bool, error)
	// StockAtPharmacy returns the stock a pharmacy holds for each of the given
	// medicines. Medicines with no inventory row are absent from the map.
	StockAtPharmacy(ctx context.Context, pharmacyID int64, medicineIDs []int64) (map[int64]int, error)
}
