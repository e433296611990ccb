package pharmacy

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	pharmacies map[int64]*Pharmacy
	inventory  []*PharmacyInventory
	upserted   *PharmacyInventory
	nearbyArgs [2]string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{pharmacies: map[int64]*Pharmacy{}}
}

func (f *fakeRepo) List(ctx context.Context, search string) ([]*Pharmacy, error) { return nil, nil }

func (f *fakeRepo) GetByID(ctx context.Context, id int64) (*Pharmacy, error) {
	p, ok := f.pharmacies[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (f *fakeRepo) Create(ctx context.Context, p *Pharmacy) error {
	p.ID = int64(len(f.pharmacies) + 1)
	f.pharmacies[p.ID] = p
	return nil
}

func (f *fakeRepo) Update(ctx context.Context, p *Pharmacy) error {
	f.pharmacies[p.ID] = p
	return nil
}

func (f *fakeRepo) Nearby(ctx context.Context, pincode, city string) ([]*Pharmacy, error) {
	f.nearbyArgs = [2]string{pincode, city}
	return []*Pharmacy{}, nil
}

func (f *fakeRepo) ListInventory(ctx context.Context, pharmacyID int64) ([]*PharmacyInventory, error) {
	return f.inventory, nil
}

func (f *fakeRepo) UpsertInventory(ctx context.Context, inv *PharmacyInventory) error {
	inv.ID = 1
	f.upserted = inv
	return nil
}

func validRequest() CreatePharmacyRequest {
	return CreatePharmacyRequest{
		Name:          "City Medicals",
		LicenseNumber: "KA-BLR-2024-0042",
		AddressLine1:  "12 MG Road",
		City:          "Bengaluru",
		State:         "Karnataka",
		Pincode:       "560001",
	}
}

func TestCreatePharmacyDefaults(t *testing.T) {
	svc := NewService(newFakeRepo())

	p, err := svc.CreatePharmacy(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, "09:00", p.OpeningTime)
	assert.Equal(t, "21:00", p.ClosingTime)
	assert.True(t, p.IsActive)
	assert.False(t, p.Is24x7)
}

func TestCreatePharmacyValidation(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	req := validRequest()
	req.LicenseNumber = ""
	_, err := svc.CreatePharmacy(ctx, req)
	assert.Error(t, err)

	req = validRequest()
	req.Pincode = ""
	_, err = svc.CreatePharmacy(ctx, req)
	assert.Error(t, err)
}

func TestNearbyRequiresLocation(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.Nearby(ctx, "", "")
	assert.Error(t, err)

	_, err = svc.Nearby(ctx, "560001", "")
	require.NoError(t, err)
	assert.Equal(t, [2]string{"560001", ""}, repo.nearbyArgs)

	_, err = svc.Nearby(ctx, "", "Bengaluru")
	require.NoError(t, err)
	assert.Equal(t, [2]string{"", "Bengaluru"}, repo.nearbyArgs)
}

func TestListInventoryUnknownPharmacy(t *testing.T) {
	svc := NewService(newFakeRepo())
	_, err := svc.ListInventory(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpsertInventory(t *testing.T) {
	repo := newFakeRepo()
	repo.pharmacies[1] = &Pharmacy{ID: 1, Name: "City Medicals"}
	svc := NewService(repo)
	ctx := context.Background()

	inv, err := svc.UpsertInventory(ctx, 1, UpsertInventoryRequest{
		MedicineID:    10,
		StockQuantity: 5,
		ReorderLevel:  10,
		BatchNumber:   "B-2024-07",
		ExpiryDate:    "2027-01-31",
		CostPrice:     12.50,
		SellingPrice:  18.00,
	})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2027, 1, 31, 0, 0, 0, 0, time.UTC), inv.ExpiryDate)
	assert.True(t, inv.NeedsReorder)
	assert.False(t, inv.IsExpired)

	_, err = svc.UpsertInventory(ctx, 1, UpsertInventoryRequest{MedicineID: 10, StockQuantity: -1, ExpiryDate: "2027-01-31"})
	assert.Error(t, err)

	_, err = svc.UpsertInventory(ctx, 1, UpsertInventoryRequest{MedicineID: 10, StockQuantity: 1, ExpiryDate: "31-01-2027"})
	assert.Error(t, err)

	_, err = svc.UpsertInventory(ctx, 99, UpsertInventoryRequest{MedicineID: 10, StockQuantity: 1, ExpiryDate: "2027-01-31"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInventoryDerive(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	inv := &PharmacyInventory{StockQuantity: 3, ReorderLevel: 5, ExpiryDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	inv.derive(now)
	assert.True(t, inv.IsExpired)
	assert.True(t, inv.NeedsReorder)

	inv = &PharmacyInventory{StockQuantity: 50, ReorderLevel: 5, ExpiryDate: time.Date(2028, 1, 1, 0, 0, 0, 0, time.UTC)}
	inv.derive(now)
	assert.False(t, inv.IsExpired)
	assert.False(t, inv.NeedsReorder)
}
