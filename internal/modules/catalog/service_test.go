package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medbotlabs/medbot-backend/internal/config"
)

type fakeRepo struct {
	Repository
	medicines      map[int64]*Medicine
	searchHits     []*Medicine
	suggestHits    map[string][]*Medicine
	pharmacies     map[int64]bool
	stock          map[int64]int
	suggestKeyword string
	created        *Medicine
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		medicines:   map[int64]*Medicine{},
		suggestHits: map[string][]*Medicine{},
		pharmacies:  map[int64]bool{},
		stock:       map[int64]int{},
	}
}

func (f *fakeRepo) GetMedicine(ctx context.Context, id int64) (*Medicine, error) {
	m, ok := f.medicines[id]
	if !ok {
		return nil, ErrNotFound
	}
	return m, nil
}

func (f *fakeRepo) CreateMedicine(ctx context.Context, m *Medicine) error {
	m.ID = int64(len(f.medicines) + 1)
	f.medicines[m.ID] = m
	f.created = m
	return nil
}

func (f *fakeRepo) Search(ctx context.Context, query string, limit int) ([]*Medicine, error) {
	return f.searchHits, nil
}

func (f *fakeRepo) SuggestByKeyword(ctx context.Context, keyword string, limit int) ([]*Medicine, error) {
	f.suggestKeyword = keyword
	return f.suggestHits[keyword], nil
}

func (f *fakeRepo) PharmacyExists(ctx context.Context, pharmacyID int64) (bool, error) {
	return f.pharmacies[pharmacyID], nil
}

func (f *fakeRepo) StockAtPharmacy(ctx context.Context, pharmacyID int64, medicineIDs []int64) (map[int64]int, error) {
	return f.stock, nil
}

func testConfig() config.Config {
	return config.Config{SearchLimit: 10, SuggestionLimit: 5}
}

func TestSellingPrice(t *testing.T) {
	assert.Equal(t, 90.00, SellingPrice(100.00, 10))
	assert.Equal(t, 100.00, SellingPrice(100.00, 0))
	assert.Equal(t, 0.00, SellingPrice(100.00, 100))
	assert.Equal(t, 33.33, SellingPrice(49.99, 33.33))
}

func TestMedicineDerive(t *testing.T) {
	m := &Medicine{MRP: 80, DiscountPercentage: 25, PrescriptionType: PrescriptionRx}
	m.derive()
	assert.Equal(t, 60.00, m.SellingPrice)
	assert.True(t, m.PrescriptionRequired)

	m = &Medicine{MRP: 80, PrescriptionType: PrescriptionOTC}
	m.derive()
	assert.False(t, m.PrescriptionRequired)

	m = &Medicine{PrescriptionType: PrescriptionControlled}
	m.derive()
	assert.True(t, m.PrescriptionRequired)
}

func TestCreateMedicineValidation(t *testing.T) {
	svc := NewService(newFakeRepo(), testConfig())
	ctx := context.Background()

	base := CreateMedicineRequest{
		Name: "Paracetamol", Strength: "500mg", Form: "TAB",
		CategoryID: 1, ManufacturerID: 1, MRP: 20,
	}

	m, err := svc.CreateMedicine(ctx, base)
	require.NoError(t, err)
	assert.Equal(t, PrescriptionOTC, m.PrescriptionType)
	assert.True(t, m.IsActive)
	assert.Equal(t, 20.00, m.SellingPrice)

	bad := base
	bad.Form = "PILL"
	_, err = svc.CreateMedicine(ctx, bad)
	assert.Error(t, err)

	bad = base
	bad.DiscountPercentage = 120
	_, err = svc.CreateMedicine(ctx, bad)
	assert.Error(t, err)

	bad = base
	bad.Strength = ""
	_, err = svc.CreateMedicine(ctx, bad)
	assert.Error(t, err)

	lower := base
	lower.Form = "tab"
	lower.PrescriptionType = "rx"
	m, err = svc.CreateMedicine(ctx, lower)
	require.NoError(t, err)
	assert.Equal(t, FormTablet, m.Form)
	assert.Equal(t, PrescriptionRx, m.PrescriptionType)
}

func TestSearchAnnotatesStock(t *testing.T) {
	repo := newFakeRepo()
	repo.searchHits = []*Medicine{{ID: 1, Name: "Crocin"}, {ID: 2, Name: "Dolo"}}
	repo.pharmacies[5] = true
	repo.stock = map[int64]int{1: 12}
	svc := NewService(repo, testConfig())

	results, err := svc.Search(context.Background(), "paracetamol", 5, 10)
	require.NoError(t, err)
	require.Len(t, results, 2)

	require.NotNil(t, results[0].StockQuantity)
	assert.Equal(t, 12, *results[0].StockQuantity)
	assert.True(t, *results[0].AvailableAtPharmacy)

	require.NotNil(t, results[1].StockQuantity)
	assert.Equal(t, 0, *results[1].StockQuantity)
	assert.False(t, *results[1].AvailableAtPharmacy)
}

func TestSearchUnknownPharmacyDegrades(t *testing.T) {
	repo := newFakeRepo()
	repo.searchHits = []*Medicine{{ID: 1, Name: "Crocin"}}
	svc := NewService(repo, testConfig())

	results, err := svc.Search(context.Background(), "paracetamol", 99, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Nil(t, results[0].StockQuantity)
	assert.Nil(t, results[0].AvailableAtPharmacy)
}

func TestSuggestMapsSymptomToKeyword(t *testing.T) {
	repo := newFakeRepo()
	repo.suggestHits["paracetamol"] = []*Medicine{{ID: 1, Name: "Crocin"}}
	svc := NewService(repo, testConfig())
	ctx := context.Background()

	hits, err := svc.Suggest(ctx, "I have a bad Headache since morning", 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "paracetamol", repo.suggestKeyword)

	hits, err = svc.Suggest(ctx, "my elbow feels weird", 5)
	require.NoError(t, err)
	assert.Empty(t, hits)

	_, err = svc.Suggest(ctx, "stomach pain after meals", 5)
	require.NoError(t, err)
	assert.Equal(t, "ibuprofen", repo.suggestKeyword)
}
