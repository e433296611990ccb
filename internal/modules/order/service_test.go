package order

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/medbotlabs/medbot-backend/internal/config"
	"github.com/medbotlabs/medbot-backend/internal/modules/customer"
)

type fakeRepo struct {
	medicines  map[int64]*MedicineLine
	pharmacies map[int64]bool
	created    *Order
	orders     map[string]*Order
	updated    OrderStatus
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		medicines:  map[int64]*MedicineLine{},
		pharmacies: map[int64]bool{1: true},
		orders:     map[string]*Order{},
	}
}

func (f *fakeRepo) CreateOrder(ctx context.Context, o *Order) error {
	o.ID = 42
	f.created = o
	f.orders[o.OrderID.String()] = o
	return nil
}

func (f *fakeRepo) GetByOrderID(ctx context.Context, orderID string) (*Order, error) {
	o, ok := f.orders[orderID]
	if !ok {
		return nil, ErrNotFound
	}
	return o, nil
}

func (f *fakeRepo) List(ctx context.Context, phone string, status OrderStatus) ([]*Order, error) {
	var out []*Order
	for _, o := range f.orders {
		if status != "" && o.Status != status {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, id int64, status OrderStatus) error {
	f.updated = status
	return nil
}

func (f *fakeRepo) GetMedicineLine(ctx context.Context, medicineID int64) (*MedicineLine, error) {
	m, ok := f.medicines[medicineID]
	if !ok {
		return nil, ErrNotFound
	}
	return m, nil
}

func (f *fakeRepo) PharmacyActive(ctx context.Context, pharmacyID int64) (bool, error) {
	return f.pharmacies[pharmacyID], nil
}

type fakeCustomers struct {
	calls int
}

func (f *fakeCustomers) GetProfile(ctx context.Context, phone string) (*customer.Customer, error) {
	return nil, customer.ErrNotFound
}

func (f *fakeCustomers) UpsertProfile(ctx context.Context, phone string, req customer.UpdateCustomerRequest) (*customer.Customer, error) {
	return nil, customer.ErrNotFound
}

func (f *fakeCustomers) GetOrCreate(ctx context.Context, phone string) (*customer.Customer, error) {
	f.calls++
	return &customer.Customer{ID: 7, PhoneNumber: phone, Name: "Asha"}, nil
}

func newTestService(repo *fakeRepo) (Service, *fakeCustomers) {
	customers := &fakeCustomers{}
	cfg := config.Config{TaxRate: 0.05}
	return NewService(repo, customers, cfg, zap.NewNop()), customers
}

func TestCreateQuickOrderTotals(t *testing.T) {
	repo := newFakeRepo()
	repo.medicines[10] = &MedicineLine{ID: 10, Name: "Paracetamol", Strength: "500mg", UnitPrice: 50.00, PrescriptionRequired: false}
	repo.medicines[11] = &MedicineLine{ID: 11, Name: "Amoxicillin", Strength: "250mg", UnitPrice: 100.00, PrescriptionRequired: true}
	svc, customers := newTestService(repo)

	result, err := svc.CreateQuickOrder(context.Background(), QuickOrderRequest{
		CustomerPhone: "+919876543210",
		PharmacyID:    1,
		Medicines: []QuickOrderLine{
			{MedicineID: "10", Quantity: "2"},
			{MedicineID: "11", Quantity: "1"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 200.00, result.Subtotal)
	assert.Equal(t, 10.00, result.TaxAmount)
	assert.Equal(t, 210.00, result.TotalAmount)
	assert.True(t, result.PrescriptionRequired)
	assert.Equal(t, StatusPending, result.Status)
	assert.Empty(t, result.SkippedMedicineIDs)
	require.Len(t, result.Items, 2)
	assert.Equal(t, 100.00, result.Items[0].TotalPrice)
	assert.Equal(t, "Paracetamol", result.Items[0].MedicineName)
	assert.Equal(t, 1, customers.calls)
	assert.NotEqual(t, uuid.Nil, result.OrderID)
	require.NotNil(t, repo.created)
	assert.Equal(t, int64(7), repo.created.CustomerID)
}

func TestCreateQuickOrderSkipsUnresolvedLines(t *testing.T) {
	repo := newFakeRepo()
	repo.medicines[10] = &MedicineLine{ID: 10, Name: "Cetirizine", UnitPrice: 30.00}
	svc, _ := newTestService(repo)

	result, err := svc.CreateQuickOrder(context.Background(), QuickOrderRequest{
		CustomerPhone: "+911111111111",
		PharmacyID:    1,
		Medicines: []QuickOrderLine{
			{MedicineID: "10", Quantity: "1"},
			{MedicineID: "999", Quantity: "3"},
			{MedicineID: "abc", Quantity: "1"},
			{MedicineID: "10", Quantity: "two"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"999", "abc", "10"}, result.SkippedMedicineIDs)
	require.Len(t, result.Items, 1)
	assert.Equal(t, 30.00, result.Subtotal)
	assert.Equal(t, 1.50, result.TaxAmount)
	assert.Equal(t, 31.50, result.TotalAmount)
	assert.False(t, result.PrescriptionRequired)
}

func TestCreateQuickOrderAllLinesSkippedStillCreates(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)

	result, err := svc.CreateQuickOrder(context.Background(), QuickOrderRequest{
		CustomerPhone: "+911111111111",
		PharmacyID:    1,
		Medicines:     []QuickOrderLine{{MedicineID: "999", Quantity: "1"}},
	})
	require.NoError(t, err)

	assert.Empty(t, result.Items)
	assert.Equal(t, 0.00, result.TotalAmount)
	assert.Equal(t, []string{"999"}, result.SkippedMedicineIDs)
	require.NotNil(t, repo.created)
}

func TestCreateQuickOrderValidation(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)
	ctx := context.Background()

	_, err := svc.CreateQuickOrder(ctx, QuickOrderRequest{PharmacyID: 1, Medicines: []QuickOrderLine{{MedicineID: "1", Quantity: "1"}}})
	assert.Error(t, err)

	_, err = svc.CreateQuickOrder(ctx, QuickOrderRequest{CustomerPhone: "+91", Medicines: []QuickOrderLine{{MedicineID: "1", Quantity: "1"}}})
	assert.Error(t, err)

	_, err = svc.CreateQuickOrder(ctx, QuickOrderRequest{CustomerPhone: "+91", PharmacyID: 1})
	assert.Error(t, err)
}

func TestCreateQuickOrderUnknownPharmacy(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)

	_, err := svc.CreateQuickOrder(context.Background(), QuickOrderRequest{
		CustomerPhone: "+911111111111",
		PharmacyID:    99,
		Medicines:     []QuickOrderLine{{MedicineID: "1", Quantity: "1"}},
	})
	assert.ErrorIs(t, err, ErrPharmacyNotFound)
}

func TestCreateQuickOrderTaxRounding(t *testing.T) {
	repo := newFakeRepo()
	repo.medicines[10] = &MedicineLine{ID: 10, UnitPrice: 33.33}
	svc, _ := newTestService(repo)

	result, err := svc.CreateQuickOrder(context.Background(), QuickOrderRequest{
		CustomerPhone: "+911111111111",
		PharmacyID:    1,
		Medicines:     []QuickOrderLine{{MedicineID: "10", Quantity: "3"}},
	})
	require.NoError(t, err)

	assert.Equal(t, 99.99, result.Subtotal)
	// 99.99 * 0.05 = 4.9995 rounds to 5.00
	assert.Equal(t, 5.00, result.TaxAmount)
	assert.Equal(t, 104.99, result.TotalAmount)
}

func TestLineValueUnmarshal(t *testing.T) {
	var req QuickOrderRequest
	payload := `{"customer_phone":"+91","pharmacy_id":1,"medicines":[{"medicine_id":"12","quantity":2},{"medicine_id":13,"quantity":"4"}]}`
	require.NoError(t, json.Unmarshal([]byte(payload), &req))

	id, err := req.Medicines[0].MedicineID.Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)
	qty, err := req.Medicines[0].Quantity.Int()
	require.NoError(t, err)
	assert.Equal(t, 2, qty)

	id, err = req.Medicines[1].MedicineID.Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(13), id)
	qty, err = req.Medicines[1].Quantity.Int()
	require.NoError(t, err)
	assert.Equal(t, 4, qty)
}

func TestUpdateStatusTransitions(t *testing.T) {
	repo := newFakeRepo()
	token := uuid.New()
	repo.orders[token.String()] = &Order{ID: 1, OrderID: token, Status: StatusPending}
	svc, _ := newTestService(repo)
	ctx := context.Background()

	o, err := svc.UpdateStatus(ctx, token.String(), UpdateStatusRequest{Status: "confirmed"})
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, o.Status)
	assert.Equal(t, StatusConfirmed, repo.updated)

	_, err = svc.UpdateStatus(ctx, token.String(), UpdateStatusRequest{Status: "DELIVERED"})
	assert.ErrorIs(t, err, ErrIllegalTransition)

	_, err = svc.UpdateStatus(ctx, token.String(), UpdateStatusRequest{Status: "SHIPPED"})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	repo.orders[token.String()].Status = StatusDelivered
	_, err = svc.UpdateStatus(ctx, token.String(), UpdateStatusRequest{Status: "PENDING"})
	assert.ErrorIs(t, err, ErrIllegalTransition)

	_, err = svc.UpdateStatus(ctx, uuid.NewString(), UpdateStatusRequest{Status: "CONFIRMED"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StatusPending, StatusConfirmed))
	assert.True(t, CanTransition(StatusPending, StatusCancelled))
	assert.True(t, CanTransition(StatusReady, StatusDelivered))
	assert.False(t, CanTransition(StatusPending, StatusDelivered))
	assert.False(t, CanTransition(StatusDelivered, StatusPending))
	assert.False(t, CanTransition(StatusCancelled, StatusConfirmed))
	assert.False(t, CanTransition(StatusDelivered, StatusCancelled))
}
