package order

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	order *Order
	err   error
}

func (f *fakeService) CreateQuickOrder(ctx context.Context, req QuickOrderRequest) (*QuickOrderResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &QuickOrderResult{Order: f.order, SkippedMedicineIDs: []string{"999"}}, nil
}

func (f *fakeService) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.order, nil
}

func (f *fakeService) ListOrders(ctx context.Context, phone, status string) ([]*Order, error) {
	return nil, f.err
}

func (f *fakeService) UpdateStatus(ctx context.Context, orderID string, req UpdateStatusRequest) (*Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.order, nil
}

func newTestRouter(svc Service) *chi.Mux {
	router := chi.NewRouter()
	passthrough := func(next http.Handler) http.Handler { return next }
	NewHandler(svc).RegisterRoutes(router, passthrough)
	return router
}

func TestQuickCreateHandler(t *testing.T) {
	token := uuid.New()
	router := newTestRouter(&fakeService{order: &Order{OrderID: token, Status: StatusPending, TotalAmount: 210.00, Items: []*OrderItem{}}})

	body := `{"customer_phone":"+91","pharmacy_id":1,"medicines":[{"medicine_id":"10","quantity":"2"}]}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/orders/quick-create", strings.NewReader(body)))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got QuickOrderResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, token, got.OrderID)
	assert.Equal(t, []string{"999"}, got.SkippedMedicineIDs)
}

func TestQuickCreateHandlerBadJSON(t *testing.T) {
	router := newTestRouter(&fakeService{})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/orders/quick-create", strings.NewReader("{")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{ErrNotFound, http.StatusNotFound},
		{ErrPharmacyNotFound, http.StatusNotFound},
		{ErrInvalidStatus, http.StatusBadRequest},
		{ErrIllegalTransition, http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		router := newTestRouter(&fakeService{err: tc.err})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/api/v1/orders/"+uuid.NewString()+"/status",
			strings.NewReader(`{"status":"CONFIRMED"}`)))
		assert.Equal(t, tc.code, rec.Code, "error %v", tc.err)
	}
}

func TestGetOrderHandlerNotFound(t *testing.T) {
	router := newTestRouter(&fakeService{err: ErrNotFound})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListOrdersHandlerEmpty(t *testing.T) {
	router := newTestRouter(&fakeService{})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/orders?phone_number=%2B91", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}
