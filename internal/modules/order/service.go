package order

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/medbotlabs/medbot-backend/internal/config"
	"github.com/medbotlabs/medbot-backend/internal/modules/customer"
)

// Service defines the order workflow business logic.
type Service interface {
	// CreateQuickOrder resolves prices for a flat medicine list and persists
	// one order with its items. Lines referencing unknown medicines are
	// skipped, not fatal; their identifiers are reported in the result.
	CreateQuickOrder(ctx context.Context, req QuickOrderRequest) (*QuickOrderResult, error)

	// GetOrder retrieves a full order by its opaque token.
	GetOrder(ctx context.Context, orderID string) (*Order, error)

	// ListOrders returns orders newest first, optionally filtered by customer
	// phone number and status.
	ListOrders(ctx context.Context, phone, status string) ([]*Order, error)

	// UpdateStatus moves an order along the status state machine.
	UpdateStatus(ctx context.Context, orderID string, req UpdateStatusRequest) (*Order, error)
}

type service struct {
	repo      Repository
	customers customer.Service
	taxRate   float64
	logger    *zap.Logger
}

// NewService creates a new order service.
func NewService(repo Repository, customers customer.Service, cfg config.Config, logger *zap.Logger) Service {
	return &service{
		repo:      repo,
		customers: customers,
		taxRate:   cfg.TaxRate,
		logger:    logger,
	}
}

func (s *service) CreateQuickOrder(ctx context.Context, req QuickOrderRequest) (*QuickOrderResult, error) {
	phone := strings.TrimSpace(req.CustomerPhone)
	if phone == "" {
		return nil, fmt.Errorf("customer_phone is required")
	}
	if req.PharmacyID <= 0 {
		return nil, fmt.Errorf("pharmacy_id is required")
	}
	if len(req.Medicines) == 0 {
		return nil, fmt.Errorf("at least one medicine line is required")
	}

	active, err := s.repo.PharmacyActive(ctx, req.PharmacyID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, ErrPharmacyNotFound
	}

	cust, err := s.customers.GetOrCreate(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("resolve customer: %w", err)
	}

	o := &Order{
		OrderID:         uuid.New(),
		CustomerID:      cust.ID,
		PharmacyID:      req.PharmacyID,
		CustomerPhone:   cust.PhoneNumber,
		CustomerName:    cust.Name,
		Status:          StatusPending,
		DeliveryAddress: req.DeliveryAddress,
		Notes:           req.Notes,
		Items:           []*OrderItem{},
	}

	// Lines are processed in request order. A line that cannot be resolved is
	// dropped and reported, never fatal: a malformed medicine reference must
	// not abort the whole order.
	skipped := []string{}
	var subtotal float64
	for _, line := range req.Medicines {
		medicineID, err := line.MedicineID.Int64()
		if err != nil {
			skipped = append(skipped, line.MedicineID.String())
			continue
		}
		med, err := s.repo.GetMedicineLine(ctx, medicineID)
		if errors.Is(err, ErrNotFound) {
			skipped = append(skipped, line.MedicineID.String())
			continue
		}
		if err != nil {
			return nil, err
		}
		quantity, err := line.Quantity.Int()
		if err != nil {
			skipped = append(skipped, line.MedicineID.String())
			continue
		}

		totalPrice := round2(med.UnitPrice * float64(quantity))
		o.Items = append(o.Items, &OrderItem{
			MedicineID:       med.ID,
			MedicineName:     med.Name,
			MedicineStrength: med.Strength,
			Quantity:         quantity,
			UnitPrice:        med.UnitPrice,
			TotalPrice:       totalPrice,
		})
		subtotal += totalPrice
		if med.PrescriptionRequired {
			o.PrescriptionRequired = true
		}
	}

	o.Subtotal = round2(subtotal)
	o.TaxAmount = round2(o.Subtotal * s.taxRate)
	o.TotalAmount = round2(o.Subtotal + o.TaxAmount)

	if err := s.repo.CreateOrder(ctx, o); err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}

	s.logger.Info("quick order created",
		zap.String("order_id", o.OrderID.String()),
		zap.String("customer_phone", cust.PhoneNumber),
		zap.Int64("pharmacy_id", o.PharmacyID),
		zap.Int("items", len(o.Items)),
		zap.Strings("skipped_medicine_ids", skipped),
		zap.Float64("total_amount", o.TotalAmount),
		zap.Bool("prescription_required", o.PrescriptionRequired),
	)

	return &QuickOrderResult{Order: o, SkippedMedicineIDs: skipped}, nil
}

func (s *service) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	return s.repo.GetByOrderID(ctx, orderID)
}

func (s *service) ListOrders(ctx context.Context, phone, status string) ([]*Order, error) {
	return s.repo.List(ctx, phone, OrderStatus(strings.ToUpper(status)))
}

func (s *service) UpdateStatus(ctx context.Context, orderID string, req UpdateStatusRequest) (*Order, error) {
	o, err := s.repo.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	next := OrderStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	if !validStatuses[next] {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, req.Status)
	}
	if !CanTransition(o.Status, next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, o.Status, next)
	}

	if err := s.repo.UpdateStatus(ctx, o.ID, next); err != nil {
		return nil, err
	}
	o.Status = next

	s.logger.Info("order status updated",
		zap.String("order_id", o.OrderID.String()),
		zap.String("status", string(next)),
	)
	return o, nil
}
