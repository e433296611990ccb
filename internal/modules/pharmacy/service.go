package pharmacy

import (
	"context"
	"fmt"
	"time"
)

// Service defines pharmacy business logic.
type Service interface {
	ListPharmacies(ctx context.Context, search string) ([]*Pharmacy, error)
	GetPharmacy(ctx context.Context, id int64) (*Pharmacy, error)
	CreatePharmacy(ctx context.Context, req CreatePharmacyRequest) (*Pharmacy, error)
	UpdatePharmacy(ctx context.Context, id int64, req CreatePharmacyRequest) (*Pharmacy, error)

	// Nearby requires at least one of pincode or city.
	Nearby(ctx context.Context, pincode, city string) ([]*Pharmacy, error)

	ListInventory(ctx context.Context, pharmacyID int64) ([]*PharmacyInventory, error)
	UpsertInventory(ctx context.Context, pharmacyID int64, req UpsertInventoryRequest) (*PharmacyInventory, error)
}

type service struct {
	repo Repository
}

// NewService creates a new pharmacy service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) ListPharmacies(ctx context.Context, search string) ([]*Pharmacy, error) {
	return s.repo.List(ctx, search)
}

func (s *service) GetPharmacy(ctx context.Context, id int64) (*Pharmacy, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) CreatePharmacy(ctx context.Context, req CreatePharmacyRequest) (*Pharmacy, error) {
	p, err := pharmacyFromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) UpdatePharmacy(ctx context.Context, id int64, req CreatePharmacyRequest) (*Pharmacy, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	p, err := pharmacyFromRequest(req)
	if err != nil {
		return nil, err
	}
	p.ID = id
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) Nearby(ctx context.Context, pincode, city string) ([]*Pharmacy, error) {
	if pincode == "" && city == "" {
		return nil, fmt.Errorf("pincode or city is required")
	}
	return s.repo.Nearby(ctx, pincode, city)
}

func (s *service) ListInventory(ctx context.Context, pharmacyID int64) ([]*PharmacyInventory, error) {
	if _, err := s.repo.GetByID(ctx, pharmacyID); err != nil {
		return nil, err
	}
	return s.repo.ListInventory(ctx, pharmacyID)
}

func (s *service) UpsertInventory(ctx context.Context, pharmacyID int64, req UpsertInventoryRequest) (*PharmacyInventory, error) {
	if _, err := s.repo.GetByID(ctx, pharmacyID); err != nil {
		return nil, err
	}
	if req.MedicineID <= 0 {
		return nil, fmt.Errorf("medicine_id is required")
	}
	if req.StockQuantity < 0 {
		return nil, fmt.Errorf("stock_quantity must not be negative")
	}
	expiry, err := time.Parse("2006-01-02", req.ExpiryDate)
	if err != nil {
		return nil, fmt.Errorf("invalid expiry_date: %w", err)
	}

	inv := &PharmacyInventory{
		PharmacyID:    pharmacyID,
		MedicineID:    req.MedicineID,
		StockQuantity: req.StockQuantity,
		ReorderLevel:  req.ReorderLevel,
		BatchNumber:   req.BatchNumber,
		ExpiryDate:    expiry,
		CostPrice:     req.CostPrice,
		SellingPrice:  req.SellingPrice,
	}
	if err := s.repo.UpsertInventory(ctx, inv); err != nil {
		return nil, err
	}
	inv.derive(time.Now())
	return inv, nil
}

func pharmacyFromRequest(req CreatePharmacyRequest) (*Pharmacy, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if req.LicenseNumber == "" {
		return nil, fmt.Errorf("license_number is required")
	}
	if req.AddressLine1 == "" || req.City == "" || req.State == "" || req.Pincode == "" {
		return nil, fmt.Errorf("address_line1, city, state and pincode are required")
	}
	opening := req.OpeningTime
	if opening == "" {
		opening = "09:00"
	}
	closing := req.ClosingTime
	if closing == "" {
		closing = "21:00"
	}
	p := &Pharmacy{
		Name:           req.Name,
		LicenseNumber:  req.LicenseNumber,
		OwnerName:      req.OwnerName,
		Phone:          req.Phone,
		WhatsAppNumber: req.WhatsAppNumber,
		Email:          req.Email,
		AddressLine1:   req.AddressLine1,
		AddressLine2:   req.AddressLine2,
		City:           req.City,
		State:          req.State,
		Pincode:        req.Pincode,
		OpeningTime:    opening,
		ClosingTime:    closing,
		Is24x7:         req.Is24x7,
		IsActive:       true,
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	return p, nil
}
