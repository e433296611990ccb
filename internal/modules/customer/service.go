package customer

import (
	"context"
	"fmt"
)

// Service defines customer profile business logic.
type Service interface {
	// GetProfile returns the customer for a phone number, or ErrNotFound.
	GetProfile(ctx context.Context, phone string) (*Customer, error)
	// UpsertProfile creates the customer if needed, then applies the partial
	// update. Fields absent from the request keep their prior values.
	UpsertProfile(ctx context.Context, phone string, req UpdateCustomerRequest) (*Customer, error)
	// GetOrCreate resolves a customer by phone number, creating the row on
	// first contact. Idempotent.
	GetOrCreate(ctx context.Context, phone string) (*Customer, error)
}

type service struct {
	repo Repository
}

// NewService creates a new customer service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetProfile(ctx context.Context, phone string) (*Customer, error) {
	return s.repo.GetByPhone(ctx, phone)
}

func (s *service) UpsertProfile(ctx context.Context, phone string, req UpdateCustomerRequest) (*Customer, error) {
	if phone == "" {
		return nil, fmt.Errorf("phone number is required")
	}
	c, err := s.repo.GetOrCreate(ctx, phone)
	if err != nil {
		return nil, err
	}
	if req.WhatsAppNumber != nil {
		c.WhatsAppNumber = *req.WhatsAppNumber
	}
	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Email != nil {
		c.Email = *req.Email
	}
	if req.Address != nil {
		c.Address = *req.Address
	}
	if req.City != nil {
		c.City = *req.City
	}
	if req.Pincode != nil {
		c.Pincode = *req.Pincode
	}
	if req.PreferredPharmacyID != nil {
		c.PreferredPharmacyID = req.PreferredPharmacyID
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) GetOrCreate(ctx context.Context, phone string) (*Customer, error) {
	if phone == "" {
		return nil, fmt.Errorf("phone number is required")
	}
	return s.repo.GetOrCreate(ctx, phone)
}
