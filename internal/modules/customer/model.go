package customer

import (
	"errors"
	"time"
)

// ErrNotFound is returned when no customer exists for a phone number.
var ErrNotFound = errors.New("customer not found")

// Customer is identified by their phone number; created lazily on first
// contact.
type Customer struct {
	ID             int64  `json:"id"`
	PhoneNumber    string `json:"phone_number"`
	WhatsAppNumber string `json:"whatsapp_number,omitempty"`
	Name           string `json:"name,omitempty"`
	Email          string `json:"email,omitempty"`

	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	Pincode string `json:"pincode,omitempty"`

	// PreferredPharmacyID is a weak reference; it is nulled when the pharmacy
	// is deleted.
	PreferredPharmacyID *int64 `json:"preferred_pharmacy_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpdateCustomerRequest is a partial profile update; nil fields keep their
// prior values.
type UpdateCustomerRequest struct {
	WhatsAppNumber      *string `json:"whatsapp_number"`
	Name                *string `json:"name"`
	Email               *string `json:"email"`
	Address             *string `json:"address"`
	City                *string `json:"city"`
	Pincode             *string `json:"pincode"`
	PreferredPharmacyID *int64  `json:"preferred_pharmacy_id"`
}
