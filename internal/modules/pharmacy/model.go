package pharmacy

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a pharmacy does not exist or is inactive.
var ErrNotFound = errors.New("pharmacy not found")

// Pharmacy is a registered medical store.
type Pharmacy struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	LicenseNumber  string `json:"license_number"`
	OwnerName      string `json:"owner_name"`
	Phone          string `json:"phone"`
	WhatsAppNumber string `json:"whatsapp_number,omitempty"`
	Email          string `json:"email,omitempty"`

	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`

	OpeningTime string `json:"opening_time"`
	ClosingTime string `json:"closing_time"`
	Is24x7      bool   `json:"is_24x7"`

	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// PharmacyInventory is one stock batch of a medicine held by a pharmacy.
// (pharmacy, medicine, batch) is unique.
type PharmacyInventory struct {
	ID               int64  `json:"id"`
	PharmacyID       int64  `json:"pharmacy_id"`
	MedicineID       int64  `json:"medicine_id"`
	MedicineName     string `json:"medicine_name,omitempty"`
	MedicineStrength string `json:"medicine_strength,omitempty"`

	StockQuantity int       `json:"stock_quantity"`
	ReorderLevel  int       `json:"reorder_level"`
	BatchNumber   string    `json:"batch_number,omitempty"`
	ExpiryDate    time.Time `json:"expiry_date"`

	CostPrice    float64 `json:"cost_price"`
	SellingPrice float64 `json:"selling_price"`

	// IsExpired and NeedsReorder are derived, never stored.
	IsExpired    bool `json:"is_expired"`
	NeedsReorder bool `json:"needs_reorder"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// derive fills the computed flags relative to the given instant.
func (i *PharmacyInventory) derive(now time.Time) {
	i.IsExpired = i.ExpiryDate.Before(now.Truncate(24 * time.Hour))
	i.NeedsReorder = i.StockQuantity <= i.ReorderLevel
}

// CreatePharmacyRequest holds the admin payload for creating or replacing a
// pharmacy.
type CreatePharmacyRequest struct {
	Name           string `json:"name"`
	LicenseNumber  string `json:"license_number"`
	OwnerName      string `json:"owner_name"`
	Phone          string `json:"phone"`
	WhatsAppNumber string `json:"whatsapp_number"`
	Email          string `json:"email"`
	AddressLine1   string `json:"address_line1"`
	AddressLine2   string `json:"address_line2"`
	City           string `json:"city"`
	State          string `json:"state"`
	Pincode        string `json:"pincode"`
	OpeningTime    string `json:"opening_time"`
	ClosingTime    string `json:"closing_time"`
	Is24x7         bool   `json:"is_24x7"`
	IsActive       *bool  `json:"is_active"`
}

// UpsertInventoryRequest creates or refreshes one stock batch.
type UpsertInventoryRequest struct {
	MedicineID    int64   `json:"medicine_id"`
	StockQuantity int     `json:"stock_quantity"`
	ReorderLevel  int     `json:"reorder_level"`
	BatchNumber   string  `json:"batch_number"`
	ExpiryDate    string  `json:"expiry_date"` // YYYY-MM-DD
	CostPrice     float64 `json:"cost_price"`
	SellingPrice  float64 `json:"selling_price"`
}
