package catalog

import (
	"errors"
	"math"
	"time"
)

// ErrNotFound is returned when a referenced catalog record does not exist or
// is inactive.
var ErrNotFound = errors.New("not found")

// MedicineForm is the dosage form of a medicine.
type MedicineForm string

const (
	FormTablet      MedicineForm = "TAB"
	FormCapsule     MedicineForm = "CAP"
	FormSyrup       MedicineForm = "SYR"
	FormInjection   MedicineForm = "INJ"
	FormCream       MedicineForm = "CRE"
	FormOintment    MedicineForm = "OIN"
	FormDrops       MedicineForm = "DRP"
	FormSpray       MedicineForm = "SPR"
	FormInhaler     MedicineForm = "INH"
	FormSuppository MedicineForm = "SUP"
)

// PrescriptionType classifies how a medicine may be dispensed.
type PrescriptionType string

const (
	PrescriptionOTC        PrescriptionType = "OTC" // over the counter
	PrescriptionRx         PrescriptionType = "RX"  // prescription required
	PrescriptionControlled PrescriptionType = "RXC" // controlled, prescription required
)

var validForms = map[MedicineForm]bool{
	FormTablet: true, FormCapsule: true, FormSyrup: true, FormInjection: true,
	FormCream: true, FormOintment: true, FormDrops: true, FormSpray: true,
	FormInhaler: true, FormSuppository: true,
}

var validPrescriptionTypes = map[PrescriptionType]bool{
	PrescriptionOTC: true, PrescriptionRx: true, PrescriptionControlled: true,
}

// Category groups medicines, e.g. Antibiotics or Painkillers.
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Manufacturer is a pharmaceutical company.
type Manufacturer struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Country      string    `json:"country,omitempty"`
	ContactEmail string    `json:"contact_email,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Medicine is the master catalog record for a drug.
// (name, strength, manufacturer) is unique.
type Medicine struct {
	ID               int64            `json:"id"`
	Name             string           `json:"name"`
	GenericName      string           `json:"generic_name,omitempty"`
	BrandName        string           `json:"brand_name,omitempty"`
	CategoryID       int64            `json:"category_id"`
	ManufacturerID   int64            `json:"manufacturer_id"`
	CategoryName     string           `json:"category_name,omitempty"`
	ManufacturerName string           `json:"manufacturer_name,omitempty"`
	Composition      string           `json:"composition,omitempty"`
	Strength         string           `json:"strength"`
	Form             MedicineForm     `json:"form"`
	PackSize         string           `json:"pack_size,omitempty"`
	PrescriptionType PrescriptionType `json:"prescription_type"`

	Indication        string `json:"indication,omitempty"`
	Dosage            string `json:"dosage,omitempty"`
	SideEffects       string `json:"side_effects,omitempty"`
	Contraindications string `json:"contraindications,omitempty"`

	MRP                float64 `json:"mrp"`
	DiscountPercentage float64 `json:"discount_percentage"`
	// SellingPrice and PrescriptionRequired are derived, never stored.
	SellingPrice         float64 `json:"selling_price"`
	PrescriptionRequired bool    `json:"prescription_required"`

	IsActive  bool      `json:"is_active"`
	IsInStock bool      `json:"is_in_stock"`
	Aliases   []string  `json:"aliases,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// derive fills the computed fields from the stored ones.
func (m *Medicine) derive() {
	m.SellingPrice = SellingPrice(m.MRP, m.DiscountPercentage)
	m.PrescriptionRequired = m.PrescriptionType != PrescriptionOTC
}

// SellingPrice is the MRP minus the percentage discount, at currency precision.
func SellingPrice(mrp, discountPct float64) float64 {
	return round2(mrp - mrp*discountPct/100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// SearchResult is a medicine hit, optionally annotated with the stock held by
// a specific pharmacy.
type SearchResult struct {
	Medicine
	StockQuantity       *int  `json:"stock_quantity,omitempty"`
	AvailableAtPharmacy *bool `json:"available_at_pharmacy,omitempty"`
}

// MedicineFilter narrows a medicine listing. Zero values mean "no filter".
type MedicineFilter struct {
	CategoryID       int64
	ManufacturerID   int64
	Form             MedicineForm
	PrescriptionType PrescriptionType
	InStock          *bool
	Search           string
	OrderBy          string // name|mrp|created_at, "-" prefix for descending
	Limit            int
	Offset           int
}

// CreateMedicineRequest holds the admin payload for creating or replacing a
// medicine.
type CreateMedicineRequest struct {
	Name               string  `json:"name"`
	GenericName        string  `json:"generic_name"`
	BrandName          string  `json:"brand_name"`
	CategoryID         int64   `json:"category_id"`
	ManufacturerID     int64   `json:"manufacturer_id"`
	Composition        string  `json:"composition"`
	Strength           string  `json:"strength"`
	Form               string  `json:"form"`
	PackSize           string  `json:"pack_size"`
	PrescriptionType   string  `json:"prescription_type"`
	Indication         string  `json:"indication"`
	Dosage             string  `json:"dosage"`
	SideEffects        string  `json:"side_effects"`
	Contraindications  string  `json:"contraindications"`
	MRP                float64 `json:"mrp"`
	DiscountPercentage float64 `json:"discount_percentage"`
	IsActive           *bool   `json:"is_active"`
	IsInStock          *bool   `json:"is_in_stock"`
}

// CreateCategoryRequest holds the admin payload for a new category.
type CreateCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreateManufacturerRequest holds the admin payload for a new manufacturer.
type CreateManufacturerRequest struct {
	Name         string `json:"name"`
	Country      string `json:"country"`
	ContactEmail string `json:"contact_email"`
	Phone        string `json:"phone"`
}

// AddAliasRequest adds an alternate searchable name to a medicine.
type AddAliasRequest struct {
	Alias string `json:"alias"`
}
