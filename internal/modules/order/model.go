package order

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when no order exists for an order id.
	ErrNotFound = errors.New("order not found")
	// ErrPharmacyNotFound is returned when the target pharmacy does not exist
	// or is inactive.
	ErrPharmacyNotFound = errors.New("pharmacy not found")
	// ErrInvalidStatus is returned for a status value outside the enumeration.
	ErrInvalidStatus = errors.New("invalid status")
	// ErrIllegalTransition is returned when the requested status cannot be
	// reached from the order's current status.
	ErrIllegalTransition = errors.New("illegal status transition")
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusConfirmed OrderStatus = "CONFIRMED"
	StatusPreparing OrderStatus = "PREPARING"
	StatusReady     OrderStatus = "READY"
	StatusDelivered OrderStatus = "DELIVERED"
	StatusCancelled OrderStatus = "CANCELLED"
)

var validStatuses = map[OrderStatus]bool{
	StatusPending: true, StatusConfirmed: true, StatusPreparing: true,
	StatusReady: true, StatusDelivered: true, StatusCancelled: true,
}

// validTransitions defines the allowed status state machine. DELIVERED and
// CANCELLED are terminal; CANCELLED is reachable from every non-terminal state.
var validTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusReady, StatusCancelled},
	StatusReady:     {StatusDelivered, StatusCancelled},
	StatusDelivered: {},
	StatusCancelled: {},
}

// CanTransition reports whether an order may move from current to next.
func CanTransition(current, next OrderStatus) bool {
	for _, s := range validTransitions[current] {
		if s == next {
			return true
		}
	}
	return false
}

// Order is a customer's medicine order at a pharmacy.
type Order struct {
	ID      int64     `json:"-"`
	OrderID uuid.UUID `json:"order_id"`

	CustomerID    int64  `json:"customer_id"`
	PharmacyID    int64  `json:"pharmacy_id"`
	CustomerPhone string `json:"customer_phone,omitempty"`
	CustomerName  string `json:"customer_name,omitempty"`
	PharmacyName  string `json:"pharmacy_name,omitempty"`

	Status OrderStatus `json:"status"`

	Subtotal       float64 `json:"subtotal"`
	TaxAmount      float64 `json:"tax_amount"`
	DeliveryCharge float64 `json:"delivery_charge"`
	TotalAmount    float64 `json:"total_amount"`

	PrescriptionRequired bool   `json:"prescription_required"`
	PrescriptionUploaded bool   `json:"prescription_uploaded"`
	Notes                string `json:"notes,omitempty"`

	DeliveryAddress string     `json:"delivery_address,omitempty"`
	DeliveryTime    *time.Time `json:"delivery_time,omitempty"`

	Items []*OrderItem `json:"items"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrderItem is a single medicine line within an order. The unit price is a
// snapshot taken at order creation; later catalog price changes never touch
// past orders.
type OrderItem struct {
	ID               int64   `json:"id"`
	OrderID          int64   `json:"-"`
	MedicineID       int64   `json:"medicine_id"`
	MedicineName     string  `json:"medicine_name,omitempty"`
	MedicineStrength string  `json:"medicine_strength,omitempty"`
	Quantity         int     `json:"quantity"`
	UnitPrice        float64 `json:"unit_price"`
	TotalPrice       float64 `json:"total_price"`
}

// MedicineLine is the order workflow's read model of a catalog medicine: the
// list selling price at this instant and whether it is prescription-gated.
type MedicineLine struct {
	ID                   int64
	Name                 string
	Strength             string
	UnitPrice            float64
	PrescriptionRequired bool
}

// LineValue is a scalar that bot front-ends may send either as a JSON number
// or as a quoted string.
type LineValue string

func (v *LineValue) UnmarshalJSON(b []byte) error {
	*v = LineValue(strings.Trim(strings.TrimSpace(string(b)), `"`))
	return nil
}

func (v LineValue) String() string { return string(v) }

func (v LineValue) Int() (int, error) { return strconv.Atoi(string(v)) }

func (v LineValue) Int64() (int64, error) { return strconv.ParseInt(string(v), 10, 64) }

// QuickOrderLine is one requested (medicine, quantity) pair.
type QuickOrderLine struct {
	MedicineID LineValue `json:"medicine_id"`
	Quantity   LineValue `json:"quantity"`
}

// QuickOrderRequest is the payload for creating an order in one call from a
// flat medicine list.
type QuickOrderRequest struct {
	CustomerPhone   string           `json:"customer_phone"`
	PharmacyID      int64            `json:"pharmacy_id"`
	Medicines       []QuickOrderLine `json:"medicines"`
	DeliveryAddress string           `json:"delivery_address"`
	Notes           string           `json:"notes"`
}

// QuickOrderResult is the created order together with the identifiers of any
// request lines that could not be resolved and were skipped.
type QuickOrderResult struct {
	*Order
	SkippedMedicineIDs []string `json:"skipped_medicine_ids"`
}

// UpdateStatusRequest is the payload for moving an order to a new status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
