package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/medbotlabs/medbot-backend/internal/config"
)

// Service defines catalog business logic.
type Service interface {
	ListCategories(ctx context.Context) ([]*Category, error)
	CreateCategory(ctx context.Context, req CreateCategoryRequest) (*Category, error)

	ListManufacturers(ctx context.Context) ([]*Manufacturer, error)
	CreateManufacturer(ctx context.Context, req CreateManufacturerRequest) (*Manufacturer, error)

	ListMedicines(ctx context.Context, filter MedicineFilter) ([]*Medicine, error)
	GetMedicine(ctx context.Context, id int64) (*Medicine, error)
	CreateMedicine(ctx context.Context, req CreateMedicineRequest) (*Medicine, error)
	UpdateMedicine(ctx context.Context, id int64, req CreateMedicineRequest) (*Medicine, error)
	AddAlias(ctx context.Context, medicineID int64, alias string) error

	// Search returns medicine matches for a free-text query. When pharmacyID
	// refers to an existing pharmacy, each hit carries that pharmacy's stock.
	Search(ctx context.Context, query string, pharmacyID int64, limit int) ([]*SearchResult, error)

	// Suggest maps a symptom description to over-the-counter medicines.
	Suggest(ctx context.Context, symptom string, limit int) ([]*Medicine, error)
}

type service struct {
	repo Repository
	cfg  config.Config
}

// NewService creates a new catalog service.
func NewService(repo Repository, cfg config.Config) Service {
	return &service{repo: repo, cfg: cfg}
}

func (s *service) ListCategories(ctx context.Context) ([]*Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *service) CreateCategory(ctx context.Context, req CreateCategoryRequest) (*Category, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	c := &Category{Name: req.Name, Description: req.Description}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) ListManufacturers(ctx context.Context) ([]*Manufacturer, error) {
	return s.repo.ListManufacturers(ctx)
}

func (s *service) CreateManufacturer(ctx context.Context, req CreateManufacturerRequest) (*Manufacturer, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	m := &Manufacturer{
		Name:         req.Name,
		Country:      req.Country,
		ContactEmail: req.ContactEmail,
		Phone:        req.Phone,
	}
	if err := s.repo.CreateManufacturer(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *service) ListMedicines(ctx context.Context, filter MedicineFilter) ([]*Medicine, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	return s.repo.ListMedicines(ctx, filter)
}

func (s *service) GetMedicine(ctx context.Context, id int64) (*Medicine, error) {
	return s.repo.GetMedicine(ctx, id)
}

func (s *service) CreateMedicine(ctx context.Context, req CreateMedicineRequest) (*Medicine, error) {
	m, err := medicineFromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateMedicine(ctx, m); err != nil {
		return nil, err
	}
	m.derive()
	return m, nil
}

func (s *service) UpdateMedicine(ctx context.Context, id int64, req CreateMedicineRequest) (*Medicine, error) {
	if _, err := s.repo.GetMedicine(ctx, id); err != nil {
		return nil, err
	}
	m, err := medicineFromRequest(req)
	if err != nil {
		return nil, err
	}
	m.ID = id
	if err := s.repo.UpdateMedicine(ctx, m); err != nil {
		return nil, err
	}
	return s.repo.GetMedicine(ctx, id)
}

func (s *service) AddAlias(ctx context.Context, medicineID int64, alias string) error {
	if strings.TrimSpace(alias) == "" {
		return fmt.Errorf("alias is required")
	}
	if _, err := s.repo.GetMedicine(ctx, medicineID); err != nil {
		return err
	}
	return s.repo.AddAlias(ctx, medicineID, alias)
}

func (s *service) Search(ctx context.Context, query string, pharmacyID int64, limit int) ([]*SearchResult, error) {
	if limit <= 0 || limit > 50 {
		limit = s.cfg.SearchLimit
	}
	medicines, err := s.repo.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	results := make([]*SearchResult, 0, len(medicines))
	for _, m := range medicines {
		results = append(results, &SearchResult{Medicine: *m})
	}

	if pharmacyID <= 0 || len(results) == 0 {
		return results, nil
	}
	exists, err := s.repo.PharmacyExists(ctx, pharmacyID)
	if err != nil {
		return nil, err
	}
	if !exists {
		// Unknown pharmacy degrades to the unannotated response.
		return results, nil
	}

	ids := make([]int64, 0, len(medicines))
	for _, m := range medicines {
		ids = append(ids, m.ID)
	}
	stock, err := s.repo.StockAtPharmacy(ctx, pharmacyID, ids)
	if err != nil {
		return nil, err
	}
	for _, r := range results {
		qty := stock[r.ID]
		available := qty > 0
		r.StockQuantity = &qty
		r.AvailableAtPharmacy = &available
	}
	return results, nil
}

// symptomKeywords maps symptom phrases to search keywords. Only the first
// keyword of a matched condition is used for the lookup.
var symptomKeywords = []struct {
	condition string
	keywords  []string
}{
	{"headache", []string{"paracetamol", "aspirin", "ibuprofen"}},
	{"fever", []string{"paracetamol", "panadol", "crocin"}},
	{"cold", []string{"cetirizine", "phenylephrine", "paracetamol"}},
	{"cough", []string{"dextromethorphan", "ambroxol", "salbutamol"}},
	{"acidity", []string{"omeprazole", "pantoprazole", "ranitidine"}},
	{"pain", []string{"ibuprofen", "diclofenac", "paracetamol"}},
}

func (s *service) Suggest(ctx context.Context, symptom string, limit int) ([]*Medicine, error) {
	if limit <= 0 || limit > 50 {
		limit = s.cfg.SuggestionLimit
	}
	symptom = strings.ToLower(strings.TrimSpace(symptom))
	for _, entry := range symptomKeywords {
		if strings.Contains(symptom, entry.condition) {
			return s.repo.SuggestByKeyword(ctx, entry.keywords[0], limit)
		}
	}
	return []*Medicine{}, nil
}

func medicineFromRequest(req CreateMedicineRequest) (*Medicine, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if req.Strength == "" {
		return nil, fmt.Errorf("strength is required")
	}
	if req.CategoryID <= 0 || req.ManufacturerID <= 0 {
		return nil, fmt.Errorf("category_id and manufacturer_id are required")
	}
	form := MedicineForm(strings.ToUpper(req.Form))
	if !validForms[form] {
		return nil, fmt.Errorf("invalid form %q", req.Form)
	}
	prescriptionType := PrescriptionType(strings.ToUpper(req.PrescriptionType))
	if prescriptionType == "" {
		prescriptionType = PrescriptionOTC
	}
	if !validPrescriptionTypes[prescriptionType] {
		return nil, fmt.Errorf("invalid prescription_type %q", req.PrescriptionType)
	}
	if req.MRP < 0 {
		return nil, fmt.Errorf("mrp must not be negative")
	}
	if req.DiscountPercentage < 0 || req.DiscountPercentage > 100 {
		return nil, fmt.Errorf("discount_percentage must be between 0 and 100")
	}

	m := &Medicine{
		Name:               req.Name,
		GenericName:        req.GenericName,
		BrandName:          req.BrandName,
		CategoryID:         req.CategoryID,
		ManufacturerID:     req.ManufacturerID,
		Composition:        req.Composition,
		Strength:           req.Strength,
		Form:               form,
		PackSize:           req.PackSize,
		PrescriptionType:   prescriptionType,
		Indication:         req.Indication,
		Dosage:             req.Dosage,
		SideEffects:        req.SideEffects,
		Contraindications:  req.Contraindications,
		MRP:                req.MRP,
		DiscountPercentage: req.DiscountPercentage,
		IsActive:           true,
		IsInStock:          true,
	}
	if req.IsActive != nil {
		m.IsActive = *req.IsActive
	}
	if req.IsInStock != nil {
		m.IsInStock = *req.IsInStock
	}
	return m, nil
}
