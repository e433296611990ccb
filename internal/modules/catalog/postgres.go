package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL catalog repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const medicineColumns = `m.id, m.name, m.generic_name, m.brand_name, m.category_id, m.manufacturer_id,
	c.name, mf.name, m.composition, m.strength, m.form, m.pack_size, m.prescription_type,
	m.indication, m.dosage, m.side_effects, m.contraindications,
	m.mrp, m.discount_percentage, m.is_active, m.is_in_stock, m.created_at, m.updated_at`

const medicineFrom = ` FROM medicines m
	JOIN categories c ON c.id = m.category_id
	JOIN manufacturers mf ON mf.id = m.manufacturer_id`

func scanMedicine(scan func(...interface{}) error) (*Medicine, error) {
	m := &Medicine{}
	err := scan(&m.ID, &m.Name, &m.GenericName, &m.BrandName, &m.CategoryID, &m.ManufacturerID,
		&m.CategoryName, &m.ManufacturerName, &m.Composition, &m.Strength, &m.Form, &m.PackSize,
		&m.PrescriptionType, &m.Indication, &m.Dosage, &m.SideEffects, &m.Contraindications,
		&m.MRP, &m.DiscountPercentage, &m.IsActive, &m.IsInStock, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	m.derive()
	return m, nil
}

func (r *postgresRepo) queryMedicines(ctx context.Context, query string, args ...interface{}) ([]*Medicine, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var medicines []*Medicine
	for rows.Next() {
		m, err := scanMedicine(rows.Scan)
		if err != nil {
			return nil, err
		}
		medicines = append(medicines, m)
	}
	return medicines, rows.Err()
}

func (r *postgresRepo) ListCategories(ctx context.Context) ([]*Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, created_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*Category
	for rows.Next() {
		c := &Category{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *postgresRepo) CreateCategory(ctx context.Context, c *Category) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO categories (name, description) VALUES ($1, $2)
		RETURNING id, created_at`,
		c.Name, c.Description).Scan(&c.ID, &c.CreatedAt)
}

func (r *postgresRepo) ListManufacturers(ctx context.Context) ([]*Manufacturer, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, country, contact_email, phone, created_at FROM manufacturers ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var manufacturers []*Manufacturer
	for rows.Next() {
		m := &Manufacturer{}
		if err := rows.Scan(&m.ID, &m.Name, &m.Country, &m.ContactEmail, &m.Phone, &m.CreatedAt); err != nil {
			return nil, err
		}
		manufacturers = append(manufacturers, m)
	}
	return manufacturers, rows.Err()
}

func (r *postgresRepo) CreateManufacturer(ctx context.Context, m *Manufacturer) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO manufacturers (name, country, contact_email, phone) VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		m.Name, m.Country, m.ContactEmail, m.Phone).Scan(&m.ID, &m.CreatedAt)
}

var orderings = map[string]string{
	"name":       "m.name",
	"mrp":        "m.mrp",
	"created_at": "m.created_at",
}

func (r *postgresRepo) ListMedicines(ctx context.Context, f MedicineFilter) ([]*Medicine, error) {
	query := `SELECT ` + medicineColumns + medicineFrom + ` WHERE m.is_active = TRUE`
	args := []interface{}{}
	n := 1

	add := func(clause string, value interface{}) {
		query += fmt.Sprintf(clause, n)
		args = append(args, value)
		n++
	}

	if f.CategoryID > 0 {
		add(` AND m.category_id = $%d`, f.CategoryID)
	}
	if f.ManufacturerID > 0 {
		add(` AND m.manufacturer_id = $%d`, f.ManufacturerID)
	}
	if f.Form != "" {
		add(` AND m.form = $%d`, string(f.Form))
	}
	if f.PrescriptionType != "" {
		add(` AND m.prescription_type = $%d`, string(f.PrescriptionType))
	}
	if f.InStock != nil {
		add(` AND m.is_in_stock = $%d`, *f.InStock)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		query += fmt.Sprintf(` AND (m.name ILIKE $%d OR m.generic_name ILIKE $%d OR m.brand_name ILIKE $%d OR m.composition ILIKE $%d)`,
			n, n, n, n)
		args = append(args, like)
		n++
	}

	column, dir := "m.name", "ASC"
	orderBy := f.OrderBy
	if len(orderBy) > 0 && orderBy[0] == '-' {
		dir = "DESC"
		orderBy = orderBy[1:]
	}
	if c, ok := orderings[orderBy]; ok {
		column = c
	}
	query += fmt.Sprintf(` ORDER BY %s %s LIMIT $%d OFFSET $%d`, column, dir, n, n+1)
	args = append(args, f.Limit, f.Offset)

	return r.queryMedicines(ctx, query, args...)
}

func (r *postgresRepo) GetMedicine(ctx context.Context, id int64) (*Medicine, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+medicineColumns+medicineFrom+` WHERE m.id = $1 AND m.is_active = TRUE`, id)
	m, err := scanMedicine(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT alias FROM medicine_aliases WHERE medicine_id = $1 ORDER BY alias`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var alias string
		if err := rows.Scan(&alias); err != nil {
			return nil, err
		}
		m.Aliases = append(m.Aliases, alias)
	}
	return m, rows.Err()
}

func (r *postgresRepo) CreateMedicine(ctx context.Context, m *Medicine) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO medicines
		  (name, generic_name, brand_name, category_id, manufacturer_id, composition, strength,
		   form, pack_size, prescription_type, indication, dosage, side_effects, contraindications,
		   mrp, discount_percentage, is_active, is_in_stock)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
		RETURNING id, created_at, updated_at`,
		m.Name, m.GenericName, m.BrandName, m.CategoryID, m.ManufacturerID, m.Composition,
		m.Strength, m.Form, m.PackSize, m.PrescriptionType, m.Indication, m.Dosage,
		m.SideEffects, m.Contraindications, m.MRP, m.DiscountPercentage, m.IsActive, m.IsInStock,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
}

func (r *postgresRepo) UpdateMedicine(ctx context.Context, m *Medicine) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE medicines
		SET name=$1, generic_name=$2, brand_name=$3, category_id=$4, manufacturer_id=$5,
		    composition=$6, strength=$7, form=$8, pack_size=$9, prescription_type=$10,
		    indication=$11, dosage=$12, side_effects=$13, contraindications=$14,
		    mrp=$15, discount_percentage=$16, is_active=$17, is_in_stock=$18, updated_at=NOW()
		WHERE id=$19`,
		m.Name, m.GenericName, m.BrandName, m.CategoryID, m.ManufacturerID, m.Composition,
		m.Strength, m.Form, m.PackSize, m.PrescriptionType, m.Indication, m.Dosage,
		m.SideEffects, m.Contraindications, m.MRP, m.DiscountPercentage, m.IsActive, m.IsInStock,
		m.ID)
	return err
}

func (r *postgresRepo) AddAlias(ctx context.Context, medicineID int64, alias string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO medicine_aliases (medicine_id, alias) VALUES ($1, $2)
		ON CONFLICT (medicine_id, alias) DO NOTHING`,
		medicineID, alias)
	return err
}

func (r *postgresRepo) Search(ctx context.Context, query string, limit int) ([]*Medicine, error) {
	like := "%" + query + "%"
	return r.queryMedicines(ctx, `
		SELECT DISTINCT `+medicineColumns+medicineFrom+`
		LEFT JOIN medicine_aliases a ON a.medicine_id = m.id
		WHERE m.is_active = TRUE
		  AND (m.name ILIKE $1 OR m.generic_name ILIKE $1 OR m.brand_name ILIKE $1 OR a.alias ILIKE $1)
		ORDER BY m.name LIMIT $2`, like, limit)
}

func (r *postgresRepo) SuggestByKeyword(ctx context.Context, keyword string, limit int) ([]*Medicine, error) {
	like := "%" + keyword + "%"
	return r.queryMedicines(ctx, `
		SELECT `+medicineColumns+medicineFrom+`
		WHERE m.is_active = TRUE AND m.prescription_type = 'OTC'
		  AND (m.name ILIKE $1 OR m.generic_name ILIKE $1 OR m.composition ILIKE $1)
		ORDER BY m.name LIMIT $2`, like, limit)
}

func (r *postgresRepo) PharmacyExists(ctx context.Context, pharmacyID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM pharmacies WHERE id = $1)`, pharmacyID).Scan(&exists)
	return exists, err
}

func (r *postgresRepo) StockAtPharmacy(ctx context.Context, pharmacyID int64, medicineIDs []int64) (map[int64]int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT medicine_id, SUM(stock_quantity)
		FROM pharmacy_inventory
		WHERE pharmacy_id = $1 AND medicine_id = ANY($2)
		GROUP BY medicine_id`,
		pharmacyID, pq.Array(medicineIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stock := make(map[int64]int)
	for rows.Next() {
		var medicineID int64
		var qty int
		if err := rows.Scan(&medicineID, &qty); err != nil {
			return nil, err
		}
		stock[medicineID] = qty
	}
	return stock, rows.Err()
}
