package pharmacy

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL pharmacy repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const pharmacyColumns = `id, name, license_number, owner_name, phone, whatsapp_number, email,
	address_line1, address_line2, city, state, pincode,
	opening_time, closing_time, is_24x7, is_active, created_at`

func scanPharmacy(scan func(...interface{}) error) (*Pharmacy, error) {
	p := &Pharmacy{}
	err := scan(&p.ID, &p.Name, &p.LicenseNumber, &p.OwnerName, &p.Phone, &p.WhatsAppNumber,
		&p.Email, &p.AddressLine1, &p.AddressLine2, &p.City, &p.State, &p.Pincode,
		&p.OpeningTime, &p.ClosingTime, &p.Is24x7, &p.IsActive, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) queryPharmacies(ctx context.Context, query string, args ...interface{}) ([]*Pharmacy, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pharmacies []*Pharmacy
	for rows.Next() {
		p, err := scanPharmacy(rows.Scan)
		if err != nil {
			return nil, err
		}
		pharmacies = append(pharmacies, p)
	}
	return pharmacies, rows.Err()
}

func (r *postgresRepo) List(ctx context.Context, search string) ([]*Pharmacy, error) {
	query := `SELECT ` + pharmacyColumns + ` FROM pharmacies WHERE is_active = TRUE`
	args := []interface{}{}
	if search != "" {
		query += ` AND (name ILIKE $1 OR city ILIKE $1 OR pincode ILIKE $1)`
		args = append(args, "%"+search+"%")
	}
	query += ` ORDER BY name`
	return r.queryPharmacies(ctx, query, args...)
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*Pharmacy, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+pharmacyColumns+` FROM pharmacies WHERE id = $1 AND is_active = TRUE`, id)
	p, err := scanPharmacy(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func (r *postgresRepo) Create(ctx context.Context, p *Pharmacy) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO pharmacies
		  (name, license_number, owner_name, phone, whatsapp_number, email,
		   address_line1, address_line2, city, state, pincode,
		   opening_time, closing_time, is_24x7, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		RETURNING id, created_at`,
		p.Name, p.LicenseNumber, p.OwnerName, p.Phone, p.WhatsAppNumber, p.Email,
		p.AddressLine1, p.AddressLine2, p.City, p.State, p.Pincode,
		p.OpeningTime, p.ClosingTime, p.Is24x7, p.IsActive,
	).Scan(&p.ID, &p.CreatedAt)
}

func (r *postgresRepo) Update(ctx context.Context, p *Pharmacy) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE pharmacies
		SET name=$1, license_number=$2, owner_name=$3, phone=$4, whatsapp_number=$5, email=$6,
		    address_line1=$7, address_line2=$8, city=$9, state=$10, pincode=$11,
		    opening_time=$12, closing_time=$13, is_24x7=$14, is_active=$15
		WHERE id=$16`,
		p.Name, p.LicenseNumber, p.OwnerName, p.Phone, p.WhatsAppNumber, p.Email,
		p.AddressLine1, p.AddressLine2, p.City, p.State, p.Pincode,
		p.OpeningTime, p.ClosingTime, p.Is24x7, p.IsActive, p.ID)
	return err
}

func (r *postgresRepo) Nearby(ctx context.Context, pincode, city string) ([]*Pharmacy, error) {
	if pincode != "" {
		return r.queryPharmacies(ctx,
			`SELECT `+pharmacyColumns+` FROM pharmacies WHERE is_active = TRUE AND pincode = $1 ORDER BY name`,
			pincode)
	}
	return r.queryPharmacies(ctx,
		`SELECT `+pharmacyColumns+` FROM pharmacies WHERE is_active = TRUE AND city ILIKE $1 ORDER BY name`,
		"%"+city+"%")
}

func (r *postgresRepo) ListInventory(ctx context.Context, pharmacyID int64) ([]*PharmacyInventory, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT i.id, i.pharmacy_id, i.medicine_id, m.name, m.strength,
		       i.stock_quantity, i.reorder_level, i.batch_number, i.expiry_date,
		       i.cost_price, i.selling_price, i.created_at, i.updated_at
		FROM pharmacy_inventory i
		JOIN medicines m ON m.id = i.medicine_id
		WHERE i.pharmacy_id = $1 AND i.stock_quantity > 0
		ORDER BY m.name`, pharmacyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	now := time.Now()
	var items []*PharmacyInventory
	for rows.Next() {
		inv := &PharmacyInventory{}
		if err := rows.Scan(&inv.ID, &inv.PharmacyID, &inv.MedicineID, &inv.MedicineName,
			&inv.MedicineStrength, &inv.StockQuantity, &inv.ReorderLevel, &inv.BatchNumber,
			&inv.ExpiryDate, &inv.CostPrice, &inv.SellingPrice, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
			return nil, err
		}
		inv.derive(now)
		items = append(items, inv)
	}
	return items, rows.Err()
}

func (r *postgresRepo) UpsertInventory(ctx context.Context, inv *PharmacyInventory) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO pharmacy_inventory
		  (pharmacy_id, medicine_id, stock_quantity, reorder_level, batch_number,
		   expiry_date, cost_price, selling_price)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (pharmacy_id, medicine_id, batch_number) DO UPDATE
		SET stock_quantity = EXCLUDED.stock_quantity,
		    reorder_level = EXCLUDED.reorder_level,
		    expiry_date = EXCLUDED.expiry_date,
		    cost_price = EXCLUDED.cost_price,
		    selling_price = EXCLUDED.selling_price,
		    updated_at = NOW()
		RETURNING id, created_at, updated_at`,
		inv.PharmacyID, inv.MedicineID, inv.StockQuantity, inv.ReorderLevel, inv.BatchNumber,
		inv.ExpiryDate, inv.CostPrice, inv.SellingPrice,
	).Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
}
