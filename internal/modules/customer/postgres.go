package customer

import (
	"context"
	"database/sql"
	"errors"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL customer repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const customerColumns = `id, phone_number, whatsapp_number, name, email,
	address, city, pincode, preferred_pharmacy_id, created_at, updated_at`

func scanCustomer(scan func(...interface{}) error) (*Customer, error) {
	c := &Customer{}
	var preferred sql.NullInt64
	err := scan(&c.ID, &c.PhoneNumber, &c.WhatsAppNumber, &c.Name, &c.Email,
		&c.Address, &c.City, &c.Pincode, &preferred, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if preferred.Valid {
		c.PreferredPharmacyID = &preferred.Int64
	}
	return c, nil
}

func (r *postgresRepo) GetByPhone(ctx context.Context, phone string) (*Customer, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE phone_number = $1`, phone)
	c, err := scanCustomer(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return c, err
}

func (r *postgresRepo) GetOrCreate(ctx context.Context, phone string) (*Customer, error) {
	// Unique-constraint upsert: the insert is a no-op when the row exists, so
	// concurrent first contacts resolve to the same customer row.
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO customers (phone_number, whatsapp_number)
		VALUES ($1, $1)
		ON CONFLICT (phone_number) DO NOTHING`, phone)
	if err != nil {
		return nil, err
	}
	return r.GetByPhone(ctx, phone)
}

func (r *postgresRepo) Update(ctx context.Context, c *Customer) error {
	var preferred interface{}
	if c.PreferredPharmacyID != nil {
		preferred = *c.PreferredPharmacyID
	}
	return r.db.QueryRowContext(ctx, `
		UPDATE customers
		SET whatsapp_number=$1, name=$2, email=$3, address=$4, city=$5, pincode=$6,
		    preferred_pharmacy_id=$7, updated_at=NOW()
		WHERE phone_number=$8
		RETURNING updated_at`,
		c.WhatsAppNumber, c.Name, c.Email, c.Address, c.City, c.Pincode,
		preferred, c.PhoneNumber).Scan(&c.UpdatedAt)
}
