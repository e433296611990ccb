package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL order repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const orderColumns = `o.id, o.order_id, o.customer_id, o.pharmacy_id, c.phone_number, c.name, p.name,
	o.status, o.subtotal, o.tax_amount, o.delivery_charge, o.total_amount,
	o.prescription_required, o.prescription_uploaded, o.notes,
	o.delivery_address, o.delivery_time, o.created_at, o.updated_at`

const orderFrom = ` FROM orders o
	JOIN customers c ON c.id = o.customer_id
	JOIN pharmacies p ON p.id = o.pharmacy_id`

// CreateOrder inserts the order and all its items inside a single transaction.
func (r *postgresRepo) CreateOrder(ctx context.Context, o *Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders
		  (order_id, customer_id, pharmacy_id, status, subtotal, tax_amount,
		   delivery_charge, total_amount, prescription_required, prescription_uploaded,
		   notes, delivery_address)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING id, created_at, updated_at`,
		o.OrderID, o.CustomerID, o.PharmacyID, o.Status, o.Subtotal, o.TaxAmount,
		o.DeliveryCharge, o.TotalAmount, o.PrescriptionRequired, o.PrescriptionUploaded,
		o.Notes, o.DeliveryAddress,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, item := range o.Items {
		item.OrderID = o.ID
		err = tx.QueryRowContext(ctx, `
			INSERT INTO order_items (order_id, medicine_id, quantity, unit_price, total_price)
			VALUES ($1,$2,$3,$4,$5)
			RETURNING id`,
			o.ID, item.MedicineID, item.Quantity, item.UnitPrice, item.TotalPrice,
		).Scan(&item.ID)
		if err != nil {
			return fmt.Errorf("insert order_item: %w", err)
		}
	}

	return tx.Commit()
}

func scanOrder(scan func(...interface{}) error) (*Order, error) {
	o := &Order{}
	var deliveryTime sql.NullTime
	err := scan(&o.ID, &o.OrderID, &o.CustomerID, &o.PharmacyID, &o.CustomerPhone,
		&o.CustomerName, &o.PharmacyName, &o.Status, &o.Subtotal, &o.TaxAmount,
		&o.DeliveryCharge, &o.TotalAmount, &o.PrescriptionRequired, &o.PrescriptionUploaded,
		&o.Notes, &o.DeliveryAddress, &deliveryTime, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if deliveryTime.Valid {
		o.DeliveryTime = &deliveryTime.Time
	}
	return o, nil
}

func (r *postgresRepo) GetByOrderID(ctx context.Context, orderID string) (*Order, error) {
	token, err := uuid.Parse(orderID)
	if err != nil {
		return nil, ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+orderColumns+orderFrom+` WHERE o.order_id = $1`, token)
	o, err := scanOrder(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	o.Items, err = r.listItems(ctx, o.ID)
	return o, err
}

func (r *postgresRepo) List(ctx context.Context, phone string, status OrderStatus) ([]*Order, error) {
	query := `SELECT ` + orderColumns + orderFrom + ` WHERE 1=1`
	args := []interface{}{}
	n := 1
	if phone != "" {
		query += fmt.Sprintf(` AND c.phone_number = $%d`, n)
		args = append(args, phone)
		n++
	}
	if status != "" {
		query += fmt.Sprintf(` AND o.status = $%d`, n)
		args = append(args, status)
		n++
	}
	query += ` ORDER BY o.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows.Scan)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, o := range orders {
		if o.Items, err = r.listItems(ctx, o.ID); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id int64, status OrderStatus) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3`,
		status, time.Now(), id)
	return err
}

func (r *postgresRepo) GetMedicineLine(ctx context.Context, medicineID int64) (*MedicineLine, error) {
	m := &MedicineLine{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, strength,
		       ROUND(mrp - mrp * discount_percentage / 100, 2)::float8,
		       prescription_type <> 'OTC'
		FROM medicines WHERE id = $1 AND is_active = TRUE`,
		medicineID,
	).Scan(&m.ID, &m.Name, &m.Strength, &m.UnitPrice, &m.PrescriptionRequired)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *postgresRepo) PharmacyActive(ctx context.Context, pharmacyID int64) (bool, error) {
	var active bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM pharmacies WHERE id = $1 AND is_active = TRUE)`,
		pharmacyID).Scan(&active)
	return active, err
}

func (r *postgresRepo) listItems(ctx context.Context, orderID int64) ([]*OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT i.id, i.order_id, i.medicine_id, m.name, m.strength,
		       i.quantity, i.unit_price, i.total_price
		FROM order_items i
		JOIN medicines m ON m.id = i.medicine_id
		WHERE i.order_id = $1 ORDER BY i.id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []*OrderItem{}
	for rows.Next() {
		item := &OrderItem{}
		if err := rows.Scan(&item.ID, &item.OrderID, &item.MedicineID, &item.MedicineName,
			&item.MedicineStrength, &item.Quantity, &item.UnitPrice, &item.TotalPrice); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
