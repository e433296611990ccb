package migrations

import "database/sql"

// Run creates the relational schema required by the pharmacy backend. Statements
// are idempotent so the server can apply them on every boot.
func Run(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS categories (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(100) NOT NULL UNIQUE,
			description TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS manufacturers (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(200) NOT NULL UNIQUE,
			country VARCHAR(100) NOT NULL DEFAULT '',
			contact_email VARCHAR(254) NOT NULL DEFAULT '',
			phone VARCHAR(20) NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS medicines (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(200) NOT NULL,
			generic_name VARCHAR(200) NOT NULL DEFAULT '',
			brand_name VARCHAR(200) NOT NULL DEFAULT '',
			category_id BIGINT NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
			manufacturer_id BIGINT NOT NULL REFERENCES manufacturers(id) ON DELETE CASCADE,
			composition TEXT NOT NULL DEFAULT '',
			strength VARCHAR(100) NOT NULL,
			form VARCHAR(3) NOT NULL,
			pack_size VARCHAR(50) NOT NULL DEFAULT '',
			prescription_type VARCHAR(3) NOT NULL DEFAULT 'OTC',
			indication TEXT NOT NULL DEFAULT '',
			dosage TEXT NOT NULL DEFAULT '',
			side_effects TEXT NOT NULL DEFAULT '',
			contraindications TEXT NOT NULL DEFAULT '',
			mrp NUMERIC(10,2) NOT NULL,
			discount_percentage NUMERIC(5,2) NOT NULL DEFAULT 0
				CHECK (discount_percentage >= 0 AND discount_percentage <= 100),
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			is_in_stock BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (name, strength, manufacturer_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_medicines_name ON medicines (name)`,
		`CREATE INDEX IF NOT EXISTS idx_medicines_generic_name ON medicines (generic_name)`,
		`CREATE TABLE IF NOT EXISTS medicine_aliases (
			id BIGSERIAL PRIMARY KEY,
			medicine_id BIGINT NOT NULL REFERENCES medicines(id) ON DELETE CASCADE,
			alias VARCHAR(200) NOT NULL,
			UNIQUE (medicine_id, alias)
		)`,
		`CREATE TABLE IF NOT EXISTS pharmacies (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(200) NOT NULL,
			license_number VARCHAR(100) NOT NULL UNIQUE,
			owner_name VARCHAR(100) NOT NULL,
			phone VARCHAR(20) NOT NULL,
			whatsapp_number VARCHAR(20) NOT NULL DEFAULT '',
			email VARCHAR(254) NOT NULL DEFAULT '',
			address_line1 VARCHAR(200) NOT NULL,
			address_line2 VARCHAR(200) NOT NULL DEFAULT '',
			city VARCHAR(100) NOT NULL,
			state VARCHAR(100) NOT NULL,
			pincode VARCHAR(10) NOT NULL,
			opening_time VARCHAR(8) NOT NULL DEFAULT '09:00',
			closing_time VARCHAR(8) NOT NULL DEFAULT '21:00',
			is_24x7 BOOLEAN NOT NULL DEFAULT FALSE,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS pharmacy_inventory (
			id BIGSERIAL PRIMARY KEY,
			pharmacy_id BIGINT NOT NULL REFERENCES pharmacies(id) ON DELETE CASCADE,
			medicine_id BIGINT NOT NULL REFERENCES medicines(id) ON DELETE CASCADE,
			stock_quantity INTEGER NOT NULL DEFAULT 0 CHECK (stock_quantity >= 0),
			reorder_level INTEGER NOT NULL DEFAULT 10,
			batch_number VARCHAR(50) NOT NULL DEFAULT '',
			expiry_date DATE NOT NULL,
			cost_price NUMERIC(10,2) NOT NULL,
			selling_price NUMERIC(10,2) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (pharmacy_id, medicine_id, batch_number)
		)`,
		`CREATE TABLE IF NOT EXISTS customers (
			id BIGSERIAL PRIMARY KEY,
			phone_number VARCHAR(20) NOT NULL UNIQUE,
			whatsapp_number VARCHAR(20) NOT NULL DEFAULT '',
			name VARCHAR(100) NOT NULL DEFAULT '',
			email VARCHAR(254) NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			city VARCHAR(100) NOT NULL DEFAULT '',
			pincode VARCHAR(10) NOT NULL DEFAULT '',
			preferred_pharmacy_id BIGINT REFERENCES pharmacies(id) ON DELETE SET NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id BIGSERIAL PRIMARY KEY,
			order_id UUID NOT NULL UNIQUE,
			customer_id BIGINT NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
			pharmacy_id BIGINT NOT NULL REFERENCES pharmacies(id) ON DELETE CASCADE,
			status VARCHAR(10) NOT NULL DEFAULT 'PENDING',
			subtotal NUMERIC(10,2) NOT NULL DEFAULT 0,
			tax_amount NUMERIC(10,2) NOT NULL DEFAULT 0,
			delivery_charge NUMERIC(10,2) NOT NULL DEFAULT 0,
			total_amount NUMERIC(10,2) NOT NULL DEFAULT 0,
			prescription_required BOOLEAN NOT NULL DEFAULT FALSE,
			prescription_uploaded BOOLEAN NOT NULL DEFAULT FALSE,
			notes TEXT NOT NULL DEFAULT '',
			delivery_address TEXT NOT NULL DEFAULT '',
			delivery_time TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			id BIGSERIAL PRIMARY KEY,
			order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			medicine_id BIGINT NOT NULL REFERENCES medicines(id) ON DELETE CASCADE,
			quantity INTEGER NOT NULL,
			unit_price NUMERIC(10,2) NOT NULL,
			total_price NUMERIC(10,2) NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS conversation_sessions (
			id BIGSERIAL PRIMARY KEY,
			phone_number VARCHAR(20) NOT NULL,
			session_id VARCHAR(100) NOT NULL,
			current_step VARCHAR(50) NOT NULL DEFAULT 'start',
			context_data JSONB NOT NULL DEFAULT '{}',
			last_activity TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (phone_number, session_id)
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			email VARCHAR(254) NOT NULL UNIQUE,
			password_hash VARCHAR(100) NOT NULL,
			full_name VARCHAR(200) NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
