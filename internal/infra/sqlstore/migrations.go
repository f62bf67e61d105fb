package sqlstore

import (
	"context"
	"fmt"
)

// currentSchemaVersion is the latest schema version.
const currentSchemaVersion = 1

// Migrate runs forward migrations to bring the database schema up to date.
// It only creates tables and indexes; it never writes data rows.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	version := 0
	row := db.conn.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1")
	if err := row.Scan(&version); err != nil {
		// No rows means version 0 (fresh database).
		version = 0
	}

	if version < 1 {
		if err := db.migrateV1(ctx); err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
	}

	return nil
}

// migrateV1 creates the five retail tables and their lookup indexes.
func (db *DB) migrateV1(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS customers (
			customer_id   INTEGER PRIMARY KEY,
			customer_name TEXT NOT NULL,
			region        TEXT,
			industry      TEXT,
			join_date     DATE
		)`,

		`CREATE TABLE IF NOT EXISTS products (
			product_id   INTEGER PRIMARY KEY,
			product_name TEXT NOT NULL,
			category     TEXT,
			cost_price   REAL NOT NULL DEFAULT 0,
			sales_price  REAL NOT NULL DEFAULT 0
		)`,

		`CREATE TABLE IF NOT EXISTS sales_transactions (
			transaction_id   INTEGER PRIMARY KEY,
			customer_id      INTEGER NOT NULL REFERENCES customers(customer_id),
			product_id       INTEGER NOT NULL REFERENCES products(product_id),
			quantity         INTEGER NOT NULL DEFAULT 1,
			sale_amount      REAL NOT NULL,
			transaction_date DATE NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS support_tickets (
			ticket_id       INTEGER PRIMARY KEY,
			customer_id     INTEGER NOT NULL REFERENCES customers(customer_id),
			product_id      INTEGER REFERENCES products(product_id),
			issue_type      TEXT,
			status          TEXT,
			creation_date   DATE,
			resolution_date DATE,
			sentiment_score REAL
		)`,

		`CREATE TABLE IF NOT EXISTS supplier_data (
			supplier_id       INTEGER PRIMARY KEY,
			supplier_name     TEXT NOT NULL,
			product_id        INTEGER NOT NULL REFERENCES products(product_id),
			lead_time_days    INTEGER,
			reliability_score REAL
		)`,

		// Indexes.
		`CREATE INDEX IF NOT EXISTS idx_sales_customer ON sales_transactions(customer_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sales_product ON sales_transactions(product_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sales_date ON sales_transactions(transaction_date)`,
		`CREATE INDEX IF NOT EXISTS idx_tickets_customer ON support_tickets(customer_id)`,
		`CREATE INDEX IF NOT EXISTS idx_tickets_product ON support_tickets(product_id)`,
		`CREATE INDEX IF NOT EXISTS idx_suppliers_product ON supplier_data(product_id)`,
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing %q: %w", stmt[:40], err)
		}
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM schema_version"); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", currentSchemaVersion); err != nil {
		return err
	}

	return tx.Commit()
}
