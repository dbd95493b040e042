package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// Open connects to Postgres and verifies the connection. The caller owns the
// returned handle.
func Open(dsn string) (*sql.DB, error) {
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return conn, nil
}

// InitSchema creates the three tables if they do not exist yet.
func InitSchema(conn *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS customers (
			id SERIAL PRIMARY KEY,
			email TEXT UNIQUE NOT NULL,
			first_name TEXT NOT NULL DEFAULT '',
			last_name TEXT NOT NULL DEFAULT '',
			company TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'active',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			last_email_sent TIMESTAMPTZ,
			email_count INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS email_templates (
			id SERIAL PRIMARY KEY,
			name TEXT UNIQUE NOT NULL,
			subject TEXT NOT NULL,
			body_html TEXT NOT NULL DEFAULT '',
			body_text TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS email_campaigns (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			template_id INTEGER NOT NULL REFERENCES email_templates (id),
			status TEXT NOT NULL DEFAULT 'draft',
			customer_filter TEXT NOT NULL DEFAULT 'active',
			scheduled_time TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}
	for _, stmt := range stmts {
		if _, err := conn.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

// Vacuum rebuilds table storage. VACUUM cannot run inside a transaction, which
// is fine here: Exec issues it as a single statement.
func Vacuum(conn *sql.DB) error {
	_, err := conn.Exec("VACUUM")
	return err
}

// IntegrityCheck pings the database and counts rows in each table. A failure on
// any table is reported instead of the counts.
func IntegrityCheck(conn *sql.DB) (map[string]int, error) {
	if err := conn.Ping(); err != nil {
		return nil, err
	}
	counts := make(map[string]int, 3)
	for _, table := range []string{"customers", "email_templates", "email_campaigns"} {
		var n int
		if err := conn.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
			return nil, fmt.Errorf("integrity check on %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}
