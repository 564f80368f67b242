package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"
)

type tableDDL struct {
	name string
	ddl  string
	// columns added after the first release, created when missing
	late map[string]string
}

const tableOptions = ") ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci"

const requestColumns = `
	id VARCHAR(36) PRIMARY KEY,
	owner_id VARCHAR(36) NOT NULL,
	status VARCHAR(40) NOT NULL DEFAULT 'pending',
	created_at VARCHAR(40) NOT NULL,
	attachments TEXT NULL,
	note TEXT NULL,`

func memberTable(name string) tableDDL {
	return tableDDL{name: name, ddl: `
CREATE TABLE IF NOT EXISTS ` + name + ` (
	user_id VARCHAR(36) PRIMARY KEY,
	name VARCHAR(255) NOT NULL DEFAULT '',
	email VARCHAR(255) NOT NULL DEFAULT '',
	cargo VARCHAR(40) NOT NULL,
	is_admin TINYINT(1) NOT NULL DEFAULT 0
` + tableOptions}
}

var schema = []tableDDL{
	{name: "users", ddl: `
CREATE TABLE IF NOT EXISTS users (
	id VARCHAR(36) PRIMARY KEY,
	email VARCHAR(255) NOT NULL,
	password_hash VARCHAR(255) NOT NULL,
	UNIQUE KEY uniq_email (email)
` + tableOptions},
	memberTable("staff_members"),
	memberTable("legal_members"),
	memberTable("consultant_members"),
	{name: "search_requests", ddl: `
CREATE TABLE IF NOT EXISTS search_requests (` + requestColumns + `
	trademark_name VARCHAR(255) NOT NULL,
	search_type VARCHAR(40) NOT NULL DEFAULT '',
	classes TEXT NULL,
	specifications TEXT NULL,
	full_data LONGTEXT NULL,
	KEY idx_owner (owner_id),
	KEY idx_status (status)
` + tableOptions},
	{name: "objection_requests", ddl: `
CREATE TABLE IF NOT EXISTS objection_requests (` + requestColumns + `
	case_description TEXT NOT NULL,
	processes TEXT NULL,
	contract_numbers TEXT NULL,
	KEY idx_owner (owner_id),
	KEY idx_status (status)
` + tableOptions},
	{name: "patent_requests", ddl: `
CREATE TABLE IF NOT EXISTS patent_requests (` + requestColumns + `
	title VARCHAR(255) NOT NULL,
	process_number VARCHAR(100) NULL,
	nature VARCHAR(100) NULL,
	staff_id VARCHAR(36) NULL,
	KEY idx_owner (owner_id),
	KEY idx_status (status)
` + tableOptions,
		late: map[string]string{"staff_id": "VARCHAR(36) NULL"}},
}

// Execer runs DDL.
type Execer interface {
	QueryRower
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// EnsureSchema creates missing tables and late columns. It is safe to run
// on every start.
func EnsureSchema(ctx context.Context, db Execer) error {
	for _, t := range schema {
		if !HasTable(ctx, db, t.name) {
			if _, err := db.ExecContext(ctx, t.ddl); err != nil {
				return fmt.Errorf("create %s: %w", t.name, err)
			}
			logrus.WithField("table", t.name).Info("table created")
			continue
		}
		for col, def := range t.late {
			if HasColumn(ctx, db, t.name, col) {
				continue
			}
			stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", t.name, col, def)
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("add %s.%s: %w", t.name, col, err)
			}
			logrus.WithField("table", t.name).Infof("column %s added", col)
		}
	}
	return nil
}
