package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"

	"github.com/sirupsen/logrus"
)

// QueryRower is satisfied by *sql.DB and *sql.Tx.
type QueryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// NullIfEmpty helps store optional strings without wiping existing data.
func NullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func HasTable(ctx context.Context, q QueryRower, table string) bool {
	var name sql.NullString
	err := q.QueryRowContext(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = DATABASE()
		  AND table_name = ?
		LIMIT 1
	`, table).Scan(&name)
	if err != nil {
		logBadConn("has_table", err)
		return false
	}
	return name.Valid && name.String != ""
}

func HasColumn(ctx context.Context, q QueryRower, table, column string) bool {
	var name sql.NullString
	err := q.QueryRowContext(ctx, `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = DATABASE()
		  AND table_name = ?
		  AND column_name = ?
		LIMIT 1
	`, table, column).Scan(&name)
	if err != nil {
		logBadConn("has_column", err)
		return false
	}
	return name.Valid && name.String != ""
}

// logBadConn logs once per call on a broken connection; a missing row is
// the normal "absent" answer and stays quiet.
func logBadConn(tag string, err error) {
	if errors.Is(err, driver.ErrBadConn) {
		logrus.WithField("check", tag).Warn("driver.ErrBadConn")
	}
}
