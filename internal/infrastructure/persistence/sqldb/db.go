package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var ErrUnsupportedDriver = errors.New("unsupported database driver")

// DB pairs a connection pool with the SQL dialect of the server behind it.
type DB struct {
	*sql.DB
	Dialect Dialect
}

func New(db *sql.DB, dialect Dialect) *DB {
	return &DB{
		DB:      db,
		Dialect: dialect,
	}
}

// DialectFor maps a configured driver name to its dialect and the name the
// database/sql driver registers under.
func DialectFor(driver string) (Dialect, string, error) {
	switch driver {
	case "postgres":
		return &PostgresDialect{}, "pgx", nil
	case "oracle":
		return &OracleDialect{}, "oracle", nil
	default:
		return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedDriver, driver)
	}
}

// Open connects to dsn with the given driver and verifies the connection.
// The driver packages must be imported by the caller.
func Open(ctx context.Context, driver, dsn string) (*DB, error) {
	dialect, sqlDriver, err := DialectFor(driver)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return New(db, dialect), nil
}

func (db *DB) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}
