package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmanzanog/ko-wizard/internal/domain"
	"github.com/jmanzanog/ko-wizard/internal/infrastructure/persistence/sqldb/migrations"
)

type OracleDialect struct{}

func (d *OracleDialect) Name() string { return "oracle" }

func (d *OracleDialect) Migrate(ctx context.Context, db *sql.DB) error {
	// Goose does not support Oracle natively in a way that is easy to cross-compile with go-ora.
	// Read the SQL file and execute it statement by statement.
	content, err := migrations.OracleFS.ReadFile("oracle/20251101000000_instruments.sql")
	if err != nil {
		return fmt.Errorf("reading migration file: %w", err)
	}

	// Statements are separated by '/' as in SQL*Plus scripts.
	statements := strings.Split(string(content), "/")

	for _, stmt := range statements {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}

		if _, err := db.ExecContext(ctx, stmt); err != nil {
			// ORA-00955: name is already used by an existing object
			if !strings.Contains(err.Error(), "ORA-00955") {
				return fmt.Errorf("migrating: %s: %w", stmt, err)
			}
		}
	}
	return nil
}

func (d *OracleDialect) UpsertInstrument(ctx context.Context, tx *sql.Tx, i *domain.Instrument) error {
	query := `MERGE INTO instruments t
             USING (SELECT :1 as id_val FROM dual) s
             ON (t.id = s.id_val)
             WHEN MATCHED THEN
               UPDATE SET
                 name = :2, asset_class = :3, subgroup = :4, direction = :5, emittent = :6,
                 isin = :7, basispreis = :8, ko_schwelle = :9, bezugsverhaeltnis = :10,
                 aufgeld = :11, underlying_name = :12, is_favorite = :13, last_modified = :14
             WHEN NOT MATCHED THEN
               INSERT (id, name, asset_class, subgroup, direction, emittent, isin, basispreis,
                       ko_schwelle, bezugsverhaeltnis, aufgeld, underlying_name, is_favorite, last_modified)
               VALUES (:15, :16, :17, :18, :19, :20, :21, :22, :23, :24, :25, :26, :27, :28)`

	cols := instrumentArgs(i)
	args := make([]any, 0, 1+2*len(cols))
	args = append(args, i.ID)        // 1 (s.id_val)
	args = append(args, cols[1:]...) // 2..14 (UPDATE)
	args = append(args, cols...)     // 15..28 (INSERT)

	_, err := tx.ExecContext(ctx, query, args...)
	return err
}
