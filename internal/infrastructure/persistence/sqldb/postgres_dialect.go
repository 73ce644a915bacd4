package sqldb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/jmanzanog/ko-wizard/internal/domain"
	"github.com/jmanzanog/ko-wizard/internal/infrastructure/persistence/sqldb/migrations"
)

type PostgresDialect struct{}

func (d *PostgresDialect) Name() string { return "postgres" }

func (d *PostgresDialect) Migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.PostgresFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("setting dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "postgres"); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	return nil
}

func (d *PostgresDialect) UpsertInstrument(ctx context.Context, tx *sql.Tx, i *domain.Instrument) error {
	query := `
		INSERT INTO instruments (id, name, asset_class, subgroup, direction, emittent, isin, basispreis,
			ko_schwelle, bezugsverhaeltnis, aufgeld, underlying_name, is_favorite, last_modified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			asset_class = EXCLUDED.asset_class,
			subgroup = EXCLUDED.subgroup,
			direction = EXCLUDED.direction,
			emittent = EXCLUDED.emittent,
			isin = EXCLUDED.isin,
			basispreis = EXCLUDED.basispreis,
			ko_schwelle = EXCLUDED.ko_schwelle,
			bezugsverhaeltnis = EXCLUDED.bezugsverhaeltnis,
			aufgeld = EXCLUDED.aufgeld,
			underlying_name = EXCLUDED.underlying_name,
			is_favorite = EXCLUDED.is_favorite,
			last_modified = EXCLUDED.last_modified
	`
	_, err := tx.ExecContext(ctx, query, instrumentArgs(i)...)
	return err
}

// instrumentArgs lists the column values in table order.
func instrumentArgs(i *domain.Instrument) []any {
	var lastModified sql.NullTime
	if i.LastModified != nil {
		lastModified = sql.NullTime{Time: *i.LastModified, Valid: true}
	}
	favorite := 0
	if i.IsFavorite {
		favorite = 1
	}
	return []any{
		i.ID,
		i.Name,
		string(i.AssetClass),
		string(i.Subgroup),
		string(i.Direction),
		string(i.Emittent),
		i.ISIN,
		i.Basispreis,
		i.KOSchwelle,
		i.Bezugsverhaeltnis,
		i.Aufgeld,
		i.UnderlyingName,
		favorite,
		lastModified,
	}
}
