package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jmanzanog/ko-wizard/internal/domain"
)

const instrumentColumns = `id, name, asset_class, subgroup, direction, emittent, isin, basispreis,
	ko_schwelle, bezugsverhaeltnis, aufgeld, underlying_name, is_favorite, last_modified`

// Repository stores instruments in a SQL database through a Dialect.
type Repository struct {
	db *DB
}

func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Migrate(ctx context.Context) error {
	return r.db.Dialect.Migrate(ctx, r.db.DB)
}

// Add inserts inst. An empty or already used id is replaced by a fresh one.
func (r *Repository) Add(ctx context.Context, inst domain.Instrument) (string, error) {
	if !inst.IsStorable() {
		return "", fmt.Errorf("%w: %s", domain.ErrInvalidInstrument, inst.ListTitle())
	}
	if inst.LastModified == nil {
		inst.Touch(time.Now())
	}

	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		exists, err := r.exists(ctx, tx, inst.ID)
		if err != nil {
			return err
		}
		if exists || inst.ID == "" {
			inst.ID = uuid.New().String()
		}
		if err := r.db.Dialect.UpsertInstrument(ctx, tx, &inst); err != nil {
			slog.Error("Failed to save instrument", "id", inst.ID, "error", err)
			return fmt.Errorf("upsert instrument: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return inst.ID, nil
}

func (r *Repository) Update(ctx context.Context, inst domain.Instrument) error {
	if !inst.IsStorable() {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInstrument, inst.ListTitle())
	}
	if inst.LastModified == nil {
		inst.Touch(time.Now())
	}

	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		exists, err := r.exists(ctx, tx, inst.ID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrInstrumentNotFound
		}
		if err := r.db.Dialect.UpsertInstrument(ctx, tx, &inst); err != nil {
			slog.Error("Failed to update instrument", "id", inst.ID, "error", err)
			return fmt.Errorf("upsert instrument: %w", err)
		}
		return nil
	})
}

func (r *Repository) exists(ctx context.Context, tx *sql.Tx, id string) (bool, error) {
	if id == "" {
		return false, nil
	}
	var count int
	query := r.rebind("SELECT COUNT(*) FROM instruments WHERE id = $1")
	if err := tx.QueryRowContext(ctx, query, id).Scan(&count); err != nil {
		return false, fmt.Errorf("checking instrument: %w", err)
	}
	return count > 0, nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.rebind("DELETE FROM instruments WHERE id = $1"), id)
	if err != nil {
		return fmt.Errorf("failed to delete instrument: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete instrument: %w", err)
	}
	if n == 0 {
		return domain.ErrInstrumentNotFound
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (*domain.Instrument, error) {
	query := r.rebind("SELECT " + instrumentColumns + " FROM instruments WHERE id = $1")

	inst, err := scanInstrument(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		slog.Debug("Instrument not found", "id", id)
		return nil, domain.ErrInstrumentNotFound
	}
	if err != nil {
		slog.Error("Failed to find instrument", "id", id, "error", err)
		return nil, fmt.Errorf("querying instrument: %w", err)
	}
	return inst, nil
}

func (r *Repository) FindAll(ctx context.Context) ([]domain.Instrument, error) {
	query := "SELECT " + instrumentColumns + " FROM instruments ORDER BY created_at, id"

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying instruments: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			slog.Error("Failed to close rows", "error", err)
		}
	}(rows)

	instruments := make([]domain.Instrument, 0)
	for rows.Next() {
		inst, err := scanInstrument(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		instruments = append(instruments, *inst)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return instruments, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanInstrument reads one row in instrumentColumns order. Text columns are
// nullable because Oracle stores empty strings as NULL.
func scanInstrument(row rowScanner) (*domain.Instrument, error) {
	var (
		id                                                    string
		name, assetClass, subgroup, direction, emittent, isin sql.NullString
		basispreis, koSchwelle, ratio, aufgeld, underlying    sql.NullString
		favorite                                              int64
		lastModified                                          sql.NullTime
	)
	err := row.Scan(&id, &name, &assetClass, &subgroup, &direction, &emittent, &isin,
		&basispreis, &koSchwelle, &ratio, &aufgeld, &underlying, &favorite, &lastModified)
	if err != nil {
		return nil, err
	}

	inst := &domain.Instrument{
		ID:                id,
		Name:              name.String,
		AssetClass:        domain.AssetClass(assetClass.String),
		Subgroup:          domain.Subgroup(subgroup.String),
		Direction:         domain.Direction(direction.String),
		Emittent:          domain.Emittent(emittent.String),
		ISIN:              isin.String,
		Basispreis:        basispreis.String,
		KOSchwelle:        koSchwelle.String,
		Bezugsverhaeltnis: ratio.String,
		Aufgeld:           aufgeld.String,
		UnderlyingName:    underlying.String,
		IsFavorite:        favorite != 0,
	}
	if lastModified.Valid {
		t := lastModified.Time
		inst.LastModified = &t
	}
	return inst, nil
}

// rebind rewrites $n placeholders to :n for Oracle.
func (r *Repository) rebind(query string) string {
	if r.db.Dialect.Name() == "oracle" {
		for i := 20; i >= 1; i-- {
			query = strings.ReplaceAll(query, fmt.Sprintf("$%d", i), fmt.Sprintf(":%d", i))
		}
	}
	return query
}

var _ domain.InstrumentRepository = (*Repository)(nil)
