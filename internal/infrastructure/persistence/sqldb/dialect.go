package sqldb

import (
	"context"
	"database/sql"

	"github.com/jmanzanog/ko-wizard/internal/domain"
)

type Dialect interface {
	Name() string
	Migrate(ctx context.Context, db *sql.DB) error
	UpsertInstrument(ctx context.Context, tx *sql.Tx, i *domain.Instrument) error
}
