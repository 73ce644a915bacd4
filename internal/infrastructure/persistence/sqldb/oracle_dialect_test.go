package sqldb

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/jmanzanog/ko-wizard/internal/domain"
)

func sampleInstrument() domain.Instrument {
	inst := domain.NewInstrument()
	inst.Name = "DAX · Long · 19500"
	inst.AssetClass = domain.AssetClassIndex
	inst.Subgroup = domain.SubgroupDAX
	inst.Direction = domain.DirectionLong
	inst.Emittent = domain.EmittentVontobel
	inst.ISIN = "DE000VU1ABC2"
	inst.Basispreis = "19500"
	inst.Bezugsverhaeltnis = "1 : 100"
	inst.Aufgeld = "0,5"
	inst.IsFavorite = true
	inst.Touch(time.Date(2025, 11, 1, 10, 0, 0, 0, time.UTC))
	return inst
}

func toDriverArgs(in []any) []driver.Value {
	out := make([]driver.Value, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}

func TestOracleDialect_UpsertInstrument_QueryGeneration(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer func() {
		_ = db.Close()
	}()

	dialect := &OracleDialect{}
	inst := sampleInstrument()

	mock.ExpectBegin()
	tx, err := db.Begin()
	assert.NoError(t, err)

	update := []any{
		inst.Name, "index", "dax", "long", "vontobel", inst.ISIN, "19500", "",
		"1 : 100", "0,5", "", 1, sqlmock.AnyArg(),
	}
	args := []any{inst.ID}
	args = append(args, update...)
	args = append(args, inst.ID)
	args = append(args, update...)
	assert.Len(t, args, 28)

	mock.ExpectExec("MERGE INTO instruments t").
		WithArgs(toDriverArgs(args)...).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = dialect.UpsertInstrument(context.Background(), tx, &inst)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOracleDialect_Migrate_IgnoresExistingObjects(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer func() {
		_ = db.Close()
	}()

	mock.ExpectExec("CREATE TABLE instruments").
		WillReturnError(errors.New("ORA-00955: name is already used by an existing object"))
	mock.ExpectExec("CREATE INDEX").
		WillReturnError(errors.New("ORA-00955: name is already used by an existing object"))

	err = (&OracleDialect{}).Migrate(context.Background(), db)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOracleDialect_Migrate_Failure(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer func() {
		_ = db.Close()
	}()

	mock.ExpectExec("CREATE TABLE instruments").
		WillReturnError(errors.New("ORA-01031: insufficient privileges"))

	err = (&OracleDialect{}).Migrate(context.Background(), db)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ORA-01031")
}
