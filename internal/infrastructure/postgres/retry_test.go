package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
	"github.com/tu-usuario/kardex-pro/internal/infrastructure/postgres"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

// flakyDB falla las primeras N lecturas con un error transitorio de red y
// después responde; cuenta los intentos.
type flakyDB struct {
	failures int
	calls    int
	result   decimal.Decimal
}

func (db *flakyDB) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (db *flakyDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return emptyRows{}, nil
}

func (db *flakyDB) QueryRow(context.Context, string, ...any) pgx.Row {
	return flakyRow{db: db}
}

type flakyRow struct{ db *flakyDB }

func (r flakyRow) Scan(dest ...any) error {
	r.db.calls++
	if r.db.failures > 0 {
		r.db.failures--
		return errors.New("read tcp 10.0.0.1:5432: connection refused")
	}
	if d, ok := dest[0].(*decimal.Decimal); ok {
		*d = r.db.result
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Política de reintentos
// ──────────────────────────────────────────────────────────────────────────────

func TestRetryPolicy_SoloReintentaTransitorios(t *testing.T) {
	policy := postgres.RetryPolicy{Attempts: 3, BaseDelay: time.Millisecond}

	// Transitorio: reintenta hasta que funciona
	calls := 0
	err := policy.Do("op", func() error {
		calls++
		if calls < 3 {
			return errors.New("connection reset by peer")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)

	// No transitorio: devuelve de inmediato
	calls = 0
	permanent := errors.New("syntax error at or near")
	err = policy.Do("op", func() error {
		calls++
		return permanent
	})
	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

// Las lecturas de los repositorios sobre el pool pasan por la política: un
// fallo transitorio de red no llega al llamador si un reintento lo resuelve.
func TestBalanceRepository_ReintentaLecturaTransitoria(t *testing.T) {
	db := &flakyDB{failures: 2, result: decimal.NewFromInt(42)}
	repo := postgres.NewBalanceRepository(db).
		WithRetry(postgres.RetryPolicy{Attempts: 3, BaseDelay: time.Millisecond})

	total, err := repo.SumInScope("sku-1", entity.NewLocationScope("rack"))
	require.NoError(t, err)
	assert.Equal(t, "42", total.String())
	assert.Equal(t, 3, db.calls)
}

// Sin política (el caso de los repositorios que arma TxRunner dentro de una
// transacción) la lectura es un único intento.
func TestBalanceRepository_SinPoliticaUnSoloIntento(t *testing.T) {
	db := &flakyDB{failures: 1}
	repo := postgres.NewBalanceRepository(db)

	_, err := repo.SumInScope("sku-1", entity.NewLocationScope("rack"))
	require.Error(t, err)
	assert.Equal(t, 1, db.calls)
}
