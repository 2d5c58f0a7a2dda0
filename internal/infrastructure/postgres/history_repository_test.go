package postgres_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/kardex-pro/internal/domain/repository"
	"github.com/tu-usuario/kardex-pro/internal/infrastructure/postgres"
	"github.com/tu-usuario/kardex-pro/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

// viewlessDB simula un esquema desplegado sin la vista v_stock_history: las
// consultas a la vista devuelven 42P01 y las de tablas base, cero filas.
type viewlessDB struct {
	mu      sync.Mutex
	queries []string
}

func (db *viewlessDB) record(sql string) {
	db.mu.Lock()
	db.queries = append(db.queries, sql)
	db.mu.Unlock()
}

func (db *viewlessDB) lastQuery() string {
	db.mu.Lock()
	defer db.mu.Unlock()
	if len(db.queries) == 0 {
		return ""
	}
	return db.queries[len(db.queries)-1]
}

func (db *viewlessDB) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (db *viewlessDB) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	db.record(sql)
	if strings.Contains(sql, "v_stock_history") {
		return nil, &pgconn.PgError{Code: "42P01", Message: `relation "v_stock_history" does not exist`}
	}
	return emptyRows{}, nil
}

func (db *viewlessDB) QueryRow(context.Context, string, ...any) pgx.Row {
	return nil
}

// emptyRows es un pgx.Rows sin filas; solo se tocan Next/Err/Close.
type emptyRows struct{ pgx.Rows }

func (emptyRows) Next() bool { return false }
func (emptyRows) Err() error { return nil }
func (emptyRows) Close()     {}

// ──────────────────────────────────────────────────────────────────────────────
// Fallback vista → tablas base
// ──────────────────────────────────────────────────────────────────────────────

// El repositorio es compartido por todos los handlers: varias peticiones
// pueden disparar el 42P01 a la vez y todas deben terminar bien, sin carrera
// sobre la bandera de fallback (correr con -race).
func TestHistoryRepository_FallbackConcurrenteATablasBase(t *testing.T) {
	db := &viewlessDB{}
	repo := postgres.NewHistoryRepository(db, postgres.RetryPolicy{}, logger.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.ListPage(repository.HistoryFilter{}, 20, 0)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// Con el fallback ya detectado, las lecturas siguientes van directo a
	// las tablas base.
	entries, err := repo.ListPage(repository.HistoryFilter{}, 20, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)

	last := db.lastQuery()
	assert.Contains(t, last, "stock_movement_ledger")
	assert.NotContains(t, last, "v_stock_history")
}
