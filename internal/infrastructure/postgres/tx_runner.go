package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tu-usuario/kardex-pro/internal/domain/repository"
)

// TxRunner ejecuta secuencias de escritura en una sola transacción
// PostgreSQL, pasando al callback repositorios ligados a la tx. O se aplica
// todo (ledger + saldo + documento) o nada: nunca un estado a medias.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner crea el runner sobre el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run abre una transacción, construye los repositorios sobre ella e invoca fn.
// Si fn devuelve error se hace rollback; si no, commit.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	balanceRepo repository.BalanceRepository,
	saleRepo repository.SaleRepository,
	countRepo repository.CountRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("iniciar transacción: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback tras commit es no-op

	err = fn(
		NewMovementRepository(tx),
		NewBalanceRepository(tx),
		NewSaleRepository(tx),
		NewCountRepository(tx),
	)
	if err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
