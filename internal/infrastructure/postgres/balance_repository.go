package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
	"github.com/tu-usuario/kardex-pro/internal/domain/repository"
)

// BalanceRepository implementación PostgreSQL del saldo materializado.
type BalanceRepository struct {
	db    Querier
	retry RetryPolicy
}

// NewBalanceRepository crea el repositorio sobre un pool o una tx.
// Sin política de reintentos: cada lectura es un único intento.
func NewBalanceRepository(db Querier) *BalanceRepository {
	return &BalanceRepository{db: db}
}

// WithRetry devuelve el repositorio con reintentos en las lecturas simples.
// GetForUpdate queda fuera: corre dentro de una tx y bloquea filas.
func (r *BalanceRepository) WithRetry(p RetryPolicy) *BalanceRepository {
	r.retry = p
	return r
}

var _ repository.BalanceRepository = (*BalanceRepository)(nil)

// Get devuelve el saldo del SKU en la ubicación. Si no hay fila devuelve un
// saldo en cero: la ausencia del registro materializado equivale a cero.
func (r *BalanceRepository) Get(skuID, location string) (*entity.StockBalance, error) {
	var b *entity.StockBalance
	err := r.retry.Do("balance.get", func() error {
		var err error
		b, err = r.get(skuID, location, false)
		return err
	})
	return b, err
}

// GetForUpdate igual que Get pero bloquea la fila (SELECT FOR UPDATE).
// Solo tiene sentido dentro de una transacción.
func (r *BalanceRepository) GetForUpdate(skuID, location string) (*entity.StockBalance, error) {
	return r.get(skuID, location, true)
}

func (r *BalanceRepository) get(skuID, location string, forUpdate bool) (*entity.StockBalance, error) {
	query := `
		SELECT sku_id, location, quantity, updated_at
		FROM stock_balance
		WHERE sku_id = $1 AND LOWER(location) = LOWER($2)`
	if forUpdate {
		query += " FOR UPDATE"
	}

	var b entity.StockBalance
	err := r.db.QueryRow(context.Background(), query, skuID, location).
		Scan(&b.SKUID, &b.Location, &b.Quantity, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockBalance{
				SKUID:    skuID,
				Location: strings.ToLower(location),
				Quantity: decimal.Zero,
			}, nil
		}
		return nil, err
	}
	return &b, nil
}

// Upsert inserta o actualiza el saldo, clave sku_id+location.
func (r *BalanceRepository) Upsert(b *entity.StockBalance) error {
	if b.UpdatedAt.IsZero() {
		b.UpdatedAt = time.Now()
	}
	b.Location = strings.ToLower(b.Location)

	query := `
		INSERT INTO stock_balance (sku_id, location, quantity, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (sku_id, location)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = EXCLUDED.updated_at`

	_, err := r.db.Exec(context.Background(), query, b.SKUID, b.Location, b.Quantity, b.UpdatedAt)
	return err
}

// SumInScope suma el saldo materializado del SKU sobre las ubicaciones del
// alcance. Sin filas devuelve cero.
func (r *BalanceRepository) SumInScope(skuID string, scope entity.LocationScope) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.retry.Do("balance.sum_in_scope", func() error {
		var err error
		total, err = r.sumInScope(skuID, scope)
		return err
	})
	return total, err
}

func (r *BalanceRepository) sumInScope(skuID string, scope entity.LocationScope) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0)
		FROM stock_balance
		WHERE sku_id = $1 AND LOWER(location) = ANY($2)`

	var total decimal.Decimal
	err := r.db.QueryRow(context.Background(), query, skuID, scope.Names()).Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}
