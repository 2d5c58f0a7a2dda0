package repository

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
)

// BalanceRepository define el puerto para el saldo materializado por
// SKU+ubicación. Se usa dentro de transacciones para mantener el caché
// consistente con el ledger.
type BalanceRepository interface {
	Get(skuID, location string) (*entity.StockBalance, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) dentro de una tx.
	GetForUpdate(skuID, location string) (*entity.StockBalance, error)
	// Upsert inserta o actualiza, clave sku_id+location.
	Upsert(b *entity.StockBalance) error
	// SumInScope suma el saldo materializado del SKU sobre las ubicaciones
	// del alcance.
	SumInScope(skuID string, scope entity.LocationScope) (decimal.Decimal, error)
}
