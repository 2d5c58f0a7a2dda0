package repository

import (
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
)

// MovementRepository define el puerto de persistencia del ledger de
// movimientos (append-only: no hay Update ni Delete).
type MovementRepository interface {
	// Append agrega un evento al ledger.
	Append(m *entity.StockMovement) error
	// ListBySKUInScope devuelve los movimientos del SKU cuyo origen o destino
	// cae en el alcance, más reciente primero, paginado. El llamador pagina
	// hasta página corta cuando necesita el historial exacto completo.
	ListBySKUInScope(skuID string, scope entity.LocationScope, limit, offset int) ([]*entity.StockMovement, error)
	// LatestCountEvent devuelve el movimiento COUNT_APPLIED más reciente del
	// SKU dentro del alcance, o nil si no existe.
	LatestCountEvent(skuID string, scope entity.LocationScope) (*entity.StockMovement, error)
}
