package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SKU representa un artículo del maestro de productos. Dato de referencia:
// el núcleo del ledger nunca lo muta.
type SKU struct {
	ID        string
	Code      string // código único
	Name      string
	Unit      string // unidad de medida (pza, caja, kg)
	Category  string
	CostBasis decimal.Decimal // costo de referencia
	CreatedAt time.Time
	UpdatedAt time.Time
}
