package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockBalance es la cantidad materializada por SKU y ubicación: la vía
// rápida que muestran los listados. Es un caché derivado del ledger, nunca la
// fuente de verdad; puede derivar si algún paso de actualización se pierde y
// esa deriva es exactamente lo que detecta la reconciliación.
type StockBalance struct {
	SKUID     string
	Location  string
	Quantity  decimal.Decimal
	UpdatedAt time.Time
}
