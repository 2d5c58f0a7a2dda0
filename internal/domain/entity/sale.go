package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleHeader es el encabezado de una venta. Las ventas vivas (no anuladas)
// son la fuente autoritativa de salidas por venta: el ledger conserva los
// SALE_OUT de ventas luego anuladas, por eso el replay no puede confiar en él
// a ciegas.
type SaleHeader struct {
	ID          string
	Number      string
	Date        time.Time
	Location    string // ubicación desde la que salió la mercancía
	CancelledAt *time.Time
	CreatedAt   time.Time
	CreatedBy   string
}

// Active indica si la venta sigue viva.
func (s *SaleHeader) Active() bool { return s.CancelledAt == nil }

// SaleLineItem es una línea de venta por SKU.
type SaleLineItem struct {
	ID       string
	SaleID   string
	SKUID    string
	Quantity decimal.Decimal
}
