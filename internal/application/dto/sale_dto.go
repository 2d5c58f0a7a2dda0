package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLineRequest una línea de venta.
type SaleLineRequest struct {
	SKUID    string          `json:"sku_id" validate:"required"`
	Quantity decimal.Decimal `json:"quantity"`
}

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	Number    string            `json:"number" validate:"required"`
	Date      *time.Time        `json:"date,omitempty"` // default: ahora
	Location  string            `json:"location,omitempty"`
	Lines     []SaleLineRequest `json:"lines" validate:"required,min=1,dive"`
	CreatedBy string            `json:"created_by"`
}

// SaleResponse venta creada o consultada.
type SaleResponse struct {
	ID          string            `json:"id"`
	Number      string            `json:"number"`
	Date        time.Time         `json:"date"`
	Location    string            `json:"location"`
	CancelledAt *time.Time        `json:"cancelled_at,omitempty"`
	Lines       []SaleLineRequest `json:"lines"`
}
