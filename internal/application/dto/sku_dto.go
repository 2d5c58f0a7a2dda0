package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSKURequest body para POST /api/skus.
type CreateSKURequest struct {
	Code      string          `json:"code" validate:"required"`
	Name      string          `json:"name" validate:"required"`
	Unit      string          `json:"unit"`
	Category  string          `json:"category"`
	CostBasis decimal.Decimal `json:"cost_basis"`
}

// SKUResponse representación de un SKU.
type SKUResponse struct {
	ID        string          `json:"id"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Unit      string          `json:"unit"`
	Category  string          `json:"category"`
	CostBasis decimal.Decimal `json:"cost_basis"`
	CreatedAt time.Time       `json:"created_at"`
}
