package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OpenCountSessionRequest body para POST /api/opname/sessions.
type OpenCountSessionRequest struct {
	Location      string     `json:"location" validate:"required"`
	EffectiveDate *time.Time `json:"effective_date,omitempty"` // default: ahora
	CreatedBy     string     `json:"created_by"`
}

// CountItemRequest cantidad contada físicamente para un SKU.
type CountItemRequest struct {
	SKUID           string          `json:"sku_id" validate:"required"`
	CountedQuantity decimal.Decimal `json:"counted_quantity"`
}

// FinalizeCountSessionRequest body para POST /api/opname/sessions/:id/finalize.
type FinalizeCountSessionRequest struct {
	Items []CountItemRequest `json:"items" validate:"required,min=1,dive"`
}

// CountItemResultDTO resultado por SKU al finalizar una sesión.
type CountItemResultDTO struct {
	SKUID           string          `json:"sku_id"`
	SystemQuantity  decimal.Decimal `json:"system_quantity"`
	CountedQuantity decimal.Decimal `json:"counted_quantity"`
	Variance        decimal.Decimal `json:"variance"`
}

// FinalizeCountSessionResponse respuesta al finalizar la sesión.
type FinalizeCountSessionResponse struct {
	SessionID   string               `json:"session_id"`
	Location    string               `json:"location"`
	FinalizedAt time.Time            `json:"finalized_at"`
	Items       []CountItemResultDTO `json:"items"`
}
