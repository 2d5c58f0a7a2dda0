package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// HistoryQuery filtros de GET /api/mutations.
type HistoryQuery struct {
	From      string `query:"from"`      // RFC3339 o YYYY-MM-DD
	To        string `query:"to"`        //
	Direction string `query:"direction"` // "", in, out, count
	Search    string `query:"q"`
	PageRequest
}

// HistoryEntryDTO fila del historial enriquecida para la vista de auditoría.
type HistoryEntryDTO struct {
	ID                  string          `json:"id"`
	SKUID               string          `json:"sku_id"`
	SKUCode             string          `json:"sku_code"`
	SKUName             string          `json:"sku_name"`
	Type                string          `json:"type"`
	SourceLocation      string          `json:"source_location"`
	DestinationLocation string          `json:"destination_location"`
	Quantity            decimal.Decimal `json:"quantity"`
	Note                string          `json:"note,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
}

// HistoryListResponse página del historial.
type HistoryListResponse struct {
	Entries []HistoryEntryDTO `json:"entries"`
	Page    PageResponse      `json:"page"`
}

// GrandTotalResponse agregado exacto sobre el conjunto filtrado completo
// (se pagina todo el resultado, no solo la página visible).
type GrandTotalResponse struct {
	Rows        int             `json:"rows"`
	TotalIn     decimal.Decimal `json:"total_in"`
	TotalOut    decimal.Decimal `json:"total_out"`
	CountEvents int             `json:"count_events"`
}
