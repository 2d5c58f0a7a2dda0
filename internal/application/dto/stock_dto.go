package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/inventory/movements.
// Los tipos de venta, conteo y corrección tienen sus propios flujos y no se
// aceptan aquí.
type RegisterMovementRequest struct {
	SKUID               string          `json:"sku_id" validate:"required"`
	Type                string          `json:"type" validate:"required"`
	SourceLocation      string          `json:"source_location"`
	DestinationLocation string          `json:"destination_location"`
	Quantity            decimal.Decimal `json:"quantity"`
	Note                string          `json:"note"`
	CreatedBy           string          `json:"created_by"`
}

// CheckpointDTO checkpoint resuelto para la respuesta de desglose.
type CheckpointDTO struct {
	CutoffTimestamp  time.Time       `json:"cutoff_timestamp"`
	BaselineQuantity decimal.Decimal `json:"baseline_quantity"`
	Source           string          `json:"source"`
}

// MovementItemDTO una fila clasificada del desglose.
type MovementItemDTO struct {
	ID                  string          `json:"id"`
	Type                string          `json:"type"`
	Class               string          `json:"class"`
	SourceLocation      string          `json:"source_location"`
	DestinationLocation string          `json:"destination_location"`
	Quantity            decimal.Decimal `json:"quantity"`
	Note                string          `json:"note,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
}

// ReconciliationDTO resultado de comparar computado vs materializado.
type ReconciliationDTO struct {
	ComputedBalance decimal.Decimal `json:"computed_balance"`
	Materialized    decimal.Decimal `json:"materialized"`
	Discrepancy     decimal.Decimal `json:"discrepancy"`
	InSync          bool            `json:"in_sync"`
	Advice          string          `json:"advice"`
}

// StockBreakdownResponse respuesta de GET /api/stock/:skuID/breakdown.
type StockBreakdownResponse struct {
	SKUID          string            `json:"sku_id"`
	SKUCode        string            `json:"sku_code"`
	SKUName        string            `json:"sku_name"`
	Checkpoint     *CheckpointDTO    `json:"checkpoint"` // null = sin checkpoint (baseline 0)
	Baseline       decimal.Decimal   `json:"baseline"`
	TotalIn        decimal.Decimal   `json:"total_in"`
	TotalOutSales  decimal.Decimal   `json:"total_out_sales"`
	LedgerOutSales decimal.Decimal   `json:"ledger_out_sales"`
	TotalOutOther  decimal.Decimal   `json:"total_out_other"`
	Reconciliation ReconciliationDTO `json:"reconciliation"`
	Items          []MovementItemDTO `json:"items"`
}

// ResyncResponse respuesta de POST /api/stock/:skuID/resync.
type ResyncResponse struct {
	SKUID           string          `json:"sku_id"`
	Applied         bool            `json:"applied"` // false cuando ya estaba en sincronía
	ComputedBalance decimal.Decimal `json:"computed_balance"`
	Discrepancy     decimal.Decimal `json:"discrepancy"`
	CorrectionID    string          `json:"correction_id,omitempty"`
}
