package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MovementType clasifica un movimiento del ledger con un enum estructurado.
// La clasificación vive en el registro, no en el texto libre de la nota.
type MovementType string

const (
	MovementFactoryIn       MovementType = "FACTORY_IN"        // recepción desde fábrica
	MovementRackTransferIn  MovementType = "RACK_TRANSFER_IN"  // entrada a rack/exhibición
	MovementRackTransferOut MovementType = "RACK_TRANSFER_OUT" // salida de rack/exhibición
	MovementSaleOut         MovementType = "SALE_OUT"          // salida por venta
	MovementSaleCancelled   MovementType = "SALE_CANCELLED"    // reverso de una venta anulada
	MovementReturnIn        MovementType = "RETURN_IN"         // retorno de mercancía al alcance
	MovementCountApplied    MovementType = "COUNT_APPLIED"     // conteo físico aplicado (checkpoint)
	MovementCorrection      MovementType = "CORRECTION"        // ajuste de reconciliación (resync)
	MovementOther           MovementType = "OTHER"             // merma, baja, otros
)

// Valid indica si el tipo pertenece al enum.
func (t MovementType) Valid() bool {
	switch t {
	case MovementFactoryIn, MovementRackTransferIn, MovementRackTransferOut,
		MovementSaleOut, MovementSaleCancelled, MovementReturnIn,
		MovementCountApplied, MovementCorrection, MovementOther:
		return true
	}
	return false
}

// IsReversal indica si el tipo representa el deshacer de una salida previa.
// Estos movimientos no cuentan como entrada real en el replay.
func (t MovementType) IsReversal() bool {
	return t == MovementSaleCancelled
}

// Direction devuelve la dirección nominal del tipo para la vista de
// auditoría: "in", "out", "count" o "" cuando depende del contexto
// (CORRECTION lleva su dirección en origen/destino).
func (t MovementType) Direction() string {
	switch t {
	case MovementFactoryIn, MovementRackTransferIn, MovementReturnIn, MovementSaleCancelled:
		return "in"
	case MovementSaleOut, MovementRackTransferOut, MovementOther:
		return "out"
	case MovementCountApplied:
		return "count"
	}
	return ""
}

// StockMovement es un evento inmutable del ledger de movimientos.
// Append-only: nunca se actualiza ni se borra; las correcciones agregan
// nuevos registros. Quantity es siempre una magnitud positiva y la dirección
// la dan el tipo y las ubicaciones origen/destino.
type StockMovement struct {
	ID                  string
	SKUID               string
	Type                MovementType
	SourceLocation      string
	DestinationLocation string
	Quantity            decimal.Decimal
	Reference           string // id de venta, sesión de conteo, etc.
	Note                string // texto libre, solo informativo
	CreatedAt           time.Time
	CreatedBy           string
}

// MovementTypeFromLegacyNote mapea las cadenas libres del sistema anterior al
// enum estructurado. Única pieza que conoce los literales históricos; el job
// de migración es su único consumidor previsto.
func MovementTypeFromLegacyNote(note string) MovementType {
	n := strings.ToLower(note)
	switch {
	case strings.Contains(n, "pembatalan"), strings.Contains(n, "batal"):
		return MovementSaleCancelled
	case strings.Contains(n, "koreksi"):
		return MovementCorrection
	case strings.Contains(n, "opname"):
		return MovementCountApplied
	case strings.Contains(n, "retur"):
		return MovementReturnIn
	case strings.Contains(n, "pabrik"):
		return MovementFactoryIn
	}
	return MovementOther
}
