package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una sesión de conteo físico.
const (
	CountSessionInProgress = "in_progress"
	CountSessionFinalized  = "finalized"
)

// PhysicalCountSession es el encabezado de una sesión de conteo físico
// (stock opname) sobre una ubicación.
type PhysicalCountSession struct {
	ID            string
	Location      string
	EffectiveDate time.Time
	Status        string // in_progress | finalized
	CreatedAt     time.Time
	CreatedBy     string
}

// Finalized indica si la sesión ya fue aplicada.
func (s *PhysicalCountSession) Finalized() bool {
	return s.Status == CountSessionFinalized
}

// Estados de un ítem de conteo archivado.
const (
	CountItemDraft   = "draft"
	CountItemApplied = "applied"
)

// PhysicalCountItem es el registro de archivo por SKU de un conteo físico.
// Una vez aplicado es inmutable y sirve como baseline confiable.
type PhysicalCountItem struct {
	ID              string
	SessionID       string
	SKUID           string
	Location        string
	CountedQuantity decimal.Decimal
	SystemQuantity  decimal.Decimal
	Variance        decimal.Decimal // counted - system (selisih)
	Status          string          // draft | applied
	EffectiveDate   *time.Time
	CreatedAt       time.Time
}

// CheckpointSource identifica cuál de las fuentes de evidencia de conteo
// produjo un candidato. Se reporta al operador para trazabilidad.
type CheckpointSource string

const (
	CheckpointFromSession CheckpointSource = "count_session" // encabezado de sesión finalizada
	CheckpointFromArchive CheckpointSource = "count_item"    // ítem de archivo aplicado
	CheckpointFromLedger  CheckpointSource = "ledger_event"  // movimiento COUNT_APPLIED
	CheckpointManual      CheckpointSource = "manual"        // corte explícito del operador
)

// CheckpointCandidate es la unión etiquetada sobre las tres fuentes de
// checkpoint: todas se comparan con el mismo timestamp efectivo en lugar de
// comparaciones de fechas ad hoc por tabla.
type CheckpointCandidate struct {
	Source          CheckpointSource
	CountedQuantity decimal.Decimal
	AppliedAt       *time.Time // momento de aplicación explícito, si existe
	CreatedAt       time.Time  // fallback cuando no hay AppliedAt
}

// EffectiveTimestamp devuelve el instante a usar para comparar candidatos:
// preferir AppliedAt, caer a CreatedAt.
func (c CheckpointCandidate) EffectiveTimestamp() time.Time {
	if c.AppliedAt != nil && !c.AppliedAt.IsZero() {
		return *c.AppliedAt
	}
	return c.CreatedAt
}

// ResolvedCheckpoint es el checkpoint ganador de una resolución.
// La ausencia de checkpoint se representa con un puntero nil en los
// consumidores, nunca con cantidad cero: "sin checkpoint" y "checkpoint en
// cero" son estados distintos.
type ResolvedCheckpoint struct {
	CutoffTimestamp  time.Time
	BaselineQuantity decimal.Decimal
	Source           CheckpointSource
}
