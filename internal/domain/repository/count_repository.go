package repository

import (
	"time"

	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
)

// CountRepository define el puerto para sesiones e ítems de conteo físico,
// incluyendo las dos fuentes de candidatos de checkpoint basadas en tablas
// (la tercera fuente, el evento del ledger, vive en MovementRepository).
type CountRepository interface {
	CreateSession(s *entity.PhysicalCountSession) error
	GetSessionByID(id string) (*entity.PhysicalCountSession, error)
	MarkSessionFinalized(id string, at time.Time) error
	CreateItem(item *entity.PhysicalCountItem) error
	// LatestSessionCandidate arma un candidato desde la sesión finalizada más
	// reciente que archive un ítem del SKU dentro del alcance; nil si no hay.
	LatestSessionCandidate(skuID string, scope entity.LocationScope) (*entity.CheckpointCandidate, error)
	// LatestArchiveCandidate arma un candidato desde el ítem de archivo
	// aplicado más reciente del SKU dentro del alcance; nil si no hay.
	LatestArchiveCandidate(skuID string, scope entity.LocationScope) (*entity.CheckpointCandidate, error)
}
