package stock

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
	"github.com/tu-usuario/kardex-pro/internal/domain/repository"
	"github.com/tu-usuario/kardex-pro/pkg/logger"
)

// CheckpointResolver encuentra el checkpoint de conteo físico más reciente
// para un SKU dentro de un alcance, consultando las tres fuentes de evidencia
// y quedándose con la de timestamp efectivo más tardío.
type CheckpointResolver struct {
	movements repository.MovementRepository
	counts    repository.CountRepository
	log       *logger.Logger
}

// NewCheckpointResolver construye el resolver.
func NewCheckpointResolver(
	movements repository.MovementRepository,
	counts repository.CountRepository,
	log *logger.Logger,
) *CheckpointResolver {
	return &CheckpointResolver{movements: movements, counts: counts, log: log}
}

// Resolve devuelve el checkpoint ganador o nil si no existe ninguno.
// nil no es un error: significa baseline 0 con todo el historial en juego,
// un estado distinto de "cantidad cero en un checkpoint conocido".
//
// Si el operador pasa un corte manual, este manda sobre cualquier candidato
// automático: el corte es el suyo y el baseline sale del mejor candidato
// aplicado en o antes de ese instante (cero si no hay).
func (r *CheckpointResolver) Resolve(
	_ context.Context,
	skuID string,
	scope entity.LocationScope,
	manualCutoff *time.Time,
) (*entity.ResolvedCheckpoint, error) {
	candidates := r.gather(skuID, scope)

	if manualCutoff != nil {
		baseline := decimal.Zero
		var bestTS time.Time
		for _, c := range candidates {
			ts := c.EffectiveTimestamp()
			if ts.After(*manualCutoff) {
				continue
			}
			if ts.After(bestTS) {
				bestTS = ts
				baseline = c.CountedQuantity
			}
		}
		return &entity.ResolvedCheckpoint{
			CutoffTimestamp:  *manualCutoff,
			BaselineQuantity: baseline,
			Source:           entity.CheckpointManual,
		}, nil
	}

	if len(candidates) == 0 {
		return nil, nil
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.EffectiveTimestamp().After(best.EffectiveTimestamp()) {
			best = c
		}
	}
	return &entity.ResolvedCheckpoint{
		CutoffTimestamp:  best.EffectiveTimestamp(),
		BaselineQuantity: best.CountedQuantity,
		Source:           best.Source,
	}, nil
}

// gather consulta las tres fuentes. Un fallo de lectura en una fuente degrada
// a "sin candidato" con warning; las demás siguen en juego.
func (r *CheckpointResolver) gather(skuID string, scope entity.LocationScope) []entity.CheckpointCandidate {
	var out []entity.CheckpointCandidate

	if c, err := r.counts.LatestSessionCandidate(skuID, scope); err != nil {
		r.log.Warn().Err(err).Str("sku_id", skuID).Msg("candidato de sesión de conteo no disponible")
	} else if c != nil {
		out = append(out, *c)
	}

	if c, err := r.counts.LatestArchiveCandidate(skuID, scope); err != nil {
		r.log.Warn().Err(err).Str("sku_id", skuID).Msg("candidato de archivo de conteo no disponible")
	} else if c != nil {
		out = append(out, *c)
	}

	if m, err := r.movements.LatestCountEvent(skuID, scope); err != nil {
		r.log.Warn().Err(err).Str("sku_id", skuID).Msg("candidato del ledger no disponible")
	} else if m != nil {
		out = append(out, entity.CheckpointCandidate{
			Source:          entity.CheckpointFromLedger,
			CountedQuantity: m.Quantity,
			CreatedAt:       m.CreatedAt,
		})
	}

	return out
}
