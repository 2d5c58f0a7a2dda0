package stock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/kardex-pro/internal/application/dto"
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
	"github.com/tu-usuario/kardex-pro/internal/domain/repository"
	"github.com/tu-usuario/kardex-pro/pkg/logger"
)

// ResyncUseCase aplica la acción explícita del operador de resincronizar el
// saldo materializado con el valor derivado del ledger. Escribe exactamente
// un movimiento CORRECTION más la actualización del saldo, ambos dentro de la
// misma transacción: los dos efectos o ninguno. Idempotente: con deriva cero
// no escribe nada.
type ResyncUseCase struct {
	breakdown *BreakdownUseCase
	txRunner  TxRunner
	scope     entity.LocationScope
	log       *logger.Logger
}

// NewResyncUseCase construye el caso de uso.
func NewResyncUseCase(breakdown *BreakdownUseCase, txRunner TxRunner, scope entity.LocationScope, log *logger.Logger) *ResyncUseCase {
	return &ResyncUseCase{breakdown: breakdown, txRunner: txRunner, scope: scope, log: log}
}

// Resync recomputa el saldo y, si hay deriva, la corrige sobre la ubicación
// primaria del alcance. El movimiento CORRECTION queda fuera del replay (ver
// ledger.Replay), así que el saldo sobrescrito y el derivado coinciden en la
// siguiente consulta.
//
// El desglose de lectura degrada fallos transitorios a ceros con warning;
// eso sirve para mostrar, no para escribir. Por eso el delta NO se toma del
// desglose: el saldo materializado se recalcula dentro de la transacción y
// cualquier fallo de esa lectura aborta el resync completo en lugar de
// aplicar un ajuste derivado de datos degradados.
func (uc *ResyncUseCase) Resync(ctx context.Context, skuID, actor string) (*dto.ResyncResponse, error) {
	bd, err := uc.breakdown.GetBreakdown(ctx, skuID, nil)
	if err != nil {
		return nil, err
	}

	computed := bd.Reconciliation.ComputedBalance
	resp := &dto.ResyncResponse{
		SKUID:           skuID,
		ComputedBalance: computed,
		Discrepancy:     bd.Reconciliation.Discrepancy,
	}
	if bd.Reconciliation.InSync {
		resp.Applied = false
		return resp, nil
	}

	correctionID := uuid.New().String()
	now := time.Now()
	primary := uc.scope.Primary()
	applied := false

	err = uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		balanceRepo repository.BalanceRepository,
		_ repository.SaleRepository,
		_ repository.CountRepository,
	) error {
		// Valor materializado fresco, dentro de la tx: aquí un error es un
		// error, nunca un cero silencioso.
		materialized, merr := balanceRepo.SumInScope(skuID, uc.scope)
		if merr != nil {
			return merr
		}
		delta := computed.Sub(materialized)
		resp.Discrepancy = materialized.Sub(computed)
		if delta.IsZero() {
			// La deriva que vio el desglose ya no existe (o venía de una
			// lectura degradada): no hay nada que corregir.
			return nil
		}

		bal, berr := balanceRepo.GetForUpdate(skuID, primary)
		if berr != nil {
			return berr
		}
		bal.Quantity = bal.Quantity.Add(delta)
		bal.UpdatedAt = now
		if uerr := balanceRepo.Upsert(bal); uerr != nil {
			return uerr
		}

		corr := &entity.StockMovement{
			ID:        correctionID,
			SKUID:     skuID,
			Type:      entity.MovementCorrection,
			Quantity:  delta.Abs(),
			Note:      fmt.Sprintf("resync: materializado %s -> computado %s", materialized, computed),
			CreatedAt: now,
			CreatedBy: actor,
		}
		if delta.IsPositive() {
			corr.SourceLocation = "reconciliation"
			corr.DestinationLocation = primary
		} else {
			corr.SourceLocation = primary
			corr.DestinationLocation = "reconciliation"
		}
		if aerr := movRepo.Append(corr); aerr != nil {
			return aerr
		}
		applied = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !applied {
		resp.Applied = false
		return resp, nil
	}

	uc.log.Info().
		Str("sku_id", skuID).
		Str("correction_id", correctionID).
		Str("discrepancy", resp.Discrepancy.String()).
		Msg("resync aplicado")

	resp.Applied = true
	resp.CorrectionID = correctionID
	return resp, nil
}
