package stock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/kardex-pro/internal/application/dto"
	"github.com/tu-usuario/kardex-pro/internal/domain"
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
	"github.com/tu-usuario/kardex-pro/internal/domain/repository"
	"github.com/tu-usuario/kardex-pro/pkg/logger"
)

// OpnameUseCase maneja las sesiones de conteo físico (stock opname): abrir
// una sesión y finalizarla. Finalizar aplica el conteo como checkpoint: por
// SKU escribe el ítem de archivo aplicado, agrega el COUNT_APPLIED al ledger
// y sobrescribe el saldo materializado con lo contado; luego marca la sesión
// como finalizada. Todo en una sola transacción.
type OpnameUseCase struct {
	txRunner TxRunner
	skus     repository.SKURepository
	scope    entity.LocationScope
	log      *logger.Logger
}

// NewOpnameUseCase construye el caso de uso.
func NewOpnameUseCase(txRunner TxRunner, skus repository.SKURepository, scope entity.LocationScope, log *logger.Logger) *OpnameUseCase {
	return &OpnameUseCase{txRunner: txRunner, skus: skus, scope: scope, log: log}
}

// OpenSession abre una sesión in_progress sobre una ubicación del alcance.
func (uc *OpnameUseCase) OpenSession(ctx context.Context, in dto.OpenCountSessionRequest) (*entity.PhysicalCountSession, error) {
	if !uc.scope.Contains(in.Location) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	effective := now
	if in.EffectiveDate != nil {
		effective = *in.EffectiveDate
	}
	session := &entity.PhysicalCountSession{
		ID:            uuid.New().String(),
		Location:      in.Location,
		EffectiveDate: effective,
		Status:        entity.CountSessionInProgress,
		CreatedAt:     now,
		CreatedBy:     in.CreatedBy,
	}
	err := uc.txRunner.Run(ctx, func(
		_ repository.MovementRepository,
		_ repository.BalanceRepository,
		_ repository.SaleRepository,
		countRepo repository.CountRepository,
	) error {
		return countRepo.CreateSession(session)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("session_id", session.ID).Str("location", in.Location).Msg("sesión de conteo abierta")
	return session, nil
}

// FinalizeSession aplica el conteo. Una sesión ya finalizada es inmutable:
// volver a finalizarla es ErrSessionFinalized, nunca una re-aplicación.
func (uc *OpnameUseCase) FinalizeSession(ctx context.Context, sessionID string, in dto.FinalizeCountSessionRequest) (*dto.FinalizeCountSessionResponse, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, item := range in.Items {
		if item.CountedQuantity.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		sku, err := uc.skus.GetByID(item.SKUID)
		if err != nil {
			return nil, err
		}
		if sku == nil {
			return nil, domain.ErrNotFound
		}
	}

	now := time.Now()
	resp := &dto.FinalizeCountSessionResponse{
		SessionID:   sessionID,
		FinalizedAt: now,
	}

	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		balanceRepo repository.BalanceRepository,
		_ repository.SaleRepository,
		countRepo repository.CountRepository,
	) error {
		session, err := countRepo.GetSessionByID(sessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return domain.ErrNotFound
		}
		if session.Finalized() {
			return domain.ErrSessionFinalized
		}
		resp.Location = session.Location

		for _, item := range in.Items {
			bal, err := balanceRepo.GetForUpdate(item.SKUID, session.Location)
			if err != nil {
				return err
			}
			system := bal.Quantity
			variance := item.CountedQuantity.Sub(system)

			effective := session.EffectiveDate
			if err := countRepo.CreateItem(&entity.PhysicalCountItem{
				ID:              uuid.New().String(),
				SessionID:       session.ID,
				SKUID:           item.SKUID,
				Location:        session.Location,
				CountedQuantity: item.CountedQuantity,
				SystemQuantity:  system,
				Variance:        variance,
				Status:          entity.CountItemApplied,
				EffectiveDate:   &effective,
				CreatedAt:       now,
			}); err != nil {
				return err
			}

			if err := movRepo.Append(&entity.StockMovement{
				ID:                  uuid.New().String(),
				SKUID:               item.SKUID,
				Type:                entity.MovementCountApplied,
				SourceLocation:      session.Location,
				DestinationLocation: session.Location,
				Quantity:            item.CountedQuantity,
				Reference:           session.ID,
				Note:                fmt.Sprintf("conteo físico, diferencia %s", variance),
				CreatedAt:           now,
				CreatedBy:           session.CreatedBy,
			}); err != nil {
				return err
			}

			bal.Quantity = item.CountedQuantity
			bal.UpdatedAt = now
			if err := balanceRepo.Upsert(bal); err != nil {
				return err
			}

			resp.Items = append(resp.Items, dto.CountItemResultDTO{
				SKUID:           item.SKUID,
				SystemQuantity:  system,
				CountedQuantity: item.CountedQuantity,
				Variance:        variance,
			})
		}
		return countRepo.MarkSessionFinalized(session.ID, now)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("session_id", sessionID).
		Int("items", len(resp.Items)).
		Msg("sesión de conteo finalizada y aplicada")
	return resp, nil
}
