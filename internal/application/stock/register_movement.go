package stock

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/kardex-pro/internal/application/dto"
	"github.com/tu-usuario/kardex-pro/internal/domain"
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
	"github.com/tu-usuario/kardex-pro/internal/domain/repository"
	"github.com/tu-usuario/kardex-pro/pkg/logger"
)

// RegisterMovementUseCase registra movimientos generales del ledger
// (recepción de fábrica, traslados, retornos, otros) de forma transaccional:
// append al ledger + actualización del saldo materializado, ambos o ninguno.
// Ventas, conteos y correcciones tienen sus propios flujos.
type RegisterMovementUseCase struct {
	txRunner TxRunner
	skus     repository.SKURepository
	scope    entity.LocationScope
	factory  string
	log      *logger.Logger
}

// NewRegisterMovementUseCase construye el caso de uso. factory es la ubicación
// origen implícita de las recepciones de fábrica.
func NewRegisterMovementUseCase(txRunner TxRunner, skus repository.SKURepository, scope entity.LocationScope, factory string, log *logger.Logger) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{txRunner: txRunner, skus: skus, scope: scope, factory: factory, log: log}
}

// Register valida y persiste el movimiento; devuelve el ID asignado.
// La validación de stock suficiente corta antes de cualquier mutación
// parcial: si la ubicación origen está en el alcance y no alcanza la
// cantidad, nada se escribe.
func (uc *RegisterMovementUseCase) Register(ctx context.Context, in dto.RegisterMovementRequest) (string, error) {
	mtype := entity.MovementType(in.Type)
	if !mtype.Valid() {
		return "", domain.ErrInvalidInput
	}
	switch mtype {
	case entity.MovementSaleOut, entity.MovementSaleCancelled,
		entity.MovementCountApplied, entity.MovementCorrection:
		// estos tipos nacen de sus flujos dedicados
		return "", domain.ErrInvalidInput
	}
	if !in.Quantity.IsPositive() {
		return "", domain.ErrInvalidInput
	}
	// Recepción de fábrica sin origen explícito: sale de la fábrica configurada.
	if mtype == entity.MovementFactoryIn && in.SourceLocation == "" {
		in.SourceLocation = uc.factory
	}
	if in.SourceLocation == "" && in.DestinationLocation == "" {
		return "", domain.ErrInvalidInput
	}

	sku, err := uc.skus.GetByID(in.SKUID)
	if err != nil {
		return "", err
	}
	if sku == nil {
		return "", domain.ErrNotFound
	}

	now := time.Now()
	mov := &entity.StockMovement{
		ID:                  uuid.New().String(),
		SKUID:               in.SKUID,
		Type:                mtype,
		SourceLocation:      in.SourceLocation,
		DestinationLocation: in.DestinationLocation,
		Quantity:            in.Quantity,
		Note:                in.Note,
		CreatedAt:           now,
		CreatedBy:           in.CreatedBy,
	}

	err = uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		balanceRepo repository.BalanceRepository,
		_ repository.SaleRepository,
		_ repository.CountRepository,
	) error {
		if uc.scope.Contains(in.SourceLocation) {
			src, berr := balanceRepo.GetForUpdate(in.SKUID, in.SourceLocation)
			if berr != nil {
				return berr
			}
			if src.Quantity.LessThan(in.Quantity) {
				return domain.ErrInsufficientStock
			}
			src.Quantity = src.Quantity.Sub(in.Quantity)
			src.UpdatedAt = now
			if uerr := balanceRepo.Upsert(src); uerr != nil {
				return uerr
			}
		}
		if uc.scope.Contains(in.DestinationLocation) {
			dst, berr := balanceRepo.GetForUpdate(in.SKUID, in.DestinationLocation)
			if berr != nil {
				return berr
			}
			dst.Quantity = dst.Quantity.Add(in.Quantity)
			dst.UpdatedAt = now
			if uerr := balanceRepo.Upsert(dst); uerr != nil {
				return uerr
			}
		}
		return movRepo.Append(mov)
	})
	if err != nil {
		return "", err
	}

	uc.log.Debug().
		Str("sku_id", in.SKUID).
		Str("type", in.Type).
		Str("quantity", in.Quantity.String()).
		Msg("movimiento registrado")
	return mov.ID, nil
}
