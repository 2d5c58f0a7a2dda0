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

// SaleUseCase crea y anula ventas. Cada operación es una transacción única:
// encabezado + líneas + movimientos SALE_OUT + decremento de saldos (o el
// reverso completo al anular). El ledger nunca pierde filas: la anulación
// agrega movimientos SALE_CANCELLED y marca el encabezado.
type SaleUseCase struct {
	txRunner TxRunner
	skus     repository.SKURepository
	scope    entity.LocationScope
	log      *logger.Logger
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(txRunner TxRunner, skus repository.SKURepository, scope entity.LocationScope, log *logger.Logger) *SaleUseCase {
	return &SaleUseCase{txRunner: txRunner, skus: skus, scope: scope, log: log}
}

// CreateSale valida las líneas y registra la venta. Stock insuficiente en
// cualquier línea aborta la secuencia completa antes de mutar nada.
func (uc *SaleUseCase) CreateSale(ctx context.Context, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	location := in.Location
	if location == "" {
		location = uc.scope.Primary()
	}
	if !uc.scope.Contains(location) {
		return nil, domain.ErrInvalidInput
	}
	for _, line := range in.Lines {
		if !line.Quantity.IsPositive() {
			return nil, domain.ErrInvalidInput
		}
		sku, err := uc.skus.GetByID(line.SKUID)
		if err != nil {
			return nil, err
		}
		if sku == nil {
			return nil, domain.ErrNotFound
		}
	}

	now := time.Now()
	date := now
	if in.Date != nil {
		date = *in.Date
	}
	header := &entity.SaleHeader{
		ID:        uuid.New().String(),
		Number:    in.Number,
		Date:      date,
		Location:  location,
		CreatedAt: now,
		CreatedBy: in.CreatedBy,
	}

	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		balanceRepo repository.BalanceRepository,
		saleRepo repository.SaleRepository,
		_ repository.CountRepository,
	) error {
		if err := saleRepo.CreateHeader(header); err != nil {
			return err
		}
		for _, line := range in.Lines {
			bal, err := balanceRepo.GetForUpdate(line.SKUID, location)
			if err != nil {
				return err
			}
			if bal.Quantity.LessThan(line.Quantity) {
				return domain.ErrInsufficientStock
			}
			bal.Quantity = bal.Quantity.Sub(line.Quantity)
			bal.UpdatedAt = now
			if err := balanceRepo.Upsert(bal); err != nil {
				return err
			}
			if err := saleRepo.CreateLine(&entity.SaleLineItem{
				ID:       uuid.New().String(),
				SaleID:   header.ID,
				SKUID:    line.SKUID,
				Quantity: line.Quantity,
			}); err != nil {
				return err
			}
			if err := movRepo.Append(&entity.StockMovement{
				ID:                  uuid.New().String(),
				SKUID:               line.SKUID,
				Type:                entity.MovementSaleOut,
				SourceLocation:      location,
				DestinationLocation: "customer",
				Quantity:            line.Quantity,
				Reference:           header.ID,
				Note:                "venta " + in.Number,
				CreatedAt:           now,
				CreatedBy:           in.CreatedBy,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("sale_id", header.ID).Str("number", in.Number).Msg("venta registrada")
	return &dto.SaleResponse{
		ID:       header.ID,
		Number:   header.Number,
		Date:     header.Date,
		Location: header.Location,
		Lines:    in.Lines,
	}, nil
}

// CancelSale anula una venta viva: marca el encabezado, restituye los saldos
// y agrega un SALE_CANCELLED por línea. El replay excluye estos reversos de
// las entradas y la cifra de ventas vivas deja de incluir la venta, así que
// no hay doble conteo.
func (uc *SaleUseCase) CancelSale(ctx context.Context, saleID, actor string) error {
	now := time.Now()
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		balanceRepo repository.BalanceRepository,
		saleRepo repository.SaleRepository,
		_ repository.CountRepository,
	) error {
		header, lines, err := saleRepo.GetByID(saleID)
		if err != nil {
			return err
		}
		if header == nil {
			return domain.ErrNotFound
		}
		if !header.Active() {
			return domain.ErrSaleCancelled
		}
		if err := saleRepo.MarkCancelled(saleID, now); err != nil {
			return err
		}
		for _, line := range lines {
			bal, err := balanceRepo.GetForUpdate(line.SKUID, header.Location)
			if err != nil {
				return err
			}
			bal.Quantity = bal.Quantity.Add(line.Quantity)
			bal.UpdatedAt = now
			if err := balanceRepo.Upsert(bal); err != nil {
				return err
			}
			if err := movRepo.Append(&entity.StockMovement{
				ID:                  uuid.New().String(),
				SKUID:               line.SKUID,
				Type:                entity.MovementSaleCancelled,
				SourceLocation:      "customer",
				DestinationLocation: header.Location,
				Quantity:            line.Quantity,
				Reference:           header.ID,
				Note:                "anulación venta " + header.Number,
				CreatedAt:           now,
				CreatedBy:           actor,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("sale_id", saleID).Msg("venta anulada")
	return nil
}
