package stock

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/tu-usuario/kardex-pro/internal/application/dto"
	"github.com/tu-usuario/kardex-pro/internal/domain"
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
	"github.com/tu-usuario/kardex-pro/internal/domain/ledger"
	"github.com/tu-usuario/kardex-pro/internal/domain/repository"
	"github.com/tu-usuario/kardex-pro/pkg/logger"
)

// BreakdownUseCase arma el desglose de stock de un SKU: resuelve el
// checkpoint, lee el ledger completo dentro del alcance, toma la cifra
// autoritativa de ventas vivas, hace el replay y reconcilia contra el saldo
// materializado. Solo lecturas; nunca muta nada.
type BreakdownUseCase struct {
	resolver  *CheckpointResolver
	movements repository.MovementRepository
	sales     repository.SaleRepository
	balances  repository.BalanceRepository
	skus      repository.SKURepository
	scope     entity.LocationScope
	pageSize  int
	log       *logger.Logger
}

// NewBreakdownUseCase construye el caso de uso.
func NewBreakdownUseCase(
	resolver *CheckpointResolver,
	movements repository.MovementRepository,
	sales repository.SaleRepository,
	balances repository.BalanceRepository,
	skus repository.SKURepository,
	scope entity.LocationScope,
	pageSize int,
	log *logger.Logger,
) *BreakdownUseCase {
	return &BreakdownUseCase{
		resolver:  resolver,
		movements: movements,
		sales:     sales,
		balances:  balances,
		skus:      skus,
		scope:     scope,
		pageSize:  pageSize,
		log:       log,
	}
}

// GetBreakdown computa el desglose. manualCutoff, si viene, es el corte
// explícito del operador y manda sobre los checkpoints automáticos.
//
// Las tres lecturas independientes (checkpoint, ledger, saldo materializado)
// se lanzan concurrentes y se esperan juntas; son conmutativas entre sí. La
// suma de ventas vivas va después porque depende del corte resuelto.
func (uc *BreakdownUseCase) GetBreakdown(ctx context.Context, skuID string, manualCutoff *time.Time) (*dto.StockBreakdownResponse, error) {
	sku, err := uc.skus.GetByID(skuID)
	if err != nil {
		return nil, err
	}
	if sku == nil {
		return nil, domain.ErrNotFound
	}

	var (
		checkpoint   *entity.ResolvedCheckpoint
		movements    []*entity.StockMovement
		materialized = decimal.Zero
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		cp, rerr := uc.resolver.Resolve(ctx, skuID, uc.scope, manualCutoff)
		if rerr != nil {
			uc.log.Warn().Err(rerr).Str("sku_id", skuID).Msg("resolución de checkpoint degradada a ninguno")
			return nil
		}
		checkpoint = cp
		return nil
	})
	g.Go(func() error {
		all, ferr := uc.fetchAllMovements(skuID)
		if ferr != nil {
			return ferr
		}
		movements = all
		return nil
	})
	g.Go(func() error {
		sum, serr := uc.balances.SumInScope(skuID, uc.scope)
		if serr != nil {
			uc.log.Warn().Err(serr).Str("sku_id", skuID).Msg("saldo materializado degradado a cero")
			return nil
		}
		materialized = sum
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Cifra autoritativa de salidas por venta: ventas vivas posteriores al
	// corte, no lo que el ledger sugiera (los SALE_OUT de ventas anuladas
	// nunca se borran).
	var since *time.Time
	if checkpoint != nil {
		t := checkpoint.CutoffTimestamp
		since = &t
	}
	activeSales, err := uc.sales.SumActiveQuantitySince(skuID, since)
	if err != nil {
		uc.log.Warn().Err(err).Str("sku_id", skuID).Msg("suma de ventas vivas degradada a cero")
		activeSales = decimal.Zero
	}

	result := ledger.Replay(ledger.Input{
		Checkpoint:     checkpoint,
		Movements:      movements,
		ActiveSalesQty: activeSales,
		Scope:          uc.scope,
	})
	rec := ledger.Reconcile(result.ComputedBalance, materialized)

	return buildBreakdownResponse(sku, checkpoint, result, rec), nil
}

// fetchAllMovements pagina el ledger hasta página corta: el desglose y el
// gran total exigen el historial exacto, nunca truncado al límite de vista.
func (uc *BreakdownUseCase) fetchAllMovements(skuID string) ([]*entity.StockMovement, error) {
	var all []*entity.StockMovement
	for offset := 0; ; offset += uc.pageSize {
		page, err := uc.movements.ListBySKUInScope(skuID, uc.scope, uc.pageSize, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < uc.pageSize {
			return all, nil
		}
	}
}

func buildBreakdownResponse(
	sku *entity.SKU,
	checkpoint *entity.ResolvedCheckpoint,
	result ledger.Result,
	rec ledger.Reconciliation,
) *dto.StockBreakdownResponse {
	resp := &dto.StockBreakdownResponse{
		SKUID:          sku.ID,
		SKUCode:        sku.Code,
		SKUName:        sku.Name,
		Baseline:       result.Baseline,
		TotalIn:        result.TotalIn,
		TotalOutSales:  result.TotalOutSales,
		LedgerOutSales: result.LedgerOutSales,
		TotalOutOther:  result.TotalOutOther,
		Reconciliation: dto.ReconciliationDTO{
			ComputedBalance: rec.ComputedBalance,
			Materialized:    rec.Materialized,
			Discrepancy:     rec.Discrepancy,
			InSync:          rec.InSync,
			Advice:          rec.Advice,
		},
	}
	if checkpoint != nil {
		resp.Checkpoint = &dto.CheckpointDTO{
			CutoffTimestamp:  checkpoint.CutoffTimestamp,
			BaselineQuantity: checkpoint.BaselineQuantity,
			Source:           string(checkpoint.Source),
		}
	}
	resp.Items = make([]dto.MovementItemDTO, 0, len(result.Items))
	for _, it := range result.Items {
		m := it.Movement
		resp.Items = append(resp.Items, dto.MovementItemDTO{
			ID:                  m.ID,
			Type:                string(m.Type),
			Class:               string(it.Class),
			SourceLocation:      m.SourceLocation,
			DestinationLocation: m.DestinationLocation,
			Quantity:            m.Quantity,
			Note:                m.Note,
			CreatedAt:           m.CreatedAt,
		})
	}
	return resp
}
