package stock

import (
	"context"

	"github.com/tu-usuario/kardex-pro/internal/application/dto"
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
	"github.com/tu-usuario/kardex-pro/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Toda secuencia de escritura multi-paso
// (venta, anulación, opname, resync) corre adentro: ambos efectos o ninguno.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		balanceRepo repository.BalanceRepository,
		saleRepo repository.SaleRepository,
		countRepo repository.CountRepository,
	) error) error
}

// KardexPDFGenerator genera la representación PDF del desglose de stock.
type KardexPDFGenerator interface {
	GenerateKardexPDF(ctx context.Context, sku *entity.SKU, breakdown *dto.StockBreakdownResponse) ([]byte, error)
}
