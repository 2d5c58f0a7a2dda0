package stock_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/kardex-pro/internal/application/dto"
	"github.com/tu-usuario/kardex-pro/internal/application/stock"
	"github.com/tu-usuario/kardex-pro/internal/domain"
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
	"github.com/tu-usuario/kardex-pro/internal/domain/repository"
	"github.com/tu-usuario/kardex-pro/pkg/logger"
)

func entry(i int, typ entity.MovementType, quantity int64, at time.Time) *repository.HistoryEntry {
	return &repository.HistoryEntry{
		Movement: entity.StockMovement{
			ID:        "m-" + strconv.Itoa(i),
			SKUID:     "sku-1",
			Type:      typ,
			Quantity:  decimal.NewFromInt(quantity),
			CreatedAt: at,
		},
		SKUCode: "A-001",
		SKUName: "Producto A",
	}
}

// El gran total suma el conjunto filtrado completo paginando internamente:
// con pageSize chico el agregado debe ser idéntico al de una sola pasada.
func TestHistory_GranTotalExactoBajoPaginacion(t *testing.T) {
	now := time.Now()
	repo := fakeHistoryRepo{}
	// 7 entradas de 10, 4 salidas de 5, 2 conteos
	for i := 0; i < 7; i++ {
		repo.entries = append(repo.entries, entry(i, entity.MovementFactoryIn, 10, now.Add(time.Duration(i)*time.Minute)))
	}
	for i := 7; i < 11; i++ {
		repo.entries = append(repo.entries, entry(i, entity.MovementSaleOut, 5, now.Add(time.Duration(i)*time.Minute)))
	}
	for i := 11; i < 13; i++ {
		repo.entries = append(repo.entries, entry(i, entity.MovementCountApplied, 99, now.Add(time.Duration(i)*time.Minute)))
	}

	uc := stock.NewHistoryUseCase(repo, 3, logger.Nop()) // 13 filas en páginas de 3
	total, err := uc.GrandTotal(context.Background(), dto.HistoryQuery{})
	require.NoError(t, err)

	assert.Equal(t, 13, total.Rows)
	assert.Equal(t, "70", total.TotalIn.String())
	assert.Equal(t, "20", total.TotalOut.String())
	assert.Equal(t, 2, total.CountEvents)
}

// El filtro de dirección restringe el agregado al subconjunto.
func TestHistory_GranTotalConFiltroDeDireccion(t *testing.T) {
	now := time.Now()
	repo := fakeHistoryRepo{entries: []*repository.HistoryEntry{
		entry(0, entity.MovementFactoryIn, 10, now),
		entry(1, entity.MovementSaleOut, 4, now),
		entry(2, entity.MovementSaleOut, 6, now),
	}}

	uc := stock.NewHistoryUseCase(repo, 50, logger.Nop())
	total, err := uc.GrandTotal(context.Background(), dto.HistoryQuery{Direction: "out"})
	require.NoError(t, err)

	assert.Equal(t, 2, total.Rows)
	assert.True(t, total.TotalIn.IsZero())
	assert.Equal(t, "10", total.TotalOut.String())
}

func TestHistory_DireccionInvalida(t *testing.T) {
	uc := stock.NewHistoryUseCase(fakeHistoryRepo{}, 50, logger.Nop())

	_, err := uc.List(context.Background(), dto.HistoryQuery{Direction: "sideways"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestHistory_ListaPaginada(t *testing.T) {
	now := time.Now()
	repo := fakeHistoryRepo{}
	for i := 0; i < 5; i++ {
		repo.entries = append(repo.entries, entry(i, entity.MovementFactoryIn, 1, now))
	}

	uc := stock.NewHistoryUseCase(repo, 50, logger.Nop())
	out, err := uc.List(context.Background(), dto.HistoryQuery{
		PageRequest: dto.PageRequest{Limit: 2, Offset: 4},
	})
	require.NoError(t, err)

	assert.Len(t, out.Entries, 1, "última página corta")
	assert.Equal(t, 2, out.Page.Limit)
}
