package ledger_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
	"github.com/tu-usuario/kardex-pro/internal/domain/ledger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var (
	t0 = time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
)

func qty(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func mov(typ entity.MovementType, src, dst, quantity string, at time.Time) *entity.StockMovement {
	return &entity.StockMovement{
		ID:                  typ.Direction() + "-" + at.Format(time.RFC3339Nano),
		SKUID:               "sku-1",
		Type:                typ,
		SourceLocation:      src,
		DestinationLocation: dst,
		Quantity:            qty(quantity),
		CreatedAt:           at,
	}
}

func rackScope() entity.LocationScope {
	return entity.NewLocationScope("rack", "display")
}

func classOf(t *testing.T, res ledger.Result, id string) ledger.Class {
	t.Helper()
	for _, it := range res.Items {
		if it.Movement.ID == id {
			return it.Class
		}
	}
	t.Fatalf("movimiento %s no está en el desglose", id)
	return ""
}

// ──────────────────────────────────────────────────────────────────────────────
// Replay
// ──────────────────────────────────────────────────────────────────────────────

// Sin checkpoint, el replay parte de cero y recorre todo el historial.
func TestReplay_SinCheckpointReplayCompleto(t *testing.T) {
	scope := rackScope()
	movs := []*entity.StockMovement{
		mov(entity.MovementFactoryIn, "factory", "rack", "40", t0.Add(-48*time.Hour)),
		mov(entity.MovementFactoryIn, "factory", "rack", "10", t0.Add(2*time.Hour)),
		mov(entity.MovementRackTransferOut, "rack", "bodega-central", "5", t0.Add(3*time.Hour)),
	}

	res := ledger.Replay(ledger.Input{
		Checkpoint:     nil,
		Movements:      movs,
		ActiveSalesQty: decimal.Zero,
		Scope:          scope,
	})

	assert.True(t, res.Baseline.IsZero(), "sin checkpoint el baseline es cero")
	assert.Equal(t, "50", res.TotalIn.String(), "todas las entradas del historial cuentan")
	assert.Equal(t, "5", res.TotalOutOther.String())
	assert.Equal(t, "45", res.ComputedBalance.String())
}

// Movimientos en o antes del corte son históricos: visibles pero sin delta.
func TestReplay_MovimientosHistoricosNoAportanDelta(t *testing.T) {
	scope := rackScope()
	old := mov(entity.MovementFactoryIn, "factory", "rack", "999", t0.Add(-time.Hour))
	exact := mov(entity.MovementFactoryIn, "factory", "rack", "111", t0)
	fresh := mov(entity.MovementFactoryIn, "factory", "rack", "50", t0.Add(time.Hour))

	res := ledger.Replay(ledger.Input{
		Checkpoint: &entity.ResolvedCheckpoint{
			CutoffTimestamp:  t0,
			BaselineQuantity: qty("100"),
			Source:           entity.CheckpointFromSession,
		},
		Movements:      []*entity.StockMovement{old, exact, fresh},
		ActiveSalesQty: decimal.Zero,
		Scope:          scope,
	})

	assert.Equal(t, ledger.ClassHistorical, classOf(t, res, old.ID))
	assert.Equal(t, ledger.ClassHistorical, classOf(t, res, exact.ID),
		"timestamp igual al corte también es histórico")
	assert.Equal(t, ledger.ClassInbound, classOf(t, res, fresh.ID))
	assert.Equal(t, "50", res.TotalIn.String())
	assert.Equal(t, "150", res.ComputedBalance.String())
}

// Reacomodos internos (origen y destino dentro del alcance) son neutros.
func TestReplay_ReacomodoInternoEsNeutro(t *testing.T) {
	scope := rackScope()
	internal := mov(entity.MovementRackTransferIn, "rack", "display", "30", t0.Add(time.Hour))

	res := ledger.Replay(ledger.Input{
		Checkpoint: &entity.ResolvedCheckpoint{
			CutoffTimestamp:  t0,
			BaselineQuantity: qty("100"),
		},
		Movements:      []*entity.StockMovement{internal},
		ActiveSalesQty: decimal.Zero,
		Scope:          scope,
	})

	assert.Equal(t, ledger.ClassNeutral, classOf(t, res, internal.ID))
	assert.True(t, res.TotalIn.IsZero())
	assert.True(t, res.TotalOutOther.IsZero())
	assert.Equal(t, "100", res.ComputedBalance.String())
}

// SALE_CANCELLED entra al alcance pero no es entrada real: es el deshacer de
// una salida previa, y la sustitución por ventas vivas ya lo contempla.
func TestReplay_ReversoNoCuentaComoEntrada(t *testing.T) {
	scope := rackScope()
	reversal := mov(entity.MovementSaleCancelled, "customer", "rack", "10", t0.Add(2*time.Hour))

	res := ledger.Replay(ledger.Input{
		Checkpoint: &entity.ResolvedCheckpoint{
			CutoffTimestamp:  t0,
			BaselineQuantity: qty("100"),
		},
		Movements:      []*entity.StockMovement{reversal},
		ActiveSalesQty: decimal.Zero,
		Scope:          scope,
	})

	assert.Equal(t, ledger.ClassReversal, classOf(t, res, reversal.ID))
	assert.True(t, res.TotalIn.IsZero(), "el reverso no suma a TotalIn")
	assert.Equal(t, "100", res.ComputedBalance.String())
}

// La autoridad de salidas por venta son las ventas vivas, no los SALE_OUT del
// ledger: una venta anulada deja su SALE_OUT pero no descuenta.
func TestReplay_VentasVivasSustituyenAlLedger(t *testing.T) {
	scope := rackScope()
	movs := []*entity.StockMovement{
		// 10 unidades vendidas y luego anuladas: el SALE_OUT queda en el ledger
		mov(entity.MovementSaleOut, "rack", "customer", "10", t0.Add(time.Hour)),
		// 7 unidades de ventas vivas
		mov(entity.MovementSaleOut, "rack", "customer", "7", t0.Add(2*time.Hour)),
	}

	res := ledger.Replay(ledger.Input{
		Checkpoint: &entity.ResolvedCheckpoint{
			CutoffTimestamp:  t0,
			BaselineQuantity: qty("100"),
		},
		Movements:      movs,
		ActiveSalesQty: qty("7"), // solo la venta viva
		Scope:          scope,
	})

	assert.Equal(t, "17", res.LedgerOutSales.String(), "el ledger sugiere 17")
	assert.Equal(t, "7", res.TotalOutSales.String(), "pero mandan las ventas vivas")
	assert.Equal(t, "93", res.ComputedBalance.String())
}

// COUNT_APPLIED y CORRECTION posteriores al corte son neutros: el baseline
// representa al conteo, y la corrección ya sobrescribió el saldo que ajustaba.
func TestReplay_ConteoYCorreccionSonNeutros(t *testing.T) {
	scope := rackScope()
	count := mov(entity.MovementCountApplied, "rack", "rack", "80", t0.Add(time.Hour))
	corr := mov(entity.MovementCorrection, "reconciliation", "rack", "5", t0.Add(2*time.Hour))

	res := ledger.Replay(ledger.Input{
		Checkpoint: &entity.ResolvedCheckpoint{
			CutoffTimestamp:  t0,
			BaselineQuantity: qty("100"),
		},
		Movements:      []*entity.StockMovement{count, corr},
		ActiveSalesQty: decimal.Zero,
		Scope:          scope,
	})

	assert.Equal(t, ledger.ClassCountEvent, classOf(t, res, count.ID))
	assert.Equal(t, ledger.ClassCorrection, classOf(t, res, corr.ID))
	assert.Equal(t, "100", res.ComputedBalance.String())
}

// Caso completo: baseline 100, +50 de fábrica, 30 en SALE_OUT del ledger de
// los cuales solo 20 siguen vivos, y el reverso de la anulada.
func TestReplay_CasoCompleto(t *testing.T) {
	scope := rackScope()
	movs := []*entity.StockMovement{
		mov(entity.MovementFactoryIn, "factory", "rack", "50", t0.Add(1*time.Hour)),
		mov(entity.MovementSaleOut, "rack", "customer", "20", t0.Add(2*time.Hour)),
		mov(entity.MovementSaleOut, "rack", "customer", "10", t0.Add(3*time.Hour)),
		mov(entity.MovementSaleCancelled, "customer", "rack", "10", t0.Add(4*time.Hour)),
	}

	res := ledger.Replay(ledger.Input{
		Checkpoint: &entity.ResolvedCheckpoint{
			CutoffTimestamp:  t0,
			BaselineQuantity: qty("100"),
			Source:           entity.CheckpointFromSession,
		},
		Movements:      movs,
		ActiveSalesQty: qty("20"),
		Scope:          scope,
	})

	assert.Equal(t, "100", res.Baseline.String())
	assert.Equal(t, "50", res.TotalIn.String())
	assert.Equal(t, "20", res.TotalOutSales.String())
	assert.Equal(t, "30", res.LedgerOutSales.String())
	assert.True(t, res.TotalOutOther.IsZero())
	assert.Equal(t, "130", res.ComputedBalance.String())

	// Más reciente primero
	require.Len(t, res.Items, 4)
	assert.Equal(t, ledger.ClassReversal, res.Items[0].Class)
	assert.Equal(t, ledger.ClassInbound, res.Items[3].Class)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reconcile
// ──────────────────────────────────────────────────────────────────────────────

func TestReconcile_EnSincronia(t *testing.T) {
	rec := ledger.Reconcile(qty("130"), qty("130"))

	assert.True(t, rec.InSync)
	assert.True(t, rec.Discrepancy.IsZero())
	assert.NotEmpty(t, rec.Advice)
}

func TestReconcile_DiscrepanciaConSigno(t *testing.T) {
	// Materializado 125 contra computado 130: faltan 5 en el caché
	rec := ledger.Reconcile(qty("130"), qty("125"))

	assert.False(t, rec.InSync)
	assert.Equal(t, "-5", rec.Discrepancy.String(),
		"la discrepancia es materializado menos computado, con signo")
	assert.Contains(t, rec.Advice, "resync")
}
