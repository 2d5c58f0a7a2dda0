// Package ledger contiene los servicios de dominio del kardex: el replay de
// deltas sobre el ledger append-only y la reconciliación contra el saldo
// materializado. Son funciones puras; la persistencia llega por parámetros.
package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
)

// Class es la clasificación de un movimiento relativa al corte resuelto.
type Class string

const (
	ClassHistorical    Class = "historical"     // anterior o igual al corte: ya plegado en el baseline
	ClassNeutral       Class = "neutral"        // reacomodo interno dentro del alcance
	ClassCountEvent    Class = "count_event"    // conteo físico aplicado: lo representa el baseline
	ClassCorrection    Class = "correction"     // ajuste de resync: solo pista de auditoría
	ClassReversal      Class = "reversal"       // deshacer de una salida previa: no es entrada real
	ClassInbound       Class = "inbound"        // entrada al alcance
	ClassOutboundSale  Class = "outbound_sale"  // salida por venta (el agregado se sustituye por ventas vivas)
	ClassOutboundOther Class = "outbound_other" // salida por traslado, merma u otros
	ClassOutOfScope    Class = "out_of_scope"   // no toca el alcance; defensivo, el lector ya filtra
)

// ClassifiedMovement es un movimiento del ledger con su clasificación, para
// el desglose que ve el operador.
type ClassifiedMovement struct {
	Movement *entity.StockMovement
	Class    Class
}

// Input reúne todo lo necesario para un replay: el checkpoint resuelto (nil
// si no existe ninguno), el historial completo del SKU dentro del alcance y
// la cifra autoritativa de ventas vivas posteriores al corte.
type Input struct {
	Checkpoint *entity.ResolvedCheckpoint
	Movements  []*entity.StockMovement
	// ActiveSalesQty es la suma de líneas de venta vivas con fecha posterior
	// al corte, calculada aparte: sustituye lo que el ledger sugiera como
	// salidas por venta, porque las anulaciones nunca borran los SALE_OUT.
	ActiveSalesQty decimal.Decimal
	Scope          entity.LocationScope
}

// Result es la salida del replay.
type Result struct {
	Baseline        decimal.Decimal
	TotalIn         decimal.Decimal
	TotalOutSales   decimal.Decimal // cifra autoritativa (ventas vivas), no la del ledger
	LedgerOutSales  decimal.Decimal // lo que el ledger sugiere; se muestra para contraste
	TotalOutOther   decimal.Decimal
	ComputedBalance decimal.Decimal // Baseline + TotalIn - TotalOutSales - TotalOutOther
	Items           []ClassifiedMovement
}

// Replay clasifica el historial relativo al corte y computa el saldo.
//
// Reglas, en orden:
//  1. Movimientos con timestamp <= corte son históricos: se muestran pero no
//     aportan deltas (el baseline ya los contiene).
//  2. COUNT_APPLIED es neutro: el checkpoint ganador lo representa.
//  3. CORRECTION es neutro: el resync que lo creó ya sobrescribió el saldo
//     materializado al valor derivado del ledger; contarlo duplicaría el
//     ajuste y rompería la idempotencia del resync.
//  4. Reacomodos internos (origen y destino dentro del alcance) son neutros.
//  5. Tipos de reverso (SALE_CANCELLED) no cuentan como entrada.
//  6. Destino en alcance suma a TotalIn; SALE_OUT acumula LedgerOutSales;
//     cualquier otra salida del alcance suma a TotalOutOther.
func Replay(in Input) Result {
	var cutoff *time.Time
	res := Result{
		Baseline:       decimal.Zero,
		TotalIn:        decimal.Zero,
		LedgerOutSales: decimal.Zero,
		TotalOutOther:  decimal.Zero,
	}
	if in.Checkpoint != nil {
		res.Baseline = in.Checkpoint.BaselineQuantity
		t := in.Checkpoint.CutoffTimestamp
		cutoff = &t
	}

	items := make([]ClassifiedMovement, 0, len(in.Movements))
	for _, m := range in.Movements {
		cls := classify(m, cutoff, in.Scope)
		items = append(items, ClassifiedMovement{Movement: m, Class: cls})

		switch cls {
		case ClassInbound:
			res.TotalIn = res.TotalIn.Add(m.Quantity)
		case ClassOutboundSale:
			res.LedgerOutSales = res.LedgerOutSales.Add(m.Quantity)
		case ClassOutboundOther:
			res.TotalOutOther = res.TotalOutOther.Add(m.Quantity)
		}
	}

	// Más reciente primero, como la vista del operador.
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Movement.CreatedAt.After(items[j].Movement.CreatedAt)
	})
	res.Items = items

	res.TotalOutSales = in.ActiveSalesQty
	res.ComputedBalance = res.Baseline.
		Add(res.TotalIn).
		Sub(res.TotalOutSales).
		Sub(res.TotalOutOther)
	return res
}

func classify(m *entity.StockMovement, cutoff *time.Time, scope entity.LocationScope) Class {
	if cutoff != nil && !m.CreatedAt.After(*cutoff) {
		return ClassHistorical
	}
	switch m.Type {
	case entity.MovementCountApplied:
		return ClassCountEvent
	case entity.MovementCorrection:
		return ClassCorrection
	}
	if scope.IsInternal(m) {
		return ClassNeutral
	}
	if scope.Contains(m.DestinationLocation) {
		if m.Type.IsReversal() {
			return ClassReversal
		}
		return ClassInbound
	}
	if scope.Contains(m.SourceLocation) {
		if m.Type == entity.MovementSaleOut {
			return ClassOutboundSale
		}
		return ClassOutboundOther
	}
	return ClassOutOfScope
}
