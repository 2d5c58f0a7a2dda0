package ledger

import "github.com/shopspring/decimal"

// Reconciliation compara el saldo computado desde el ledger contra el valor
// materializado. Una discrepancia no es un error: es un estado reportable de
// primera clase que requiere acción del operador.
type Reconciliation struct {
	ComputedBalance decimal.Decimal
	Materialized    decimal.Decimal
	Discrepancy     decimal.Decimal // Materialized - ComputedBalance (selisih, con signo)
	InSync          bool
	Advice          string
}

// Reconcile compara ambos valores y arma el reporte. Sin efectos secundarios:
// aplicar el resync es una acción explícita y auditable del operador, nunca
// una mutación silenciosa del lector.
func Reconcile(computed, materialized decimal.Decimal) Reconciliation {
	diff := materialized.Sub(computed)
	rec := Reconciliation{
		ComputedBalance: computed,
		Materialized:    materialized,
		Discrepancy:     diff,
		InSync:          diff.IsZero(),
	}
	if rec.InSync {
		rec.Advice = "saldo materializado en sincronía con el ledger"
	} else {
		rec.Advice = "ejecutar resync: sobrescribe el saldo materializado con el valor " +
			"derivado del ledger y registra un movimiento CORRECTION con el ajuste"
	}
	return rec
}
