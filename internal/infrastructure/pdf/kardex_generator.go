// Package pdf implementa la generación del reporte Kardex en PDF: el desglose
// verificable del stock de un SKU (checkpoint, totales del replay y la
// reconciliación contra el saldo materializado).
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Código + Nombre del SKU  │  Fecha de emisión       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CHECKPOINT: fuente, corte y baseline                        │
//	│  TOTALES: baseline / entradas / salidas venta / otras        │
//	│  RECONCILIACIÓN: computado vs materializado + consejo        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Tipo | Clase | Origen→Destino | Cantidad     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/tu-usuario/kardex-pro/internal/application/dto"
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 180, Green: 40, Blue: 40}
	colorOK      = &props.Color{Red: 30, Green: 120, Blue: 60}
)

// printer con separador de miles para cantidades grandes.
var numPrinter = message.NewPrinter(language.Spanish)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoKardexGenerator implementa stock.KardexPDFGenerator usando Maroto v2.
type MarotoKardexGenerator struct{}

// NewMarotoKardexGenerator construye el generador.
func NewMarotoKardexGenerator() *MarotoKardexGenerator { return &MarotoKardexGenerator{} }

// GenerateKardexPDF genera el PDF del desglose y devuelve sus bytes.
func (g *MarotoKardexGenerator) GenerateKardexPDF(
	_ context.Context,
	sku *entity.SKU,
	breakdown *dto.StockBreakdownResponse,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Kardex "+sku.Code, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(sku))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(checkpointRow(breakdown.Checkpoint))
	m.AddRows(totalsRow(breakdown))
	m.AddRows(reconciliationRow(breakdown.Reconciliation))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableItemRows(breakdown.Items) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: código + nombre del SKU (izq) y título + unidad (der).
func headerRow(sku *entity.SKU) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(sku.Code, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(sku.Name, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("KARDEX DE INVENTARIO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("Unidad: "+sku.Unit, props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

// checkpointRow: fuente del checkpoint, corte y baseline. Sin checkpoint, el
// replay parte de cero sobre todo el historial.
func checkpointRow(cp *dto.CheckpointDTO) core.Row {
	if cp == nil {
		return row.New(10).Add(col.New(12).Add(
			text.New("CHECKPOINT", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New("Sin conteo físico registrado: replay completo desde cero", props.Text{
				Size: 8, Top: 6, Color: colorGray,
			}),
		))
	}
	return row.New(10).Add(col.New(12).Add(
		text.New("CHECKPOINT", props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
		}),
		text.New(fmt.Sprintf("Fuente: %s   |   Corte: %s   |   Baseline: %s",
			cp.Source,
			cp.CutoffTimestamp.Format("02/01/2006 15:04"),
			formatQty(cp.BaselineQuantity),
		), props.Text{Size: 8, Top: 6, Color: colorGray}),
	))
}

// totalsRow: componentes del balance computado.
func totalsRow(b *dto.StockBreakdownResponse) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Right: 2})
	}
	value := func(d decimal.Decimal) core.Component {
		return text.New(formatQty(d), props.Text{Size: 8, Align: align.Right, Right: 1})
	}
	return row.New(24).Add(
		col.New(4),
		col.New(4).Add(
			label("Baseline:"),
			label("Entradas:"),
			label("Salidas por venta (vivas):"),
			label("Otras salidas:"),
		),
		col.New(4).Add(
			value(b.Baseline),
			value(b.TotalIn),
			value(b.TotalOutSales),
			value(b.TotalOutOther),
		),
	)
}

// reconciliationRow: computado vs materializado. La discrepancia se pinta en
// rojo; sincronía en verde.
func reconciliationRow(rec dto.ReconciliationDTO) core.Row {
	stateColor := colorOK
	if !rec.InSync {
		stateColor = colorAlert
	}
	return row.New(14).Add(col.New(12).Add(
		text.New("RECONCILIACIÓN", props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
		}),
		text.New(fmt.Sprintf("Computado: %s   |   Materializado: %s   |   Discrepancia: %s",
			formatQty(rec.ComputedBalance),
			formatQty(rec.Materialized),
			formatQty(rec.Discrepancy),
		), props.Text{Size: 8, Top: 6, Color: colorGray}),
		text.New(rec.Advice, props.Text{
			Style: fontstyle.Bold, Size: 8, Top: 10, Color: stateColor,
		}),
	))
}

// tableHeaderRow: cabecera de la tabla de movimientos.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 2, align.Left),
		h("Tipo", 3, align.Left),
		h("Clase", 2, align.Left),
		h("Origen → Destino", 3, align.Left),
		h("Cantidad", 2, align.Right),
	)
}

// tableItemRows: una fila por movimiento clasificado, más reciente primero.
func tableItemRows(items []dto.MovementItemDTO) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		route := it.SourceLocation
		if it.DestinationLocation != "" {
			route += " → " + it.DestinationLocation
		}
		result = append(result, row.New(6).Add(
			col.New(2).Add(text.New(
				it.CreatedAt.Format("02/01/2006"),
				props.Text{Size: 7.5, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(3).Add(text.New(
				it.Type,
				props.Text{Size: 7.5, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				it.Class,
				props.Text{Size: 7.5, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(3).Add(text.New(
				route,
				props.Text{Size: 7.5, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				formatQty(it.Quantity),
				props.Text{Size: 7.5, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// ── helpers ───────────────────────────────────────────────────────────────────

// formatQty formatea la cantidad con separador de miles y hasta dos decimales.
func formatQty(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	return numPrinter.Sprintf("%v", f)
}
