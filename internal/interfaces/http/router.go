package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/kardex-pro/internal/application/stock"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	SKUUC            *stock.SKUUseCase
	RegisterMovement *stock.RegisterMovementUseCase
	BreakdownUC      *stock.BreakdownUseCase
	ResyncUC         *stock.ResyncUseCase
	SaleUC           *stock.SaleUseCase
	OpnameUC         *stock.OpnameUseCase
	HistoryUC        *stock.HistoryUseCase
	ReportUC         *stock.KardexReportUseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// SKUs (maestro)
	skus := api.Group("/skus")
	skuHandler := NewSKUHandler(deps.SKUUC)
	skus.Post("/", skuHandler.Create)
	skus.Get("/", skuHandler.List)
	skus.Get("/:id", skuHandler.GetByID)

	// Movimientos directos del ledger
	invGroup := api.Group("/inventory")
	movementHandler := NewMovementHandler(deps.RegisterMovement)
	invGroup.Post("/movements", movementHandler.Register)

	// Desglose y resync
	stockGroup := api.Group("/stock")
	stockHandler := NewStockHandler(deps.BreakdownUC, deps.ResyncUC)
	stockGroup.Get("/:skuID/breakdown", stockHandler.GetBreakdown)
	stockGroup.Post("/:skuID/resync", stockHandler.Resync)

	// Ventas
	sales := api.Group("/sales")
	saleHandler := NewSaleHandler(deps.SaleUC)
	sales.Post("/", saleHandler.Create)
	sales.Post("/:id/cancel", saleHandler.Cancel)

	// Conteo físico (stock opname)
	opname := api.Group("/opname")
	opnameHandler := NewOpnameHandler(deps.OpnameUC)
	opname.Post("/sessions", opnameHandler.OpenSession)
	opname.Post("/sessions/:id/finalize", opnameHandler.Finalize)

	// Historial de auditoría
	historyHandler := NewHistoryHandler(deps.HistoryUC)
	api.Get("/mutations", historyHandler.List)
	api.Get("/mutations/grand-total", historyHandler.GrandTotal)

	// Reportes
	reports := api.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportUC)
	reports.Get("/kardex/:skuID", reportHandler.KardexPDF)
}
