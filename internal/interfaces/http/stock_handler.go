package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/kardex-pro/internal/application/stock"
)

// StockHandler maneja el desglose verificable y el resync del saldo.
type StockHandler struct {
	breakdown *stock.BreakdownUseCase
	resync    *stock.ResyncUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(breakdown *stock.BreakdownUseCase, resync *stock.ResyncUseCase) *StockHandler {
	return &StockHandler{breakdown: breakdown, resync: resync}
}

// GetBreakdown godoc
// @Summary      Desglose verificable del stock de un SKU
// @Description  Resuelve el checkpoint, reproduce el ledger posterior y
//
//	compara el balance computado contra el saldo materializado.
//
// @Tags         stock
// @Produce      json
// @Param        skuID   path   string  true   "id del SKU"
// @Param        cutoff  query  string  false  "corte manual (RFC3339 o YYYY-MM-DD); anula la resolución automática"
// @Success      200  {object}  dto.StockBreakdownResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{skuID}/breakdown [get]
func (h *StockHandler) GetBreakdown(c *fiber.Ctx) error {
	cutoff, err := parseCutoff(c.Query("cutoff"))
	if err != nil {
		return validationError(c, "cutoff inválido: use RFC3339 o YYYY-MM-DD")
	}
	out, err := h.breakdown.GetBreakdown(c.Context(), c.Params("skuID"), cutoff)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Resync godoc
// @Summary      Reconciliar el saldo materializado contra el ledger
// @Description  Si hay discrepancia, sobrescribe el saldo con el balance
//
//	computado y registra un movimiento CORRECTION, todo en una
//	transacción. Idempotente: sin discrepancia no escribe nada.
//
// @Tags         stock
// @Produce      json
// @Param        skuID  path  string  true  "id del SKU"
// @Success      200  {object}  dto.ResyncResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{skuID}/resync [post]
func (h *StockHandler) Resync(c *fiber.Ctx) error {
	actor := c.Get("X-Actor")
	out, err := h.resync.Resync(c.Context(), c.Params("skuID"), actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// parseCutoff acepta RFC3339 o fecha simple; vacío devuelve nil.
func parseCutoff(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
