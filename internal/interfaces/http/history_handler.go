package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/kardex-pro/internal/application/dto"
	"github.com/tu-usuario/kardex-pro/internal/application/stock"
)

// HistoryHandler maneja la vista de auditoría del ledger.
type HistoryHandler struct {
	uc *stock.HistoryUseCase
}

// NewHistoryHandler construye el handler.
func NewHistoryHandler(uc *stock.HistoryUseCase) *HistoryHandler {
	return &HistoryHandler{uc: uc}
}

// List godoc
// @Summary      Historial de movimientos
// @Tags         history
// @Produce      json
// @Param        from       query  string  false  "desde (RFC3339 o YYYY-MM-DD)"
// @Param        to         query  string  false  "hasta"
// @Param        direction  query  string  false  "in | out | count"
// @Param        q          query  string  false  "texto libre sobre SKU, ubicaciones y nota"
// @Param        limit      query  int     false  "tamaño de página"
// @Param        offset     query  int     false  "desplazamiento"
// @Success      200  {object}  dto.HistoryListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/mutations [get]
func (h *HistoryHandler) List(c *fiber.Ctx) error {
	var q dto.HistoryQuery
	if err := c.QueryParser(&q); err != nil {
		return badBody(c)
	}
	out, err := h.uc.List(c.Context(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GrandTotal godoc
// @Summary      Gran total exacto del historial filtrado
// @Description  Suma sobre el conjunto filtrado completo, paginando
//
//	internamente hasta agotar el resultado: nunca trunca al tamaño
//	de la página visible.
//
// @Tags         history
// @Produce      json
// @Param        from       query  string  false  "desde"
// @Param        to         query  string  false  "hasta"
// @Param        direction  query  string  false  "in | out | count"
// @Param        q          query  string  false  "texto libre"
// @Success      200  {object}  dto.GrandTotalResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/mutations/grand-total [get]
func (h *HistoryHandler) GrandTotal(c *fiber.Ctx) error {
	var q dto.HistoryQuery
	if err := c.QueryParser(&q); err != nil {
		return badBody(c)
	}
	out, err := h.uc.GrandTotal(c.Context(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
