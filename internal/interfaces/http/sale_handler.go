package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/kardex-pro/internal/application/dto"
	"github.com/tu-usuario/kardex-pro/internal/application/stock"
	"github.com/tu-usuario/kardex-pro/pkg/validator"
)

// SaleHandler maneja ventas y anulaciones.
type SaleHandler struct {
	uc *stock.SaleUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *stock.SaleUseCase) *SaleHandler {
	return &SaleHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar venta
// @Description  Descuenta saldo y agrega SALE_OUT por línea, en una transacción.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "number, lines; location opcional"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if errs := validator.ValidateStruct(in); len(errs) > 0 {
		return validationError(c, validator.Describe(errs))
	}
	out, err := h.uc.CreateSale(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Cancel godoc
// @Summary      Anular venta
// @Description  Marca la venta como anulada, restaura el saldo y agrega
//
//	SALE_CANCELLED por línea. Los SALE_OUT originales quedan en el
//	ledger (append-only).
//
// @Tags         sales
// @Produce      json
// @Param        id  path  string  true  "id de la venta"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/cancel [post]
func (h *SaleHandler) Cancel(c *fiber.Ctx) error {
	actor := c.Get("X-Actor")
	if err := h.uc.CancelSale(c.Context(), c.Params("id"), actor); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "venta anulada"})
}
