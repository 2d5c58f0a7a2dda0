package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/kardex-pro/internal/application/dto"
	"github.com/tu-usuario/kardex-pro/internal/application/stock"
	"github.com/tu-usuario/kardex-pro/pkg/validator"
)

// MovementHandler maneja el registro directo de movimientos del ledger
// (recepciones, transferencias, mermas). Ventas, conteos y correcciones
// tienen sus propios endpoints.
type MovementHandler struct {
	uc *stock.RegisterMovementUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(uc *stock.RegisterMovementUseCase) *MovementHandler {
	return &MovementHandler{uc: uc}
}

// Register godoc
// @Summary      Registrar movimiento de inventario
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "sku_id, type, source_location y/o destination_location, quantity"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *MovementHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if errs := validator.ValidateStruct(in); len(errs) > 0 {
		return validationError(c, validator.Describe(errs))
	}
	id, err := h.uc.Register(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id, "message": "movimiento registrado"})
}
