package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/kardex-pro/internal/application/dto"
	"github.com/tu-usuario/kardex-pro/internal/application/stock"
	"github.com/tu-usuario/kardex-pro/pkg/validator"
)

// SKUHandler maneja las peticiones HTTP del maestro de SKUs.
type SKUHandler struct {
	uc *stock.SKUUseCase
}

// NewSKUHandler construye el handler.
func NewSKUHandler(uc *stock.SKUUseCase) *SKUHandler {
	return &SKUHandler{uc: uc}
}

// Create godoc
// @Summary      Crear SKU
// @Tags         skus
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSKURequest  true  "code, name, unit, category, cost_basis"
// @Success      201   {object}  dto.SKUResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/skus [post]
func (h *SKUHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSKURequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if errs := validator.ValidateStruct(in); len(errs) > 0 {
		return validationError(c, validator.Describe(errs))
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar SKUs
// @Tags         skus
// @Produce      json
// @Param        limit   query  int  false  "tamaño de página"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {array}   dto.SKUResponse
// @Router       /api/skus [get]
func (h *SKUHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	out, err := h.uc.List(c.Context(), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener SKU por id
// @Tags         skus
// @Produce      json
// @Param        id  path  string  true  "id del SKU"
// @Success      200  {object}  dto.SKUResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/skus/{id} [get]
func (h *SKUHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
