package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/kardex-pro/internal/application/dto"
	"github.com/tu-usuario/kardex-pro/internal/application/stock"
	"github.com/tu-usuario/kardex-pro/pkg/validator"
)

// OpnameHandler maneja las sesiones de conteo físico.
type OpnameHandler struct {
	uc *stock.OpnameUseCase
}

// NewOpnameHandler construye el handler.
func NewOpnameHandler(uc *stock.OpnameUseCase) *OpnameHandler {
	return &OpnameHandler{uc: uc}
}

// OpenSession godoc
// @Summary      Abrir sesión de conteo físico
// @Tags         opname
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OpenCountSessionRequest  true  "location; effective_date opcional"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/opname/sessions [post]
func (h *OpnameHandler) OpenSession(c *fiber.Ctx) error {
	var in dto.OpenCountSessionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if errs := validator.ValidateStruct(in); len(errs) > 0 {
		return validationError(c, validator.Describe(errs))
	}
	session, err := h.uc.OpenSession(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"session_id": session.ID,
		"location":   session.Location,
		"status":     session.Status,
	})
}

// Finalize godoc
// @Summary      Finalizar sesión de conteo físico
// @Description  Aplica las cantidades contadas: archiva ítems, agrega
//
//	COUNT_APPLIED por SKU y sobrescribe el saldo, todo en una
//	transacción. La sesión finalizada se vuelve candidata de checkpoint.
//
// @Tags         opname
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "id de la sesión"
// @Param        body  body  dto.FinalizeCountSessionRequest  true  "items contados"
// @Success      200   {object}  dto.FinalizeCountSessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/opname/sessions/{id}/finalize [post]
func (h *OpnameHandler) Finalize(c *fiber.Ctx) error {
	var in dto.FinalizeCountSessionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if errs := validator.ValidateStruct(in); len(errs) > 0 {
		return validationError(c, validator.Describe(errs))
	}
	out, err := h.uc.FinalizeSession(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
