package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/kardex-pro/internal/application/stock"
)

// ReportHandler maneja la descarga del kardex en PDF.
type ReportHandler struct {
	uc *stock.KardexReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *stock.KardexReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// KardexPDF godoc
// @Summary      Descargar kardex en PDF
// @Tags         reports
// @Produce      application/pdf
// @Param        skuID  path  string  true  "id del SKU"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reports/kardex/{skuID} [get]
func (h *ReportHandler) KardexPDF(c *fiber.Ctx) error {
	data, filename, err := h.uc.GeneratePDF(c.Context(), c.Params("skuID"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}
