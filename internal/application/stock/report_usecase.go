package stock

import (
	"context"
	"fmt"

	"github.com/tu-usuario/kardex-pro/internal/domain"
	"github.com/tu-usuario/kardex-pro/internal/domain/repository"
)

// KardexReportUseCase genera el reporte PDF del kardex de un SKU: el mismo
// desglose de la consulta, en papel para el operador.
type KardexReportUseCase struct {
	breakdown *BreakdownUseCase
	skus      repository.SKURepository
	pdf       KardexPDFGenerator
}

// NewKardexReportUseCase construye el caso de uso.
func NewKardexReportUseCase(breakdown *BreakdownUseCase, skus repository.SKURepository, pdf KardexPDFGenerator) *KardexReportUseCase {
	return &KardexReportUseCase{breakdown: breakdown, skus: skus, pdf: pdf}
}

// GeneratePDF devuelve los bytes del PDF y un nombre de archivo sugerido.
func (uc *KardexReportUseCase) GeneratePDF(ctx context.Context, skuID string) ([]byte, string, error) {
	sku, err := uc.skus.GetByID(skuID)
	if err != nil {
		return nil, "", err
	}
	if sku == nil {
		return nil, "", domain.ErrNotFound
	}
	bd, err := uc.breakdown.GetBreakdown(ctx, skuID, nil)
	if err != nil {
		return nil, "", err
	}
	data, err := uc.pdf.GenerateKardexPDF(ctx, sku, bd)
	if err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("kardex_%s.pdf", sku.Code)
	return data, filename, nil
}
