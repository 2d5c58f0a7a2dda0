package repository

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
)

// SaleRepository define el puerto para ventas. Las ventas vivas son la fuente
// autoritativa de salidas por venta en el replay.
type SaleRepository interface {
	CreateHeader(h *entity.SaleHeader) error
	CreateLine(l *entity.SaleLineItem) error
	GetByID(id string) (*entity.SaleHeader, []*entity.SaleLineItem, error)
	MarkCancelled(id string, at time.Time) error
	// SumActiveQuantitySince suma las líneas de ventas no anuladas del SKU
	// con fecha estrictamente posterior a since (nil = todo el historial).
	SumActiveQuantitySince(skuID string, since *time.Time) (decimal.Decimal, error)
}
