package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
	"github.com/tu-usuario/kardex-pro/internal/domain/repository"
)

// SaleRepository implementación PostgreSQL de ventas.
type SaleRepository struct {
	db    Querier
	retry RetryPolicy
}

// NewSaleRepository crea el repositorio sobre un pool o una tx.
// Sin política de reintentos: cada lectura es un único intento.
func NewSaleRepository(db Querier) *SaleRepository {
	return &SaleRepository{db: db}
}

// WithRetry devuelve el repositorio con reintentos en las lecturas. Solo para
// instancias sobre el pool.
func (r *SaleRepository) WithRetry(p RetryPolicy) *SaleRepository {
	r.retry = p
	return r
}

var _ repository.SaleRepository = (*SaleRepository)(nil)

// CreateHeader inserta el encabezado de la venta.
func (r *SaleRepository) CreateHeader(h *entity.SaleHeader) error {
	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	if h.CreatedAt.IsZero() {
		h.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO sale_header
			(id, number, sale_date, location, cancelled_at, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(context.Background(), query,
		h.ID, h.Number, h.Date, h.Location, h.CancelledAt, h.CreatedAt, h.CreatedBy)
	return err
}

// CreateLine inserta una línea de venta.
func (r *SaleRepository) CreateLine(l *entity.SaleLineItem) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}

	query := `
		INSERT INTO sale_line_item (id, sale_id, sku_id, quantity)
		VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(context.Background(), query, l.ID, l.SaleID, l.SKUID, l.Quantity)
	return err
}

// GetByID devuelve el encabezado con sus líneas, o (nil, nil, nil) si no existe.
func (r *SaleRepository) GetByID(id string) (*entity.SaleHeader, []*entity.SaleLineItem, error) {
	var h *entity.SaleHeader
	var lines []*entity.SaleLineItem
	err := r.retry.Do("sale.get", func() error {
		var err error
		h, lines, err = r.getByID(id)
		return err
	})
	return h, lines, err
}

func (r *SaleRepository) getByID(id string) (*entity.SaleHeader, []*entity.SaleLineItem, error) {
	headQuery := `
		SELECT id, number, sale_date, location, cancelled_at, created_at, created_by
		FROM sale_header
		WHERE id = $1`

	var h entity.SaleHeader
	err := r.db.QueryRow(context.Background(), headQuery, id).
		Scan(&h.ID, &h.Number, &h.Date, &h.Location, &h.CancelledAt, &h.CreatedAt, &h.CreatedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, nil
		}
		return nil, nil, err
	}

	lineQuery := `
		SELECT id, sale_id, sku_id, quantity
		FROM sale_line_item
		WHERE sale_id = $1
		ORDER BY id`

	rows, err := r.db.Query(context.Background(), lineQuery, id)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var lines []*entity.SaleLineItem
	for rows.Next() {
		var l entity.SaleLineItem
		if err := rows.Scan(&l.ID, &l.SaleID, &l.SKUID, &l.Quantity); err != nil {
			return nil, nil, err
		}
		lines = append(lines, &l)
	}
	return &h, lines, rows.Err()
}

// MarkCancelled anula la venta. El ledger conserva los SALE_OUT originales;
// los reversos se agregan como movimientos nuevos.
func (r *SaleRepository) MarkCancelled(id string, at time.Time) error {
	query := `UPDATE sale_header SET cancelled_at = $2 WHERE id = $1`
	_, err := r.db.Exec(context.Background(), query, id, at)
	return err
}

// SumActiveQuantitySince suma las líneas de ventas no anuladas del SKU con
// fecha estrictamente posterior a since (nil = todo el historial).
func (r *SaleRepository) SumActiveQuantitySince(skuID string, since *time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.retry.Do("sale.sum_active", func() error {
		var err error
		total, err = r.sumActiveQuantitySince(skuID, since)
		return err
	})
	return total, err
}

func (r *SaleRepository) sumActiveQuantitySince(skuID string, since *time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(l.quantity), 0)
		FROM sale_line_item l
		JOIN sale_header h ON h.id = l.sale_id
		WHERE l.sku_id = $1
		  AND h.cancelled_at IS NULL
		  AND ($2::timestamptz IS NULL OR h.sale_date > $2)`

	var total decimal.Decimal
	err := r.db.QueryRow(context.Background(), query, skuID, since).Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}
