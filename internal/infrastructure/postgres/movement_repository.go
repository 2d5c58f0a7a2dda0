package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
	"github.com/tu-usuario/kardex-pro/internal/domain/repository"
)

// MovementRepository implementación PostgreSQL del ledger de movimientos.
// Append-only: solo INSERT y SELECT; no existen UPDATE ni DELETE sobre
// stock_movement_ledger.
type MovementRepository struct {
	db    Querier
	retry RetryPolicy
}

// NewMovementRepository crea el repositorio sobre un pool o una tx.
// Sin política de reintentos: cada lectura es un único intento.
func NewMovementRepository(db Querier) *MovementRepository {
	return &MovementRepository{db: db}
}

// WithRetry devuelve el repositorio con reintentos en las lecturas. Solo para
// instancias sobre el pool; dentro de una tx el reintento rompería la tx.
func (r *MovementRepository) WithRetry(p RetryPolicy) *MovementRepository {
	r.retry = p
	return r
}

var _ repository.MovementRepository = (*MovementRepository)(nil)

// Append agrega un evento al ledger.
func (r *MovementRepository) Append(m *entity.StockMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO stock_movement_ledger
			(id, sku_id, movement_type, source_location, destination_location,
			 quantity, reference, note, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.Exec(context.Background(), query,
		m.ID, m.SKUID, string(m.Type), m.SourceLocation, m.DestinationLocation,
		m.Quantity, m.Reference, m.Note, m.CreatedAt, m.CreatedBy)
	return err
}

// ListBySKUInScope devuelve los movimientos del SKU cuyo origen o destino cae
// en el alcance, más reciente primero.
func (r *MovementRepository) ListBySKUInScope(skuID string, scope entity.LocationScope, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	err := r.retry.Do("movement.list", func() error {
		var err error
		out, err = r.listBySKUInScope(skuID, scope, limit, offset)
		return err
	})
	return out, err
}

func (r *MovementRepository) listBySKUInScope(skuID string, scope entity.LocationScope, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, sku_id, movement_type, source_location, destination_location,
		       quantity, reference, note, created_at, created_by
		FROM stock_movement_ledger
		WHERE sku_id = $1
		  AND (LOWER(source_location) = ANY($2) OR LOWER(destination_location) = ANY($2))
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4`

	rows, err := r.db.Query(context.Background(), query, skuID, scope.Names(), limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// LatestCountEvent devuelve el COUNT_APPLIED más reciente del SKU dentro del
// alcance, o nil si no existe.
func (r *MovementRepository) LatestCountEvent(skuID string, scope entity.LocationScope) (*entity.StockMovement, error) {
	var m *entity.StockMovement
	err := r.retry.Do("movement.latest_count", func() error {
		var err error
		m, err = r.latestCountEvent(skuID, scope)
		return err
	})
	return m, err
}

func (r *MovementRepository) latestCountEvent(skuID string, scope entity.LocationScope) (*entity.StockMovement, error) {
	query := `
		SELECT id, sku_id, movement_type, source_location, destination_location,
		       quantity, reference, note, created_at, created_by
		FROM stock_movement_ledger
		WHERE sku_id = $1
		  AND movement_type = $2
		  AND (LOWER(source_location) = ANY($3) OR LOWER(destination_location) = ANY($3))
		ORDER BY created_at DESC, id DESC
		LIMIT 1`

	row := r.db.QueryRow(context.Background(), query, skuID, string(entity.MovementCountApplied), scope.Names())
	m, err := scanMovement(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return m, nil
}

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	var typ string
	err := row.Scan(&m.ID, &m.SKUID, &typ, &m.SourceLocation, &m.DestinationLocation,
		&m.Quantity, &m.Reference, &m.Note, &m.CreatedAt, &m.CreatedBy)
	if err != nil {
		return nil, err
	}
	m.Type = entity.MovementType(typ)
	return &m, nil
}
