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

// CountRepository implementación PostgreSQL de sesiones e ítems de conteo
// físico, y de los dos candidatos de checkpoint basados en tablas.
type CountRepository struct {
	db    Querier
	retry RetryPolicy
}

// NewCountRepository crea el repositorio sobre un pool o una tx.
// Sin política de reintentos: cada lectura es un único intento.
func NewCountRepository(db Querier) *CountRepository {
	return &CountRepository{db: db}
}

// WithRetry devuelve el repositorio con reintentos en las lecturas. Solo para
// instancias sobre el pool.
func (r *CountRepository) WithRetry(p RetryPolicy) *CountRepository {
	r.retry = p
	return r
}

var _ repository.CountRepository = (*CountRepository)(nil)

// CreateSession inserta el encabezado de una sesión de conteo.
func (r *CountRepository) CreateSession(s *entity.PhysicalCountSession) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO physical_count_session
			(id, location, effective_date, status, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(context.Background(), query,
		s.ID, s.Location, s.EffectiveDate, s.Status, s.CreatedAt, s.CreatedBy)
	return err
}

// GetSessionByID devuelve la sesión o nil si no existe.
func (r *CountRepository) GetSessionByID(id string) (*entity.PhysicalCountSession, error) {
	var s *entity.PhysicalCountSession
	err := r.retry.Do("count.get_session", func() error {
		var err error
		s, err = r.getSessionByID(id)
		return err
	})
	return s, err
}

func (r *CountRepository) getSessionByID(id string) (*entity.PhysicalCountSession, error) {
	query := `
		SELECT id, location, effective_date, status, created_at, created_by
		FROM physical_count_session
		WHERE id = $1`

	var s entity.PhysicalCountSession
	err := r.db.QueryRow(context.Background(), query, id).
		Scan(&s.ID, &s.Location, &s.EffectiveDate, &s.Status, &s.CreatedAt, &s.CreatedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// MarkSessionFinalized marca la sesión como aplicada.
func (r *CountRepository) MarkSessionFinalized(id string, at time.Time) error {
	query := `
		UPDATE physical_count_session
		SET status = $2, effective_date = $3
		WHERE id = $1`

	_, err := r.db.Exec(context.Background(), query, id, entity.CountSessionFinalized, at)
	return err
}

// CreateItem inserta un ítem de archivo de conteo.
func (r *CountRepository) CreateItem(item *entity.PhysicalCountItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO physical_count_item
			(id, session_id, sku_id, location, counted_quantity, system_quantity,
			 variance, status, effective_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.Exec(context.Background(), query,
		item.ID, item.SessionID, item.SKUID, item.Location, item.CountedQuantity,
		item.SystemQuantity, item.Variance, item.Status, item.EffectiveDate, item.CreatedAt)
	return err
}

// LatestSessionCandidate arma un candidato desde la sesión finalizada más
// reciente que archive un ítem del SKU dentro del alcance; nil si no hay.
func (r *CountRepository) LatestSessionCandidate(skuID string, scope entity.LocationScope) (*entity.CheckpointCandidate, error) {
	var c *entity.CheckpointCandidate
	err := r.retry.Do("count.session_candidate", func() error {
		var err error
		c, err = r.latestSessionCandidate(skuID, scope)
		return err
	})
	return c, err
}

func (r *CountRepository) latestSessionCandidate(skuID string, scope entity.LocationScope) (*entity.CheckpointCandidate, error) {
	query := `
		SELECT i.counted_quantity, s.effective_date, s.created_at
		FROM physical_count_item i
		JOIN physical_count_session s ON s.id = i.session_id
		WHERE i.sku_id = $1
		  AND s.status = $2
		  AND LOWER(i.location) = ANY($3)
		ORDER BY s.effective_date DESC, s.created_at DESC
		LIMIT 1`

	var c entity.CheckpointCandidate
	var effective time.Time
	err := r.db.QueryRow(context.Background(), query,
		skuID, entity.CountSessionFinalized, scope.Names()).
		Scan(&c.CountedQuantity, &effective, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	c.Source = entity.CheckpointFromSession
	c.AppliedAt = &effective
	return &c, nil
}

// LatestArchiveCandidate arma un candidato desde el ítem de archivo aplicado
// más reciente del SKU dentro del alcance; nil si no hay.
func (r *CountRepository) LatestArchiveCandidate(skuID string, scope entity.LocationScope) (*entity.CheckpointCandidate, error) {
	var c *entity.CheckpointCandidate
	err := r.retry.Do("count.archive_candidate", func() error {
		var err error
		c, err = r.latestArchiveCandidate(skuID, scope)
		return err
	})
	return c, err
}

func (r *CountRepository) latestArchiveCandidate(skuID string, scope entity.LocationScope) (*entity.CheckpointCandidate, error) {
	query := `
		SELECT counted_quantity, effective_date, created_at
		FROM physical_count_item
		WHERE sku_id = $1
		  AND status = $2
		  AND LOWER(location) = ANY($3)
		ORDER BY COALESCE(effective_date, created_at) DESC
		LIMIT 1`

	var c entity.CheckpointCandidate
	err := r.db.QueryRow(context.Background(), query,
		skuID, entity.CountItemApplied, scope.Names()).
		Scan(&c.CountedQuantity, &c.AppliedAt, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	c.Source = entity.CheckpointFromArchive
	return &c, nil
}
