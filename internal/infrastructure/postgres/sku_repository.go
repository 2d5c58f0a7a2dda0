package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/kardex-pro/internal/domain"
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
	"github.com/tu-usuario/kardex-pro/internal/domain/repository"
)

// SKURepository implementación PostgreSQL del maestro de SKUs.
type SKURepository struct {
	db    Querier
	retry RetryPolicy
}

// NewSKURepository crea el repositorio sobre un pool o una tx.
// Sin política de reintentos: cada lectura es un único intento.
func NewSKURepository(db Querier) *SKURepository {
	return &SKURepository{db: db}
}

// WithRetry devuelve el repositorio con reintentos en las lecturas. Solo para
// instancias sobre el pool.
func (r *SKURepository) WithRetry(p RetryPolicy) *SKURepository {
	r.retry = p
	return r
}

var _ repository.SKURepository = (*SKURepository)(nil)

// Create inserta un SKU; código duplicado devuelve ErrDuplicate.
func (r *SKURepository) Create(s *entity.SKU) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	now := time.Now()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now

	query := `
		INSERT INTO skus (id, code, name, unit, category, cost_basis, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(context.Background(), query,
		s.ID, s.Code, s.Name, s.Unit, s.Category, s.CostBasis, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("código %s: %w", s.Code, domain.ErrDuplicate)
		}
		return err
	}
	return nil
}

// GetByID devuelve el SKU o nil si no existe.
func (r *SKURepository) GetByID(id string) (*entity.SKU, error) {
	return r.getBy("id", id)
}

// GetByCode devuelve el SKU o nil si no existe.
func (r *SKURepository) GetByCode(code string) (*entity.SKU, error) {
	return r.getBy("code", code)
}

func (r *SKURepository) getBy(column, value string) (*entity.SKU, error) {
	var s *entity.SKU
	err := r.retry.Do("sku.get", func() error {
		var err error
		s, err = r.queryBy(column, value)
		return err
	})
	return s, err
}

func (r *SKURepository) queryBy(column, value string) (*entity.SKU, error) {
	query := fmt.Sprintf(`
		SELECT id, code, name, unit, category, cost_basis, created_at, updated_at
		FROM skus
		WHERE %s = $1`, column)

	var s entity.SKU
	err := r.db.QueryRow(context.Background(), query, value).
		Scan(&s.ID, &s.Code, &s.Name, &s.Unit, &s.Category, &s.CostBasis, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// List devuelve una página del maestro ordenada por código.
func (r *SKURepository) List(limit, offset int) ([]*entity.SKU, error) {
	var out []*entity.SKU
	err := r.retry.Do("sku.list", func() error {
		var err error
		out, err = r.list(limit, offset)
		return err
	})
	return out, err
}

func (r *SKURepository) list(limit, offset int) ([]*entity.SKU, error) {
	query := `
		SELECT id, code, name, unit, category, cost_basis, created_at, updated_at
		FROM skus
		ORDER BY code
		LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.SKU
	for rows.Next() {
		var s entity.SKU
		if err := rows.Scan(&s.ID, &s.Code, &s.Name, &s.Unit, &s.Category,
			&s.CostBasis, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}
