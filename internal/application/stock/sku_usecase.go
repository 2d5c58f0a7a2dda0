package stock

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/kardex-pro/internal/application/dto"
	"github.com/tu-usuario/kardex-pro/internal/domain"
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
	"github.com/tu-usuario/kardex-pro/internal/domain/repository"
)

// SKUUseCase operaciones del maestro de SKUs (dato de referencia).
type SKUUseCase struct {
	skus repository.SKURepository
}

// NewSKUUseCase construye el caso de uso.
func NewSKUUseCase(skus repository.SKURepository) *SKUUseCase {
	return &SKUUseCase{skus: skus}
}

// Create registra un SKU nuevo; el código debe ser único.
func (uc *SKUUseCase) Create(_ context.Context, in dto.CreateSKURequest) (*dto.SKUResponse, error) {
	existing, err := uc.skus.GetByCode(in.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	sku := &entity.SKU{
		ID:        uuid.New().String(),
		Code:      in.Code,
		Name:      in.Name,
		Unit:      in.Unit,
		Category:  in.Category,
		CostBasis: in.CostBasis,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.skus.Create(sku); err != nil {
		return nil, err
	}
	return toSKUResponse(sku), nil
}

// List devuelve una página del maestro.
func (uc *SKUUseCase) List(_ context.Context, page dto.PageRequest) ([]dto.SKUResponse, error) {
	page.DefaultPage()
	skus, err := uc.skus.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SKUResponse, 0, len(skus))
	for _, s := range skus {
		out = append(out, *toSKUResponse(s))
	}
	return out, nil
}

// GetByID devuelve un SKU por id.
func (uc *SKUUseCase) GetByID(_ context.Context, id string) (*dto.SKUResponse, error) {
	sku, err := uc.skus.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sku == nil {
		return nil, domain.ErrNotFound
	}
	return toSKUResponse(sku), nil
}

func toSKUResponse(s *entity.SKU) *dto.SKUResponse {
	return &dto.SKUResponse{
		ID:        s.ID,
		Code:      s.Code,
		Name:      s.Name,
		Unit:      s.Unit,
		Category:  s.Category,
		CostBasis: s.CostBasis,
		CreatedAt: s.CreatedAt,
	}
}
