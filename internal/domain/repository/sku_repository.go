package repository

import "github.com/tu-usuario/kardex-pro/internal/domain/entity"

// SKURepository define el puerto de persistencia del maestro de SKUs.
type SKURepository interface {
	Create(s *entity.SKU) error
	GetByID(id string) (*entity.SKU, error)
	GetByCode(code string) (*entity.SKU, error)
	List(limit, offset int) ([]*entity.SKU, error)
}
