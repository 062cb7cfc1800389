package repository

import "github.com/jhoicas/PuntoVenta-api/internal/domain/entity"

// CategoryRepository define el puerto de persistencia para Category.
type CategoryRepository interface {
	Create(category *entity.Category) error
	GetByID(id string) (*entity.Category, error)
	List(onlyActive bool) ([]*entity.Category, error)
	Update(category *entity.Category) error
}
