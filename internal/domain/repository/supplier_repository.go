package repository

import "github.com/jhoicas/PuntoVenta-api/internal/domain/entity"

// SupplierRepository define el puerto de persistencia para Supplier.
type SupplierRepository interface {
	Create(supplier *entity.Supplier) error
	GetByID(id string) (*entity.Supplier, error)
	List(search string, limit, offset int) ([]*entity.Supplier, error)
	Update(supplier *entity.Supplier) error
	Deactivate(id string) error
}
