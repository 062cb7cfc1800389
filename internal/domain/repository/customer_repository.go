package repository

import "github.com/jhoicas/PuntoVenta-api/internal/domain/entity"

// CustomerRepository define el puerto de persistencia para Customer.
type CustomerRepository interface {
	Create(customer *entity.Customer) error
	GetByID(id string) (*entity.Customer, error)
	List(search string, limit, offset int) ([]*entity.Customer, error)
	Update(customer *entity.Customer) error
	Deactivate(id string) error
}
