package repository

import "github.com/jhoicas/PuntoVenta-api/internal/domain/entity"

// StockMovementRepository define el puerto para la auditoría de stock.
// Solo inserción y lectura: los movimientos nunca se actualizan ni borran.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	ListByProduct(productID string, limit, offset int) ([]*entity.StockMovement, error)
	List(productID, kind string, limit, offset int) ([]*entity.StockMovement, error)
}
