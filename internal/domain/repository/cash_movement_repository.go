package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/PuntoVenta-api/internal/domain/entity"
)

// CashMovementRepository define el puerto para la auditoría de caja.
// Append-only, igual que StockMovementRepository.
type CashMovementRepository interface {
	Create(movement *entity.CashMovement) error
	ListBySession(sessionID string) ([]*entity.CashMovement, error)
	// SumBySession devuelve el total de entradas y salidas del turno.
	SumBySession(sessionID string) (in, out decimal.Decimal, err error)
	// SumBySessionAndMethod agrupa las entradas del turno por forma de pago.
	SumBySessionAndMethod(sessionID string) (map[string]decimal.Decimal, error)
}
