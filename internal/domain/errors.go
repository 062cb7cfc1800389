package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")

	// Errores del flujo de venta y caja.
	ErrNoOpenSession      = errors.New("ningún turno de caja abierto")
	ErrSessionAlreadyOpen = errors.New("ya existe un turno de caja abierto")
	ErrEmptySale          = errors.New("la venta no tiene líneas")
	ErrProductNotFound    = errors.New("producto no encontrado")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrSaleNotFound       = errors.New("venta no encontrada")
	ErrAlreadyCancelled   = errors.New("la venta ya fue anulada")

	// ErrNumberConflict: colisión de numeración secuencial bajo inserciones
	// concurrentes. Reintentable: el caso de uso vuelve a generar el número.
	ErrNumberConflict = errors.New("conflicto de numeración")

	// ErrStorageFailure envuelve cualquier fallo de persistencia no mapeado.
	ErrStorageFailure = errors.New("fallo de persistencia")
)

// InsufficientStockError identifica el producto sin stock suficiente.
// errors.Is(err, ErrInsufficientStock) sigue funcionando vía Unwrap.
type InsufficientStockError struct {
	ProductID string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para el producto %s", e.ProductID)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }
