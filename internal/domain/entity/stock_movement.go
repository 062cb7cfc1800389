package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementIn     = "entrada"
	MovementOut    = "salida"
	MovementAdjust = "ajuste" // fija el stock en un valor absoluto
)

// StockMovement es el registro de auditoría de un cambio de stock.
// Append-only: se crea junto con la mutación y nunca se actualiza ni borra.
type StockMovement struct {
	ID          string
	ProductID   string
	Kind        string // entrada, salida, ajuste
	Quantity    int64  // siempre positiva; el signo lo da Kind
	StockBefore int64
	StockAfter  int64
	Reason      string
	CreatedBy   string // UserID
	CreatedAt   time.Time
}
