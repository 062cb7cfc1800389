package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un turno de caja.
const (
	SessionOpen   = "abierto"
	SessionClosed = "cerrado"
)

// Prefijo de numeración de turnos: CX000001, CX000002, ...
const SessionNumberPrefix = "CX"

// CashSession representa un turno de caja: un período acotado durante el cual
// se registran movimientos de efectivo contra un saldo de apertura y cierre.
// Invariante: a lo sumo un turno con estado abierto a la vez (índice parcial único).
type CashSession struct {
	ID             string
	Number         string // CX + secuencial de 6 dígitos
	OpenedAt       time.Time
	ClosedAt       *time.Time
	OpenedBy       string // UserID
	ClosedBy       string // UserID; vacío mientras está abierto
	OpeningBalance decimal.Decimal
	ClosingBalance *decimal.Decimal // calculado al cerrar: apertura + entradas - salidas
	Status         string
	Notes          string
}

// Tipos de movimiento de caja.
const (
	CashIn  = "entrada"
	CashOut = "salida"
)

// CashMovement es el registro de auditoría de un movimiento de efectivo.
// Append-only; el saldo del turno no se materializa por movimiento, se calcula.
type CashMovement struct {
	ID            string
	SessionID     string
	Kind          string // entrada, salida
	Amount        decimal.Decimal
	PaymentMethod string
	Description   string
	SaleID        string // opcional: venta vinculada
	CreatedBy     string // UserID
	CreatedAt     time.Time
}
