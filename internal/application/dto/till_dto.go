package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OpenSessionRequest cuerpo para abrir un turno de caja.
type OpenSessionRequest struct {
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

// CloseSessionRequest cuerpo para cerrar el turno abierto.
type CloseSessionRequest struct {
	Notes string `json:"notes"`
}

// CashMovementRequest cuerpo para registrar un movimiento manual de caja.
type CashMovementRequest struct {
	Kind          string          `json:"kind"` // entrada, salida
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	Description   string          `json:"description"`
}

// CashMovementResponse movimiento de caja en respuestas.
type CashMovementResponse struct {
	ID            string          `json:"id"`
	SessionID     string          `json:"session_id"`
	Kind          string          `json:"kind"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	Description   string          `json:"description,omitempty"`
	SaleID        string          `json:"sale_id,omitempty"`
	CreatedBy     string          `json:"created_by,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// SessionResponse turno de caja en respuestas.
type SessionResponse struct {
	ID             string           `json:"id"`
	Number         string           `json:"number"`
	Status         string           `json:"status"`
	OpenedAt       time.Time        `json:"opened_at"`
	ClosedAt       *time.Time       `json:"closed_at,omitempty"`
	OpenedBy       string           `json:"opened_by"`
	ClosedBy       string           `json:"closed_by,omitempty"`
	OpeningBalance decimal.Decimal  `json:"opening_balance"`
	ClosingBalance *decimal.Decimal `json:"closing_balance,omitempty"`
	Notes          string           `json:"notes,omitempty"`
}

// SessionStatusResponse turno abierto con totales corrientes.
type SessionStatusResponse struct {
	Session        SessionResponse            `json:"session"`
	TotalIn        decimal.Decimal            `json:"total_in"`
	TotalOut       decimal.Decimal            `json:"total_out"`
	CurrentBalance decimal.Decimal            `json:"current_balance"`
	ByMethod       map[string]decimal.Decimal `json:"by_payment_method"`
	Movements      []CashMovementResponse     `json:"movements"`
}
