package dto

import "time"

// StockAdjustRequest cuerpo para registrar un movimiento de stock manual.
// Para kind=ajuste, quantity es el valor absoluto final, no un delta.
type StockAdjustRequest struct {
	Kind     string `json:"kind"` // entrada, salida, ajuste
	Quantity int64  `json:"quantity"`
	Reason   string `json:"reason"`
}

// StockMovementResponse representación HTTP de un movimiento de stock.
type StockMovementResponse struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	Kind        string    `json:"kind"`
	Quantity    int64     `json:"quantity"`
	StockBefore int64     `json:"stock_before"`
	StockAfter  int64     `json:"stock_after"`
	Reason      string    `json:"reason,omitempty"`
	CreatedBy   string    `json:"created_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
