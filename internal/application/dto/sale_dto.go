package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLineRequest una línea del carrito.
type SaleLineRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
}

// ProcessSaleRequest cuerpo para procesar una venta.
type ProcessSaleRequest struct {
	CustomerID    string            `json:"customer_id"`
	Lines         []SaleLineRequest `json:"lines"`
	PaymentMethod string            `json:"payment_method"`
	Discount      decimal.Decimal   `json:"discount"`
	Notes         string            `json:"notes"`
}

// ProcessSaleResponse resultado de una venta procesada.
type ProcessSaleResponse struct {
	SaleID string `json:"sale_id"`
	Number string `json:"number"`
}

// SaleItemResponse línea de venta en respuestas.
type SaleItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Discount  decimal.Decimal `json:"discount"`
	Total     decimal.Decimal `json:"total"`
}

// SaleResponse venta completa con líneas.
type SaleResponse struct {
	ID            string             `json:"id"`
	Number        string             `json:"number"`
	Date          time.Time          `json:"date"`
	CustomerID    string             `json:"customer_id,omitempty"`
	SellerID      string             `json:"seller_id"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	Discount      decimal.Decimal    `json:"discount"`
	Total         decimal.Decimal    `json:"total"`
	PaymentMethod string             `json:"payment_method"`
	Status        string             `json:"status"`
	Notes         string             `json:"notes,omitempty"`
	Items         []SaleItemResponse `json:"items,omitempty"`
}
