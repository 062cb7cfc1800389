package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta. Transición única: completada -> anulada.
const (
	SaleCompleted = "completada"
	SaleCancelled = "anulada"
)

// Prefijo de numeración de ventas: VND000001, VND000002, ...
const SaleNumberPrefix = "VND"

// Formas de pago aceptadas.
const (
	PaymentCash     = "efectivo"
	PaymentCard     = "tarjeta"
	PaymentMpesa    = "mpesa"
	PaymentTransfer = "transferencia"
)

// Sale representa la cabecera de una venta. Se crea junto con sus ítems en una
// sola transacción y después solo muta el campo Status (anulación).
type Sale struct {
	ID            string
	Number        string // VND + secuencial de 6 dígitos
	Date          time.Time
	CustomerID    string // opcional
	SellerID      string // UserID del vendedor
	Subtotal      decimal.Decimal
	Discount      decimal.Decimal
	Total         decimal.Decimal
	PaymentMethod string
	Status        string
	Notes         string
}

// SaleItem es una línea de venta. Inmutable una vez completada la venta;
// solo la anulación a nivel de venta revierte su efecto.
type SaleItem struct {
	ID        string
	SaleID    string
	ProductID string
	Quantity  int64
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal // Quantity × UnitPrice
	Discount  decimal.Decimal
	Total     decimal.Decimal // Subtotal - Discount
}
