package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SalesSummary totales de ventas completadas en un período.
type SalesSummary struct {
	Count         int64
	Total         decimal.Decimal
	AverageTicket decimal.Decimal
}

// PaymentMethodTotal ventas agrupadas por forma de pago.
type PaymentMethodTotal struct {
	PaymentMethod string
	Count         int64
	Total         decimal.Decimal
}

// ProductSales producto con cantidad y valor vendidos en el período.
type ProductSales struct {
	ProductID   string
	ProductCode string
	ProductName string
	Quantity    int64
	Total       decimal.Decimal
}

// CustomerSales cliente con compras acumuladas en el período.
type CustomerSales struct {
	CustomerID   string
	CustomerName string
	Purchases    int64
	Total        decimal.Decimal
}

// DailySales total vendido en un día.
type DailySales struct {
	Day   time.Time
	Total decimal.Decimal
}

// SaleRow fila de venta para el listado del reporte (con nombre de cliente resuelto).
type SaleRow struct {
	Number       string
	Date         time.Time
	CustomerName string
	Total        decimal.Decimal
}

// ReportRepository consultas de solo lectura para reportes y dashboard.
// Solo considera ventas con estado completada.
type ReportRepository interface {
	GetSalesSummary(ctx context.Context, from, to time.Time) (*SalesSummary, error)
	GetSalesByPaymentMethod(ctx context.Context, from, to time.Time) ([]PaymentMethodTotal, error)
	GetTopProducts(ctx context.Context, from, to time.Time, limit int) ([]ProductSales, error)
	GetTopCustomers(ctx context.Context, from, to time.Time, limit int) ([]CustomerSales, error)
	GetDailySales(ctx context.Context, from, to time.Time) ([]DailySales, error)
	ListSales(ctx context.Context, from, to time.Time, limit int) ([]SaleRow, error)
	CountActiveProducts(ctx context.Context) (int64, error)
	CountActiveCustomers(ctx context.Context) (int64, error)
	CountLowStockProducts(ctx context.Context) (int64, error)
}
