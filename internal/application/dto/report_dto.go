package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesReportResponse reporte de ventas de un período.
type SalesReportResponse struct {
	From          time.Time            `json:"from"`
	To            time.Time            `json:"to"`
	Count         int64                `json:"count"`
	Total         decimal.Decimal      `json:"total"`
	AverageTicket decimal.Decimal      `json:"average_ticket"`
	ByMethod      []PaymentMethodRow   `json:"by_payment_method"`
	Sales         []ReportSaleRow      `json:"sales"`
}

// PaymentMethodRow fila de desglose por forma de pago.
type PaymentMethodRow struct {
	PaymentMethod string          `json:"payment_method"`
	Count         int64           `json:"count"`
	Total         decimal.Decimal `json:"total"`
}

// ReportSaleRow fila del listado de ventas del reporte.
type ReportSaleRow struct {
	Number       string          `json:"number"`
	Date         time.Time       `json:"date"`
	CustomerName string          `json:"customer_name"`
	Total        decimal.Decimal `json:"total"`
}

// TopProductRow producto más vendido.
type TopProductRow struct {
	ProductID   string          `json:"product_id"`
	ProductCode string          `json:"product_code"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	Total       decimal.Decimal `json:"total"`
}

// TopCustomerRow cliente con más compras.
type TopCustomerRow struct {
	CustomerID   string          `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	Purchases    int64           `json:"purchases"`
	Total        decimal.Decimal `json:"total"`
}

// DailySalesRow total vendido en un día (serie del dashboard).
type DailySalesRow struct {
	Day   string          `json:"day"` // formato DD/MM
	Total decimal.Decimal `json:"total"`
}

// DashboardResponse métricas del dashboard principal.
type DashboardResponse struct {
	SalesToday      decimal.Decimal `json:"sales_today"`
	SalesMonth      decimal.Decimal `json:"sales_month"`
	ActiveProducts  int64           `json:"active_products"`
	ActiveCustomers int64           `json:"active_customers"`
	LowStockCount   int64           `json:"low_stock_count"`
	LastSales       []ReportSaleRow `json:"last_sales"`
	TopProducts     []TopProductRow `json:"top_products"`
	SalesByDay      []DailySalesRow `json:"sales_by_day"`
}
