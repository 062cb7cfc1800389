package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del catálogo.
// Stock es la cantidad disponible; toda mutación pasa por el libro de stock
// (nunca se edita directo) y queda registrada en StockMovement.
type Product struct {
	ID         string
	Code       string // código único
	Name       string
	Description string
	CategoryID string
	SupplierID string
	CostPrice  decimal.Decimal
	SalePrice  decimal.Decimal
	Stock      int64
	MinStock   int64
	Unit       string // UN, KG, L, etc.
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// LowStock indica si el producto está en o por debajo del mínimo.
func (p *Product) LowStock() bool {
	return p.Stock <= p.MinStock
}

// ProfitMargin margen de ganancia en porcentaje sobre el costo.
func (p *Product) ProfitMargin() decimal.Decimal {
	if p.CostPrice.IsZero() {
		return decimal.Zero
	}
	return p.SalePrice.Sub(p.CostPrice).Div(p.CostPrice).Mul(decimal.NewFromInt(100))
}
