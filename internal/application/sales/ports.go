package sales

import (
	"context"
	"time"

	"github.com/jhoicas/PuntoVenta-api/internal/application/stock"
	"github.com/jhoicas/PuntoVenta-api/internal/application/till"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/entity"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción que abarca los tres
// agregados del flujo de venta: venta, stock y caja. Todo se confirma junto o
// nada: una venta nunca existe sin sus efectos de stock y caja, ni al revés.
type TxRunner interface {
	RunSale(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		stockMovRepo repository.StockMovementRepository,
		saleRepo repository.SaleRepository,
		sessionRepo repository.CashSessionRepository,
		cashMovRepo repository.CashMovementRepository,
	) error) error
}

// StockLedger integra el flujo de venta con el libro de stock.
// ApplyInTx ejecuta el movimiento con los repositorios del caller (misma
// transacción); si retorna error (ej: ErrInsufficientStock), el caller hace
// rollback.
type StockLedger interface {
	ApplyInTx(
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
		in stock.MovementInput,
		now time.Time,
	) (int64, error)
}

// TillLedger integra el flujo de venta con el libro de caja.
type TillLedger interface {
	RecordInTx(
		movRepo repository.CashMovementRepository,
		session *entity.CashSession,
		in till.MovementInput,
		now time.Time,
	) (*entity.CashMovement, error)
}
