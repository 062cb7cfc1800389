package stock

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/PuntoVenta-api/internal/application/dto"
	"github.com/jhoicas/PuntoVenta-api/internal/domain"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/entity"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/repository"
)

// Ledger aplica cambios de stock con bloqueo de fila (SELECT FOR UPDATE) y
// deja exactamente un registro de auditoría por mutación, en la misma
// transacción que la mutación.
type Ledger struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	movRepo     repository.StockMovementRepository
}

// NewLedger construye el libro de stock. productRepo y movRepo atados al pool
// (solo lecturas); las escrituras pasan por txRunner.
func NewLedger(txRunner TxRunner, productRepo repository.ProductRepository, movRepo repository.StockMovementRepository) *Ledger {
	return &Ledger{txRunner: txRunner, productRepo: productRepo, movRepo: movRepo}
}

// MovementInput entrada para aplicar un movimiento de stock.
// Quantity siempre positiva. Para Kind=ajuste es el valor absoluto final del
// stock, no un delta: asimetría deliberada frente a entrada/salida.
type MovementInput struct {
	ProductID string
	Kind      string // entrada, salida, ajuste
	Quantity  int64
	Reason    string
	ActorID   string
}

func (in MovementInput) validate() error {
	switch in.Kind {
	case entity.MovementIn, entity.MovementOut, entity.MovementAdjust:
	default:
		return domain.ErrInvalidInput
	}
	if in.Quantity <= 0 || in.ProductID == "" {
		return domain.ErrInvalidInput
	}
	return nil
}

// ApplyMovement inicia una transacción, aplica el movimiento y hace Commit o
// Rollback. Devuelve el stock resultante.
func (l *Ledger) ApplyMovement(ctx context.Context, in MovementInput) (int64, error) {
	if err := in.validate(); err != nil {
		return 0, err
	}
	now := time.Now()
	var after int64
	err := l.txRunner.RunStock(ctx, func(
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
	) error {
		var err error
		after, err = l.ApplyInTx(productRepo, movRepo, in, now)
		return err
	})
	if err != nil {
		return 0, err
	}
	return after, nil
}

// ApplyInTx aplica el movimiento usando los repositorios del caller (misma
// transacción). Lo usa el flujo de venta para debitar stock dentro de su propia
// tx. Bloquea la fila del producto, re-valida contra el estado visible en la
// transacción y registra la auditoría con stock antes/después.
func (l *Ledger) ApplyInTx(
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	in MovementInput,
	now time.Time,
) (int64, error) {
	if err := in.validate(); err != nil {
		return 0, err
	}
	product, err := productRepo.GetForUpdate(in.ProductID)
	if err != nil {
		return 0, err
	}
	if product == nil {
		return 0, domain.ErrProductNotFound
	}

	before := product.Stock
	var after int64
	switch in.Kind {
	case entity.MovementIn:
		after = before + in.Quantity
	case entity.MovementOut:
		if before < in.Quantity {
			return 0, &domain.InsufficientStockError{ProductID: product.ID}
		}
		after = before - in.Quantity
	case entity.MovementAdjust:
		// Ajuste fija el stock en el valor absoluto recibido.
		after = in.Quantity
	}

	if err := productRepo.UpdateStock(product.ID, after); err != nil {
		return 0, err
	}
	mov := &entity.StockMovement{
		ID:          uuid.New().String(),
		ProductID:   product.ID,
		Kind:        in.Kind,
		Quantity:    in.Quantity,
		StockBefore: before,
		StockAfter:  after,
		Reason:      in.Reason,
		CreatedBy:   in.ActorID,
		CreatedAt:   now,
	}
	if err := movRepo.Create(mov); err != nil {
		return 0, err
	}
	return after, nil
}

// ListMovements historial de movimientos, filtrable por producto y tipo.
func (l *Ledger) ListMovements(ctx context.Context, productID, kind string, page dto.PageRequest) ([]dto.StockMovementResponse, error) {
	page.DefaultPage()
	movs, err := l.movRepo.List(productID, kind, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockMovementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, dto.StockMovementResponse{
			ID:          m.ID,
			ProductID:   m.ProductID,
			Kind:        m.Kind,
			Quantity:    m.Quantity,
			StockBefore: m.StockBefore,
			StockAfter:  m.StockAfter,
			Reason:      m.Reason,
			CreatedBy:   m.CreatedBy,
			CreatedAt:   m.CreatedAt,
		})
	}
	return out, nil
}

// ListLowStock productos activos en o por debajo del stock mínimo.
func (l *Ledger) ListLowStock(ctx context.Context, page dto.PageRequest) ([]*entity.Product, error) {
	page.DefaultPage()
	return l.productRepo.ListLowStock(page.Limit, page.Offset)
}
