package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/PuntoVenta-api/internal/application/dto"
	"github.com/jhoicas/PuntoVenta-api/internal/application/stock"
	"github.com/jhoicas/PuntoVenta-api/internal/application/till"
	"github.com/jhoicas/PuntoVenta-api/internal/domain"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/entity"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/repository"
)

// maxNumberRetries reintentos ante colisión del consecutivo VND.
const maxNumberRetries = 3

// Workflow orquesta el procesamiento y la anulación de ventas: convierte un
// carrito en una venta confirmada con débito de stock y crédito de caja
// consistentes, dentro de una sola transacción.
type Workflow struct {
	txRunner    TxRunner
	stockLedger StockLedger
	tillLedger  TillLedger
	saleRepo    repository.SaleRepository
}

// NewWorkflow construye el flujo de venta. saleRepo atado al pool (lecturas).
func NewWorkflow(txRunner TxRunner, stockLedger StockLedger, tillLedger TillLedger, saleRepo repository.SaleRepository) *Workflow {
	return &Workflow{
		txRunner:    txRunner,
		stockLedger: stockLedger,
		tillLedger:  tillLedger,
		saleRepo:    saleRepo,
	}
}

// LineInput una línea del carrito.
type LineInput struct {
	ProductID string
	Quantity  int64
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal
}

// ProcessSaleInput entrada del flujo de venta.
type ProcessSaleInput struct {
	CustomerID    string // opcional
	SellerID      string
	Lines         []LineInput
	PaymentMethod string
	Discount      decimal.Decimal
	Notes         string
}

// ProcessSale procesa una venta completa:
//
//  1. Precondición: turno de caja abierto (bloqueado FOR UPDATE).
//  2. Validación de todas las líneas con bloqueo de fila por producto, en el
//     orden de entrada, antes de aplicar cualquier mutación: si una línea
//     falla, la operación entera se rechaza sin efectos.
//  3. Consecutivo VND, cabecera (estado completada) y líneas.
//  4. Débito de stock por línea y crédito de caja por el total, vía los libros.
//
// Todo dentro de una transacción; colisión de numeración se reintenta hasta
// maxNumberRetries veces antes de rendirse con ErrStorageFailure.
func (w *Workflow) ProcessSale(ctx context.Context, in ProcessSaleInput) (*dto.ProcessSaleResponse, error) {
	if in.SellerID == "" || in.PaymentMethod == "" {
		return nil, domain.ErrInvalidInput
	}
	if len(in.Lines) == 0 {
		return nil, domain.ErrEmptySale
	}
	for _, line := range in.Lines {
		if line.ProductID == "" || line.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		if line.UnitPrice.IsNegative() || line.Discount.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
	}
	if in.Discount.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	var resp *dto.ProcessSaleResponse
	for attempt := 0; attempt < maxNumberRetries; attempt++ {
		err := w.txRunner.RunSale(ctx, func(
			productRepo repository.ProductRepository,
			stockMovRepo repository.StockMovementRepository,
			saleRepo repository.SaleRepository,
			sessionRepo repository.CashSessionRepository,
			cashMovRepo repository.CashMovementRepository,
		) error {
			session, err := sessionRepo.GetOpenForUpdate()
			if err != nil {
				return err
			}
			if session == nil {
				return domain.ErrNoOpenSession
			}

			// Validación de toda la venta antes de cualquier mutación. Los
			// bloqueos de fila se mantienen hasta el commit, así el chequeo
			// stock >= cantidad sigue válido al debitar.
			for _, line := range in.Lines {
				product, err := productRepo.GetForUpdate(line.ProductID)
				if err != nil {
					return err
				}
				if product == nil {
					return domain.ErrProductNotFound
				}
				if product.Stock < line.Quantity {
					return &domain.InsufficientStockError{ProductID: product.ID}
				}
			}

			number, err := saleRepo.NextNumber()
			if err != nil {
				return err
			}
			now := time.Now()

			subtotal := decimal.Zero
			items := make([]*entity.SaleItem, 0, len(in.Lines))
			for _, line := range in.Lines {
				lineSubtotal := line.UnitPrice.Mul(decimal.NewFromInt(line.Quantity))
				lineTotal := lineSubtotal.Sub(line.Discount)
				subtotal = subtotal.Add(lineTotal)
				items = append(items, &entity.SaleItem{
					ID:        uuid.New().String(),
					ProductID: line.ProductID,
					Quantity:  line.Quantity,
					UnitPrice: line.UnitPrice,
					Subtotal:  lineSubtotal,
					Discount:  line.Discount,
					Total:     lineTotal,
				})
			}
			sale := &entity.Sale{
				ID:            uuid.New().String(),
				Number:        number,
				Date:          now,
				CustomerID:    in.CustomerID,
				SellerID:      in.SellerID,
				Subtotal:      subtotal,
				Discount:      in.Discount,
				Total:         subtotal.Sub(in.Discount),
				PaymentMethod: in.PaymentMethod,
				Status:        entity.SaleCompleted,
				Notes:         in.Notes,
			}
			if err := saleRepo.Create(sale); err != nil {
				return err
			}
			for _, item := range items {
				item.SaleID = sale.ID
				if err := saleRepo.CreateItem(item); err != nil {
					return err
				}
			}

			for _, line := range in.Lines {
				if _, err := w.stockLedger.ApplyInTx(productRepo, stockMovRepo, stock.MovementInput{
					ProductID: line.ProductID,
					Kind:      entity.MovementOut,
					Quantity:  line.Quantity,
					Reason:    "Venta " + number,
					ActorID:   in.SellerID,
				}, now); err != nil {
					return err
				}
			}

			if _, err := w.tillLedger.RecordInTx(cashMovRepo, session, till.MovementInput{
				Kind:          entity.CashIn,
				Amount:        sale.Total,
				PaymentMethod: in.PaymentMethod,
				Description:   "Venta " + number,
				ActorID:       in.SellerID,
				SaleID:        sale.ID,
			}, now); err != nil {
				return err
			}

			resp = &dto.ProcessSaleResponse{SaleID: sale.ID, Number: sale.Number}
			return nil
		})
		if errors.Is(err, domain.ErrNumberConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return resp, nil
	}
	return nil, fmt.Errorf("procesar venta: agotados los reintentos de numeración: %w", domain.ErrStorageFailure)
}

// CancelSale anula una venta completada. Transición única completada ->
// anulada: un segundo intento se rechaza con ErrAlreadyCancelled, no se repite.
//
// El stock se revierte por delta relativo (entrada por la cantidad original),
// no restaurando un valor absoluto: si el stock se ajustó por fuera desde la
// venta, la reversión sigue siendo un incremento relativo. La reversión de
// caja es best-effort: solo si hay algún turno abierto al momento de anular
// (no necesariamente el de la venta); sin turno abierto se omite y la
// anulación igualmente procede. Ambas políticas son deliberadas.
func (w *Workflow) CancelSale(ctx context.Context, saleID, actorID string) error {
	if saleID == "" || actorID == "" {
		return domain.ErrInvalidInput
	}
	return w.txRunner.RunSale(ctx, func(
		productRepo repository.ProductRepository,
		stockMovRepo repository.StockMovementRepository,
		saleRepo repository.SaleRepository,
		sessionRepo repository.CashSessionRepository,
		cashMovRepo repository.CashMovementRepository,
	) error {
		sale, err := saleRepo.GetForUpdate(saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrSaleNotFound
		}
		if sale.Status == entity.SaleCancelled {
			return domain.ErrAlreadyCancelled
		}

		items, err := saleRepo.GetItems(sale.ID)
		if err != nil {
			return err
		}
		now := time.Now()
		for _, item := range items {
			if _, err := w.stockLedger.ApplyInTx(productRepo, stockMovRepo, stock.MovementInput{
				ProductID: item.ProductID,
				Kind:      entity.MovementIn,
				Quantity:  item.Quantity,
				Reason:    "Anulación venta " + sale.Number,
				ActorID:   actorID,
			}, now); err != nil {
				return err
			}
		}

		if err := saleRepo.UpdateStatus(sale.ID, entity.SaleCancelled); err != nil {
			return err
		}

		session, err := sessionRepo.GetOpenForUpdate()
		if err != nil {
			return err
		}
		if session != nil {
			if _, err := w.tillLedger.RecordInTx(cashMovRepo, session, till.MovementInput{
				Kind:          entity.CashOut,
				Amount:        sale.Total,
				PaymentMethod: sale.PaymentMethod,
				Description:   "Anulación venta " + sale.Number,
				ActorID:       actorID,
				SaleID:        sale.ID,
			}, now); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetSale venta por ID con sus líneas.
func (w *Workflow) GetSale(ctx context.Context, id string) (*dto.SaleResponse, error) {
	sale, err := w.saleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrSaleNotFound
	}
	items, err := w.saleRepo.GetItems(sale.ID)
	if err != nil {
		return nil, err
	}
	resp := toSaleResponse(sale)
	for _, item := range items {
		resp.Items = append(resp.Items, dto.SaleItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal,
			Discount:  item.Discount,
			Total:     item.Total,
		})
	}
	return resp, nil
}

// ListSales ventas con filtro de fechas y estado.
func (w *Workflow) ListSales(ctx context.Context, from, to *time.Time, status string, page dto.PageRequest) ([]dto.SaleResponse, error) {
	page.DefaultPage()
	sales, err := w.saleRepo.List(from, to, status, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SaleResponse, 0, len(sales))
	for _, s := range sales {
		out = append(out, *toSaleResponse(s))
	}
	return out, nil
}

func toSaleResponse(s *entity.Sale) *dto.SaleResponse {
	return &dto.SaleResponse{
		ID:            s.ID,
		Number:        s.Number,
		Date:          s.Date,
		CustomerID:    s.CustomerID,
		SellerID:      s.SellerID,
		Subtotal:      s.Subtotal,
		Discount:      s.Discount,
		Total:         s.Total,
		PaymentMethod: s.PaymentMethod,
		Status:        s.Status,
		Notes:         s.Notes,
	}
}
