package sales_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/PuntoVenta-api/internal/application/dto"
	"github.com/jhoicas/PuntoVenta-api/internal/application/sales"
	"github.com/jhoicas/PuntoVenta-api/internal/application/stock"
	"github.com/jhoicas/PuntoVenta-api/internal/application/till"
	"github.com/jhoicas/PuntoVenta-api/internal/domain"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/entity"
	"github.com/jhoicas/PuntoVenta-api/internal/infrastructure/memory"
)

const (
	testProductID = "00000000-0000-0000-0000-0000000000aa"
	testSellerID  = "00000000-0000-0000-0000-000000000001"
)

type fixture struct {
	store      *memory.Store
	workflow   *sales.Workflow
	tillLedger *till.Ledger
}

// newFixture arma el flujo de venta completo sobre el store en memoria, con
// un producto de stock 10 y un turno de caja abierto con saldo 1000.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	require.NoError(t, store.Products().Create(&entity.Product{
		ID:        testProductID,
		Code:      "P-001",
		Name:      "Aceite 1L",
		SalePrice: decimal.NewFromInt(150),
		Stock:     10,
		MinStock:  2,
		Unit:      "UN",
		Active:    true,
	}))

	stockLedger := stock.NewLedger(store, store.Products(), store.StockMovements())
	tillLedger := till.NewLedger(store, store.Sessions(), store.CashMovements())
	workflow := sales.NewWorkflow(store, stockLedger, tillLedger, store.Sales())

	_, err := tillLedger.OpenSession(context.Background(), testSellerID, decimal.NewFromInt(1000))
	require.NoError(t, err)

	return &fixture{store: store, workflow: workflow, tillLedger: tillLedger}
}

func saleOf(qty int64, price int64) sales.ProcessSaleInput {
	return sales.ProcessSaleInput{
		SellerID:      testSellerID,
		PaymentMethod: entity.PaymentCash,
		Lines: []sales.LineInput{
			{ProductID: testProductID, Quantity: qty, UnitPrice: decimal.NewFromInt(price)},
		},
	}
}

func TestProcessSale_DebitaStockYAcreditaCaja(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.workflow.ProcessSale(ctx, saleOf(3, 150))
	require.NoError(t, err)
	assert.Equal(t, "VND000001", resp.Number)

	// Stock debitado con su auditoría.
	p, _ := f.store.Products().GetByID(testProductID)
	assert.Equal(t, int64(7), p.Stock)
	movs, _ := f.store.StockMovements().ListByProduct(testProductID, 10, 0)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementOut, movs[0].Kind)
	assert.Equal(t, int64(3), movs[0].Quantity)
	assert.Equal(t, int64(10), movs[0].StockBefore)
	assert.Equal(t, int64(7), movs[0].StockAfter)
	assert.Equal(t, "Venta VND000001", movs[0].Reason)

	// Caja acreditada por el total.
	status, err := f.tillLedger.Status(ctx)
	require.NoError(t, err)
	assert.True(t, status.TotalIn.Equal(decimal.NewFromInt(450)))
	require.Len(t, status.Movements, 1)
	assert.Equal(t, resp.SaleID, status.Movements[0].SaleID)

	// Cabecera y líneas persistidas.
	sale, err := f.workflow.GetSale(ctx, resp.SaleID)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleCompleted, sale.Status)
	assert.True(t, sale.Total.Equal(decimal.NewFromInt(450)))
	require.Len(t, sale.Items, 1)
	assert.Equal(t, int64(3), sale.Items[0].Quantity)
}

func TestProcessSale_TotalesConDescuentos(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.Products().Create(&entity.Product{
		ID: "prod-2", Code: "P-002", Name: "Harina 1kg",
		SalePrice: decimal.NewFromInt(80), Stock: 5, Active: true,
	}))

	resp, err := f.workflow.ProcessSale(context.Background(), sales.ProcessSaleInput{
		SellerID:      testSellerID,
		PaymentMethod: entity.PaymentMpesa,
		Discount:      decimal.NewFromInt(25),
		Lines: []sales.LineInput{
			{ProductID: testProductID, Quantity: 2, UnitPrice: decimal.NewFromInt(150), Discount: decimal.NewFromInt(50)},
			{ProductID: "prod-2", Quantity: 3, UnitPrice: decimal.NewFromInt(80)},
		},
	})
	require.NoError(t, err)

	sale, err := f.workflow.GetSale(context.Background(), resp.SaleID)
	require.NoError(t, err)
	// Líneas: (2×150 - 50) + (3×80) = 250 + 240 = 490.
	assert.True(t, sale.Subtotal.Equal(decimal.NewFromInt(490)))
	assert.True(t, sale.Discount.Equal(decimal.NewFromInt(25)))
	assert.True(t, sale.Total.Equal(decimal.NewFromInt(465)))
	require.Len(t, sale.Items, 2)
}

func TestProcessSale_VentaTotalmenteDescontada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Descuento igual al total de la línea: la venta completa igual, con su
	// movimiento de caja en cero.
	resp, err := f.workflow.ProcessSale(ctx, sales.ProcessSaleInput{
		SellerID:      testSellerID,
		PaymentMethod: entity.PaymentCash,
		Lines: []sales.LineInput{
			{ProductID: testProductID, Quantity: 1, UnitPrice: decimal.NewFromInt(100), Discount: decimal.NewFromInt(100)},
		},
	})
	require.NoError(t, err)

	sale, err := f.workflow.GetSale(ctx, resp.SaleID)
	require.NoError(t, err)
	assert.True(t, sale.Total.IsZero())
	assert.Equal(t, entity.SaleCompleted, sale.Status)

	p, _ := f.store.Products().GetByID(testProductID)
	assert.Equal(t, int64(9), p.Stock)

	status, err := f.tillLedger.Status(ctx)
	require.NoError(t, err)
	require.Len(t, status.Movements, 1)
	assert.True(t, status.Movements[0].Amount.IsZero())
	assert.True(t, status.CurrentBalance.Equal(decimal.NewFromInt(1000)))

	// La anulación también registra su salida en cero sin rechazarse.
	require.NoError(t, f.workflow.CancelSale(ctx, resp.SaleID, testSellerID))
	status, err = f.tillLedger.Status(ctx)
	require.NoError(t, err)
	assert.Len(t, status.Movements, 2)
	assert.True(t, status.TotalOut.IsZero())
}

func TestProcessSale_StockInsuficienteNoDejaEfectos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.workflow.ProcessSale(ctx, saleOf(11, 150))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Todo o nada: ni venta, ni movimiento de stock, ni movimiento de caja.
	p, _ := f.store.Products().GetByID(testProductID)
	assert.Equal(t, int64(10), p.Stock)
	movs, _ := f.store.StockMovements().ListByProduct(testProductID, 10, 0)
	assert.Empty(t, movs)
	status, err := f.tillLedger.Status(ctx)
	require.NoError(t, err)
	assert.True(t, status.TotalIn.IsZero())
	list, err := f.workflow.ListSales(ctx, nil, nil, "", dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestProcessSale_LineaInsuficienteInvalidaTodaLaVenta(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.Products().Create(&entity.Product{
		ID: "prod-2", Code: "P-002", Name: "Harina 1kg",
		SalePrice: decimal.NewFromInt(80), Stock: 1, Active: true,
	}))

	_, err := f.workflow.ProcessSale(context.Background(), sales.ProcessSaleInput{
		SellerID:      testSellerID,
		PaymentMethod: entity.PaymentCash,
		Lines: []sales.LineInput{
			{ProductID: testProductID, Quantity: 2, UnitPrice: decimal.NewFromInt(150)},
			{ProductID: "prod-2", Quantity: 5, UnitPrice: decimal.NewFromInt(80)},
		},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// La primera línea era válida pero no debe haberse aplicado.
	p, _ := f.store.Products().GetByID(testProductID)
	assert.Equal(t, int64(10), p.Stock)
}

func TestProcessSale_SinTurnoAbierto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.tillLedger.CloseSession(ctx, testSellerID, "")
	require.NoError(t, err)

	_, err = f.workflow.ProcessSale(ctx, saleOf(1, 150))
	assert.ErrorIs(t, err, domain.ErrNoOpenSession)
}

func TestProcessSale_VentaVacia(t *testing.T) {
	f := newFixture(t)

	_, err := f.workflow.ProcessSale(context.Background(), sales.ProcessSaleInput{
		SellerID:      testSellerID,
		PaymentMethod: entity.PaymentCash,
	})
	assert.ErrorIs(t, err, domain.ErrEmptySale)
}

func TestProcessSale_EntradasValidadas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name string
		in   sales.ProcessSaleInput
	}{
		{"sin vendedor", sales.ProcessSaleInput{PaymentMethod: entity.PaymentCash, Lines: []sales.LineInput{{ProductID: testProductID, Quantity: 1}}}},
		{"sin forma de pago", sales.ProcessSaleInput{SellerID: testSellerID, Lines: []sales.LineInput{{ProductID: testProductID, Quantity: 1}}}},
		{"cantidad cero", saleWith(sales.LineInput{ProductID: testProductID, Quantity: 0, UnitPrice: decimal.NewFromInt(10)})},
		{"precio negativo", saleWith(sales.LineInput{ProductID: testProductID, Quantity: 1, UnitPrice: decimal.NewFromInt(-10)})},
		{"descuento de línea negativo", saleWith(sales.LineInput{ProductID: testProductID, Quantity: 1, UnitPrice: decimal.NewFromInt(10), Discount: decimal.NewFromInt(-1)})},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.workflow.ProcessSale(ctx, tc.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func saleWith(line sales.LineInput) sales.ProcessSaleInput {
	return sales.ProcessSaleInput{
		SellerID:      testSellerID,
		PaymentMethod: entity.PaymentCash,
		Lines:         []sales.LineInput{line},
	}
}

func TestProcessSale_NumeracionConsecutiva(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.workflow.ProcessSale(ctx, saleOf(1, 150))
	require.NoError(t, err)
	second, err := f.workflow.ProcessSale(ctx, saleOf(1, 150))
	require.NoError(t, err)
	assert.Equal(t, "VND000001", first.Number)
	assert.Equal(t, "VND000002", second.Number)
}

func TestCancelSale_RevierteStockYCaja(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.workflow.ProcessSale(ctx, saleOf(3, 150))
	require.NoError(t, err)

	require.NoError(t, f.workflow.CancelSale(ctx, resp.SaleID, testSellerID))

	sale, err := f.workflow.GetSale(ctx, resp.SaleID)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleCancelled, sale.Status)

	// Stock restaurado por delta relativo, con su propia auditoría de entrada.
	p, _ := f.store.Products().GetByID(testProductID)
	assert.Equal(t, int64(10), p.Stock)
	movs, _ := f.store.StockMovements().ListByProduct(testProductID, 10, 0)
	require.Len(t, movs, 2)
	assert.Equal(t, entity.MovementIn, movs[0].Kind)
	assert.Equal(t, "Anulación venta VND000001", movs[0].Reason)

	// Caja revertida con una salida por el total.
	status, err := f.tillLedger.Status(ctx)
	require.NoError(t, err)
	assert.True(t, status.TotalOut.Equal(decimal.NewFromInt(450)))
	assert.True(t, status.CurrentBalance.Equal(decimal.NewFromInt(1000)))
}

func TestCancelSale_SinTurnoAbiertoOmiteCaja(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.workflow.ProcessSale(ctx, saleOf(2, 150))
	require.NoError(t, err)
	_, err = f.tillLedger.CloseSession(ctx, testSellerID, "")
	require.NoError(t, err)

	// La anulación procede igual: solo se omite la reversión de caja.
	require.NoError(t, f.workflow.CancelSale(ctx, resp.SaleID, testSellerID))

	sale, err := f.workflow.GetSale(ctx, resp.SaleID)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleCancelled, sale.Status)
	p, _ := f.store.Products().GetByID(testProductID)
	assert.Equal(t, int64(10), p.Stock)
}

func TestCancelSale_DobleAnulacion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.workflow.ProcessSale(ctx, saleOf(1, 150))
	require.NoError(t, err)

	require.NoError(t, f.workflow.CancelSale(ctx, resp.SaleID, testSellerID))
	err = f.workflow.CancelSale(ctx, resp.SaleID, testSellerID)
	require.ErrorIs(t, err, domain.ErrAlreadyCancelled)

	// La segunda anulación no debe duplicar la reversión.
	p, _ := f.store.Products().GetByID(testProductID)
	assert.Equal(t, int64(10), p.Stock)
}

func TestCancelSale_VentaInexistente(t *testing.T) {
	f := newFixture(t)

	err := f.workflow.CancelSale(context.Background(), "no-existe", testSellerID)
	assert.ErrorIs(t, err, domain.ErrSaleNotFound)
}

func TestListSales_FiltraPorEstado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.workflow.ProcessSale(ctx, saleOf(1, 150))
	require.NoError(t, err)
	_, err = f.workflow.ProcessSale(ctx, saleOf(1, 150))
	require.NoError(t, err)
	require.NoError(t, f.workflow.CancelSale(ctx, first.SaleID, testSellerID))

	cancelled, err := f.workflow.ListSales(ctx, nil, nil, entity.SaleCancelled, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, cancelled, 1)
	assert.Equal(t, first.SaleID, cancelled[0].ID)

	completed, err := f.workflow.ListSales(ctx, nil, nil, entity.SaleCompleted, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, completed, 1)
}
