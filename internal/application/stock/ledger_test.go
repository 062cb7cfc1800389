package stock_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/PuntoVenta-api/internal/application/dto"
	"github.com/jhoicas/PuntoVenta-api/internal/application/stock"
	"github.com/jhoicas/PuntoVenta-api/internal/domain"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/entity"
	"github.com/jhoicas/PuntoVenta-api/internal/infrastructure/memory"
)

const (
	testProductID = "00000000-0000-0000-0000-0000000000aa"
	testActorID   = "00000000-0000-0000-0000-000000000001"
)

func newLedger(t *testing.T, initialStock int64) (*stock.Ledger, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	require.NoError(t, store.Products().Create(&entity.Product{
		ID:        testProductID,
		Code:      "P-001",
		Name:      "Arroz 5kg",
		SalePrice: decimal.NewFromInt(450),
		Stock:     initialStock,
		MinStock:  2,
		Unit:      "UN",
		Active:    true,
	}))
	return stock.NewLedger(store, store.Products(), store.StockMovements()), store
}

func TestApplyMovement_Entrada(t *testing.T) {
	ledger, store := newLedger(t, 10)

	after, err := ledger.ApplyMovement(context.Background(), stock.MovementInput{
		ProductID: testProductID,
		Kind:      entity.MovementIn,
		Quantity:  5,
		Reason:    "Compra a proveedor",
		ActorID:   testActorID,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(15), after)

	p, err := store.Products().GetByID(testProductID)
	require.NoError(t, err)
	assert.Equal(t, int64(15), p.Stock)

	movs, err := store.StockMovements().ListByProduct(testProductID, 10, 0)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementIn, movs[0].Kind)
	assert.Equal(t, int64(5), movs[0].Quantity)
	assert.Equal(t, int64(10), movs[0].StockBefore)
	assert.Equal(t, int64(15), movs[0].StockAfter)
	assert.Equal(t, testActorID, movs[0].CreatedBy)
}

func TestApplyMovement_Salida(t *testing.T) {
	ledger, store := newLedger(t, 10)

	after, err := ledger.ApplyMovement(context.Background(), stock.MovementInput{
		ProductID: testProductID,
		Kind:      entity.MovementOut,
		Quantity:  3,
		ActorID:   testActorID,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), after)

	p, _ := store.Products().GetByID(testProductID)
	assert.Equal(t, int64(7), p.Stock)
}

func TestApplyMovement_SalidaSinStockSuficiente(t *testing.T) {
	ledger, store := newLedger(t, 10)

	_, err := ledger.ApplyMovement(context.Background(), stock.MovementInput{
		ProductID: testProductID,
		Kind:      entity.MovementOut,
		Quantity:  11,
		ActorID:   testActorID,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	var insufficientErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficientErr)
	assert.Equal(t, testProductID, insufficientErr.ProductID)

	// Sin efectos: ni stock mutado ni auditoría registrada.
	p, _ := store.Products().GetByID(testProductID)
	assert.Equal(t, int64(10), p.Stock)
	movs, _ := store.StockMovements().ListByProduct(testProductID, 10, 0)
	assert.Empty(t, movs)
}

func TestApplyMovement_AjusteFijaValorAbsoluto(t *testing.T) {
	ledger, store := newLedger(t, 10)

	after, err := ledger.ApplyMovement(context.Background(), stock.MovementInput{
		ProductID: testProductID,
		Kind:      entity.MovementAdjust,
		Quantity:  42,
		Reason:    "Conteo físico",
		ActorID:   testActorID,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), after)

	movs, _ := store.StockMovements().ListByProduct(testProductID, 10, 0)
	require.Len(t, movs, 1)
	assert.Equal(t, int64(10), movs[0].StockBefore)
	assert.Equal(t, int64(42), movs[0].StockAfter)
}

func TestApplyMovement_AjusteACeroSeRechaza(t *testing.T) {
	ledger, store := newLedger(t, 10)

	_, err := ledger.ApplyMovement(context.Background(), stock.MovementInput{
		ProductID: testProductID,
		Kind:      entity.MovementAdjust,
		Quantity:  0,
		ActorID:   testActorID,
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	p, _ := store.Products().GetByID(testProductID)
	assert.Equal(t, int64(10), p.Stock)
}

func TestApplyMovement_EntradasValidadas(t *testing.T) {
	ledger, _ := newLedger(t, 10)

	cases := []struct {
		name string
		in   stock.MovementInput
	}{
		{"tipo desconocido", stock.MovementInput{ProductID: testProductID, Kind: "prestamo", Quantity: 1, ActorID: testActorID}},
		{"entrada con cantidad cero", stock.MovementInput{ProductID: testProductID, Kind: entity.MovementIn, Quantity: 0, ActorID: testActorID}},
		{"salida con cantidad negativa", stock.MovementInput{ProductID: testProductID, Kind: entity.MovementOut, Quantity: -1, ActorID: testActorID}},
		{"ajuste negativo", stock.MovementInput{ProductID: testProductID, Kind: entity.MovementAdjust, Quantity: -5, ActorID: testActorID}},
		{"ajuste con cantidad cero", stock.MovementInput{ProductID: testProductID, Kind: entity.MovementAdjust, Quantity: 0, ActorID: testActorID}},
		{"producto vacío", stock.MovementInput{Kind: entity.MovementIn, Quantity: 1, ActorID: testActorID}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ledger.ApplyMovement(context.Background(), tc.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestApplyMovement_ProductoInexistente(t *testing.T) {
	ledger, _ := newLedger(t, 10)

	_, err := ledger.ApplyMovement(context.Background(), stock.MovementInput{
		ProductID: "no-existe",
		Kind:      entity.MovementIn,
		Quantity:  1,
		ActorID:   testActorID,
	})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestListMovements_FiltraPorTipo(t *testing.T) {
	ledger, _ := newLedger(t, 10)
	ctx := context.Background()

	_, err := ledger.ApplyMovement(ctx, stock.MovementInput{ProductID: testProductID, Kind: entity.MovementIn, Quantity: 5, ActorID: testActorID})
	require.NoError(t, err)
	_, err = ledger.ApplyMovement(ctx, stock.MovementInput{ProductID: testProductID, Kind: entity.MovementOut, Quantity: 2, ActorID: testActorID})
	require.NoError(t, err)

	all, err := ledger.ListMovements(ctx, testProductID, "", dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	outs, err := ledger.ListMovements(ctx, testProductID, entity.MovementOut, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, outs, 1)
	assert.Equal(t, int64(2), outs[0].Quantity)
}

func TestListLowStock(t *testing.T) {
	ledger, store := newLedger(t, 10)
	require.NoError(t, store.Products().Create(&entity.Product{
		ID: "low-1", Code: "P-002", Name: "Azúcar 1kg", Stock: 1, MinStock: 3, Active: true,
	}))

	low, err := ledger.ListLowStock(context.Background(), dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "low-1", low[0].ID)
}
