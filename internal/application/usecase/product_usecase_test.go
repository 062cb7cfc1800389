package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/PuntoVenta-api/internal/application/dto"
	"github.com/jhoicas/PuntoVenta-api/internal/application/stock"
	"github.com/jhoicas/PuntoVenta-api/internal/application/usecase"
	"github.com/jhoicas/PuntoVenta-api/internal/domain"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/entity"
	"github.com/jhoicas/PuntoVenta-api/internal/infrastructure/memory"
)

const testActorID = "00000000-0000-0000-0000-000000000001"

func newProductUseCase(t *testing.T) (*usecase.ProductUseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	ledger := stock.NewLedger(store, store.Products(), store.StockMovements())
	return usecase.NewProductUseCase(store.Products(), ledger), store
}

func createReq() dto.CreateProductRequest {
	return dto.CreateProductRequest{
		Code:         "P-001",
		Name:         "Aceite 1L",
		CostPrice:    decimal.NewFromInt(100),
		SalePrice:    decimal.NewFromInt(150),
		InitialStock: 12,
		MinStock:     3,
	}
}

func TestCreateProduct_StockInicialViaLibroDeStock(t *testing.T) {
	uc, store := newProductUseCase(t)

	p, err := uc.Create(context.Background(), testActorID, createReq())
	require.NoError(t, err)
	assert.Equal(t, int64(12), p.Stock)
	assert.Equal(t, "UN", p.Unit)
	assert.True(t, p.Active)

	// El stock inicial queda auditado como ajuste, no aparece de la nada.
	movs, err := store.StockMovements().ListByProduct(p.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementAdjust, movs[0].Kind)
	assert.Equal(t, int64(0), movs[0].StockBefore)
	assert.Equal(t, int64(12), movs[0].StockAfter)
	assert.Equal(t, "Stock inicial", movs[0].Reason)
}

func TestCreateProduct_SinStockInicial(t *testing.T) {
	uc, store := newProductUseCase(t)

	req := createReq()
	req.InitialStock = 0
	p, err := uc.Create(context.Background(), testActorID, req)
	require.NoError(t, err)
	assert.Equal(t, int64(0), p.Stock)

	movs, _ := store.StockMovements().ListByProduct(p.ID, 10, 0)
	assert.Empty(t, movs)
}

func TestCreateProduct_CodigoDuplicado(t *testing.T) {
	uc, _ := newProductUseCase(t)
	ctx := context.Background()

	_, err := uc.Create(ctx, testActorID, createReq())
	require.NoError(t, err)

	dup := createReq()
	dup.Name = "Otro producto"
	_, err = uc.Create(ctx, testActorID, dup)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCreateProduct_EntradasValidadas(t *testing.T) {
	uc, _ := newProductUseCase(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*dto.CreateProductRequest)
	}{
		{"sin código", func(r *dto.CreateProductRequest) { r.Code = "" }},
		{"sin nombre", func(r *dto.CreateProductRequest) { r.Name = "" }},
		{"precio de venta negativo", func(r *dto.CreateProductRequest) { r.SalePrice = decimal.NewFromInt(-1) }},
		{"stock inicial negativo", func(r *dto.CreateProductRequest) { r.InitialStock = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := createReq()
			tc.mutate(&req)
			_, err := uc.Create(ctx, testActorID, req)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestUpdateProduct_NoTocaElStock(t *testing.T) {
	uc, _ := newProductUseCase(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, testActorID, createReq())
	require.NoError(t, err)

	updated, err := uc.Update(ctx, created.ID, dto.UpdateProductRequest{
		Name:      "Aceite vegetal 1L",
		CostPrice: decimal.NewFromInt(110),
		SalePrice: decimal.NewFromInt(160),
		MinStock:  5,
		Unit:      "UN",
	})
	require.NoError(t, err)
	assert.Equal(t, "Aceite vegetal 1L", updated.Name)
	assert.Equal(t, int64(12), updated.Stock)
	assert.Equal(t, int64(5), updated.MinStock)
}

func TestUpdateProduct_Inexistente(t *testing.T) {
	uc, _ := newProductUseCase(t)

	_, err := uc.Update(context.Background(), "no-existe", dto.UpdateProductRequest{Name: "X"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListProducts_Filtros(t *testing.T) {
	uc, _ := newProductUseCase(t)
	ctx := context.Background()

	_, err := uc.Create(ctx, testActorID, createReq())
	require.NoError(t, err)
	second := createReq()
	second.Code = "P-002"
	second.Name = "Harina 1kg"
	created, err := uc.Create(ctx, testActorID, second)
	require.NoError(t, err)
	require.NoError(t, uc.Deactivate(ctx, created.ID))

	active, err := uc.List(ctx, "", "", true, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "P-001", active[0].Code)

	all, err := uc.List(ctx, "", "", false, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byName, err := uc.List(ctx, "harina", "", false, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "P-002", byName[0].Code)
}

func TestDeactivateProduct(t *testing.T) {
	uc, _ := newProductUseCase(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, testActorID, createReq())
	require.NoError(t, err)

	require.NoError(t, uc.Deactivate(ctx, created.ID))
	p, err := uc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, p.Active)

	assert.ErrorIs(t, uc.Deactivate(ctx, "no-existe"), domain.ErrNotFound)
}
