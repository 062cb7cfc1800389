package reports_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/PuntoVenta-api/internal/application/dto"
	"github.com/jhoicas/PuntoVenta-api/internal/application/reports"
	"github.com/jhoicas/PuntoVenta-api/internal/domain"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/repository"
)

// fakeReportRepo devuelve datos fijos y cuenta las consultas, para verificar
// qué llega a la BD cuando el cache responde o no.
type fakeReportRepo struct {
	summaryCalls int
	daily        []repository.DailySales
}

func (f *fakeReportRepo) GetSalesSummary(_ context.Context, _, _ time.Time) (*repository.SalesSummary, error) {
	f.summaryCalls++
	return &repository.SalesSummary{
		Count:         4,
		Total:         decimal.NewFromInt(1800),
		AverageTicket: decimal.NewFromInt(450),
	}, nil
}

func (f *fakeReportRepo) GetSalesByPaymentMethod(_ context.Context, _, _ time.Time) ([]repository.PaymentMethodTotal, error) {
	return []repository.PaymentMethodTotal{
		{PaymentMethod: "efectivo", Count: 3, Total: decimal.NewFromInt(1350)},
		{PaymentMethod: "mpesa", Count: 1, Total: decimal.NewFromInt(450)},
	}, nil
}

func (f *fakeReportRepo) GetTopProducts(_ context.Context, _, _ time.Time, limit int) ([]repository.ProductSales, error) {
	return []repository.ProductSales{
		{ProductID: "p-1", ProductCode: "P-001", ProductName: "Aceite 1L", Quantity: 9, Total: decimal.NewFromInt(1350)},
	}, nil
}

func (f *fakeReportRepo) GetTopCustomers(_ context.Context, _, _ time.Time, limit int) ([]repository.CustomerSales, error) {
	return []repository.CustomerSales{
		{CustomerID: "c-1", CustomerName: "Mercearia Central", Purchases: 2, Total: decimal.NewFromInt(900)},
	}, nil
}

func (f *fakeReportRepo) GetDailySales(_ context.Context, _, _ time.Time) ([]repository.DailySales, error) {
	return f.daily, nil
}

func (f *fakeReportRepo) ListSales(_ context.Context, _, _ time.Time, limit int) ([]repository.SaleRow, error) {
	return []repository.SaleRow{
		{Number: "VND000001", Date: time.Now(), CustomerName: "", Total: decimal.NewFromInt(450)},
	}, nil
}

func (f *fakeReportRepo) CountActiveProducts(_ context.Context) (int64, error)  { return 25, nil }
func (f *fakeReportRepo) CountActiveCustomers(_ context.Context) (int64, error) { return 8, nil }
func (f *fakeReportRepo) CountLowStockProducts(_ context.Context) (int64, error) {
	return 3, nil
}

// fakeCache guarda la última escritura en memoria.
type fakeCache struct {
	value *dto.DashboardResponse
	gets  int
	sets  int
}

func (f *fakeCache) Get(_ context.Context, _ string) (*dto.DashboardResponse, bool, error) {
	f.gets++
	return f.value, f.value != nil, nil
}

func (f *fakeCache) Set(_ context.Context, _ string, value *dto.DashboardResponse, _ time.Duration) error {
	f.sets++
	f.value = value
	return nil
}

func TestSalesReport(t *testing.T) {
	repo := &fakeReportRepo{}
	uc := reports.NewUseCase(repo, nil, nil, zerolog.Nop())

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 31, 23, 59, 59, 0, time.UTC)

	report, err := uc.SalesReport(context.Background(), from, to)
	require.NoError(t, err)
	assert.Equal(t, int64(4), report.Count)
	assert.True(t, report.Total.Equal(decimal.NewFromInt(1800)))
	assert.True(t, report.AverageTicket.Equal(decimal.NewFromInt(450)))
	require.Len(t, report.ByMethod, 2)
	assert.Equal(t, "efectivo", report.ByMethod[0].PaymentMethod)
	require.Len(t, report.Sales, 1)
}

func TestSalesReport_RangoInvertido(t *testing.T) {
	uc := reports.NewUseCase(&fakeReportRepo{}, nil, nil, zerolog.Nop())

	now := time.Now()
	_, err := uc.SalesReport(context.Background(), now, now.Add(-time.Hour))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDashboard_PueblaElCacheTrasElPrimerAcceso(t *testing.T) {
	repo := &fakeReportRepo{}
	cache := &fakeCache{}
	uc := reports.NewUseCase(repo, cache, nil, zerolog.Nop())
	ctx := context.Background()

	first, err := uc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, int64(25), first.ActiveProducts)
	assert.Equal(t, int64(3), first.LowStockCount)

	// Segundo acceso: responde el cache, la BD no se vuelve a consultar.
	callsAfterFirst := repo.summaryCalls
	second, err := uc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, callsAfterFirst, repo.summaryCalls)
	assert.Equal(t, first.ActiveProducts, second.ActiveProducts)
}

func TestDashboard_SinCacheConsultaDirecta(t *testing.T) {
	repo := &fakeReportRepo{}
	uc := reports.NewUseCase(repo, nil, nil, zerolog.Nop())

	resp, err := uc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(8), resp.ActiveCustomers)
	require.Len(t, resp.LastSales, 1)
	require.Len(t, resp.TopProducts, 1)
}

func TestDashboard_SerieDiariaSiempreTieneSietePuntos(t *testing.T) {
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	repo := &fakeReportRepo{daily: []repository.DailySales{
		{Day: startOfDay, Total: decimal.NewFromInt(450)},
		{Day: startOfDay.AddDate(0, 0, -2), Total: decimal.NewFromInt(900)},
	}}
	uc := reports.NewUseCase(repo, nil, nil, zerolog.Nop())

	resp, err := uc.Dashboard(context.Background())
	require.NoError(t, err)
	require.Len(t, resp.SalesByDay, 7)
	// Días sin ventas en cero; los que sí tienen, con su total.
	assert.True(t, resp.SalesByDay[6].Total.Equal(decimal.NewFromInt(450)))
	assert.True(t, resp.SalesByDay[4].Total.Equal(decimal.NewFromInt(900)))
	assert.True(t, resp.SalesByDay[0].Total.IsZero())
}

func TestTopProductsYTopCustomers_LimitePorDefecto(t *testing.T) {
	uc := reports.NewUseCase(&fakeReportRepo{}, nil, nil, zerolog.Nop())
	ctx := context.Background()
	now := time.Now()

	products, err := uc.TopProducts(ctx, now.AddDate(0, -1, 0), now, 0)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "P-001", products[0].ProductCode)

	customers, err := uc.TopCustomers(ctx, now.AddDate(0, -1, 0), now, 0)
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, "Mercearia Central", customers[0].CustomerName)
}
