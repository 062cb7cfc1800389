package reports

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/PuntoVenta-api/internal/application/dto"
	"github.com/jhoicas/PuntoVenta-api/internal/domain"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/repository"
)

const (
	dashboardCacheKey = "dashboard:v1"
	dashboardCacheTTL = 60 * time.Second

	topLimit       = 5
	lastSalesLimit = 10
	reportMaxRows  = 500
)

// UseCase consultas de reportes y dashboard. Solo lectura.
type UseCase struct {
	repo  repository.ReportRepository
	cache DashboardCache
	pdf   PDFGenerator
	log   zerolog.Logger
}

// NewUseCase construye el caso de uso de reportes.
func NewUseCase(repo repository.ReportRepository, cache DashboardCache, pdf PDFGenerator, log zerolog.Logger) *UseCase {
	return &UseCase{repo: repo, cache: cache, pdf: pdf, log: log}
}

// SalesReport arma el reporte de ventas de un período: totales, desglose por
// forma de pago y listado de ventas.
func (uc *UseCase) SalesReport(ctx context.Context, from, to time.Time) (*dto.SalesReportResponse, error) {
	if to.Before(from) {
		return nil, domain.ErrInvalidInput
	}
	summary, err := uc.repo.GetSalesSummary(ctx, from, to)
	if err != nil {
		return nil, err
	}
	byMethod, err := uc.repo.GetSalesByPaymentMethod(ctx, from, to)
	if err != nil {
		return nil, err
	}
	sales, err := uc.repo.ListSales(ctx, from, to, reportMaxRows)
	if err != nil {
		return nil, err
	}
	report := &dto.SalesReportResponse{
		From:          from,
		To:            to,
		Count:         summary.Count,
		Total:         summary.Total,
		AverageTicket: summary.AverageTicket,
		ByMethod:      make([]dto.PaymentMethodRow, 0, len(byMethod)),
		Sales:         make([]dto.ReportSaleRow, 0, len(sales)),
	}
	for _, m := range byMethod {
		report.ByMethod = append(report.ByMethod, dto.PaymentMethodRow{
			PaymentMethod: m.PaymentMethod,
			Count:         m.Count,
			Total:         m.Total,
		})
	}
	for _, s := range sales {
		report.Sales = append(report.Sales, toReportSaleRow(s))
	}
	return report, nil
}

// SalesReportPDF genera el reporte de ventas en PDF.
func (uc *UseCase) SalesReportPDF(ctx context.Context, from, to time.Time) ([]byte, error) {
	report, err := uc.SalesReport(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return uc.pdf.SalesReport(report)
}

// TopProducts productos más vendidos del período, por cantidad.
func (uc *UseCase) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]dto.TopProductRow, error) {
	if limit <= 0 {
		limit = topLimit
	}
	rows, err := uc.repo.GetTopProducts(ctx, from, to, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TopProductRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, toTopProductRow(r))
	}
	return out, nil
}

// TopCustomers clientes con más compras del período.
func (uc *UseCase) TopCustomers(ctx context.Context, from, to time.Time, limit int) ([]dto.TopCustomerRow, error) {
	if limit <= 0 {
		limit = topLimit
	}
	rows, err := uc.repo.GetTopCustomers(ctx, from, to, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TopCustomerRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.TopCustomerRow{
			CustomerID:   r.CustomerID,
			CustomerName: r.CustomerName,
			Purchases:    r.Purchases,
			Total:        r.Total,
		})
	}
	return out, nil
}

// Dashboard métricas del panel principal. Pasa por el cache Redis con TTL
// corto; si el cache falla se consulta la DB igual y solo se loguea.
func (uc *UseCase) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	if uc.cache != nil {
		cached, ok, err := uc.cache.Get(ctx, dashboardCacheKey)
		if err != nil {
			uc.log.Warn().Err(err).Msg("cache del dashboard no disponible")
		} else if ok {
			return cached, nil
		}
	}

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	todaySummary, err := uc.repo.GetSalesSummary(ctx, startOfDay, now)
	if err != nil {
		return nil, err
	}
	monthSummary, err := uc.repo.GetSalesSummary(ctx, startOfMonth, now)
	if err != nil {
		return nil, err
	}
	activeProducts, err := uc.repo.CountActiveProducts(ctx)
	if err != nil {
		return nil, err
	}
	activeCustomers, err := uc.repo.CountActiveCustomers(ctx)
	if err != nil {
		return nil, err
	}
	lowStock, err := uc.repo.CountLowStockProducts(ctx)
	if err != nil {
		return nil, err
	}
	lastSales, err := uc.repo.ListSales(ctx, startOfMonth, now, lastSalesLimit)
	if err != nil {
		return nil, err
	}
	topProducts, err := uc.repo.GetTopProducts(ctx, startOfMonth, now, topLimit)
	if err != nil {
		return nil, err
	}
	weekAgo := startOfDay.AddDate(0, 0, -6)
	daily, err := uc.repo.GetDailySales(ctx, weekAgo, now)
	if err != nil {
		return nil, err
	}

	resp := &dto.DashboardResponse{
		SalesToday:      todaySummary.Total,
		SalesMonth:      monthSummary.Total,
		ActiveProducts:  activeProducts,
		ActiveCustomers: activeCustomers,
		LowStockCount:   lowStock,
		LastSales:       make([]dto.ReportSaleRow, 0, len(lastSales)),
		TopProducts:     make([]dto.TopProductRow, 0, len(topProducts)),
		SalesByDay:      buildDailySeries(weekAgo, startOfDay, daily),
	}
	for _, s := range lastSales {
		resp.LastSales = append(resp.LastSales, toReportSaleRow(s))
	}
	for _, p := range topProducts {
		resp.TopProducts = append(resp.TopProducts, toTopProductRow(p))
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, dashboardCacheKey, resp, dashboardCacheTTL); err != nil {
			uc.log.Warn().Err(err).Msg("no se pudo escribir el cache del dashboard")
		}
	}
	return resp, nil
}

// buildDailySeries completa con cero los días sin ventas para que la serie
// del gráfico siempre tenga 7 puntos.
func buildDailySeries(from, last time.Time, rows []repository.DailySales) []dto.DailySalesRow {
	byDay := make(map[string]decimal.Decimal, len(rows))
	for _, r := range rows {
		byDay[r.Day.Format("02/01")] = r.Total
	}
	series := make([]dto.DailySalesRow, 0, 7)
	for d := from; !d.After(last); d = d.AddDate(0, 0, 1) {
		key := d.Format("02/01")
		total, ok := byDay[key]
		if !ok {
			total = decimal.Zero
		}
		series = append(series, dto.DailySalesRow{Day: key, Total: total})
	}
	return series
}

func toReportSaleRow(s repository.SaleRow) dto.ReportSaleRow {
	return dto.ReportSaleRow{
		Number:       s.Number,
		Date:         s.Date,
		CustomerName: s.CustomerName,
		Total:        s.Total,
	}
}

func toTopProductRow(p repository.ProductSales) dto.TopProductRow {
	return dto.TopProductRow{
		ProductID:   p.ProductID,
		ProductCode: p.ProductCode,
		ProductName: p.ProductName,
		Quantity:    p.Quantity,
		Total:       p.Total,
	}
}
