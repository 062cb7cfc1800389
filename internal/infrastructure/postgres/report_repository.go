package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/PuntoVenta-api/internal/domain/entity"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de agregación para reportes y dashboard. Solo lectura,
// siempre sobre ventas completadas.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// GetSalesSummary totales del período: cantidad, total y ticket promedio.
func (r *ReportRepo) GetSalesSummary(ctx context.Context, from, to time.Time) (*repository.SalesSummary, error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(total), 0), COALESCE(AVG(total), 0)
		FROM sales
		WHERE status = $1 AND date >= $2 AND date <= $3`
	var s repository.SalesSummary
	err := r.q.QueryRow(ctx, query, entity.SaleCompleted, from, to).Scan(&s.Count, &s.Total, &s.AverageTicket)
	if err != nil {
		return nil, fmt.Errorf("sales summary: %w", err)
	}
	return &s, nil
}

// GetSalesByPaymentMethod ventas del período agrupadas por forma de pago.
func (r *ReportRepo) GetSalesByPaymentMethod(ctx context.Context, from, to time.Time) ([]repository.PaymentMethodTotal, error) {
	query := `
		SELECT payment_method, COUNT(*), COALESCE(SUM(total), 0)
		FROM sales
		WHERE status = $1 AND date >= $2 AND date <= $3
		GROUP BY payment_method
		ORDER BY SUM(total) DESC`
	rows, err := r.q.Query(ctx, query, entity.SaleCompleted, from, to)
	if err != nil {
		return nil, fmt.Errorf("sales by payment method: %w", err)
	}
	defer rows.Close()
	var out []repository.PaymentMethodTotal
	for rows.Next() {
		var m repository.PaymentMethodTotal
		if err := rows.Scan(&m.PaymentMethod, &m.Count, &m.Total); err != nil {
			return nil, fmt.Errorf("scan payment method total: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// GetTopProducts productos más vendidos del período, por cantidad.
func (r *ReportRepo) GetTopProducts(ctx context.Context, from, to time.Time, limit int) ([]repository.ProductSales, error) {
	query := `
		SELECT p.id, p.code, p.name, COALESCE(SUM(i.quantity), 0), COALESCE(SUM(i.total), 0)
		FROM sale_items i
		JOIN sales s ON s.id = i.sale_id
		JOIN products p ON p.id = i.product_id
		WHERE s.status = $1 AND s.date >= $2 AND s.date <= $3
		GROUP BY p.id, p.code, p.name
		ORDER BY SUM(i.quantity) DESC
		LIMIT $4`
	rows, err := r.q.Query(ctx, query, entity.SaleCompleted, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	defer rows.Close()
	var out []repository.ProductSales
	for rows.Next() {
		var p repository.ProductSales
		if err := rows.Scan(&p.ProductID, &p.ProductCode, &p.ProductName, &p.Quantity, &p.Total); err != nil {
			return nil, fmt.Errorf("scan top product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetTopCustomers clientes con más compras del período, por valor.
func (r *ReportRepo) GetTopCustomers(ctx context.Context, from, to time.Time, limit int) ([]repository.CustomerSales, error) {
	query := `
		SELECT c.id, c.name, COUNT(*), COALESCE(SUM(s.total), 0)
		FROM sales s
		JOIN customers c ON c.id = s.customer_id
		WHERE s.status = $1 AND s.date >= $2 AND s.date <= $3
		GROUP BY c.id, c.name
		ORDER BY SUM(s.total) DESC
		LIMIT $4`
	rows, err := r.q.Query(ctx, query, entity.SaleCompleted, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("top customers: %w", err)
	}
	defer rows.Close()
	var out []repository.CustomerSales
	for rows.Next() {
		var c repository.CustomerSales
		if err := rows.Scan(&c.CustomerID, &c.CustomerName, &c.Purchases, &c.Total); err != nil {
			return nil, fmt.Errorf("scan top customer: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetDailySales serie de totales por día del período.
func (r *ReportRepo) GetDailySales(ctx context.Context, from, to time.Time) ([]repository.DailySales, error) {
	query := `
		SELECT date_trunc('day', date), COALESCE(SUM(total), 0)
		FROM sales
		WHERE status = $1 AND date >= $2 AND date <= $3
		GROUP BY 1
		ORDER BY 1`
	rows, err := r.q.Query(ctx, query, entity.SaleCompleted, from, to)
	if err != nil {
		return nil, fmt.Errorf("daily sales: %w", err)
	}
	defer rows.Close()
	var out []repository.DailySales
	for rows.Next() {
		var d repository.DailySales
		if err := rows.Scan(&d.Day, &d.Total); err != nil {
			return nil, fmt.Errorf("scan daily sales: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// ListSales listado de ventas del período con nombre de cliente resuelto,
// más reciente primero.
func (r *ReportRepo) ListSales(ctx context.Context, from, to time.Time, limit int) ([]repository.SaleRow, error) {
	query := `
		SELECT s.number, s.date, COALESCE(c.name, ''), s.total
		FROM sales s
		LEFT JOIN customers c ON c.id = s.customer_id
		WHERE s.status = $1 AND s.date >= $2 AND s.date <= $3
		ORDER BY s.date DESC
		LIMIT $4`
	rows, err := r.q.Query(ctx, query, entity.SaleCompleted, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("list report sales: %w", err)
	}
	defer rows.Close()
	var out []repository.SaleRow
	for rows.Next() {
		var s repository.SaleRow
		if err := rows.Scan(&s.Number, &s.Date, &s.CustomerName, &s.Total); err != nil {
			return nil, fmt.Errorf("scan report sale: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// CountActiveProducts cantidad de productos activos.
func (r *ReportRepo) CountActiveProducts(ctx context.Context) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE active`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count active products: %w", err)
	}
	return n, nil
}

// CountActiveCustomers cantidad de clientes activos.
func (r *ReportRepo) CountActiveCustomers(ctx context.Context) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM customers WHERE active`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count active customers: %w", err)
	}
	return n, nil
}

// CountLowStockProducts productos activos en o bajo el mínimo.
func (r *ReportRepo) CountLowStockProducts(ctx context.Context) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE active AND stock <= min_stock`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count low stock products: %w", err)
	}
	return n, nil
}
