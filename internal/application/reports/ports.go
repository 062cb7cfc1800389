package reports

import (
	"context"
	"time"

	"github.com/jhoicas/PuntoVenta-api/internal/application/dto"
)

// DashboardCache cachea la respuesta del dashboard. La implementación Redis
// vive en infraestructura; ok=false significa cache miss.
type DashboardCache interface {
	Get(ctx context.Context, key string) (*dto.DashboardResponse, bool, error)
	Set(ctx context.Context, key string, value *dto.DashboardResponse, ttl time.Duration) error
}

// PDFGenerator genera el PDF del reporte de ventas.
type PDFGenerator interface {
	SalesReport(report *dto.SalesReportResponse) ([]byte, error)
}
