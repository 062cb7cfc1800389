// Package pdf implementa la generación del reporte de ventas en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + período del reporte                        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: N° ventas | Total | Ticket promedio                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Desglose por forma de pago                           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: N° | Fecha | Cliente | Total                         │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/PuntoVenta-api/internal/application/dto"
	"github.com/jhoicas/PuntoVenta-api/internal/application/reports"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ reports.PDFGenerator = (*MarotoReportGenerator)(nil)

// MarotoReportGenerator implementa reports.PDFGenerator usando Maroto v2.
type MarotoReportGenerator struct{}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

// SalesReport genera el PDF del reporte de ventas y devuelve sus bytes.
func (g *MarotoReportGenerator) SalesReport(report *dto.SalesReportResponse) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de Ventas", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	if len(report.ByMethod) > 0 {
		m.AddRows(sectionTitleRow("DESGLOSE POR FORMA DE PAGO"))
		for _, r := range methodRows(report.ByMethod) {
			m.AddRows(r)
		}
		m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	}

	m.AddRows(sectionTitleRow("VENTAS DEL PERÍODO"))
	m.AddRows(tableHeaderRow())
	for _, r := range saleRows(report.Sales) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título (izq) y período (der).
func headerRow(report *dto.SalesReportResponse) core.Row {
	period := fmt.Sprintf("%s — %s",
		report.From.Format("02/01/2006"),
		report.To.Format("02/01/2006"),
	)
	return row.New(14).Add(
		col.New(7).Add(
			text.New("REPORTE DE VENTAS", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New("Período", props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 1, Color: colorGray,
			}),
			text.New(period, props.Text{Size: 9, Align: align.Right, Top: 7}),
		),
	)
}

// summaryRow: totales del período.
func summaryRow(report *dto.SalesReportResponse) core.Row {
	metric := func(label, value string) core.Col {
		return col.New(4).Add(
			text.New(label, props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorGray, Top: 1,
			}),
			text.New(value, props.Text{
				Style: fontstyle.Bold, Size: 11, Color: colorPrimary, Top: 7,
			}),
		)
	}
	return row.New(16).Add(
		metric("Ventas", fmt.Sprintf("%d", report.Count)),
		metric("Total", formatMoney(report.Total)),
		metric("Ticket promedio", formatMoney(report.AverageTicket)),
	)
}

func sectionTitleRow(title string) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(title, props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2,
		}),
	))
}

// methodRows: una fila por forma de pago.
func methodRows(methods []dto.PaymentMethodRow) []core.Row {
	result := make([]core.Row, 0, len(methods))
	for _, m := range methods {
		result = append(result, row.New(6).Add(
			col.New(4).Add(text.New(m.PaymentMethod, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(4).Add(text.New(fmt.Sprintf("%d ventas", m.Count), props.Text{
				Size: 8, Align: align.Center, Top: 1, Color: colorGray,
			})),
			col.New(4).Add(text.New(formatMoney(m.Total), props.Text{
				Size: 8, Align: align.Right, Top: 1, Right: 1,
			})),
		))
	}
	return result
}

// tableHeaderRow: cabecera del listado de ventas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("N°", 2, align.Left),
		h("Fecha", 3, align.Left),
		h("Cliente", 4, align.Left),
		h("Total", 3, align.Right),
	)
}

// saleRows: una fila por venta del período.
func saleRows(sales []dto.ReportSaleRow) []core.Row {
	result := make([]core.Row, 0, len(sales))
	for _, s := range sales {
		result = append(result, row.New(6).Add(
			col.New(2).Add(text.New(s.Number, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(s.Date.Format("02/01/2006 15:04"), props.Text{Size: 8, Top: 1})),
			col.New(4).Add(text.New(nonEmpty(s.CustomerName, "Consumidor final"), props.Text{Size: 8, Top: 1})),
			col.New(3).Add(text.New(formatMoney(s.Total), props.Text{
				Size: 8, Align: align.Right, Top: 1, Right: 1,
			})),
		))
	}
	return result
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney formatea un monto en meticales: "1234.50" → "1,234.50 MT".
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	intPart := s
	frac := ""
	if i := len(s) - 3; i > 0 && s[i] == '.' {
		intPart, frac = s[:i], s[i:]
	}
	neg := false
	if len(intPart) > 0 && intPart[0] == '-' {
		neg = true
		intPart = intPart[1:]
	}
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i := 0; i < n; i++ {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, intPart[i])
	}
	out := string(buf) + frac
	if neg {
		out = "-" + out
	}
	return out + " MT"
}
