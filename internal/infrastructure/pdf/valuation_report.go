// Package pdf genera la representación impresa del reporte de valorización de inventario.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + método PEPS/UEPS │ Fecha de generación    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Código | Insumo | Cant. | Lotes | C.Prom. | Valor   │
//	│         (una sub-fila por lote sobreviviente)               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: insumos / lotes activos / VALOR TOTAL             │
//	│  INCIDENCIAS: insumos con historial inválido                │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"

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

	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/application/dto"
	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/application/inventory"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ inventory.ValuationPDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa inventory.ValuationPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	clinicName string
}

// NewMarotoPDFGenerator construye el generador; clinicName aparece en el encabezado.
func NewMarotoPDFGenerator(clinicName string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{clinicName: clinicName}
}

// GenerateValuationReport genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateValuationReport(report *dto.InventoryReportResponse) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("pdf: reporte vacío")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Valorización de inventario", true).
		WithAuthor(g.clinicName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.clinicName, report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	for _, item := range report.Items {
		m.AddRows(itemRows(item)...)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(report))

	if len(report.Failures) > 0 {
		m.AddRows(line.NewRow(3))
		m.AddRows(failureRows(report.Failures)...)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(clinicName string, report *dto.InventoryReportResponse) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(clinicName, "Clínica"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Valorización de inventario de insumos médicos", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("MÉTODO "+report.Method, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Línea de tiempo: "+report.Timeline, props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
			text.New("Generado: "+report.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Código", 2, align.Left),
		h("Insumo", 4, align.Left),
		h("Cantidad", 2, align.Right),
		h("C. Prom.", 2, align.Right),
		h("Valor", 2, align.Right),
	)
}

// itemRows una fila por insumo y una sub-fila por lote sobreviviente.
func itemRows(item dto.ItemValuationResponse) []core.Row {
	cell := func(s string, a align.Type, style fontstyle.Type) core.Component {
		return text.New(s, props.Text{Size: 8, Align: a, Style: style, Top: 1, Left: 1, Right: 1})
	}
	rows := []core.Row{row.New(7).Add(
		col.New(2).Add(cell(item.Code, align.Left, fontstyle.Bold)),
		col.New(4).Add(cell(item.Name, align.Left, fontstyle.Bold)),
		col.New(2).Add(cell(formatQuantity(item.TotalQuantity)+" "+item.Unit, align.Right, fontstyle.Normal)),
		col.New(2).Add(cell("$"+formatMoney(item.AverageUnitCost), align.Right, fontstyle.Normal)),
		col.New(2).Add(cell("$"+formatMoney(item.TotalValue), align.Right, fontstyle.Bold)),
	)}
	for _, lot := range item.Lots {
		detail := fmt.Sprintf("Lote %s  ·  ingreso %s", nonEmpty(lot.Label, "—"), lot.Date.Format("02/01/2006"))
		if lot.ExpirationDate != nil {
			detail += "  ·  vence " + lot.ExpirationDate.Format("02/01/2006")
		}
		rows = append(rows, row.New(5).Add(
			col.New(2),
			col.New(4).Add(text.New(detail, props.Text{Size: 7, Color: colorGray, Left: 3})),
			col.New(2).Add(text.New(formatQuantity(lot.RemainingQuantity), props.Text{Size: 7, Align: align.Right, Color: colorGray, Right: 1})),
			col.New(2).Add(text.New("$"+formatMoney(lot.UnitPrice), props.Text{Size: 7, Align: align.Right, Color: colorGray, Right: 1})),
			col.New(2).Add(text.New("$"+formatMoney(lot.Value), props.Text{Size: 7, Align: align.Right, Color: colorGray, Right: 1})),
		))
	}
	if item.Shortfall.IsPositive() {
		rows = append(rows, row.New(5).Add(
			col.New(2),
			col.New(10).Add(text.New("Salidas sin stock disponible: "+formatQuantity(item.Shortfall), props.Text{
				Size: 7, Color: colorAlert, Left: 3,
			})),
		))
	}
	return rows
}

func totalsRow(report *dto.InventoryReportResponse) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	return row.New(20).Add(
		col.New(6),
		col.New(3).Add(
			label("Insumos:"),
			label("Lotes activos:"),
			text.New("VALOR TOTAL:", props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2}),
		),
		col.New(3).Add(
			value(fmt.Sprintf("%d", report.ItemCount)),
			value(fmt.Sprintf("%d", report.ActiveLots)),
			text.New("$"+formatMoney(report.TotalValue), props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1}),
		),
	)
}

func failureRows(failures []dto.ReportFailure) []core.Row {
	rows := []core.Row{row.New(6).Add(col.New(12).Add(
		text.New("INSUMOS NO VALORIZADOS", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorAlert, Top: 1}),
	))}
	for _, f := range failures {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New(fmt.Sprintf("%s %s: %s", f.Code, f.Name, f.Error), props.Text{Size: 7, Color: colorGray, Left: 2}),
		)))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney formatea con puntos de miles y coma decimal.
// Ej: 25000 → "25.000,00", -1234.5 → "-1.234,50"
func formatMoney(d decimal.Decimal) string {
	return groupThousands(d.StringFixed(2))
}

// formatQuantity como formatMoney pero sin decimales sobrantes.
func formatQuantity(d decimal.Decimal) string {
	return groupThousands(d.String())
}

func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	if hasFrac {
		return sign + string(buf) + "," + frac
	}
	return sign + string(buf)
}
