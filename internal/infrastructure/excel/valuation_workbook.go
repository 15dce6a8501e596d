// Package excel exporta el reporte de valorización como libro XLSX.
package excel

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/application/dto"
	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/application/inventory"
)

// Hojas del libro.
const (
	SheetSummary  = "Resumen"
	SheetLots     = "Lotes"
	SheetFailures = "Incidencias"
)

var _ inventory.ValuationSpreadsheetGenerator = (*WorkbookGenerator)(nil)

// WorkbookGenerator genera el libro con excelize.
type WorkbookGenerator struct{}

// NewWorkbookGenerator construye el generador.
func NewWorkbookGenerator() *WorkbookGenerator { return &WorkbookGenerator{} }

// GenerateValuationWorkbook devuelve los bytes del XLSX: una hoja resumen por insumo,
// una hoja con los lotes sobrevivientes y, si las hay, las incidencias.
func (g *WorkbookGenerator) GenerateValuationWorkbook(report *dto.InventoryReportResponse) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("excel: reporte vacío")
	}
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, fmt.Errorf("excel: hoja resumen: %w", err)
	}
	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("excel: estilo: %w", err)
	}

	summary := [][]any{{
		"Código", "Insumo", "Unidad", "Método", "Cantidad", "Costo promedio", "Valor",
		"Lotes activos", "Faltante", "Contador", "Descuadre",
	}}
	lots := [][]any{{
		"Código", "Lote", "Movimiento", "Fecha ingreso", "Vencimiento",
		"Precio unitario", "Cantidad original", "Saldo", "Valor",
	}}
	for _, it := range report.Items {
		summary = append(summary, []any{
			it.Code, it.Name, it.Unit, it.Method, num(it.TotalQuantity), num(it.AverageUnitCost),
			num(it.TotalValue), it.ActiveLots, num(it.Shortfall), num(it.CounterQuantity), num(it.Discrepancy),
		})
		for _, l := range it.Lots {
			exp := ""
			if l.ExpirationDate != nil {
				exp = l.ExpirationDate.Format("2006-01-02")
			}
			lots = append(lots, []any{
				it.Code, l.Label, l.MovementID, l.Date.Format("2006-01-02 15:04"), exp,
				num(l.UnitPrice), num(l.OriginalQuantity), num(l.RemainingQuantity), num(l.Value),
			})
		}
	}
	summary = append(summary, nil, []any{"TOTAL", "", "", report.Method, "", "", num(report.TotalValue), report.ActiveLots})

	if err := writeRows(f, SheetSummary, summary, header); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(SheetLots); err != nil {
		return nil, fmt.Errorf("excel: hoja lotes: %w", err)
	}
	if err := writeRows(f, SheetLots, lots, header); err != nil {
		return nil, err
	}

	if len(report.Failures) > 0 {
		failures := [][]any{{"Código", "Insumo", "Error"}}
		for _, fl := range report.Failures {
			failures = append(failures, []any{fl.Code, fl.Name, fl.Error})
		}
		if _, err := f.NewSheet(SheetFailures); err != nil {
			return nil, fmt.Errorf("excel: hoja incidencias: %w", err)
		}
		if err := writeRows(f, SheetFailures, failures, header); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("excel: escribir libro: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any, headerStyle int) error {
	for i, r := range rows {
		if r == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return fmt.Errorf("excel: %s fila %d: %w", sheet, i+1, err)
		}
	}
	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, headerStyle)
}

// num pasa a float64 solo para la celda; el valor exacto queda en el JSON del reporte.
func num(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}
