package inventory

import (
	"context"

	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/domain/inventory"
)

// ReportUseCase exporta el reporte de valorización a PDF o XLSX.
type ReportUseCase struct {
	valuation *ValuationUseCase
	pdf       ValuationPDFGenerator
	xlsx      ValuationSpreadsheetGenerator
}

// NewReportUseCase construye el caso de uso de reportes.
func NewReportUseCase(valuation *ValuationUseCase, pdf ValuationPDFGenerator, xlsx ValuationSpreadsheetGenerator) *ReportUseCase {
	return &ReportUseCase{valuation: valuation, pdf: pdf, xlsx: xlsx}
}

// ValuationPDF genera el PDF del reporte de valorización.
func (uc *ReportUseCase) ValuationPDF(ctx context.Context, method inventory.Method) ([]byte, error) {
	report, err := uc.valuation.InventoryReport(ctx, method)
	if err != nil {
		return nil, err
	}
	return uc.pdf.GenerateValuationReport(report)
}

// ValuationXLSX genera el libro Excel del reporte de valorización.
func (uc *ReportUseCase) ValuationXLSX(ctx context.Context, method inventory.Method) ([]byte, error) {
	report, err := uc.valuation.InventoryReport(ctx, method)
	if err != nil {
		return nil, err
	}
	return uc.xlsx.GenerateValuationWorkbook(report)
}
