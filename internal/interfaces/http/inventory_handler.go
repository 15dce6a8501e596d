package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/application/dto"
	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/application/inventory"
	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/domain"
	costing "github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/domain/inventory"
)

const (
	mimePDF  = "application/pdf"
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// InventoryHandler movimientos, valorización PEPS/UEPS, reportes y alertas (protegido).
type InventoryHandler struct {
	movements  *inventory.RegisterMovementUseCase
	valuation  *inventory.ValuationUseCase
	reports    *inventory.ReportUseCase
	alerts     *inventory.AlertsUseCase
	expiryDays int
}

// NewInventoryHandler construye el handler. expiryDays es la ventana por defecto de LOTE_POR_VENCER.
func NewInventoryHandler(
	movements *inventory.RegisterMovementUseCase,
	valuation *inventory.ValuationUseCase,
	reports *inventory.ReportUseCase,
	alerts *inventory.AlertsUseCase,
	expiryDays int,
) *InventoryHandler {
	return &InventoryHandler{
		movements:  movements,
		valuation:  valuation,
		reports:    reports,
		alerts:     alerts,
		expiryDays: expiryDays,
	}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de inventario
// @Description  ENTRADA crea un lote con su precio de compra; SALIDA descuenta stock y no puede superar el disponible.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID del insumo"
// @Param        body  body  dto.RegisterMovementRequest  true  "direction, quantity, unit_price (entradas), lot_label, expiration_date, date"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/items/{id}/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.movements.RegisterMovementFromRequest(c.UserContext(), c.Params("id"), userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMovements godoc
// @Summary      Kardex del insumo
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del insumo"
// @Param        from    query  string  false  "Desde (RFC3339 o AAAA-MM-DD)"
// @Param        to      query  string  false  "Hasta (RFC3339 o AAAA-MM-DD)"
// @Param        limit   query  int     false  "Límite"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.MovementListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/items/{id}/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	from, err := parseDateQuery(c, "from")
	if err != nil {
		return writeError(c, err)
	}
	to, err := parseDateQuery(c, "to")
	if err != nil {
		return writeError(c, err)
	}
	page, err := parsePage(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.valuation.ListMovements(c.UserContext(), c.Params("id"), from, to, page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Valuation godoc
// @Summary      Valorización del insumo
// @Description  Lotes sobrevivientes y valor total según PEPS o UEPS.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del insumo"
// @Param        method  query  string  false  "PEPS | UEPS (por defecto el configurado)"
// @Success      200  {object}  dto.ItemValuationResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/items/{id}/valuation [get]
func (h *InventoryHandler) Valuation(c *fiber.Ctx) error {
	method, err := h.valuation.ResolveMethod(c.Query("method"))
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.valuation.ValuateItem(c.UserContext(), c.Params("id"), method)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CompareMethods godoc
// @Summary      PEPS y UEPS lado a lado
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del insumo"
// @Success      200  {object}  dto.MethodComparisonResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/items/{id}/valuation/compare [get]
func (h *InventoryHandler) CompareMethods(c *fiber.Ctx) error {
	out, err := h.valuation.CompareMethods(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Report godoc
// @Summary      Valorización de todo el inventario activo
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        method  query  string  false  "PEPS | UEPS"
// @Success      200  {object}  dto.InventoryReportResponse
// @Router       /api/inventory/report [get]
func (h *InventoryHandler) Report(c *fiber.Ctx) error {
	method, err := h.valuation.ResolveMethod(c.Query("method"))
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.valuation.InventoryReport(c.UserContext(), method)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ReportPDF godoc
// @Summary      Reporte de valorización en PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        method  query  string  false  "PEPS | UEPS"
// @Success      200  {file}  binary
// @Router       /api/inventory/report.pdf [get]
func (h *InventoryHandler) ReportPDF(c *fiber.Ctx) error {
	method, err := h.valuation.ResolveMethod(c.Query("method"))
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.reports.ValuationPDF(c.UserContext(), method)
	if err != nil {
		return writeError(c, err)
	}
	return sendAttachment(c, mimePDF, reportFilename(method, "pdf"), out)
}

// ReportXLSX godoc
// @Summary      Reporte de valorización en Excel
// @Tags         reports
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        method  query  string  false  "PEPS | UEPS"
// @Success      200  {file}  binary
// @Router       /api/inventory/report.xlsx [get]
func (h *InventoryHandler) ReportXLSX(c *fiber.Ctx) error {
	method, err := h.valuation.ResolveMethod(c.Query("method"))
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.reports.ValuationXLSX(c.UserContext(), method)
	if err != nil {
		return writeError(c, err)
	}
	return sendAttachment(c, mimeXLSX, reportFilename(method, "xlsx"), out)
}

// Alerts godoc
// @Summary      Alertas de inventario
// @Description  Stock mínimo, lotes vencidos o por vencer, descuadres y salidas sin stock.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        days  query  int  false  "Ventana de vencimiento en días"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/alerts [get]
func (h *InventoryHandler) Alerts(c *fiber.Ctx) error {
	days := c.QueryInt("days", h.expiryDays)
	if days < 0 {
		return writeError(c, fmt.Errorf("days no puede ser negativo: %w", domain.ErrInvalidInput))
	}
	list, err := h.alerts.GenerateAlerts(c.UserContext(), days)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":  len(list),
		"alerts": list,
	})
}

func reportFilename(method costing.Method, ext string) string {
	return fmt.Sprintf("valorizacion-%s.%s", method, ext)
}

func sendAttachment(c *fiber.Ctx, mime, filename string, data []byte) error {
	c.Set(fiber.HeaderContentType, mime)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(data)
}
