package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/application/auth"
	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/application/inventory"
	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/application/usecase"
	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC           *auth.AuthUseCase
	UserUC           *usecase.UserUseCase
	PatientUC        *usecase.PatientUseCase
	StaffUC          *usecase.StaffUseCase
	ItemUC           *inventory.ItemUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	Valuation        *inventory.ValuationUseCase
	Reports          *inventory.ReportUseCase
	Alerts           *inventory.AlertsUseCase
	AlertExpiryDays  int
	JWTSecret        string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	var (
		adminOnly      = RequireRole(entity.RoleAdmin)
		inventoryWrite = RequireRole(entity.RoleAdmin, entity.RoleFarmacia)
		inventoryRead  = RequireRole(entity.RoleAdmin, entity.RoleFarmacia, entity.RoleMedico)
		anyRole        = RequireRole(entity.RoleAdmin, entity.RoleMedico, entity.RoleEnfermero, entity.RoleFarmacia)
		clinicalWrite  = RequireRole(entity.RoleAdmin, entity.RoleMedico, entity.RoleEnfermero)
	)

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/auth/me", authHandler.Me)

	// Usuarios (admin)
	users := protected.Group("/users", adminOnly)
	userHandler := NewUserHandler(deps.AuthUC, deps.UserUC)
	users.Post("/", userHandler.Create)
	users.Get("/", userHandler.List)
	users.Patch("/:id", userHandler.Update)

	// Pacientes
	patients := protected.Group("/patients")
	patientHandler := NewPatientHandler(deps.PatientUC)
	patients.Get("/", anyRole, patientHandler.List)
	patients.Get("/:id", anyRole, patientHandler.GetByID)
	patients.Post("/", clinicalWrite, patientHandler.Create)
	patients.Put("/:id", clinicalWrite, patientHandler.Update)
	patients.Delete("/:id", clinicalWrite, patientHandler.Deactivate)

	// Personal (admin)
	staff := protected.Group("/staff", adminOnly)
	staffHandler := NewStaffHandler(deps.StaffUC)
	staff.Get("/", staffHandler.List)
	staff.Get("/:id", staffHandler.GetByID)
	staff.Post("/", staffHandler.Create)
	staff.Put("/:id", staffHandler.Update)
	staff.Delete("/:id", staffHandler.Deactivate)

	// Inventario de insumos
	inv := protected.Group("/inventory")
	itemHandler := NewItemHandler(deps.ItemUC)
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement, deps.Valuation, deps.Reports, deps.Alerts, deps.AlertExpiryDays)

	inv.Get("/items", inventoryRead, itemHandler.List)
	inv.Get("/items/:id", inventoryRead, itemHandler.GetByID)
	inv.Post("/items", inventoryWrite, itemHandler.Create)
	inv.Put("/items/:id", inventoryWrite, itemHandler.Update)
	inv.Delete("/items/:id", inventoryWrite, itemHandler.Deactivate)

	inv.Post("/items/:id/movements", inventoryWrite, inventoryHandler.RegisterMovement)
	inv.Get("/items/:id/movements", inventoryRead, inventoryHandler.ListMovements)
	inv.Get("/items/:id/valuation", inventoryRead, inventoryHandler.Valuation)
	inv.Get("/items/:id/valuation/compare", inventoryRead, inventoryHandler.CompareMethods)

	inv.Get("/report", inventoryRead, inventoryHandler.Report)
	inv.Get("/report.pdf", inventoryRead, inventoryHandler.ReportPDF)
	inv.Get("/report.xlsx", inventoryRead, inventoryHandler.ReportXLSX)
	inv.Get("/alerts", inventoryRead, inventoryHandler.Alerts)
}
