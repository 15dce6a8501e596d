package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/application/auth"
	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/application/inventory"
	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/application/usecase"
	costing "github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/domain/inventory"
	infracache "github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/infrastructure/cache"
	infraexcel "github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/infrastructure/excel"
	infrapdf "github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/infrastructure/pdf"
	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/infrastructure/postgres"
	httpRouter "github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/interfaces/http"
	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/pkg/config"
	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	migrator, err := postgres.NewMigrator(pool)
	if err != nil {
		log.Fatal().Err(err).Msg("cargar migraciones")
	}
	applied, err := migrator.Up(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("aplicar migraciones")
	}
	log.Info().Int("aplicadas", applied).Msg("migraciones al día")

	userRepo := postgres.NewUserRepository(pool)
	patientRepo := postgres.NewPatientRepository(pool)
	staffRepo := postgres.NewStaffRepository(pool)
	itemRepo := postgres.NewInventoryItemRepository(pool)
	movementRepo := postgres.NewInventoryMovementRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Sin Redis la API sigue funcionando; solo se pierde la caché de valorizaciones.
	var valuationCache inventory.ValuationCache
	redisClient, err := infracache.New(ctx, cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no disponible, valorizaciones sin caché")
	} else {
		defer redisClient.Close()
		valuationCache = infracache.NewValuationCache(redisClient)
	}

	timeline, err := costing.ParseTimeline(cfg.Valuation.Timeline)
	if err != nil {
		log.Fatal().Err(err).Msg("VALUATION_TIMELINE")
	}
	defaultMethod, err := costing.ParseMethod(cfg.Valuation.DefaultMethod)
	if err != nil {
		log.Fatal().Err(err).Msg("VALUATION_DEFAULT_METHOD")
	}

	valuationUC := inventory.NewValuationUseCase(itemRepo, movementRepo, txRunner, valuationCache, inventory.ValuationOptions{
		Timeline:      timeline,
		DefaultMethod: defaultMethod,
		CacheTTL:      cfg.Valuation.CacheTTL,
	}, log)
	registerMovementUC := inventory.NewRegisterMovementUseCase(txRunner, valuationUC, log)
	itemUC := inventory.NewItemUseCase(itemRepo, valuationUC, log)
	alertsUC := inventory.NewAlertsUseCase(itemRepo, valuationUC)
	reportUC := inventory.NewReportUseCase(
		valuationUC,
		infrapdf.NewMarotoPDFGenerator(cfg.App.Name),
		infraexcel.NewWorkbookGenerator(),
	)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	created, err := authUC.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password)
	if err != nil {
		log.Fatal().Err(err).Msg("crear administrador inicial")
	}
	if created {
		log.Info().Str("email", cfg.Admin.Email).Msg("administrador inicial creado")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Gestión Salud API",
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("documentación swagger no encontrada")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:           authUC,
		UserUC:           usecase.NewUserUseCase(userRepo),
		PatientUC:        usecase.NewPatientUseCase(patientRepo),
		StaffUC:          usecase.NewStaffUseCase(staffRepo),
		ItemUC:           itemUC,
		RegisterMovement: registerMovementUC,
		Valuation:        valuationUC,
		Reports:          reportUC,
		Alerts:           alertsUC,
		AlertExpiryDays:  cfg.Alerts.ExpiryDays,
		JWTSecret:        cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
