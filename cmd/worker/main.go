package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/application/inventory"
	costing "github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/domain/inventory"
	infracache "github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/infrastructure/cache"
	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/infrastructure/postgres"
	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/internal/jobs"
	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/pkg/config"
	"github.com/EdwinJa14/AplicacionWebGestionSalud-sub000/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Redis es obligatorio: aloja la cola y la caché que se recalcula.
	redisClient, err := infracache.New(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a Redis")
	}
	defer redisClient.Close()

	timeline, err := costing.ParseTimeline(cfg.Valuation.Timeline)
	if err != nil {
		log.Fatal().Err(err).Msg("VALUATION_TIMELINE")
	}
	defaultMethod, err := costing.ParseMethod(cfg.Valuation.DefaultMethod)
	if err != nil {
		log.Fatal().Err(err).Msg("VALUATION_DEFAULT_METHOD")
	}

	itemRepo := postgres.NewInventoryItemRepository(pool)
	valuationUC := inventory.NewValuationUseCase(
		itemRepo,
		postgres.NewInventoryMovementRepository(pool),
		postgres.NewTxRunner(pool),
		infracache.NewValuationCache(redisClient),
		inventory.ValuationOptions{
			Timeline:      timeline,
			DefaultMethod: defaultMethod,
			CacheTTL:      cfg.Valuation.CacheTTL,
		},
		log,
	)
	revaluationJob := jobs.NewRevaluationJob(itemRepo, valuationUC, log)

	revaluationTask, err := jobs.NewRevaluationTask(time.Now().UTC())
	if err != nil {
		log.Fatal().Err(err).Msg("construir tarea de revaluación")
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts:   jobs.RedisOpts(cfg.Redis),
		Concurrency: cfg.Worker.Concurrency,
		Logger:      log,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskInventoryRevaluation, Handler: revaluationJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.Worker.RevaluationCron, Task: revaluationTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar worker")
	}

	log.Info().Str("cron", cfg.Worker.RevaluationCron).Msg("worker iniciado")
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("worker finalizado con error")
	}
	log.Info().Msg("worker detenido")
}
