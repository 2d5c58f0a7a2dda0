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

	"github.com/tu-usuario/kardex-pro/internal/application/stock"
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
	infrapdf "github.com/tu-usuario/kardex-pro/internal/infrastructure/pdf"
	"github.com/tu-usuario/kardex-pro/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/kardex-pro/internal/interfaces/http"
	"github.com/tu-usuario/kardex-pro/pkg/config"
	"github.com/tu-usuario/kardex-pro/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	// Sin configuración mínima no se intenta nada contra la red.
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuración inválida")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	scope := entity.NewLocationScope(cfg.Stock.ScopeLocations...)
	retry := postgres.RetryPolicy{
		Attempts:  cfg.Retry.Attempts,
		BaseDelay: cfg.Retry.BaseDelay,
		Log:       log,
	}

	// Los repositorios sobre el pool reintentan lecturas transitorias; los que
	// arma TxRunner dentro de una transacción no llevan política.
	skuRepo := postgres.NewSKURepository(pool).WithRetry(retry)
	movementRepo := postgres.NewMovementRepository(pool).WithRetry(retry)
	balanceRepo := postgres.NewBalanceRepository(pool).WithRetry(retry)
	saleRepo := postgres.NewSaleRepository(pool).WithRetry(retry)
	countRepo := postgres.NewCountRepository(pool).WithRetry(retry)
	historyRepo := postgres.NewHistoryRepository(pool, retry, log)
	txRunner := postgres.NewTxRunner(pool)

	resolver := stock.NewCheckpointResolver(movementRepo, countRepo, log)
	breakdownUC := stock.NewBreakdownUseCase(
		resolver, movementRepo, saleRepo, balanceRepo, skuRepo,
		scope, cfg.Stock.PageSize, log,
	)
	resyncUC := stock.NewResyncUseCase(breakdownUC, txRunner, scope, log)
	registerMovementUC := stock.NewRegisterMovementUseCase(txRunner, skuRepo, scope, cfg.Stock.FactoryName, log)
	saleUC := stock.NewSaleUseCase(txRunner, skuRepo, scope, log)
	opnameUC := stock.NewOpnameUseCase(txRunner, skuRepo, scope, log)
	historyUC := stock.NewHistoryUseCase(historyRepo, cfg.Stock.PageSize, log)
	skuUC := stock.NewSKUUseCase(skuRepo)

	// PDF: kardex verificable por SKU
	pdfGenerator := infrapdf.NewMarotoKardexGenerator()
	reportUC := stock.NewKardexReportUseCase(breakdownUC, skuRepo, pdfGenerator)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    cfg.App.Name,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		SKUUC:            skuUC,
		RegisterMovement: registerMovementUC,
		BreakdownUC:      breakdownUC,
		ResyncUC:         resyncUC,
		SaleUC:           saleUC,
		OpnameUC:         opnameUC,
		HistoryUC:        historyUC,
		ReportUC:         reportUC,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("apagando servidor")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor HTTP")
	}
	log.Info().Msg("servidor detenido")
}
