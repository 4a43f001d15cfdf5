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

	"github.com/jhoicas/Requisiciones-api/internal/application/auth"
	"github.com/jhoicas/Requisiciones-api/internal/application/fulfillment"
	"github.com/jhoicas/Requisiciones-api/internal/application/inventory"
	"github.com/jhoicas/Requisiciones-api/internal/application/usecase"
	infrapdf "github.com/jhoicas/Requisiciones-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Requisiciones-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Requisiciones-api/internal/interfaces/http"
	"github.com/jhoicas/Requisiciones-api/pkg/config"
	"github.com/jhoicas/Requisiciones-api/pkg/logger"
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

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Repositorios sobre el pool (lecturas fuera de tx). Las mutaciones del
	// motor de cumplimiento van por TxRunner con repos atados a la tx.
	unitRepo := postgres.NewUnitRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	requisitionRepo := postgres.NewRequisitionRepository(pool)
	movementRepo := postgres.NewInventoryMovementRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	scopeSvc := auth.NewScopeService(userRepo)
	coordinator := fulfillment.NewUseCase(txRunner, scopeSvc)
	adjustUC := inventory.NewAdjustStockUseCase(txRunner)
	movementsUC := inventory.NewMovementQueryUseCase(movementRepo)

	unitUC := usecase.NewUnitUseCase(unitRepo)
	productUC := usecase.NewProductUseCase(productRepo)
	requisitionUC := usecase.NewRequisitionQueryUseCase(requisitionRepo)

	// PDF: remisión de la requisición
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	deliveryNoteUC := usecase.NewDeliveryNoteUseCase(requisitionRepo, unitRepo, productRepo, pdfGenerator)

	authUC := auth.NewAuthUseCase(userRepo, unitRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

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
		Title:    "Requisiciones API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		UnitUC:         unitUC,
		ProductUC:      productUC,
		Coordinator:    coordinator,
		RequisitionUC:  requisitionUC,
		DeliveryNoteUC: deliveryNoteUC,
		AdjustUC:       adjustUC,
		MovementsUC:    movementsUC,
		JWTSecret:      cfg.JWT.Secret,
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
