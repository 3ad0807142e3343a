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

	"github.com/jhoicas/botiquin-api/internal/application/auth"
	"github.com/jhoicas/botiquin-api/internal/application/catalog"
	"github.com/jhoicas/botiquin-api/internal/application/firstaid"
	"github.com/jhoicas/botiquin-api/internal/application/ledger"
	"github.com/jhoicas/botiquin-api/internal/domain/tenant"
	"github.com/jhoicas/botiquin-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/botiquin-api/internal/interfaces/http"
	"github.com/jhoicas/botiquin-api/pkg/config"
	"github.com/jhoicas/botiquin-api/pkg/logger"
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
		Str("ledger_mode", cfg.Ledger.Mode).
		Msg("iniciando aplicación")

	ctx := context.Background()
	if err := postgres.RunMigrations(ctx, cfg.DB.ConnectionString()); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	legacy := tenant.LegacyVisibility(cfg.Tenant.LegacyVisibility)
	guard := tenant.NewGuard(legacy)
	legacy = guard.Legacy // política normalizada

	userRepo := postgres.NewUserRepository(pool)
	drugRepo := postgres.NewDrugRepository(pool, legacy)
	stockRepo := postgres.NewStockRepository(pool)
	txLogRepo := postgres.NewTransactionRepository(pool)
	boxRepo := postgres.NewBoxRepository(pool, legacy)
	txRunner := postgres.NewTxRunner(pool, legacy)

	mode := ledger.ParseMode(cfg.Ledger.Mode)
	ledgerUC := ledger.NewUseCase(mode, txRunner, drugRepo, stockRepo, txLogRepo, log)
	firstAidUC := firstaid.NewUseCase(guard, boxRepo, ledgerUC, txRunner, log)
	catalogUC := catalog.NewUseCase(drugRepo, stockRepo)
	authUC := auth.NewUseCase(userRepo, auth.JWTConfig{
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
		Title:    "Botiquín API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		CatalogUC:  catalogUC,
		FirstAidUC: firstAidUC,
		LedgerUC:   ledgerUC,
		JWTSecret:  cfg.JWT.Secret,
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
