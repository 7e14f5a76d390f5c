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
	"github.com/jhoicas/comercio-api/internal/application/assistant"
	"github.com/jhoicas/comercio-api/internal/application/auth"
	"github.com/jhoicas/comercio-api/internal/application/billing"
	"github.com/jhoicas/comercio-api/internal/application/cart"
	"github.com/jhoicas/comercio-api/internal/application/catalog"
	"github.com/jhoicas/comercio-api/internal/application/orders"
	apppricing "github.com/jhoicas/comercio-api/internal/application/pricing"
	infraai "github.com/jhoicas/comercio-api/internal/infrastructure/ai"
	"github.com/jhoicas/comercio-api/internal/infrastructure/events"
	"github.com/jhoicas/comercio-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/comercio-api/internal/interfaces/http"
	"github.com/jhoicas/comercio-api/pkg/config"
	"github.com/jhoicas/comercio-api/pkg/logger"
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

	userRepo := postgres.NewUserRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	ruleRepo := postgres.NewPricingRuleRepository(pool)
	cartRepo := postgres.NewCartRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	auditSink := postgres.NewAuditSink(auditRepo, log)

	resolver := apppricing.NewResolver(ruleRepo, productRepo)
	pricingAdmin := apppricing.NewAdmin(ruleRepo, productRepo, auditSink)
	catalogUC := catalog.NewUseCase(productRepo, clientRepo, supplierRepo)
	cartUC := cart.NewUseCase(cartRepo, productRepo, resolver, auditSink, log)
	orderUC := orders.NewUseCase(orderRepo, invoiceRepo, cartUC, txRunner, auditSink, log)

	// Despachador de sincronización Factura→Orden: los eventos de facturación
	// (emitida, pagada, totales recomputados) se aplican de forma asíncrona
	// sobre la orden enlazada.
	dispatcher := events.NewDispatcher(orderUC, log, cfg.Sync.BufferSize, cfg.Sync.MaxRetries)
	dispatcher.Start()
	defer dispatcher.Stop()

	invoiceUC := billing.NewInvoiceUseCase(invoiceRepo, resolver, txRunner, dispatcher, auditSink, log)

	anthropicSvc := infraai.NewAnthropicService(cfg.AI.AnthropicAPIKey, cfg.AI.AnthropicModel)
	assistantUC := assistant.NewUseCase(anthropicSvc, resolver, cartUC, orderUC, invoiceUC, log)

	authUC := auth.NewUseCase(userRepo, clientRepo, auth.JWTConfig{
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
		Title:    "Comercio API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		Resolver:     resolver,
		PricingAdmin: pricingAdmin,
		CatalogUC:    catalogUC,
		CartUC:       cartUC,
		OrderUC:      orderUC,
		InvoiceUC:    invoiceUC,
		AssistantUC:  assistantUC,
		JWTSecret:    cfg.JWT.Secret,
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
