package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/ferrisoluciones/ferreteria-api/internal/application/catalog"
	"github.com/ferrisoluciones/ferreteria-api/internal/application/purchasing"
	"github.com/ferrisoluciones/ferreteria-api/internal/application/wizard"
	"github.com/ferrisoluciones/ferreteria-api/internal/infrastructure/localstore"
	"github.com/ferrisoluciones/ferreteria-api/internal/infrastructure/notify"
	infrapdf "github.com/ferrisoluciones/ferreteria-api/internal/infrastructure/pdf"
	"github.com/ferrisoluciones/ferreteria-api/internal/infrastructure/postgres"
	httpRouter "github.com/ferrisoluciones/ferreteria-api/internal/interfaces/http"
	"github.com/ferrisoluciones/ferreteria-api/pkg/config"
	"github.com/ferrisoluciones/ferreteria-api/pkg/logger"
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

	supplierRepo := postgres.NewSupplierRepository(pool)
	inventoryRepo := postgres.NewInventoryRepository(pool)
	invoiceRepo := postgres.NewSupplierInvoiceRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	draftStore, err := localstore.NewFileStore(cfg.Drafts.Dir)
	if err != nil {
		log.Fatal().Err(err).Msg("almacén de borradores")
	}
	draftCache := wizard.NewCache(draftStore, time.Duration(cfg.Drafts.TTLHours)*time.Hour, log)
	sessions := wizard.NewManager(draftCache, inventoryRepo)

	reconciler := purchasing.NewReconciler(inventoryRepo, log)
	receiptGen := infrapdf.NewTransferReceiptGenerator(cfg.App.Name)
	notifier := notify.NewWhatsAppNotifier(cfg.WhatsApp, log)
	submitUC := purchasing.NewSubmitInvoiceUseCase(txRunner, reconciler, receiptGen, notifier, log)

	catalogUC := catalog.NewUseCase(supplierRepo, inventoryRepo, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		Sessions:    sessions,
		Submit:      submitUC,
		CatalogUC:   catalogUC,
		InvoiceRepo: invoiceRepo,
		JWTSecret:   cfg.JWT.Secret,
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
