package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ferrisoluciones/ferreteria-api/internal/application/catalog"
	"github.com/ferrisoluciones/ferreteria-api/internal/application/purchasing"
	"github.com/ferrisoluciones/ferreteria-api/internal/application/wizard"
	"github.com/ferrisoluciones/ferreteria-api/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Sessions    *wizard.Manager
	Submit      *purchasing.SubmitInvoiceUseCase
	CatalogUC   *catalog.UseCase
	InvoiceRepo repository.SupplierInvoiceRepository
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token del servicio de auth)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Asistente de ingreso de facturas (protegido)
	ingreso := protected.Group("/ingreso")
	wizardHandler := NewWizardHandler(deps.Sessions, deps.Submit)
	ingreso.Get("/session", wizardHandler.Session)
	ingreso.Delete("/session", wizardHandler.ResetSession)
	ingreso.Post("/close", wizardHandler.CloseWizard)
	ingreso.Put("/supplier", wizardHandler.SelectSupplier)
	ingreso.Delete("/supplier", wizardHandler.ClearSupplier)
	ingreso.Put("/invoice-meta", wizardHandler.SetInvoiceMeta)
	ingreso.Put("/payment-method", wizardHandler.SetPaymentMethod)
	ingreso.Put("/discount", wizardHandler.SetDiscount)
	ingreso.Post("/items", wizardHandler.AddItem)
	ingreso.Post("/items/new", wizardHandler.AddNewProduct)
	ingreso.Post("/items/:index/units", wizardHandler.AddUnitsVariant)
	ingreso.Post("/items/:index/margin", wizardHandler.ApplyMargin)
	ingreso.Put("/items/:index", wizardHandler.UpdateItem)
	ingreso.Delete("/items/:index", wizardHandler.RemoveItem)
	ingreso.Post("/advance", wizardHandler.Advance)
	ingreso.Post("/back", wizardHandler.Back)
	ingreso.Post("/goto", wizardHandler.GoTo)
	ingreso.Get("/search", wizardHandler.Search)
	ingreso.Post("/submit", wizardHandler.Submit)

	// Proveedores (protegido)
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.CatalogUC)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Post("/", supplierHandler.Create)

	// Inventario (protegido)
	inventory := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.CatalogUC)
	inventory.Get("/", inventoryHandler.List)
	inventory.Get("/next-code", inventoryHandler.NextCode)

	// Facturas guardadas (protegido)
	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceRepo)
	invoices.Get("/:id", invoiceHandler.GetByID)
}
