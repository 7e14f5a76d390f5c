package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/comercio-api/internal/application/assistant"
	"github.com/jhoicas/comercio-api/internal/application/auth"
	"github.com/jhoicas/comercio-api/internal/application/billing"
	"github.com/jhoicas/comercio-api/internal/application/cart"
	"github.com/jhoicas/comercio-api/internal/application/catalog"
	"github.com/jhoicas/comercio-api/internal/application/orders"
	appPricing "github.com/jhoicas/comercio-api/internal/application/pricing"
	"github.com/jhoicas/comercio-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.UseCase
	Resolver     *appPricing.Resolver
	PricingAdmin *appPricing.Admin
	CatalogUC    *catalog.UseCase
	CartUC       *cart.UseCase
	OrderUC      *orders.UseCase
	InvoiceUC    *billing.InvoiceUseCase
	AssistantUC  *assistant.UseCase
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth: login público, registro solo admin.
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/register", AuthMiddleware(deps.JWTSecret), RequireRole(entity.RoleAdmin), authHandler.Register)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Pricing: resolución para cualquier rol; administración de reglas solo admin.
	pricingHandler := NewPricingHandler(deps.Resolver, deps.PricingAdmin)
	pricing := protected.Group("/pricing")
	pricing.Get("/resolve", pricingHandler.Resolve)
	rules := pricing.Group("/rules", RequireRole(entity.RoleAdmin))
	rules.Post("/", pricingHandler.CreateRule)
	rules.Get("/", pricingHandler.ListRules)
	rules.Put("/:id", pricingHandler.UpdateRule)
	rules.Delete("/:id", pricingHandler.DeleteRule)

	// Catálogo: lectura para cualquier rol, mutaciones para personal.
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	products := protected.Group("/products")
	products.Get("/", catalogHandler.ListProducts)
	products.Get("/:id", catalogHandler.GetProduct)
	products.Post("/", RequireRole(entity.RoleAdmin, entity.RoleEmployee), catalogHandler.CreateProduct)
	products.Put("/:id", RequireRole(entity.RoleAdmin, entity.RoleEmployee), catalogHandler.UpdateProduct)

	clients := protected.Group("/clients", RequireRole(entity.RoleAdmin, entity.RoleEmployee))
	clients.Post("/", catalogHandler.CreateClient)
	clients.Get("/", catalogHandler.ListClients)

	suppliers := protected.Group("/suppliers", RequireRole(entity.RoleAdmin, entity.RoleEmployee))
	suppliers.Post("/", catalogHandler.CreateSupplier)
	suppliers.Get("/", catalogHandler.ListSuppliers)

	// Carrito: solo usuarios con rol cliente (el carrito es del propio token).
	cartHandler := NewCartHandler(deps.CartUC)
	cartGroup := protected.Group("/cart", RequireRole(entity.RoleClient))
	cartGroup.Get("/", cartHandler.Get)
	cartGroup.Delete("/", cartHandler.Clear)
	cartGroup.Post("/items", cartHandler.AddItem)
	cartGroup.Put("/items/:productId", cartHandler.UpdateItem)
	cartGroup.Delete("/items/:productId", cartHandler.RemoveItem)

	// Órdenes: creación por el cliente; transición con restricción por rol en el caso de uso.
	orderHandler := NewOrderHandler(deps.OrderUC)
	orderGroup := protected.Group("/orders")
	orderGroup.Post("/", RequireRole(entity.RoleClient), orderHandler.Create)
	orderGroup.Get("/", orderHandler.List)
	orderGroup.Get("/:id", orderHandler.GetByID)
	orderGroup.Patch("/:id/status", orderHandler.UpdateStatus)

	// Facturas: lectura para cualquier rol (el cliente solo ve las suyas);
	// mutaciones solo personal.
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC)
	invoiceGroup := protected.Group("/invoices")
	invoiceGroup.Get("/:id", invoiceHandler.GetByID)
	staffInvoices := invoiceGroup.Group("/", RequireRole(entity.RoleAdmin, entity.RoleEmployee))
	staffInvoices.Post("/:id/items", invoiceHandler.AddItem)
	staffInvoices.Patch("/:id/discount", invoiceHandler.SetDiscount)
	staffInvoices.Post("/:id/recompute", invoiceHandler.Recompute)
	staffInvoices.Post("/:id/issue", invoiceHandler.Issue)
	staffInvoices.Post("/:id/payments", invoiceHandler.MarkPaid)

	// Asistente conversacional (cualquier rol autenticado; el caso de uso aplica
	// la restricción por herramienta).
	assistantHandler := NewAssistantHandler(deps.AssistantUC)
	protected.Post("/assistant/chat", assistantHandler.Chat)
}
