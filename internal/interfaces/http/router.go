package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/retail-api/internal/application/auth"
	appdelivery "github.com/tu-usuario/retail-api/internal/application/delivery"
	"github.com/tu-usuario/retail-api/internal/application/usecase"
	"github.com/tu-usuario/retail-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ClientUC     *usecase.ClientUseCase
	ProductUC    *usecase.ProductUseCase
	DeliveryUC   *appdelivery.UseCase
	DeliveryPDF  *appdelivery.PDFUseCase
	AuthUC       *auth.UseCase
	AccessSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.Refresh)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.AccessSecret))

	// Clients (protegido; delete solo admin)
	clients := protected.Group("/clients")
	clientHandler := NewClientHandler(deps.ClientUC)
	clients.Post("/", clientHandler.Create)
	clients.Get("/", clientHandler.List)
	clients.Get("/:id", clientHandler.GetByID)
	clients.Put("/:id", clientHandler.Update)
	clients.Delete("/:id", RequireRole(entity.RoleAdmin), clientHandler.Delete)

	// Products (protegido; delete solo admin)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/code/:code", productHandler.GetByCode)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Patch("/:id/stock", productHandler.AdjustStock)
	products.Delete("/:id", RequireRole(entity.RoleAdmin), productHandler.Delete)

	// Deliveries (protegido)
	deliveries := protected.Group("/deliveries")
	deliveryHandler := NewDeliveryHandler(deps.DeliveryUC, deps.DeliveryPDF)
	deliveries.Post("/", deliveryHandler.Create)
	deliveries.Get("/client/:clientId/history", deliveryHandler.ClientHistory)
	deliveries.Get("/:id", deliveryHandler.GetByID)
	deliveries.Get("/:id/pdf", deliveryHandler.GetPDF)
}
