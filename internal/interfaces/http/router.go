package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Requisiciones-api/internal/application/auth"
	"github.com/jhoicas/Requisiciones-api/internal/application/fulfillment"
	"github.com/jhoicas/Requisiciones-api/internal/application/inventory"
	"github.com/jhoicas/Requisiciones-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	UnitUC         *usecase.UnitUseCase
	ProductUC      *usecase.ProductUseCase
	Coordinator    *fulfillment.UseCase
	RequisitionUC  *usecase.RequisitionQueryUseCase
	DeliveryNoteUC *usecase.DeliveryNoteUseCase
	AdjustUC       *inventory.AdjustStockUseCase
	MovementsUC    *inventory.MovementQueryUseCase
	JWTSecret      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Units (público por ahora; se puede proteger con AuthMiddleware(deps.JWTSecret))
	units := api.Group("/units")
	unitHandler := NewUnitHandler(deps.UnitUC)
	units.Get("/", unitHandler.List)
	units.Post("/", unitHandler.Create)
	units.Get("/:id", unitHandler.GetByID)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)

	// Requisitions (protegido). El cumplimiento y la remisión son operación de
	// bodega: solo admin o bodeguero.
	requisitions := protected.Group("/requisitions")
	requisitionHandler := NewRequisitionHandler(deps.Coordinator, deps.RequisitionUC, deps.MovementsUC, deps.DeliveryNoteUC)
	requisitions.Post("/", requisitionHandler.Create)
	requisitions.Get("/", requisitionHandler.List)
	requisitions.Get("/:id", requisitionHandler.GetByID)
	requisitions.Get("/:id/movements", requisitionHandler.Movements)
	requisitions.Patch("/:id/fulfillment", RequireRole("admin", "bodeguero"), requisitionHandler.Fulfill)
	requisitions.Get("/:id/delivery-note", RequireRole("admin", "bodeguero"), requisitionHandler.DeliveryNote)

	// Inventory (protegido). Entradas y ajustes manuales: solo bodega.
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.AdjustUC, deps.MovementsUC)
	invGroup.Post("/adjustments", RequireRole("admin", "bodeguero"), inventoryHandler.Adjust)
	invGroup.Get("/movements", inventoryHandler.ListMovements)
}
