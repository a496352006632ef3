package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Fabrica-api/internal/application/inventory"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Catalog       *inventory.CatalogUseCase
	Conversion    *inventory.ConversionUseCase
	Shortage      *inventory.ShortageUseCase
	Reservations  *inventory.ReservationUseCase
	Replenishment *inventory.ReplenishmentUseCase
	Stocktaking   *inventory.StocktakingUseCase
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	// Rutas protegidas (Bearer Token cuando hay JWT_SECRET)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	items := api.Group("/items")
	itemHandler := NewItemHandler(deps.Catalog)
	items.Post("/", itemHandler.Create)
	items.Get("/", itemHandler.List)
	items.Get("/:id", itemHandler.GetByID)
	items.Get("/:id/movements", itemHandler.Movements)
	items.Post("/:id/receipts", itemHandler.Receive)
	items.Get("/:id/used-in", itemHandler.UsedIn)
	items.Get("/:id/recipe", itemHandler.GetRecipe)
	items.Put("/:id/recipe", itemHandler.SetRecipe)

	analysisHandler := NewAnalysisHandler(deps.Shortage, deps.Reservations, deps.Replenishment)
	api.Post("/availability", analysisHandler.Availability)
	api.Get("/reservations", analysisHandler.Reservations)
	api.Get("/replenishment", analysisHandler.Replenishment)

	orders := api.Group("/orders")
	orderHandler := NewOrderHandler(deps.Conversion)
	// antes de /:id para que "analyze" no se tome como ID
	orders.Post("/analyze", analysisHandler.Analyze)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Post("/:id/start", orderHandler.Start)
	orders.Post("/:id/complete", orderHandler.Complete)
	orders.Post("/:id/cancel", orderHandler.Cancel)
	orders.Get("/:id/movements", orderHandler.Movements)

	stocktaking := api.Group("/stocktaking")
	stocktakingHandler := NewStocktakingHandler(deps.Stocktaking)
	stocktaking.Post("/", stocktakingHandler.Create)
	stocktaking.Get("/", stocktakingHandler.List)
	stocktaking.Get("/:id", stocktakingHandler.GetByID)
	stocktaking.Post("/:id/start", stocktakingHandler.Start)
	stocktaking.Put("/:id/counts", stocktakingHandler.Count)
	stocktaking.Post("/:id/reconcile", stocktakingHandler.Reconcile)
	stocktaking.Post("/:id/cancel", stocktakingHandler.Cancel)
}
