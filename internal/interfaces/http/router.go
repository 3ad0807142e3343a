package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/botiquin-api/internal/application/auth"
	"github.com/jhoicas/botiquin-api/internal/application/catalog"
	"github.com/jhoicas/botiquin-api/internal/application/firstaid"
	"github.com/jhoicas/botiquin-api/internal/application/ledger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.UseCase
	CatalogUC  *catalog.UseCase
	FirstAidUC *firstaid.UseCase
	LedgerUC   *ledger.UseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Vista pública del botiquín, enlazada por QR. Sin token y sin listado:
	// solo se llega conociendo el id.
	boxHandler := NewBoxHandler(deps.FirstAidUC)
	api.Get("/first-aid/boxes/:id/public", boxHandler.PublicDetail)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Botiquines (protegido)
	boxes := protected.Group("/first-aid/boxes")
	boxes.Post("/", boxHandler.Create)
	boxes.Get("/", boxHandler.List)
	boxes.Get("/:id", boxHandler.Detail)
	boxes.Post("/:id/items", boxHandler.AddItem)
	boxes.Delete("/:id/items/:itemID", boxHandler.RemoveItem)

	// Catálogo de fármacos (protegido)
	drugs := protected.Group("/drugs")
	drugHandler := NewDrugHandler(deps.CatalogUC)
	drugs.Post("/", drugHandler.Create)
	drugs.Get("/available", drugHandler.ListAvailable)

	// Log de movimientos (protegido, solo lectura)
	txHandler := NewTransactionHandler(deps.LedgerUC)
	protected.Get("/inventory/transactions", txHandler.List)
}
