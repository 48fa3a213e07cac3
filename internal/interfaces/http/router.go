package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/lotes-api/internal/application/auth"
	appinventory "github.com/jhoicas/lotes-api/internal/application/inventory"
	"github.com/jhoicas/lotes-api/internal/application/reporting"
	"github.com/jhoicas/lotes-api/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	LotUC        *appinventory.LotUseCase
	AllocateUC   *appinventory.AllocateUseCase
	ImportUC     *appinventory.ImportUseCase
	ReportUC     *reporting.ExpirationUseCase
	AuthUC       *auth.AuthUseCase
	Labels       appinventory.LabelPDFGenerator
	MovementRepo repository.MovementRepository
	AllocRepo    repository.AllocationRepository
	ProductRepo  repository.ProductRepository
	LocationRepo repository.LocationRepository
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token; la etiqueta de origen se
	// captura para los campos de procedencia de los asientos).
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), OriginMiddleware())

	// Maestros (protegido, solo lectura)
	masterHandler := NewMasterHandler(deps.ProductRepo, deps.LocationRepo)
	protected.Get("/products", masterHandler.ListProducts)
	protected.Get("/locations", masterHandler.ListLocations)

	// Lotes (protegido)
	lots := protected.Group("/lots")
	lotHandler := NewLotHandler(deps.LotUC, deps.Labels, deps.ProductRepo, deps.LocationRepo)
	lots.Post("/", lotHandler.Create)
	lots.Get("/", lotHandler.List)
	lots.Get("/:id", lotHandler.GetByID)
	lots.Delete("/:id", RequireRole(auth.RoleAdmin), lotHandler.Cancel)
	lots.Get("/:id/label", lotHandler.Label)

	// Asignaciones (protegido)
	allocations := protected.Group("/allocations")
	allocationHandler := NewAllocationHandler(deps.AllocateUC, deps.AllocRepo)
	allocations.Post("/", allocationHandler.Allocate)
	allocations.Get("/", allocationHandler.List)
	allocations.Delete("/:id", allocationHandler.Release)

	// Libro de movimientos (protegido, solo lectura)
	movements := protected.Group("/movements")
	movementHandler := NewMovementHandler(deps.MovementRepo)
	movements.Get("/", movementHandler.List)

	// Conciliación masiva (protegido)
	reconciliation := protected.Group("/reconciliation")
	reconciliationHandler := NewReconciliationHandler(deps.ImportUC)
	reconciliation.Post("/import", reconciliationHandler.Import)
	reconciliation.Post("/upload", reconciliationHandler.Upload)

	// Reportes (protegido, solo lectura)
	reports := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportUC)
	reports.Get("/near-expiration", reportHandler.NearExpiration)
	reports.Get("/shift-window", reportHandler.ShiftWindow)
}
