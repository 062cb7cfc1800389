package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/PuntoVenta-api/internal/application/auth"
	"github.com/jhoicas/PuntoVenta-api/internal/application/reports"
	"github.com/jhoicas/PuntoVenta-api/internal/application/sales"
	"github.com/jhoicas/PuntoVenta-api/internal/application/stock"
	"github.com/jhoicas/PuntoVenta-api/internal/application/till"
	"github.com/jhoicas/PuntoVenta-api/internal/application/usecase"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.UseCase
	ProductUC  *usecase.ProductUseCase
	CategoryUC *usecase.CategoryUseCase
	CustomerUC *usecase.CustomerUseCase
	SupplierUC *usecase.SupplierUseCase
	StockUC    *stock.Ledger
	TillUC     *till.Ledger
	SalesUC    *sales.Workflow
	ReportsUC  *reports.UseCase
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

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/auth/me", authHandler.Me)

	// Roles: gerente hereda las rutas de gestión; vendedor opera caja y ventas.
	manage := RequireRole(entity.RoleAdmin, entity.RoleGerente)
	operate := RequireRole(entity.RoleAdmin, entity.RoleGerente, entity.RoleVendedor)

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	stockHandler := NewStockHandler(deps.StockUC)
	products.Post("/", manage, productHandler.Create)
	products.Get("/", operate, productHandler.List)
	products.Get("/:id", operate, productHandler.GetByID)
	products.Put("/:id", manage, productHandler.Update)
	products.Delete("/:id", manage, productHandler.Deactivate)
	products.Post("/:id/stock", manage, stockHandler.Adjust)

	// Stock (protegido)
	stockGroup := protected.Group("/stock")
	stockGroup.Get("/movements", manage, stockHandler.ListMovements)
	stockGroup.Get("/low", operate, stockHandler.LowStock)

	// Categories (protegido)
	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Post("/", manage, categoryHandler.Create)
	categories.Get("/", operate, categoryHandler.List)
	categories.Put("/:id", manage, categoryHandler.Update)

	// Customers (protegido)
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", operate, customerHandler.Create)
	customers.Get("/", operate, customerHandler.List)
	customers.Get("/:id", operate, customerHandler.GetByID)
	customers.Put("/:id", operate, customerHandler.Update)
	customers.Delete("/:id", manage, customerHandler.Deactivate)

	// Suppliers (protegido)
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Post("/", manage, supplierHandler.Create)
	suppliers.Get("/", operate, supplierHandler.List)
	suppliers.Get("/:id", operate, supplierHandler.GetByID)
	suppliers.Put("/:id", manage, supplierHandler.Update)
	suppliers.Delete("/:id", manage, supplierHandler.Deactivate)

	// Till (protegido)
	tillGroup := protected.Group("/till")
	tillHandler := NewTillHandler(deps.TillUC)
	tillGroup.Post("/open", operate, tillHandler.Open)
	tillGroup.Post("/close", operate, tillHandler.Close)
	tillGroup.Get("/status", operate, tillHandler.Status)
	tillGroup.Post("/movements", operate, tillHandler.Movement)
	tillGroup.Get("/sessions", manage, tillHandler.History)
	tillGroup.Get("/sessions/:id", manage, tillHandler.SessionDetail)

	// Sales (protegido)
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SalesUC)
	salesGroup.Post("/", operate, saleHandler.Process)
	salesGroup.Get("/", operate, saleHandler.List)
	salesGroup.Get("/:id", operate, saleHandler.GetByID)
	salesGroup.Post("/:id/cancel", manage, saleHandler.Cancel)

	// Reports y dashboard (protegido)
	reportsGroup := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportsUC)
	reportsGroup.Get("/sales", manage, reportHandler.SalesReport)
	reportsGroup.Get("/sales/pdf", manage, reportHandler.SalesReportPDF)
	reportsGroup.Get("/top-products", manage, reportHandler.TopProducts)
	reportsGroup.Get("/top-customers", manage, reportHandler.TopCustomers)
	protected.Get("/dashboard", operate, reportHandler.Dashboard)
}
