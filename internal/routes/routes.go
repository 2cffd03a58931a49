package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	handler "ap-invoice-backend/internal/handlers"
	"ap-invoice-backend/internal/repository"
	"ap-invoice-backend/internal/services/extraction"
	service "ap-invoice-backend/internal/services/invoices"
	"ap-invoice-backend/internal/storage"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, store *storage.Store, extractor *extraction.Service) {
	vendorRepo := repository.NewVendorRepository(db)
	poRepo := repository.NewPurchaseOrderRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)

	invoiceService := service.NewService(vendorRepo, poRepo, invoiceRepo, store)

	invoiceHandler := handler.NewInvoiceHandler(invoiceService, extractor, store)
	adminHandler := handler.NewAdminHandler(vendorRepo, poRepo)

	// Listing view the form endpoints redirect back to
	r.GET("/", invoiceHandler.List)

	// Upload + form endpoints
	r.POST("/upload", invoiceHandler.Upload)
	r.POST("/create_vendor", adminHandler.CreateVendor)
	r.POST("/create_po", adminHandler.CreatePO)
	r.POST("/action", invoiceHandler.Action)
	r.POST("/delete_invoice", invoiceHandler.Delete)

	// Serve stored documents for review
	r.Static("/uploads", store.Dir())

	api := r.Group("/api")

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api.GET("/invoices", invoiceHandler.List)
	api.GET("/vendors", adminHandler.ListVendors)
	api.GET("/purchase-orders", adminHandler.ListPOs)
}
