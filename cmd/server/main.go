package main

import (
	"log"
	"time"

	"ap-invoice-backend/internal/config"
	"ap-invoice-backend/internal/models"
	"ap-invoice-backend/internal/routes"
	"ap-invoice-backend/internal/services/extraction"
	"ap-invoice-backend/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on system env")
	}

	cfg := config.Load()
	db := config.InitDB(cfg)

	db.AutoMigrate(
		&models.Vendor{},
		&models.PurchaseOrder{},
		&models.Invoice{},
	)

	store, err := storage.NewStore(cfg.UploadDir)
	if err != nil {
		log.Fatal("Failed to init upload dir: ", err)
	}

	extractor := extraction.NewService(extraction.Config{
		Pdftotext:     cfg.PdftotextBin,
		Tesseract:     cfg.TesseractBin,
		TesseractLang: cfg.TesseractLang,
	})

	r := gin.Default()
	// CORS config
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, db, store, extractor)

	r.Run(":" + cfg.Port)
}
