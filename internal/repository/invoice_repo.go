package repository

import (
	"time"

	"ap-invoice-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// Expose DB if needed
func (r *InvoiceRepository) DB() *gorm.DB {
	return r.db
}

func (r *InvoiceRepository) Create(invoice *models.Invoice) error {
	if invoice.ID == uuid.Nil {
		invoice.ID = uuid.New()
	}
	if invoice.CreatedAt.IsZero() {
		invoice.CreatedAt = time.Now()
	}
	return r.db.Create(invoice).Error
}

// GetByID fetch a single invoice by ID
func (r *InvoiceRepository) GetByID(id uuid.UUID) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.First(&invoice, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// GetAllWithRelations returns all invoices with vendor and PO preloaded, for
// the listing view.
func (r *InvoiceRepository) GetAllWithRelations() ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.Preload("Vendor").Preload("PO").Order("created_at").Find(&invoices).Error
	return invoices, err
}

func (r *InvoiceRepository) Delete(invoice *models.Invoice) error {
	return r.db.Delete(invoice).Error
}
