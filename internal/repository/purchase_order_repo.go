package repository

import (
	"time"

	"ap-invoice-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PurchaseOrderRepository struct {
	db *gorm.DB
}

func NewPurchaseOrderRepository(db *gorm.DB) *PurchaseOrderRepository {
	return &PurchaseOrderRepository{db: db}
}

func (r *PurchaseOrderRepository) Create(po *models.PurchaseOrder) error {
	if po.ID == uuid.Nil {
		po.ID = uuid.New()
	}
	if po.Status == "" {
		po.Status = models.POStatusOpen
	}
	if po.CreatedAt.IsZero() {
		po.CreatedAt = time.Now()
	}
	return r.db.Create(po).Error
}

func (r *PurchaseOrderRepository) GetByID(id uuid.UUID) (*models.PurchaseOrder, error) {
	var po models.PurchaseOrder
	err := r.db.First(&po, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &po, nil
}

// FindOpenByVendorAndAmount returns the oldest open purchase order for the
// vendor with exactly the given amount, or gorm.ErrRecordNotFound.
func (r *PurchaseOrderRepository) FindOpenByVendorAndAmount(vendorID uuid.UUID, amount float64) (*models.PurchaseOrder, error) {
	var po models.PurchaseOrder
	err := r.db.
		Where("vendor_id = ?", vendorID).
		Where("amount = ?", amount).
		Where("status = ?", models.POStatusOpen).
		Order("created_at").
		First(&po).Error
	if err != nil {
		return nil, err
	}
	return &po, nil
}

func (r *PurchaseOrderRepository) GetAll() ([]models.PurchaseOrder, error) {
	var pos []models.PurchaseOrder
	err := r.db.Order("created_at").Find(&pos).Error
	return pos, err
}
