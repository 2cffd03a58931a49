package repository

import (
	"time"

	"ap-invoice-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VendorRepository struct {
	db *gorm.DB
}

func NewVendorRepository(db *gorm.DB) *VendorRepository {
	return &VendorRepository{db: db}
}

// Expose DB if needed
func (r *VendorRepository) DB() *gorm.DB {
	return r.db
}

func (r *VendorRepository) Create(vendor *models.Vendor) error {
	if vendor.ID == uuid.Nil {
		vendor.ID = uuid.New()
	}
	if vendor.CreatedAt.IsZero() {
		vendor.CreatedAt = time.Now()
	}
	return r.db.Create(vendor).Error
}

// GetByName fetches a vendor by exact name match.
func (r *VendorRepository) GetByName(name string) (*models.Vendor, error) {
	var vendor models.Vendor
	err := r.db.First(&vendor, "name = ?", name).Error
	if err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (r *VendorRepository) GetByID(id uuid.UUID) (*models.Vendor, error) {
	var vendor models.Vendor
	err := r.db.First(&vendor, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &vendor, nil
}

// GetOrCreateByName resolves a vendor by name, inserting a new row when none
// exists. The insert uses on-conflict-do-nothing against the unique name index
// followed by a re-read, so two concurrent calls for the same new name converge
// on a single row.
func (r *VendorRepository) GetOrCreateByName(name string) (*models.Vendor, error) {
	vendor := models.Vendor{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now(),
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&vendor).Error
	if err != nil {
		return nil, err
	}
	return r.GetByName(name)
}

func (r *VendorRepository) GetAll() ([]models.Vendor, error) {
	var vendors []models.Vendor
	err := r.db.Order("created_at").Find(&vendors).Error
	return vendors, err
}
