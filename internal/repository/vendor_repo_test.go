package repository

import (
	"path/filepath"
	"testing"

	"ap-invoice-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Vendor{}, &models.PurchaseOrder{}, &models.Invoice{}))
	return db
}

func TestGetOrCreateByNameIsIdempotent(t *testing.T) {
	repo := NewVendorRepository(testDB(t))

	first, err := repo.GetOrCreateByName("Acme Corp")
	require.NoError(t, err)
	second, err := repo.GetOrCreateByName("Acme Corp")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)

	vendors, err := repo.GetAll()
	require.NoError(t, err)
	assert.Len(t, vendors, 1)
}

func TestGetOrCreateByNameCreatesDistinctVendors(t *testing.T) {
	repo := NewVendorRepository(testDB(t))

	acme, err := repo.GetOrCreateByName("Acme Corp")
	require.NoError(t, err)
	globex, err := repo.GetOrCreateByName("Globex")
	require.NoError(t, err)

	assert.NotEqual(t, acme.ID, globex.ID)
}

func TestFindOpenByVendorAndAmount(t *testing.T) {
	db := testDB(t)
	vendorRepo := NewVendorRepository(db)
	poRepo := NewPurchaseOrderRepository(db)

	vendor, err := vendorRepo.GetOrCreateByName("Acme Corp")
	require.NoError(t, err)

	po := &models.PurchaseOrder{PONumber: "PO-100", VendorID: vendor.ID, Amount: 250.00}
	require.NoError(t, poRepo.Create(po))
	assert.Equal(t, models.POStatusOpen, po.Status)

	found, err := poRepo.FindOpenByVendorAndAmount(vendor.ID, 250.00)
	require.NoError(t, err)
	assert.Equal(t, po.ID, found.ID)

	_, err = poRepo.FindOpenByVendorAndAmount(vendor.ID, 999.99)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
