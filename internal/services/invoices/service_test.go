package invoices

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"ap-invoice-backend/internal/models"
	"ap-invoice-backend/internal/repository"
	"ap-invoice-backend/internal/services/extraction"
	"ap-invoice-backend/internal/storage"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db      *gorm.DB
	vendors *repository.VendorRepository
	pos     *repository.PurchaseOrderRepository
	store   *storage.Store
	svc     *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Vendor{}, &models.PurchaseOrder{}, &models.Invoice{}))

	store, err := storage.NewStore(t.TempDir())
	require.NoError(t, err)

	vendors := repository.NewVendorRepository(db)
	pos := repository.NewPurchaseOrderRepository(db)
	invoices := repository.NewInvoiceRepository(db)

	return &fixture{
		db:      db,
		vendors: vendors,
		pos:     pos,
		store:   store,
		svc:     NewService(vendors, pos, invoices, store),
	}
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestIngestAllDefaults(t *testing.T) {
	f := newFixture(t)

	invoice, vendor, err := f.svc.Ingest(extraction.PartialRecord{}, "blank.pdf", "key_blank.pdf")
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^INV-\d{6}$`), invoice.InvoiceNumber)
	assert.Equal(t, "Unknown Vendor", vendor.Name)
	assert.Equal(t, 0.0, invoice.TotalAmount)
	assert.Equal(t, models.StatusPending, invoice.Status)
	assert.Equal(t, "blank.pdf", invoice.Filename)
	require.NotNil(t, invoice.VendorID)
	assert.Equal(t, vendor.ID, *invoice.VendorID)
}

func TestIngestExtractedFields(t *testing.T) {
	f := newFixture(t)

	partial := extraction.PartialRecord{
		InvoiceNumber: strPtr("ABC123"),
		VendorName:    strPtr("Acme Corp"),
		TotalAmount:   floatPtr(1234.56),
		Status:        strPtr("approved"),
		RawText:       "Invoice # ABC123...",
	}
	invoice, vendor, err := f.svc.Ingest(partial, "acme.pdf", "key_acme.pdf")
	require.NoError(t, err)

	assert.Equal(t, "ABC123", invoice.InvoiceNumber)
	assert.Equal(t, "Acme Corp", vendor.Name)
	assert.Equal(t, 1234.56, invoice.TotalAmount)
	assert.Equal(t, "approved", invoice.Status)
}

func TestIngestReusesVendor(t *testing.T) {
	f := newFixture(t)

	partial := extraction.PartialRecord{VendorName: strPtr("Acme Corp")}
	_, first, err := f.svc.Ingest(partial, "a.pdf", "key_a.pdf")
	require.NoError(t, err)
	_, second, err := f.svc.Ingest(partial, "b.pdf", "key_b.pdf")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)

	vendors, err := f.vendors.GetAll()
	require.NoError(t, err)
	assert.Len(t, vendors, 1)
}

func TestIngestTouchlessMatch(t *testing.T) {
	f := newFixture(t)

	vendor, err := f.vendors.GetOrCreateByName("Acme Corp")
	require.NoError(t, err)
	po := &models.PurchaseOrder{PONumber: "PO-7", VendorID: vendor.ID, Amount: 500.00}
	require.NoError(t, f.pos.Create(po))

	partial := extraction.PartialRecord{
		VendorName:  strPtr("Acme Corp"),
		TotalAmount: floatPtr(500.00),
	}
	invoice, _, err := f.svc.Ingest(partial, "matched.pdf", "key_matched.pdf")
	require.NoError(t, err)

	assert.Equal(t, models.StatusTouchless, invoice.Status)
	require.NotNil(t, invoice.POID)
	assert.Equal(t, po.ID, *invoice.POID)

	updated, err := f.pos.GetByID(po.ID)
	require.NoError(t, err)
	assert.Equal(t, models.POStatusMatched, updated.Status)
}

func TestIngestNoTouchlessMatchForOtherVendor(t *testing.T) {
	f := newFixture(t)

	other, err := f.vendors.GetOrCreateByName("Globex")
	require.NoError(t, err)
	require.NoError(t, f.pos.Create(&models.PurchaseOrder{PONumber: "PO-8", VendorID: other.ID, Amount: 500.00}))

	partial := extraction.PartialRecord{
		VendorName:  strPtr("Acme Corp"),
		TotalAmount: floatPtr(500.00),
	}
	invoice, _, err := f.svc.Ingest(partial, "x.pdf", "key_x.pdf")
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, invoice.Status)
	assert.Nil(t, invoice.POID)
}

func TestApproveAndReject(t *testing.T) {
	f := newFixture(t)

	invoice, _, err := f.svc.Ingest(extraction.PartialRecord{}, "a.pdf", "key_a.pdf")
	require.NoError(t, err)

	require.NoError(t, f.svc.ApplyAction(invoice.ID, "approve", ""))
	var got models.Invoice
	require.NoError(t, f.db.First(&got, "id = ?", invoice.ID).Error)
	assert.Equal(t, models.StatusApproved, got.Status)

	require.NoError(t, f.svc.ApplyAction(invoice.ID, "reject", ""))
	require.NoError(t, f.db.First(&got, "id = ?", invoice.ID).Error)
	assert.Equal(t, models.StatusRejected, got.Status)
}

func TestForceMatchSetsPOAndApproves(t *testing.T) {
	f := newFixture(t)

	vendor, err := f.vendors.GetOrCreateByName("Acme Corp")
	require.NoError(t, err)
	po := &models.PurchaseOrder{PONumber: "PO-9", VendorID: vendor.ID, Amount: 900.00}
	require.NoError(t, f.pos.Create(po))

	invoice, _, err := f.svc.Ingest(extraction.PartialRecord{VendorName: strPtr("Acme Corp")}, "a.pdf", "key_a.pdf")
	require.NoError(t, err)

	require.NoError(t, f.svc.ApplyAction(invoice.ID, "force_match", po.ID.String()))

	var got models.Invoice
	require.NoError(t, f.db.First(&got, "id = ?", invoice.ID).Error)
	assert.Equal(t, models.StatusApproved, got.Status)
	require.NotNil(t, got.POID)
	assert.Equal(t, po.ID, *got.POID)
}

func TestForceMatchUnknownPOIsNoOp(t *testing.T) {
	f := newFixture(t)

	invoice, _, err := f.svc.Ingest(extraction.PartialRecord{}, "a.pdf", "key_a.pdf")
	require.NoError(t, err)

	require.NoError(t, f.svc.ApplyAction(invoice.ID, "force_match", uuid.New().String()))

	var got models.Invoice
	require.NoError(t, f.db.First(&got, "id = ?", invoice.ID).Error)
	assert.Equal(t, models.StatusPending, got.Status)
	assert.Nil(t, got.POID)
}

func TestForceMatchMalformedPOIsNoOp(t *testing.T) {
	f := newFixture(t)

	invoice, _, err := f.svc.Ingest(extraction.PartialRecord{}, "a.pdf", "key_a.pdf")
	require.NoError(t, err)

	require.NoError(t, f.svc.ApplyAction(invoice.ID, "force_match", "not-a-uuid"))

	var got models.Invoice
	require.NoError(t, f.db.First(&got, "id = ?", invoice.ID).Error)
	assert.Equal(t, models.StatusPending, got.Status)
	assert.Nil(t, got.POID)
}

func TestActionOnUnknownInvoiceIsNoOp(t *testing.T) {
	f := newFixture(t)
	assert.NoError(t, f.svc.ApplyAction(uuid.New(), "approve", ""))
}

func TestDeleteRemovesRecordAndFile(t *testing.T) {
	f := newFixture(t)

	key := "key_del.pdf"
	require.NoError(t, os.WriteFile(f.store.Path(key), []byte("doc"), 0o644))

	invoice, _, err := f.svc.Ingest(extraction.PartialRecord{}, "del.pdf", key)
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(invoice.ID))

	_, err = os.Stat(f.store.Path(key))
	assert.True(t, os.IsNotExist(err))
	err = f.db.First(&models.Invoice{}, "id = ?", invoice.ID).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDeleteToleratesMissingFile(t *testing.T) {
	f := newFixture(t)

	invoice, _, err := f.svc.Ingest(extraction.PartialRecord{}, "gone.pdf", "key_gone.pdf")
	require.NoError(t, err)

	// Backing file was never written; the record delete must still succeed.
	require.NoError(t, f.svc.Delete(invoice.ID))

	err = f.db.First(&models.Invoice{}, "id = ?", invoice.ID).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListRoundTrip(t *testing.T) {
	f := newFixture(t)

	vendor, err := f.vendors.GetOrCreateByName("Acme Corp")
	require.NoError(t, err)
	po := &models.PurchaseOrder{PONumber: "PO-55", VendorID: vendor.ID, Amount: 750.00}
	require.NoError(t, f.pos.Create(po))

	partial := extraction.PartialRecord{
		InvoiceNumber: strPtr("RT-1"),
		VendorName:    strPtr("Acme Corp"),
		TotalAmount:   floatPtr(750.00),
	}
	created, _, err := f.svc.Ingest(partial, "rt.pdf", "key_rt.pdf")
	require.NoError(t, err)

	listed, err := f.svc.List()
	require.NoError(t, err)
	require.Len(t, listed, 1)

	got := listed[0]
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "rt.pdf", got.Filename)
	assert.Equal(t, "RT-1", got.InvoiceNumber)
	assert.Equal(t, 750.00, got.TotalAmount)
	assert.Equal(t, models.StatusTouchless, got.Status)
	require.NotNil(t, got.Vendor)
	assert.Equal(t, "Acme Corp", got.Vendor.Name)
	require.NotNil(t, got.PO)
	assert.Equal(t, "PO-55", got.PO.PONumber)
}
