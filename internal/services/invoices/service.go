// Package invoices assembles extracted invoice records, resolves vendors,
// auto-matches open purchase orders, and applies workflow actions.
package invoices

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"ap-invoice-backend/internal/models"
	"ap-invoice-backend/internal/repository"
	"ap-invoice-backend/internal/services/extraction"
	"ap-invoice-backend/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const unknownVendor = "Unknown Vendor"

type Service struct {
	vendorRepo  *repository.VendorRepository
	poRepo      *repository.PurchaseOrderRepository
	invoiceRepo *repository.InvoiceRepository
	store       *storage.Store
	db          *gorm.DB
}

func NewService(
	vendorRepo *repository.VendorRepository,
	poRepo *repository.PurchaseOrderRepository,
	invoiceRepo *repository.InvoiceRepository,
	store *storage.Store,
) *Service {
	return &Service{
		vendorRepo:  vendorRepo,
		poRepo:      poRepo,
		invoiceRepo: invoiceRepo,
		store:       store,
		db:          invoiceRepo.DB(),
	}
}

// Ingest merges the partial record with defaults, resolves the vendor, tries
// an automatic purchase-order match, and persists the invoice. Every absent
// field falls back to a default; Ingest never fails because extraction did.
func (s *Service) Ingest(partial extraction.PartialRecord, filename, storageKey string) (*models.Invoice, *models.Vendor, error) {
	invoiceNumber := "INV-" + time.Now().Format("150405")
	vendorName := unknownVendor
	totalAmount := 0.0
	status := models.StatusPending

	if partial.InvoiceNumber != nil {
		invoiceNumber = *partial.InvoiceNumber
	}
	if partial.VendorName != nil {
		vendorName = *partial.VendorName
	}
	if partial.TotalAmount != nil {
		totalAmount = *partial.TotalAmount
	}
	if partial.Status != nil {
		status = *partial.Status
	}

	vendor, err := s.vendorRepo.GetOrCreateByName(vendorName)
	if err != nil {
		return nil, nil, err
	}

	meta, _ := json.Marshal(map[string]any{
		"extracted_fields": partial.ExtractedFields(),
	})

	invoice := &models.Invoice{
		ID:             uuid.New(),
		Filename:       filename,
		StorageKey:     storageKey,
		VendorID:       &vendor.ID,
		InvoiceNumber:  invoiceNumber,
		TotalAmount:    totalAmount,
		Status:         status,
		ExtractionMeta: meta,
		CreatedAt:      time.Now(),
	}

	// Touchless match: an open PO of the same vendor with exactly the
	// extracted amount approves the invoice without manual action.
	var matched *models.PurchaseOrder
	if partial.TotalAmount != nil && totalAmount > 0 && status == models.StatusPending {
		po, err := s.poRepo.FindOpenByVendorAndAmount(vendor.ID, totalAmount)
		if err == nil {
			matched = po
			invoice.POID = &po.ID
			invoice.Status = models.StatusTouchless
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, err
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(invoice).Error; err != nil {
			return err
		}
		if matched != nil {
			return tx.Model(&models.PurchaseOrder{}).
				Where("id = ?", matched.ID).
				Update("status", models.POStatusMatched).Error
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return invoice, vendor, nil
}

// ApplyAction runs a workflow action against an invoice. A missing invoice,
// a malformed PO note, or an unknown PO id all leave state unchanged and
// report success; the caller sees the normal response either way.
func (s *Service) ApplyAction(invoiceID uuid.UUID, action, note string) error {
	invoice, err := s.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Println("action on unknown invoice, ignoring:", invoiceID)
			return nil
		}
		return err
	}

	switch action {
	case "approve":
		invoice.Status = models.StatusApproved
		return s.db.Save(invoice).Error

	case "reject":
		invoice.Status = models.StatusRejected
		return s.db.Save(invoice).Error

	case "force_match":
		poID, err := uuid.Parse(note)
		if err != nil {
			log.Println("force_match with malformed po id, ignoring:", note)
			return nil
		}
		po, err := s.poRepo.GetByID(poID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				log.Println("force_match on unknown po, ignoring:", poID)
				return nil
			}
			return err
		}
		if invoice.VendorID != nil && po.VendorID != *invoice.VendorID {
			log.Printf("force_match across vendors: invoice %s, po %s", invoice.ID, po.ID)
		}
		return s.db.Transaction(func(tx *gorm.DB) error {
			invoice.POID = &po.ID
			invoice.Status = models.StatusApproved
			if err := tx.Save(invoice).Error; err != nil {
				return err
			}
			return tx.Model(&models.PurchaseOrder{}).
				Where("id = ?", po.ID).
				Update("status", models.POStatusMatched).Error
		})

	default:
		log.Println("unknown action, ignoring:", action)
		return nil
	}
}

// Delete removes the invoice record and its backing file. A file that was
// already removed externally does not block the record delete.
func (s *Service) Delete(invoiceID uuid.UUID) error {
	invoice, err := s.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Println("delete on unknown invoice, ignoring:", invoiceID)
			return nil
		}
		return err
	}

	if invoice.StorageKey != "" {
		if err := s.store.Remove(invoice.StorageKey); err != nil {
			log.Println("failed to remove invoice file, deleting record anyway:", err)
		}
	}
	return s.invoiceRepo.Delete(invoice)
}

// List returns all invoices with relations preloaded.
func (s *Service) List() ([]models.Invoice, error) {
	return s.invoiceRepo.GetAllWithRelations()
}
