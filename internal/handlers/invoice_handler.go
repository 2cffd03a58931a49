package handler

import (
	"context"
	"errors"
	"log"
	"net/http"

	"ap-invoice-backend/internal/models"
	"ap-invoice-backend/internal/services/extraction"
	service "ap-invoice-backend/internal/services/invoices"
	"ap-invoice-backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TextAcquirer is the slice of the extraction service the handler needs;
// tests substitute a stub.
type TextAcquirer interface {
	Acquire(ctx context.Context, path string, kind extraction.SourceKind) (string, error)
}

type InvoiceHandler struct {
	service  *service.Service
	acquirer TextAcquirer
	store    *storage.Store
}

func NewInvoiceHandler(s *service.Service, acquirer TextAcquirer, store *storage.Store) *InvoiceHandler {
	return &InvoiceHandler{service: s, acquirer: acquirer, store: store}
}

// Upload receives an invoice document, runs the extraction pipeline, and
// persists the assembled record. Extraction failure is not an upload failure:
// the record is created from defaults and the response still reports success.
func (h *InvoiceHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	defer file.Close()

	key, err := h.store.Save(file, header)
	if err != nil {
		log.Println("failed to store upload:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store file"})
		return
	}

	kind := extraction.SourceKind(c.PostForm("kind"))
	if kind != extraction.SourcePDF && kind != extraction.SourceImage {
		kind = extraction.KindForFilename(header.Filename)
	}

	var partial extraction.PartialRecord
	text, err := h.acquirer.Acquire(c.Request.Context(), h.store.Path(key), kind)
	if err != nil {
		if !errors.Is(err, extraction.ErrUnreadable) {
			log.Println("unexpected extraction error:", err)
		}
		log.Printf("extraction failed for %s, proceeding with defaults: %v", header.Filename, err)
	} else {
		partial = extraction.ExtractFields(text)
	}

	invoice, vendor, err := h.service.Ingest(partial, header.Filename, key)
	if err != nil {
		log.Println("failed to persist invoice:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"invoice": gin.H{
			"id":             invoice.ID,
			"vendor_name":    vendor.Name,
			"invoice_number": invoice.InvoiceNumber,
			"total_amount":   invoice.TotalAmount,
			"status":         invoice.Status,
			"filename":       invoice.Filename,
		},
	})
}

// List returns invoice summaries for the listing view.
func (h *InvoiceHandler) List(c *gin.Context) {
	invoices, err := h.service.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	data := make([]gin.H, 0, len(invoices))
	for _, inv := range invoices {
		data = append(data, invoiceSummary(inv))
	}
	c.JSON(http.StatusOK, data)
}

func invoiceSummary(inv models.Invoice) gin.H {
	var vendorName any
	if inv.Vendor != nil {
		vendorName = inv.Vendor.Name
	}
	var po any
	if inv.PO != nil {
		po = gin.H{"po_number": inv.PO.PONumber}
	}
	return gin.H{
		"id":             inv.ID,
		"filename":       inv.Filename,
		"vendor_name":    vendorName,
		"invoice_number": inv.InvoiceNumber,
		"total_amount":   inv.TotalAmount,
		"status":         inv.Status,
		"po":             po,
	}
}

// Action applies a workflow action submitted from the listing view. Invalid
// ids are a silent no-op; the client is redirected back either way.
func (h *InvoiceHandler) Action(c *gin.Context) {
	invoiceID, err := uuid.Parse(c.PostForm("invoice_id"))
	if err != nil {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	action := c.PostForm("action")
	note := c.PostForm("note")
	if err := h.service.ApplyAction(invoiceID, action, note); err != nil {
		log.Println("invoice action failed:", err)
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// Delete removes an invoice and its stored document.
func (h *InvoiceHandler) Delete(c *gin.Context) {
	invoiceID, err := uuid.Parse(c.PostForm("invoice_id"))
	if err != nil {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	if err := h.service.Delete(invoiceID); err != nil {
		log.Println("invoice delete failed:", err)
	}
	c.Redirect(http.StatusSeeOther, "/")
}
