package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Invoice statuses. An invoice is "touchless" when it was matched to an open
// purchase order during ingestion with no manual action; manual approve and
// force-match produce "approved".
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusTouchless = "touchless"
)

type Invoice struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Filename      string     `json:"filename"`
	StorageKey    string     `gorm:"index" json:"-"`
	VendorID      *uuid.UUID `gorm:"type:uuid;index" json:"vendor_id,omitempty"`
	InvoiceNumber string     `json:"invoice_number"`
	TotalAmount   float64    `json:"total_amount"`
	Status        string     `gorm:"index" json:"status"`
	POID          *uuid.UUID `gorm:"type:uuid;index" json:"po_id,omitempty"`
	// ExtractionMeta records which fields came from the document and which
	// were defaulted, so a fallback is inspectable after the fact.
	ExtractionMeta datatypes.JSON `json:"-"`
	CreatedAt      time.Time      `json:"created_at"`

	Vendor *Vendor        `gorm:"foreignKey:VendorID" json:"-"`
	PO     *PurchaseOrder `gorm:"foreignKey:POID" json:"-"`
}
