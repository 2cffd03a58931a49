package models

import (
	"time"

	"github.com/google/uuid"
)

// Purchase order statuses.
const (
	POStatusOpen    = "open"
	POStatusMatched = "matched"
)

type PurchaseOrder struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PONumber  string    `json:"po_number"`
	VendorID  uuid.UUID `gorm:"type:uuid;index" json:"vendor_id"`
	Amount    float64   `json:"amount"`
	Status    string    `gorm:"index" json:"status"`
	CreatedAt time.Time `json:"created_at"`

	Vendor *Vendor `gorm:"foreignKey:VendorID" json:"-"`
}
