package extraction

import (
	"regexp"
	"strconv"
	"strings"
)

// PartialRecord is the extractor's output before defaults are applied. Each
// field is independently present or absent; RawText is kept for audit.
type PartialRecord struct {
	InvoiceNumber *string
	VendorName    *string
	TotalAmount   *float64
	Status        *string
	RawText       string
}

// ExtractedFields names the fields that matched, for the persisted audit meta.
func (p PartialRecord) ExtractedFields() []string {
	fields := []string{}
	if p.InvoiceNumber != nil {
		fields = append(fields, "invoice_number")
	}
	if p.VendorName != nil {
		fields = append(fields, "vendor_name")
	}
	if p.TotalAmount != nil {
		fields = append(fields, "total_amount")
	}
	if p.Status != nil {
		fields = append(fields, "status")
	}
	return fields
}

var (
	reInvoiceNumber = regexp.MustCompile(`(?i)invoice\s*#?[:\s]*(\S+)`)
	reVendorName    = regexp.MustCompile(`(?i)vendor\s*[:\s]*(.+)`)
	reTotalAmount   = regexp.MustCompile(`(?i)total\s*amount\s*[:\s]*\$?\s*([\d,]+(?:\.\d+)?)`)
	// OCR output from scans often carries a bare "Total" line instead.
	reTotal  = regexp.MustCompile(`(?i)total\s*[:\s]*\$?\s*([\d,]+(?:\.\d+)?)`)
	reStatus = regexp.MustCompile(`(?i)status\s*[:\s]*(\w+)`)
)

// ExtractFields runs four independent pattern probes over the text. A probe
// that does not match leaves its field absent; a capture that fails to parse
// is dropped the same way. It never returns an error.
func ExtractFields(text string) PartialRecord {
	partial := PartialRecord{RawText: text}

	if m := reInvoiceNumber.FindStringSubmatch(text); m != nil {
		v := strings.TrimSpace(m[1])
		if v != "" {
			partial.InvoiceNumber = &v
		}
	}

	if m := reVendorName.FindStringSubmatch(text); m != nil {
		v := strings.TrimSpace(m[1])
		if v != "" {
			partial.VendorName = &v
		}
	}

	m := reTotalAmount.FindStringSubmatch(text)
	if m == nil {
		m = reTotal.FindStringSubmatch(text)
	}
	if m != nil {
		raw := strings.ReplaceAll(m[1], ",", "")
		if amount, err := strconv.ParseFloat(raw, 64); err == nil {
			partial.TotalAmount = &amount
		}
	}

	if m := reStatus.FindStringSubmatch(text); m != nil {
		v := strings.ToLower(strings.TrimSpace(m[1]))
		if v != "" {
			partial.Status = &v
		}
	}

	return partial
}
