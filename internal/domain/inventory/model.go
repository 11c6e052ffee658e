package inventory

import (
	"time"

	"github.com/google/uuid"
)

// Drug maps to the drug table. StoredQuantity is the only field the workflow
// mutates after creation; it never goes below zero and only decreases through
// Deduct.
type Drug struct {
	ID             uuid.UUID  `db:"drug_id" json:"drug_id"`
	Name           string     `db:"drug_name" json:"drug_name"`
	Code           string     `db:"drug_code" json:"drug_code"`
	Specification  *string    `db:"specification" json:"specification,omitempty"`
	Manufacturer   *string    `db:"manufacturer" json:"manufacturer,omitempty"`
	UnitPrice      float64    `db:"unit_price" json:"unit_price"`
	StoredQuantity int        `db:"stored_quantity" json:"stored_quantity"`
	ExpiryDate     *time.Time `db:"expiry_date" json:"expiry_date,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

// StockSeverity bands a low-stock row for pharmacy restocking alerts.
type StockSeverity string

const (
	SeverityOutOfStock StockSeverity = "out_of_stock"
	SeverityCritical   StockSeverity = "critical"
	SeverityLow        StockSeverity = "low"
)

// CriticalStockLevel is the quantity below which a drug is flagged critical.
const CriticalStockLevel = 5

// SeverityFor bands a stock quantity. The caller guarantees qty < threshold.
func SeverityFor(qty int) StockSeverity {
	switch {
	case qty == 0:
		return SeverityOutOfStock
	case qty < CriticalStockLevel:
		return SeverityCritical
	default:
		return SeverityLow
	}
}

// LowStockDrug is a drug annotated with its severity band.
type LowStockDrug struct {
	Drug
	Severity StockSeverity `json:"severity"`
}
