package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Client struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"not null;uniqueIndex"`
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Counter holds the next invoice number. There is a single row.
type Counter struct {
	ID   uint  `gorm:"primaryKey"`
	Next int64 `gorm:"not null"`
}

type SavedInvoice struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	InvoiceNo    string          `gorm:"not null;uniqueIndex" json:"invoice_no"`
	ClientName   string          `gorm:"not null;index" json:"client_name"`
	Date         string          `gorm:"not null" json:"date"`
	DueDate      string          `json:"due_date"`
	VATRate      string          `json:"vat_rate"`
	Budget       decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"budget"`
	VATAmount    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"vat_amount"`
	TotalAmount  decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"total_amount"`
	TotalInWords string          `json:"total_in_words"`
	Location     string          `json:"output_path"`
	Fields       datatypes.JSON  `json:"fields"`
	CreatedAt    time.Time       `json:"created_at"`
}

func (s *SavedInvoice) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
