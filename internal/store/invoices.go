package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const counterID = 1

// NextInvoiceNumber returns the number the next saved invoice should carry.
func (s *Store) NextInvoiceNumber(ctx context.Context) (int64, error) {
	return nextNumber(s.db.WithContext(ctx), s.invoiceStart)
}

func nextNumber(db *gorm.DB, start int64) (int64, error) {
	var c Counter
	err := db.First(&c, counterID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return start, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading invoice counter: %w", err)
	}
	return c.Next, nil
}

// ArchiveFunc writes the invoice document and returns its location.
type ArchiveFunc func(ctx context.Context) (string, error)

// SaveInvoice stores the invoice, archives its document and advances the
// counter in one transaction. An invoice number that is already taken fails
// with ErrInvoiceExists before archive runs. A nil archive leaves
// inv.Location as given.
func (s *Store) SaveInvoice(ctx context.Context, inv *SavedInvoice, archive ArchiveFunc) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taken int64
		if err := tx.Model(&SavedInvoice{}).Where("invoice_no = ?", inv.InvoiceNo).Count(&taken).Error; err != nil {
			return fmt.Errorf("checking invoice %s: %w", inv.InvoiceNo, err)
		}
		if taken > 0 {
			return fmt.Errorf("%w: %s", ErrInvoiceExists, inv.InvoiceNo)
		}

		// The row is inserted before the document is written, so a concurrent
		// save of the same number fails on the unique index instead of
		// overwriting the file.
		if err := tx.Create(inv).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: %s", ErrInvoiceExists, inv.InvoiceNo)
			}
			return fmt.Errorf("storing invoice %s: %w", inv.InvoiceNo, err)
		}

		if archive != nil {
			location, err := archive(ctx)
			if err != nil {
				return fmt.Errorf("archiving invoice %s: %w", inv.InvoiceNo, err)
			}
			inv.Location = location
			if err := tx.Model(inv).Update("location", location).Error; err != nil {
				return fmt.Errorf("storing location of invoice %s: %w", inv.InvoiceNo, err)
			}
		}

		next, err := nextNumber(tx, s.invoiceStart)
		if err != nil {
			return err
		}
		if err := tx.Save(&Counter{ID: counterID, Next: next + 1}).Error; err != nil {
			return fmt.Errorf("advancing invoice counter: %w", err)
		}
		return nil
	})
}

func (s *Store) FindInvoice(ctx context.Context, id uuid.UUID) (*SavedInvoice, error) {
	var inv SavedInvoice
	err := s.db.WithContext(ctx).First(&inv, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}
