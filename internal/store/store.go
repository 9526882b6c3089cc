// Package store persists clients, the invoice counter and saved invoices.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	ErrClientExists  = errors.New("client already exists")
	ErrInvoiceExists = errors.New("invoice number already exists")
	ErrNotFound      = errors.New("record not found")
)

type Store struct {
	db           *gorm.DB
	invoiceStart int64
}

type Option func(*Store)

// WithInvoiceStart sets the first invoice number handed out on an empty database.
func WithInvoiceStart(n int64) Option {
	return func(s *Store) { s.invoiceStart = n }
}

// Open connects using postgres for postgres:// DSNs and sqlite otherwise,
// then migrates the schema.
func Open(dsn string, verbose bool, opts ...Option) (*Store, error) {
	cfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	}
	if verbose {
		cfg.Logger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(dialector(dsn), cfg)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return New(db, opts...)
}

// New wraps an existing connection and migrates the schema.
func New(db *gorm.DB, opts ...Option) (*Store, error) {
	s := &Store{db: db, invoiceStart: 1}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.db.AutoMigrate(&Client{}, &Counter{}, &SavedInvoice{}); err != nil {
		return nil, fmt.Errorf("migrating schema: %w", err)
	}
	return s, nil
}

func dialector(dsn string) gorm.Dialector {
	lower := strings.ToLower(strings.TrimSpace(dsn))
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return postgres.Open(dsn)
	}
	return sqlite.Open(dsn)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
