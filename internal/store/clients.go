package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelofallars/hyperinvoice/internal/invoice"
	"gorm.io/gorm"
)

func (s *Store) ListClients(ctx context.Context) ([]invoice.Client, error) {
	var rows []Client
	if err := s.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}

	clients := make([]invoice.Client, 0, len(rows))
	for _, row := range rows {
		clients = append(clients, invoice.Client{Name: row.Name, Address: row.Address})
	}
	return clients, nil
}

func (s *Store) AddClient(ctx context.Context, name, address string) error {
	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&Client{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return fmt.Errorf("checking client %q: %w", name, err)
	}
	if count > 0 {
		return fmt.Errorf("%w: %s", ErrClientExists, name)
	}

	if err := db.Create(&Client{Name: name, Address: address}).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %s", ErrClientExists, name)
		}
		return fmt.Errorf("adding client %q: %w", name, err)
	}
	return nil
}

func (s *Store) ClientAddress(ctx context.Context, name string) (string, error) {
	var c Client
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return c.Address, nil
}
