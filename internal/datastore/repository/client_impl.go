package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/seodeck/seodeck/internal/datastore/entities"
	"gorm.io/gorm"
)

// clientRepository implements ClientRepository.
type clientRepository struct {
	db *gorm.DB
}

// NewClientRepository creates a new ClientRepository.
func NewClientRepository(db *gorm.DB) ClientRepository {
	return &clientRepository{db: db}
}

// ListActive returns all active clients.
func (r *clientRepository) ListActive(ctx context.Context) ([]entities.Client, error) {
	var clients []entities.Client
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("id ASC").Find(&clients).Error; err != nil {
		return nil, fmt.Errorf("failed to list active clients: %w", err)
	}
	return clients, nil
}

// GetClient returns a single client by ID.
// Returns ErrClientNotFound if the client does not exist.
func (r *clientRepository) GetClient(ctx context.Context, id uint) (*entities.Client, error) {
	var client entities.Client
	if err := r.db.WithContext(ctx).First(&client, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to get client %d: %w", id, err)
	}
	return &client, nil
}

// CreateClient creates a new client.
func (r *clientRepository) CreateClient(ctx context.Context, client *entities.Client) error {
	if err := r.db.WithContext(ctx).Create(client).Error; err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

// LatestScans returns the most recent scan per client in one query.
func (r *clientRepository) LatestScans(ctx context.Context) ([]entities.SiteScan, error) {
	var scans []entities.SiteScan
	subQuery := r.db.Model(&entities.SiteScan{}).Select("MAX(id)").Group("client_id")
	if err := r.db.WithContext(ctx).Where("id IN (?)", subQuery).Find(&scans).Error; err != nil {
		return nil, fmt.Errorf("failed to load latest site scans: %w", err)
	}
	return scans, nil
}

// CreateScan records a new site scan result.
func (r *clientRepository) CreateScan(ctx context.Context, scan *entities.SiteScan) error {
	if err := r.db.WithContext(ctx).Create(scan).Error; err != nil {
		return fmt.Errorf("failed to create site scan: %w", err)
	}
	return nil
}
