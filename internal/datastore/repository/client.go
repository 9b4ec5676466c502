package repository

import (
	"context"
	"errors"

	"github.com/seodeck/seodeck/internal/datastore/entities"
)

// ErrClientNotFound is returned when a client does not exist.
var ErrClientNotFound = errors.New("client not found")

// ClientRepository exposes the client and scan reads the snapshot sources
// need. The automation engine never writes through this repository.
type ClientRepository interface {
	ListActive(ctx context.Context) ([]entities.Client, error)
	GetClient(ctx context.Context, id uint) (*entities.Client, error)
	CreateClient(ctx context.Context, client *entities.Client) error

	// LatestScans returns the most recent SiteScan per client.
	LatestScans(ctx context.Context) ([]entities.SiteScan, error)
	CreateScan(ctx context.Context, scan *entities.SiteScan) error
}
