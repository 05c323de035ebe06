package repository

import (
	"context"

	"rackops-backend/internal/layout"
	"rackops-backend/internal/model"
)

// InventoryRepository owns the servers/racks/aisles schema. EnsureLayout
// is idempotent: the fixed room is created exactly once and reused on
// every later start.
type InventoryRepository interface {
	EnsureLayout(ctx context.Context, name string, l *layout.Layout) error
	ListServers(ctx context.Context) ([]model.Server, error)
	FindServerByID(ctx context.Context, serverID int64) (*model.Server, error)
	FindServerByHostname(ctx context.Context, hostname string) (*model.Server, error)
	// CreateServer assigns the first free slot when slot is nil and
	// returns the created server. Either rackID or rackLabel selects the
	// rack.
	CreateServer(ctx context.Context, rackID int64, rackLabel, hostname, serial string, slot *int) (*model.Server, error)
	DeleteServerByHostname(ctx context.Context, hostname string) (*model.Server, error)
}
