package repository

import (
	"context"
	"errors"

	"modcanvas/internal/domain"
)

// ErrSnapshotNotFound is returned when no snapshot has the requested name
var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotRepository defines the interface for canvas snapshot persistence
type SnapshotRepository interface {
	// Read operations
	GetSnapshot(ctx context.Context, name string) (*domain.Snapshot, error)
	ListSnapshots(ctx context.Context) ([]domain.SnapshotInfo, error)

	// Write operations. SaveSnapshot upserts by name and sets snap's
	// timestamps to the stored ones.
	SaveSnapshot(ctx context.Context, snap *domain.Snapshot) error
	DeleteSnapshot(ctx context.Context, name string) error

	// Close releases resources
	Close() error
}
