package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"modcanvas/internal/domain"
	"modcanvas/internal/repository"

	_ "modernc.org/sqlite"
)

// Repository implements repository.SnapshotRepository using SQLite
type Repository struct {
	db *sql.DB
}

var _ repository.SnapshotRepository = (*Repository)(nil)

// New creates a new SQLite repository
func New(dbPath string) (*Repository, error) {
	dsn := dbPath
	if dbPath != ":memory:" {
		dsn = "file:" + dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Every connection to :memory: is its own database
		db.SetMaxOpenConns(1)
	}

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		name TEXT PRIMARY KEY,
		node_count INTEGER NOT NULL DEFAULT 0,
		edge_count INTEGER NOT NULL DEFAULT 0,
		data TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_updated ON snapshots(updated_at);
	`

	_, err := r.db.Exec(schema)
	return err
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}

// SaveSnapshot inserts or replaces a snapshot, keeping the original created_at.
// snap's timestamps are updated to the stored values.
func (r *Repository) SaveSnapshot(ctx context.Context, snap *domain.Snapshot) error {
	if snap.Name == "" {
		return fmt.Errorf("snapshot name required")
	}

	data, err := marshalDocument(snap.Document)
	if err != nil {
		return err
	}

	now := time.Now()
	created := snap.CreatedAt
	if created.IsZero() {
		created = now
	}

	var storedCreated, storedUpdated string
	err = r.db.QueryRowContext(ctx, `
		INSERT INTO snapshots (name, node_count, edge_count, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			node_count = excluded.node_count,
			edge_count = excluded.edge_count,
			data = excluded.data,
			updated_at = excluded.updated_at
		RETURNING created_at, updated_at
	`, snap.Name, len(snap.Document.Nodes), len(snap.Document.Edges), data,
		timeToText(created), timeToText(now)).Scan(&storedCreated, &storedUpdated)
	if err != nil {
		return fmt.Errorf("failed to save snapshot %s: %w", snap.Name, err)
	}

	snap.NodeCount = len(snap.Document.Nodes)
	snap.EdgeCount = len(snap.Document.Edges)
	snap.CreatedAt = textToTime(storedCreated)
	snap.UpdatedAt = textToTime(storedUpdated)
	return nil
}

// GetSnapshot retrieves a snapshot by name
func (r *Repository) GetSnapshot(ctx context.Context, name string) (*domain.Snapshot, error) {
	var row snapshotRow
	err := r.db.QueryRowContext(ctx, `
		SELECT name, node_count, edge_count, created_at, updated_at, data
		FROM snapshots WHERE name = ?
	`, name).Scan(row.scanArgs()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", repository.ErrSnapshotNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot %s: %w", name, err)
	}

	return row.toDomain()
}

// ListSnapshots returns snapshot summaries, most recently updated first
func (r *Repository) ListSnapshots(ctx context.Context) ([]domain.SnapshotInfo, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT name, node_count, edge_count, created_at, updated_at
		FROM snapshots
		ORDER BY updated_at DESC, name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	infos := make([]domain.SnapshotInfo, 0)
	for rows.Next() {
		var row snapshotRow
		if err := rows.Scan(row.infoScanArgs()...); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		infos = append(infos, row.toInfo())
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}

	return infos, nil
}

// DeleteSnapshot removes a snapshot by name
func (r *Repository) DeleteSnapshot(ctx context.Context, name string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM snapshots WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot %s: %w", name, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete snapshot %s: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", repository.ErrSnapshotNotFound, name)
	}

	return nil
}
