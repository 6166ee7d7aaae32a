package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"modcanvas/internal/domain"
)

// ============================================================================
// Time Conversion Helpers
// ============================================================================

// timeLayout is fixed width so TEXT ordering matches time ordering
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// timeToText formats a timestamp for a TEXT column
func timeToText(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// textToTime parses a TEXT column timestamp, zero on failure
func textToTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// ============================================================================
// JSON Marshaling Helpers
// ============================================================================

// marshalDocument serialises a document for the data column
func marshalDocument(doc *domain.Document) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("snapshot has no document")
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to marshal document: %w", err)
	}
	return string(data), nil
}

// unmarshalDocument restores a document from the data column
func unmarshalDocument(ns sql.NullString) (*domain.Document, error) {
	if !ns.Valid || ns.String == "" {
		return nil, fmt.Errorf("snapshot has empty document")
	}
	doc := domain.NewDocument()
	if err := json.Unmarshal([]byte(ns.String), doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document: %w", err)
	}
	return doc, nil
}

// ============================================================================
// Row Scanning
// ============================================================================

// snapshotRow mirrors one row of the snapshots table
type snapshotRow struct {
	name      string
	nodeCount int
	edgeCount int
	data      sql.NullString
	createdAt string
	updatedAt string
}

func (r *snapshotRow) infoScanArgs() []interface{} {
	return []interface{}{&r.name, &r.nodeCount, &r.edgeCount, &r.createdAt, &r.updatedAt}
}

func (r *snapshotRow) scanArgs() []interface{} {
	return append(r.infoScanArgs(), &r.data)
}

func (r *snapshotRow) toInfo() domain.SnapshotInfo {
	return domain.SnapshotInfo{
		Name:      r.name,
		NodeCount: r.nodeCount,
		EdgeCount: r.edgeCount,
		CreatedAt: textToTime(r.createdAt),
		UpdatedAt: textToTime(r.updatedAt),
	}
}

func (r *snapshotRow) toDomain() (*domain.Snapshot, error) {
	doc, err := unmarshalDocument(r.data)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", r.name, err)
	}
	return &domain.Snapshot{SnapshotInfo: r.toInfo(), Document: doc}, nil
}
