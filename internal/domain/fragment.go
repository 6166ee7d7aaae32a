package domain

import (
	"errors"
	"fmt"
	"time"
)

// DocumentVersion is the current serialisation format version
const DocumentVersion = 1

// ErrInvalidDocument is returned when a document breaks a canvas invariant
var ErrInvalidDocument = errors.New("invalid canvas document")

// Document is the serialisable canvas state for snapshots, import and export
type Document struct {
	Version int          `json:"version"`
	NextID  int          `json:"next_id"`
	Nodes   []Node       `json:"nodes"`
	Edges   []Connection `json:"edges"`
}

// NewDocument creates an empty document
func NewDocument() *Document {
	return &Document{
		Version: DocumentVersion,
		Nodes:   make([]Node, 0),
		Edges:   make([]Connection, 0),
	}
}

// AddNode adds a node to the document
func (d *Document) AddNode(node Node) {
	d.Nodes = append(d.Nodes, node)
}

// AddEdge adds an edge to the document
func (d *Document) AddEdge(edge Connection) {
	d.Edges = append(d.Edges, edge)
}

// Validate checks the canvas invariants: exactly one root, unique positive
// ids, edges between existing nodes and connections that mirror the edge log
func (d *Document) Validate() error {
	if len(d.Nodes) == 0 {
		return fmt.Errorf("%w: no nodes", ErrInvalidDocument)
	}

	ids := make(map[int]*Node, len(d.Nodes))
	roots := 0
	maxID := 0
	for i := range d.Nodes {
		n := &d.Nodes[i]
		if n.ID <= 0 {
			return fmt.Errorf("%w: node id %d must be positive", ErrInvalidDocument, n.ID)
		}
		if _, dup := ids[n.ID]; dup {
			return fmt.Errorf("%w: duplicate node id %d", ErrInvalidDocument, n.ID)
		}
		if n.Radius <= 0 {
			return fmt.Errorf("%w: node %d has non-positive radius", ErrInvalidDocument, n.ID)
		}
		ids[n.ID] = n
		if n.IsRoot {
			roots++
		}
		if n.ID > maxID {
			maxID = n.ID
		}
	}
	if roots != 1 {
		return fmt.Errorf("%w: expected exactly one root node, got %d", ErrInvalidDocument, roots)
	}
	if d.NextID != 0 && d.NextID <= maxID {
		return fmt.Errorf("%w: next_id %d would reuse an existing id", ErrInvalidDocument, d.NextID)
	}

	// Each edge contributes one entry on each endpoint
	want := make(map[[2]int]int)
	for _, e := range d.Edges {
		if _, ok := ids[e.From]; !ok {
			return fmt.Errorf("%w: edge references unknown node %d", ErrInvalidDocument, e.From)
		}
		if _, ok := ids[e.To]; !ok {
			return fmt.Errorf("%w: edge references unknown node %d", ErrInvalidDocument, e.To)
		}
		if e.From == e.To {
			return fmt.Errorf("%w: self edge on node %d", ErrInvalidDocument, e.From)
		}
		want[[2]int{e.From, e.To}]++
		want[[2]int{e.To, e.From}]++
	}

	got := make(map[[2]int]int)
	for _, n := range d.Nodes {
		for _, peer := range n.Connections {
			got[[2]int{n.ID, peer}]++
		}
	}
	if len(got) != len(want) {
		return fmt.Errorf("%w: connections do not match edge list", ErrInvalidDocument)
	}
	for k, c := range want {
		if got[k] != c {
			return fmt.Errorf("%w: node %d lists %d %d time(s), edges say %d",
				ErrInvalidDocument, k[0], k[1], got[k], c)
		}
	}

	return nil
}

// SnapshotInfo summarises a stored snapshot
type SnapshotInfo struct {
	Name      string    `json:"name"`
	NodeCount int       `json:"node_count"`
	EdgeCount int       `json:"edge_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot is a named, stored document
type Snapshot struct {
	SnapshotInfo
	Document *Document `json:"document"`
}

// NewSnapshot wraps a document under a name
func NewSnapshot(name string, doc *Document) *Snapshot {
	now := time.Now()
	return &Snapshot{
		SnapshotInfo: SnapshotInfo{
			Name:      name,
			NodeCount: len(doc.Nodes),
			EdgeCount: len(doc.Edges),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Document: doc,
	}
}
