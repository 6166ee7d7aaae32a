// Package canvas implements the graph state store behind the module canvas.
//
// The store owns the ordered node sequence and the append-only edge log. It
// reacts to three events: a module being added, a node being dragged to a
// new position, and a drag being released. Gesture tracking lives in the
// gesture package and reaches the store only through those operations.
package canvas

import (
	"errors"
	"fmt"

	"modcanvas/internal/domain"
)

var (
	// ErrNodeNotFound is returned for operations on an id the store never issued
	ErrNodeNotFound = errors.New("node not found")
	// ErrRootImmovable is returned when a caller tries to move the root node
	ErrRootImmovable = errors.New("root node cannot be moved")
)

// DefaultThreshold is the centre-to-centre distance below which two nodes connect
const DefaultThreshold = 100.0

// Settings configures a new store
type Settings struct {
	Threshold float64
	Spawn     domain.Point
	Root      domain.Template
	RootAt    domain.Point
}

// DefaultSettings returns the layout of the reference widget
func DefaultSettings() Settings {
	return Settings{
		Threshold: DefaultThreshold,
		Spawn:     domain.NewPoint(300, 200),
		Root: domain.Template{
			Key:         domain.RootTemplateKey,
			Label:       "Input",
			Color:       "#4299e1",
			Radius:      50,
			Description: "Network input",
		},
		RootAt: domain.NewPoint(100, 200),
	}
}

// Store holds the canvas graph state. It is not safe for concurrent use.
type Store struct {
	settings Settings
	nodes    []*domain.Node
	index    map[int]int
	edges    []domain.Connection
	nextID   int
}

// NewStore creates a store seeded with the root node
func NewStore(settings Settings) *Store {
	if settings.Threshold <= 0 {
		settings.Threshold = DefaultThreshold
	}

	s := &Store{settings: settings}
	s.reset()
	return s
}

func (s *Store) reset() {
	s.nodes = make([]*domain.Node, 0, 8)
	s.index = make(map[int]int)
	s.edges = make([]domain.Connection, 0)
	s.nextID = 1

	root := domain.NewNode(s.allocID(), s.settings.Root, s.settings.RootAt)
	root.IsRoot = true
	s.append(root)
}

func (s *Store) allocID() int {
	id := s.nextID
	s.nextID++
	return id
}

func (s *Store) append(n *domain.Node) {
	s.index[n.ID] = len(s.nodes)
	s.nodes = append(s.nodes, n)
}

func (s *Store) lookup(id int) (*domain.Node, error) {
	i, ok := s.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrNodeNotFound, id)
	}
	return s.nodes[i], nil
}

// Threshold returns the connection distance threshold
func (s *Store) Threshold() float64 {
	return s.settings.Threshold
}

// AddNode appends a non-root node built from tmpl at the spawn point
func (s *Store) AddNode(tmpl domain.Template) domain.Node {
	n := domain.NewNode(s.allocID(), tmpl, s.settings.Spawn)
	s.append(n)
	return n.Clone()
}

// UpdateNodePosition moves a node and recomputes its connectable flag
// against every other node's current centre. No other node is touched.
func (s *Store) UpdateNodePosition(id int, x, y float64) error {
	n, err := s.lookup(id)
	if err != nil {
		return err
	}
	if n.IsRoot {
		return ErrRootImmovable
	}

	pos := domain.NewPoint(x, y)
	_, near := s.firstWithin(n, n.CenterAt(pos))

	n.Position = pos
	n.IsConnectable = near
	return nil
}

// CommitConnection links a released node to the first node in store order
// whose centre lies within threshold. Without a match every connectable flag
// is cleared. Edges are never deduplicated.
func (s *Store) CommitConnection(id int) (domain.Connection, bool, error) {
	n, err := s.lookup(id)
	if err != nil {
		return domain.Connection{}, false, err
	}

	peer, ok := s.firstWithin(n, n.Center())
	if !ok {
		for _, other := range s.nodes {
			other.IsConnectable = false
		}
		return domain.Connection{}, false, nil
	}

	n.Connections = append(n.Connections, peer.ID)
	peer.Connections = append(peer.Connections, n.ID)
	n.IsConnectable = false

	edge := domain.NewConnection(n.ID, peer.ID)
	s.edges = append(s.edges, edge)
	return edge, true, nil
}

// firstWithin returns the first node other than n, in store order, whose
// centre is strictly closer than the threshold to center
func (s *Store) firstWithin(n *domain.Node, center domain.Point) (*domain.Node, bool) {
	for _, other := range s.nodes {
		if other.ID == n.ID {
			continue
		}
		if center.Distance(other.Center()) < s.settings.Threshold {
			return other, true
		}
	}
	return nil, false
}

// Node returns a copy of the node with the given id
func (s *Store) Node(id int) (domain.Node, bool) {
	n, err := s.lookup(id)
	if err != nil {
		return domain.Node{}, false
	}
	return n.Clone(), true
}

// Root returns a copy of the root node
func (s *Store) Root() domain.Node {
	for _, n := range s.nodes {
		if n.IsRoot {
			return n.Clone()
		}
	}
	// reset always seeds a root and Restore only accepts validated documents
	panic("canvas: store has no root node")
}

// Nodes returns copies of all nodes in insertion order
func (s *Store) Nodes() []domain.Node {
	out := make([]domain.Node, 0, len(s.nodes))
	for _, n := range s.nodes {
		out = append(out, n.Clone())
	}
	return out
}

// Edges returns the edge log in commit order
func (s *Store) Edges() []domain.Connection {
	return append(make([]domain.Connection, 0, len(s.edges)), s.edges...)
}

// NodeCount returns the number of nodes on the canvas
func (s *Store) NodeCount() int {
	return len(s.nodes)
}

// View derives the view-model for the rendering surface
func (s *Store) View() *domain.Canvas {
	return domain.DeriveCanvas(s.nodes, s.edges, s.settings.Threshold)
}

// Document exports the full store state
func (s *Store) Document() *domain.Document {
	doc := domain.NewDocument()
	doc.NextID = s.nextID
	for _, n := range s.nodes {
		doc.AddNode(n.Clone())
	}
	for _, e := range s.edges {
		doc.AddEdge(e)
	}
	return doc
}

// Restore replaces the store state with a validated document. Connectable
// flags are cleared since no gesture survives a restore.
func (s *Store) Restore(doc *domain.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	nodes := make([]*domain.Node, 0, len(doc.Nodes))
	index := make(map[int]int, len(doc.Nodes))
	maxID := 0
	for i := range doc.Nodes {
		c := doc.Nodes[i].Clone()
		c.IsConnectable = false
		index[c.ID] = len(nodes)
		nodes = append(nodes, &c)
		if c.ID > maxID {
			maxID = c.ID
		}
	}

	next := doc.NextID
	if next <= maxID {
		next = maxID + 1
	}

	s.nodes = nodes
	s.index = index
	s.edges = append(make([]domain.Connection, 0, len(doc.Edges)), doc.Edges...)
	s.nextID = next
	return nil
}

// Reset drops every node except a fresh root and clears the edge log
func (s *Store) Reset() {
	s.reset()
}
