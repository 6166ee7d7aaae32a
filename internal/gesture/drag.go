package gesture

import (
	"fmt"

	"modcanvas/internal/domain"
)

// State is the phase of a node's drag gesture
type State int

const (
	Idle State = iota
	Dragging
	Released // transient, collapses back to Idle before the release returns
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Released:
		return "released"
	default:
		return "unknown"
	}
}

// Graph is the slice of the graph state store a drag needs
type Graph interface {
	Node(id int) (domain.Node, bool)
	UpdateNodePosition(id int, x, y float64) error
	CommitConnection(id int) (domain.Connection, bool, error)
}

// Release describes how a gesture ended
type Release struct {
	NodeID     int               `json:"node_id"`
	Pointer    PointerID         `json:"pointer_id"`
	Connected  bool              `json:"connected"`
	Connection domain.Connection `json:"connection"`
}

// Drag tracks one node's gesture
type Drag struct {
	nodeID int
	graph  Graph
	state  State
	offset domain.Point
	sub    *Subscription

	onRelease func(Release)
}

func newDrag(nodeID int, graph Graph, onRelease func(Release)) *Drag {
	return &Drag{nodeID: nodeID, graph: graph, onRelease: onRelease}
}

// NodeID returns the dragged node
func (d *Drag) NodeID() int {
	return d.nodeID
}

// State returns the current phase
func (d *Drag) State() State {
	return d.state
}

// Offset returns the pointer offset captured inside the node's bounding box
func (d *Drag) Offset() domain.Point {
	return d.offset
}

// begin captures the press offset relative to the node's top-left corner and
// subscribes to the pointer. A running gesture is replaced.
func (d *Drag) begin(surface *Surface, pointer PointerID, at, corner domain.Point) {
	if d.sub != nil {
		d.sub.Release()
	}
	d.offset = at.Sub(corner)
	d.state = Dragging
	d.sub = surface.Subscribe(pointer, d.handle)
}

func (d *Drag) handle(ev PointerEvent) error {
	if d.state != Dragging {
		return nil
	}

	switch ev.Kind {
	case PointerMove:
		pos := ev.At.Sub(d.offset)
		if err := d.graph.UpdateNodePosition(d.nodeID, pos.X, pos.Y); err != nil {
			return fmt.Errorf("drag node %d: %w", d.nodeID, err)
		}
		return nil
	case PointerUp:
		return d.end(ev.Pointer)
	default:
		return nil
	}
}

// end commits a connection when the node is connectable and returns to Idle.
// The subscription is released on every path.
func (d *Drag) end(pointer PointerID) error {
	d.state = Released
	defer func() {
		if d.sub != nil {
			d.sub.Release()
			d.sub = nil
		}
		d.state = Idle
	}()

	rel := Release{NodeID: d.nodeID, Pointer: pointer}

	node, ok := d.graph.Node(d.nodeID)
	if ok && node.IsConnectable {
		conn, connected, err := d.graph.CommitConnection(d.nodeID)
		if err != nil {
			return fmt.Errorf("release node %d: %w", d.nodeID, err)
		}
		rel.Connected = connected
		rel.Connection = conn
	}

	if d.onRelease != nil {
		d.onRelease(rel)
	}
	return nil
}
