package gesture

import (
	"errors"
	"fmt"
	"sort"

	"modcanvas/internal/domain"
)

// ErrUnknownNode is returned when a press targets a node the graph does not hold
var ErrUnknownNode = errors.New("unknown node")

// Controller owns the drag state machine of every draggable node
type Controller struct {
	graph    Graph
	surface  *Surface
	drags    map[int]*Drag
	released []Release
}

// NewController creates a controller over graph. A nil surface gets a fresh one.
func NewController(graph Graph, surface *Surface) *Controller {
	if surface == nil {
		surface = NewSurface()
	}
	return &Controller{
		graph:   graph,
		surface: surface,
		drags:   make(map[int]*Drag),
	}
}

// Surface returns the surface the controller subscribes on
func (c *Controller) Surface() *Surface {
	return c.surface
}

// PointerDown starts a drag on nodeID. Presses on the root node are ignored
// and report false.
func (c *Controller) PointerDown(pointer PointerID, nodeID int, at domain.Point) (bool, error) {
	node, ok := c.graph.Node(nodeID)
	if !ok {
		return false, fmt.Errorf("%w: %d", ErrUnknownNode, nodeID)
	}
	if node.IsRoot {
		return false, nil
	}

	d, ok := c.drags[nodeID]
	if !ok {
		d = newDrag(nodeID, c.graph, c.record)
		c.drags[nodeID] = d
	}
	d.begin(c.surface, pointer, at, node.Position)
	return true, nil
}

// PointerMove forwards a move sample and reports whether any gesture held
// the pointer
func (c *Controller) PointerMove(pointer PointerID, at domain.Point) (bool, error) {
	return c.surface.Dispatch(PointerEvent{Kind: PointerMove, Pointer: pointer, At: at})
}

// PointerUp ends every gesture on the pointer and returns how each ended
func (c *Controller) PointerUp(pointer PointerID, at domain.Point) ([]Release, error) {
	c.released = c.released[:0]
	_, err := c.surface.Dispatch(PointerEvent{Kind: PointerUp, Pointer: pointer, At: at})

	out := append(make([]Release, 0, len(c.released)), c.released...)
	c.released = c.released[:0]
	return out, err
}

func (c *Controller) record(rel Release) {
	c.released = append(c.released, rel)
}

// State returns the gesture phase of a node
func (c *Controller) State(nodeID int) State {
	if d, ok := c.drags[nodeID]; ok {
		return d.State()
	}
	return Idle
}

// Dragging returns the ids of nodes mid-gesture, ascending
func (c *Controller) Dragging() []int {
	ids := make([]int, 0, len(c.drags))
	for id, d := range c.drags {
		if d.State() == Dragging {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}

// Captured reports whether a gesture holds the pointer
func (c *Controller) Captured(pointer PointerID) bool {
	return c.surface.Captured(pointer)
}

// Reset drops all gesture state, releasing every subscription
func (c *Controller) Reset() {
	for id, d := range c.drags {
		if d.sub != nil {
			d.sub.Release()
			d.sub = nil
		}
		d.state = Idle
		delete(c.drags, id)
	}
}
