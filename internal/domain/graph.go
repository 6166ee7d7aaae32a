package domain

// Canvas is the derived view-model pushed to the rendering surface
type Canvas struct {
	Nodes     []NodeView   `json:"nodes"`
	Edges     []Connection `json:"edges"`
	Threshold float64      `json:"threshold"`
}

// NodeView represents a node as the rendering surface draws it
type NodeView struct {
	ID            int     `json:"id"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	Radius        float64 `json:"radius"`
	Color         string  `json:"color"`
	Label         string  `json:"label"`
	IsConnectable bool    `json:"is_connectable"`
	IsRoot        bool    `json:"is_root"`
	Draggable     bool    `json:"draggable"`
}

// DeriveCanvas converts stored nodes and the edge log into a view-model
func DeriveCanvas(nodes []*Node, edges []Connection, threshold float64) *Canvas {
	canvas := &Canvas{
		Nodes:     make([]NodeView, 0, len(nodes)),
		Edges:     make([]Connection, 0, len(edges)),
		Threshold: threshold,
	}

	for _, n := range nodes {
		canvas.Nodes = append(canvas.Nodes, NodeView{
			ID:            n.ID,
			X:             n.Position.X,
			Y:             n.Position.Y,
			Radius:        n.Radius,
			Color:         n.Color,
			Label:         n.Label,
			IsConnectable: n.IsConnectable,
			IsRoot:        n.IsRoot,
			Draggable:     !n.IsRoot,
		})
	}
	canvas.Edges = append(canvas.Edges, edges...)

	return canvas
}

// Node returns the view of the node with the given id
func (c *Canvas) Node(id int) (NodeView, bool) {
	for _, n := range c.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return NodeView{}, false
}

// Center returns the centre of the node view
func (v NodeView) Center() Point {
	return Point{X: v.X + v.Radius, Y: v.Y + v.Radius}
}
