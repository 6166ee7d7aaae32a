package domain

// RootTemplateKey identifies the template of the single root node
const RootTemplateKey = "INPUT"

// Template is an immutable module prototype
type Template struct {
	Key         string  `json:"key" yaml:"key" toml:"key"`
	Label       string  `json:"label" yaml:"label" toml:"label"`
	Color       string  `json:"color" yaml:"color" toml:"color"`
	Radius      float64 `json:"radius" yaml:"radius" toml:"radius"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty" toml:"description"`
}

// Node is a placed module instance on the canvas
type Node struct {
	ID       int     `json:"id"`
	Position Point   `json:"position"`
	Radius   float64 `json:"radius"`
	Label    string  `json:"label"`
	Color    string  `json:"color"`
	Template string  `json:"template"`
	IsRoot   bool    `json:"is_root"`

	// IsConnectable is set only while the node is mid-drag within
	// threshold of another node
	IsConnectable bool `json:"is_connectable"`

	// Connections lists linked node ids; a peer appears once per edge
	Connections []int `json:"connections"`
}

// NewNode creates a non-root node from a template at the given position
func NewNode(id int, tmpl Template, at Point) *Node {
	return &Node{
		ID:          id,
		Position:    at,
		Radius:      tmpl.Radius,
		Label:       tmpl.Label,
		Color:       tmpl.Color,
		Template:    tmpl.Key,
		Connections: make([]int, 0),
	}
}

// Center returns the centre of the node's bounding box
func (n *Node) Center() Point {
	return n.CenterAt(n.Position)
}

// CenterAt returns the centre the node would have with its corner at pos
func (n *Node) CenterAt(pos Point) Point {
	return pos.Add(Point{X: n.Radius, Y: n.Radius})
}

// Bounds returns the node's 2·radius square
func (n *Node) Bounds() Rect {
	return Rect{
		Min: n.Position,
		Max: n.Position.Add(Point{X: 2 * n.Radius, Y: 2 * n.Radius}),
	}
}

// Contains reports whether p falls inside the node's bounding box
func (n *Node) Contains(p Point) bool {
	return n.Bounds().Contains(p)
}

// ConnectedTo reports whether the node lists peer at least once
func (n *Node) ConnectedTo(peer int) bool {
	for _, id := range n.Connections {
		if id == peer {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the node
func (n *Node) Clone() Node {
	c := *n
	c.Connections = append(make([]int, 0, len(n.Connections)), n.Connections...)
	return c
}
