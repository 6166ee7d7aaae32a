package domain

import (
	"errors"
	"math"
	"testing"
)

func linearTemplate() Template {
	return Template{Key: "LINEAR", Label: "Linear Layer", Color: "#48bb78", Radius: 45}
}

func TestPointDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b Point
		want float64
	}{
		{"same point", NewPoint(3, 4), NewPoint(3, 4), 0},
		{"3-4-5", NewPoint(0, 0), NewPoint(3, 4), 5},
		{"symmetric", NewPoint(3, 4), NewPoint(0, 0), 5},
		{"negative coords", NewPoint(-1, -1), NewPoint(2, 3), 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Distance(tt.b); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Distance() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPointArithmetic(t *testing.T) {
	p := NewPoint(10, 20)
	q := NewPoint(3, 5)

	if got := p.Add(q); got != NewPoint(13, 25) {
		t.Errorf("Add() = %+v", got)
	}
	if got := p.Sub(q); got != NewPoint(7, 15) {
		t.Errorf("Sub() = %+v", got)
	}
}

func TestNodeGeometry(t *testing.T) {
	n := NewNode(2, linearTemplate(), NewPoint(300, 200))

	if got := n.Center(); got != NewPoint(345, 245) {
		t.Errorf("Center() = %+v, want (345,245)", got)
	}
	if got := n.CenterAt(NewPoint(110, 210)); got != NewPoint(155, 255) {
		t.Errorf("CenterAt() = %+v, want (155,255)", got)
	}

	b := n.Bounds()
	if b.Min != NewPoint(300, 200) || b.Max != NewPoint(390, 290) {
		t.Errorf("Bounds() = %+v", b)
	}
	if !n.Contains(NewPoint(390, 290)) {
		t.Error("Contains() should include the far corner")
	}
	if n.Contains(NewPoint(299, 250)) {
		t.Error("Contains() should exclude points left of the box")
	}
}

func TestNewNode(t *testing.T) {
	n := NewNode(7, linearTemplate(), NewPoint(1, 2))

	if n.ID != 7 || n.Label != "Linear Layer" || n.Radius != 45 || n.Template != "LINEAR" {
		t.Errorf("NewNode() = %+v", n)
	}
	if n.IsRoot || n.IsConnectable {
		t.Error("new nodes start non-root and not connectable")
	}
	if n.Connections == nil || len(n.Connections) != 0 {
		t.Errorf("Connections = %v, want empty non-nil", n.Connections)
	}
}

func TestNodeClone(t *testing.T) {
	n := NewNode(2, linearTemplate(), NewPoint(0, 0))
	n.Connections = append(n.Connections, 1)

	c := n.Clone()
	c.Connections[0] = 99
	c.Position = NewPoint(5, 5)

	if n.Connections[0] != 1 {
		t.Error("Clone() shares the connections slice")
	}
	if n.Position != NewPoint(0, 0) {
		t.Error("Clone() shares position")
	}
	if !n.ConnectedTo(1) || n.ConnectedTo(99) {
		t.Error("ConnectedTo() mismatch")
	}
}

func TestConnection(t *testing.T) {
	c := NewConnection(2, 1)

	if !c.Involves(1) || !c.Involves(2) || c.Involves(3) {
		t.Error("Involves() mismatch")
	}
	if c.OtherEnd(2) != 1 || c.OtherEnd(1) != 2 {
		t.Error("OtherEnd() mismatch")
	}
	if c.Key() != NewConnection(1, 2).Key() {
		t.Error("Key() should not depend on direction")
	}
}

func TestDeriveCanvas(t *testing.T) {
	root := NewNode(1, Template{Key: RootTemplateKey, Label: "Input", Color: "#4299e1", Radius: 50}, NewPoint(100, 200))
	root.IsRoot = true
	child := NewNode(2, linearTemplate(), NewPoint(110, 210))
	child.IsConnectable = true

	edges := []Connection{NewConnection(2, 1), NewConnection(2, 1)}
	c := DeriveCanvas([]*Node{root, child}, edges, 100)

	if len(c.Nodes) != 2 || c.Nodes[0].ID != 1 || c.Nodes[1].ID != 2 {
		t.Fatalf("Nodes out of insertion order: %+v", c.Nodes)
	}
	if c.Nodes[0].Draggable || !c.Nodes[1].Draggable {
		t.Error("only non-root nodes are draggable")
	}
	if !c.Nodes[1].IsConnectable {
		t.Error("connectable flag lost")
	}
	if len(c.Edges) != 2 {
		t.Errorf("duplicate edges should be kept, got %d", len(c.Edges))
	}

	v, ok := c.Node(2)
	if !ok || v.Center() != NewPoint(155, 255) {
		t.Errorf("Node(2) = %+v, %v", v, ok)
	}
	if _, ok := c.Node(3); ok {
		t.Error("Node(3) should not exist")
	}

	// The view does not alias the edge log
	edges[0] = NewConnection(9, 9)
	if c.Edges[0].From != 2 {
		t.Error("DeriveCanvas() aliases the edge slice")
	}
}

func validDocument() *Document {
	doc := NewDocument()
	doc.NextID = 3
	doc.AddNode(Node{ID: 1, Radius: 50, IsRoot: true, Template: RootTemplateKey, Connections: []int{2}})
	doc.AddNode(Node{ID: 2, Radius: 45, Template: "LINEAR", Connections: []int{1}})
	doc.AddEdge(NewConnection(2, 1))
	return doc
}

func TestDocumentValidate(t *testing.T) {
	if err := validDocument().Validate(); err != nil {
		t.Fatalf("valid document rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(d *Document)
	}{
		{"no nodes", func(d *Document) { d.Nodes = nil; d.Edges = nil }},
		{"no root", func(d *Document) { d.Nodes[0].IsRoot = false }},
		{"two roots", func(d *Document) { d.Nodes[1].IsRoot = true }},
		{"duplicate id", func(d *Document) { d.Nodes[1].ID = 1 }},
		{"zero id", func(d *Document) { d.Nodes[1].ID = 0 }},
		{"zero radius", func(d *Document) { d.Nodes[1].Radius = 0 }},
		{"next id reuses", func(d *Document) { d.NextID = 2 }},
		{"edge to unknown node", func(d *Document) { d.Edges[0].To = 5 }},
		{"self edge", func(d *Document) { d.Edges[0] = NewConnection(2, 2) }},
		{"one-sided connection", func(d *Document) { d.Nodes[0].Connections = nil }},
		{"connection without edge", func(d *Document) { d.Edges = nil }},
		{"missing duplicate", func(d *Document) { d.AddEdge(NewConnection(1, 2)) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := validDocument()
			tt.mutate(doc)
			err := doc.Validate()
			if !errors.Is(err, ErrInvalidDocument) {
				t.Errorf("Validate() = %v, want ErrInvalidDocument", err)
			}
		})
	}
}

func TestDocumentValidateDuplicateEdges(t *testing.T) {
	doc := validDocument()
	doc.AddEdge(NewConnection(1, 2))
	doc.Nodes[0].Connections = []int{2, 2}
	doc.Nodes[1].Connections = []int{1, 1}

	if err := doc.Validate(); err != nil {
		t.Errorf("repeated edges mirrored on both nodes should validate: %v", err)
	}
}

func TestNewSnapshot(t *testing.T) {
	snap := NewSnapshot("draft", validDocument())

	if snap.Name != "draft" || snap.NodeCount != 2 || snap.EdgeCount != 1 {
		t.Errorf("NewSnapshot() = %+v", snap.SnapshotInfo)
	}
	if snap.CreatedAt.IsZero() || !snap.CreatedAt.Equal(snap.UpdatedAt) {
		t.Error("timestamps should be set and equal")
	}
}
