package codec

import (
	"fmt"
	"io"

	"modcanvas/internal/domain"

	"gopkg.in/yaml.v3"
)

// YAMLCodec handles YAML import/export
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// yamlDocument represents the YAML structure for canvas data
type yamlDocument struct {
	Version int        `yaml:"version"`
	NextID  int        `yaml:"next_id,omitempty"`
	Nodes   []yamlNode `yaml:"nodes"`
	Edges   []yamlEdge `yaml:"edges,omitempty"`
}

type yamlNode struct {
	ID          int     `yaml:"id"`
	Template    string  `yaml:"template"`
	Label       string  `yaml:"label"`
	Color       string  `yaml:"color"`
	Radius      float64 `yaml:"radius"`
	X           float64 `yaml:"x"`
	Y           float64 `yaml:"y"`
	Root        bool    `yaml:"root,omitempty"`
	Connections []int   `yaml:"connections,flow,omitempty"`
}

type yamlEdge struct {
	From int `yaml:"from"`
	To   int `yaml:"to"`
}

// Parse imports a canvas document from YAML
func (c *YAMLCodec) Parse(r io.Reader) (*domain.Document, error) {
	var yd yamlDocument
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&yd); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	doc := domain.NewDocument()
	if yd.Version != 0 {
		doc.Version = yd.Version
	}
	doc.NextID = yd.NextID

	for _, yn := range yd.Nodes {
		node := domain.Node{
			ID:          yn.ID,
			Position:    domain.NewPoint(yn.X, yn.Y),
			Radius:      yn.Radius,
			Label:       yn.Label,
			Color:       yn.Color,
			Template:    yn.Template,
			IsRoot:      yn.Root,
			Connections: yn.Connections,
		}
		if node.Connections == nil {
			node.Connections = make([]int, 0)
		}
		doc.AddNode(node)
	}

	for _, ye := range yd.Edges {
		doc.AddEdge(domain.NewConnection(ye.From, ye.To))
	}

	return doc, nil
}

// Export exports a canvas document to YAML
func (c *YAMLCodec) Export(doc *domain.Document, w io.Writer) error {
	yd := yamlDocument{
		Version: doc.Version,
		NextID:  doc.NextID,
		Nodes:   make([]yamlNode, 0, len(doc.Nodes)),
		Edges:   make([]yamlEdge, 0, len(doc.Edges)),
	}

	for _, node := range doc.Nodes {
		yd.Nodes = append(yd.Nodes, yamlNode{
			ID:          node.ID,
			Template:    node.Template,
			Label:       node.Label,
			Color:       node.Color,
			Radius:      node.Radius,
			X:           node.Position.X,
			Y:           node.Position.Y,
			Root:        node.IsRoot,
			Connections: node.Connections,
		})
	}

	for _, edge := range doc.Edges {
		yd.Edges = append(yd.Edges, yamlEdge{From: edge.From, To: edge.To})
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(&yd); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}

// ForFormat returns the importer/exporter pair for a format name
func ForFormat(format string) (Importer, Exporter, error) {
	switch format {
	case "json":
		c := NewJSONCodec()
		return c, c, nil
	case "yaml", "yml":
		c := NewYAMLCodec()
		return c, c, nil
	default:
		return nil, nil, fmt.Errorf("unsupported format %q", format)
	}
}
