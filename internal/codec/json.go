package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"modcanvas/internal/domain"
)

// JSONCodec handles JSON import/export
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// Parse imports a canvas document from JSON
func (c *JSONCodec) Parse(r io.Reader) (*domain.Document, error) {
	var doc domain.Document
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if doc.Version == 0 {
		doc.Version = domain.DocumentVersion
	}
	for i := range doc.Nodes {
		if doc.Nodes[i].Connections == nil {
			doc.Nodes[i].Connections = make([]int, 0)
		}
	}
	if doc.Edges == nil {
		doc.Edges = make([]domain.Connection, 0)
	}

	return &doc, nil
}

// Export exports a canvas document to JSON
func (c *JSONCodec) Export(doc *domain.Document, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
