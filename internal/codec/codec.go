package codec

import (
	"io"

	"modcanvas/internal/domain"
)

// Importer interface for importing canvas documents from various formats
type Importer interface {
	Parse(r io.Reader) (*domain.Document, error)
	Format() string
}

// Exporter interface for exporting canvas documents to various formats
type Exporter interface {
	Export(doc *domain.Document, w io.Writer) error
	Format() string
}
