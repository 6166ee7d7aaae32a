// Package catalog loads the table of module templates nodes are created from.
//
// The default table is embedded as TOML. An override file may be given in
// TOML or YAML; the format is picked from its extension.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"modcanvas/internal/domain"
)

//go:embed templates.toml
var defaultTemplates []byte

// ErrUnknownTemplate is returned when a key is not in the catalog
var ErrUnknownTemplate = errors.New("unknown template")

// Catalog is an ordered, immutable set of templates
type Catalog struct {
	templates map[string]domain.Template
	order     []string
	source    string
}

// file is the on-disk shape shared by the TOML and YAML formats
type file struct {
	Templates []domain.Template `toml:"template" yaml:"templates"`
}

// Default returns the embedded catalog
func Default() *Catalog {
	c, err := Parse(bytes.NewReader(defaultTemplates), "toml")
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded templates invalid: %v", err))
	}
	c.source = "embedded"
	return c
}

// LoadFile reads a catalog from path
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	c, err := Parse(f, formatFor(path))
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	c.source = path
	return c, nil
}

func formatFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "toml"
	}
}

// Parse decodes a catalog in the given format ("toml" or "yaml")
func Parse(r io.Reader, format string) (*Catalog, error) {
	var f file
	switch format {
	case "toml":
		if _, err := toml.NewDecoder(r).Decode(&f); err != nil {
			return nil, fmt.Errorf("parse TOML: %w", err)
		}
	case "yaml":
		if err := yaml.NewDecoder(r).Decode(&f); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", format)
	}

	return New(f.Templates)
}

// New builds a catalog from templates, keeping their order
func New(templates []domain.Template) (*Catalog, error) {
	if len(templates) == 0 {
		return nil, fmt.Errorf("catalog has no templates")
	}

	c := &Catalog{
		templates: make(map[string]domain.Template, len(templates)),
		order:     make([]string, 0, len(templates)),
	}
	for _, t := range templates {
		if err := validate(t); err != nil {
			return nil, err
		}
		if _, dup := c.templates[t.Key]; dup {
			return nil, fmt.Errorf("duplicate template key %q", t.Key)
		}
		c.templates[t.Key] = t
		c.order = append(c.order, t.Key)
	}
	return c, nil
}

func validate(t domain.Template) error {
	if t.Key == "" {
		return fmt.Errorf("template key required")
	}
	if t.Key == domain.RootTemplateKey {
		return fmt.Errorf("template key %q is reserved for the root node", t.Key)
	}
	if t.Label == "" {
		return fmt.Errorf("template %s: label required", t.Key)
	}
	if t.Radius <= 0 {
		return fmt.Errorf("template %s: radius must be positive", t.Key)
	}
	return nil
}

// Lookup returns the template for key
func (c *Catalog) Lookup(key string) (domain.Template, bool) {
	t, ok := c.templates[key]
	return t, ok
}

// Get returns the template for key or ErrUnknownTemplate
func (c *Catalog) Get(key string) (domain.Template, error) {
	t, ok := c.templates[key]
	if !ok {
		return domain.Template{}, fmt.Errorf("%w: %q", ErrUnknownTemplate, key)
	}
	return t, nil
}

// List returns templates in declaration order
func (c *Catalog) List() []domain.Template {
	out := make([]domain.Template, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, c.templates[k])
	}
	return out
}

// Keys returns template keys in declaration order
func (c *Catalog) Keys() []string {
	return append([]string(nil), c.order...)
}

// Len returns the number of templates
func (c *Catalog) Len() int {
	return len(c.order)
}

// Source names where the catalog was loaded from
func (c *Catalog) Source() string {
	return c.source
}
