package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modcanvas/internal/domain"
)

func TestDefault(t *testing.T) {
	c := Default()

	assert.Equal(t, "embedded", c.Source())
	assert.Equal(t, []string{"LINEAR", "CONV", "ACTIVATION", "ATTENTION"}, c.Keys())

	tests := []struct {
		key    string
		label  string
		color  string
		radius float64
	}{
		{"LINEAR", "Linear Layer", "#48bb78", 45},
		{"CONV", "Conv2D", "#4299e1", 50},
		{"ACTIVATION", "ReLU", "#ed64a6", 40},
		{"ATTENTION", "Attention", "#9f7aea", 55},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			tmpl, ok := c.Lookup(tt.key)
			require.True(t, ok)
			assert.Equal(t, tt.label, tmpl.Label)
			assert.Equal(t, tt.color, tmpl.Color)
			assert.Equal(t, tt.radius, tmpl.Radius)
			assert.NotEmpty(t, tmpl.Description)
		})
	}
}

func TestGetUnknown(t *testing.T) {
	_, err := Default().Get("POOL")
	assert.True(t, errors.Is(err, ErrUnknownTemplate))
}

func TestListIsACopy(t *testing.T) {
	c := Default()
	list := c.List()
	list[0].Label = "changed"
	keys := c.Keys()
	keys[0] = "changed"

	tmpl, _ := c.Lookup("LINEAR")
	assert.Equal(t, "Linear Layer", tmpl.Label)
	assert.Equal(t, "LINEAR", c.Keys()[0])
}

func TestNewValidation(t *testing.T) {
	valid := domain.Template{Key: "POOL", Label: "MaxPool", Color: "#f6ad55", Radius: 35}

	tests := []struct {
		name      string
		templates []domain.Template
	}{
		{"empty", nil},
		{"missing key", []domain.Template{{Label: "x", Radius: 1}}},
		{"reserved key", []domain.Template{{Key: domain.RootTemplateKey, Label: "x", Radius: 1}}},
		{"missing label", []domain.Template{{Key: "X", Radius: 1}}},
		{"zero radius", []domain.Template{{Key: "X", Label: "x"}}},
		{"duplicate", []domain.Template{valid, valid}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.templates)
			assert.Error(t, err)
		})
	}

	c, err := New([]domain.Template{valid})
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())
}

func TestParseYAML(t *testing.T) {
	input := `
templates:
  - key: POOL
    label: MaxPool
    color: "#f6ad55"
    radius: 35
  - key: NORM
    label: LayerNorm
    color: "#38b2ac"
    radius: 40
    description: Normalisation layer
`
	c, err := Parse(strings.NewReader(input), "yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{"POOL", "NORM"}, c.Keys())
}

func TestParseUnsupportedFormat(t *testing.T) {
	_, err := Parse(strings.NewReader(""), "xml")
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	tomlPath := filepath.Join(dir, "templates.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte(`
[[template]]
key = "POOL"
label = "MaxPool"
color = "#f6ad55"
radius = 35
`), 0644))

	c, err := LoadFile(tomlPath)
	require.NoError(t, err)
	assert.Equal(t, tomlPath, c.Source())
	assert.Equal(t, []string{"POOL"}, c.Keys())

	ymlPath := filepath.Join(dir, "templates.yml")
	require.NoError(t, os.WriteFile(ymlPath, []byte("templates:\n  - key: NORM\n    label: LayerNorm\n    radius: 40\n"), 0644))
	c, err = LoadFile(ymlPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"NORM"}, c.Keys())

	_, err = LoadFile(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}
