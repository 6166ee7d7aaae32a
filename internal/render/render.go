// Package render draws a static PNG preview of the canvas view-model.
package render

import (
	"fmt"
	"io"

	"github.com/gogpu/gg"

	"modcanvas/internal/domain"
)

// Palette colours shared with the browser canvas
const (
	EdgeColor        = "#94a3b8"
	ConnectableColor = "#22c55e"
	BackgroundColor  = "#ffffff"
)

// Options sizes the output image
type Options struct {
	Width      int
	Height     int
	Background string
}

// DefaultOptions matches the canvas area of the editor
func DefaultOptions() Options {
	return Options{Width: 800, Height: 400, Background: BackgroundColor}
}

// PNG draws canvas and encodes it to w
func PNG(w io.Writer, canvas *domain.Canvas, opts Options) error {
	if canvas == nil {
		return fmt.Errorf("render: nil canvas")
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return fmt.Errorf("render: invalid size %dx%d", opts.Width, opts.Height)
	}

	dc := gg.NewContext(opts.Width, opts.Height)
	defer dc.Close()

	if opts.Background != "" {
		dc.ClearWithColor(gg.Hex(opts.Background))
	} else {
		dc.ClearWithColor(gg.White)
	}

	if err := drawEdges(dc, canvas); err != nil {
		return err
	}
	if err := drawNodes(dc, canvas); err != nil {
		return err
	}

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("render: encode png: %w", err)
	}
	return nil
}

// drawEdges strokes every edge log entry centre to centre. Duplicates
// overdraw the same line.
func drawEdges(dc *gg.Context, canvas *domain.Canvas) error {
	if len(canvas.Edges) == 0 {
		return nil
	}

	dc.SetHexColor(EdgeColor)
	dc.SetLineWidth(2)
	dc.SetDash(4, 4)
	defer dc.ClearDash()

	for _, e := range canvas.Edges {
		from, ok := canvas.Node(e.From)
		if !ok {
			continue
		}
		to, ok := canvas.Node(e.To)
		if !ok {
			continue
		}
		a, b := from.Center(), to.Center()
		dc.DrawLine(a.X, a.Y, b.X, b.Y)
		if err := dc.Stroke(); err != nil {
			return fmt.Errorf("render: edge %d-%d: %w", e.From, e.To, err)
		}
	}
	return nil
}

func drawNodes(dc *gg.Context, canvas *domain.Canvas) error {
	for _, n := range canvas.Nodes {
		c := n.Center()

		dc.SetHexColor(n.Color)
		dc.DrawCircle(c.X, c.Y, n.Radius)
		if err := dc.Fill(); err != nil {
			return fmt.Errorf("render: node %d: %w", n.ID, err)
		}

		if n.IsConnectable {
			dc.SetHexColor(ConnectableColor)
			dc.SetLineWidth(3)
			dc.DrawCircle(c.X, c.Y, n.Radius)
			if err := dc.Stroke(); err != nil {
				return fmt.Errorf("render: node %d outline: %w", n.ID, err)
			}
		}
	}
	return nil
}
