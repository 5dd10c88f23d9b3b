// Package render converts note Markdown bodies to HTML.
package render

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer wraps a configured goldmark engine. It is stateless and
// safe to share across calls.
type Renderer struct {
	engine goldmark.Markdown
}

// New returns a renderer with GFM extensions (tables, strikethrough,
// fenced code blocks) and raw HTML passthrough, matching what the
// original note format expects.
func New() *Renderer {
	return &Renderer{
		engine: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
	}
}

// Render converts Markdown to HTML. Callers must reject empty input
// before calling; Render itself treats any input as renderable.
func (r *Renderer) Render(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := r.engine.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render: %w", err)
	}
	return buf.String(), nil
}
