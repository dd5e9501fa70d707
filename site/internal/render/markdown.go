package render

import (
	"bytes"
	"html/template"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	mdOnce   sync.Once
	mdEngine goldmark.Markdown
)

// markdown returns the shared goldmark instance. Editors store either HTML or
// Markdown in rich-text fields, so raw HTML is passed through.
func markdown() goldmark.Markdown {
	mdOnce.Do(func() {
		mdEngine = goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		)
	})
	return mdEngine
}

// RichText converts CMS rich text to trusted HTML. Content is editor-owned.
func RichText(source string) (template.HTML, error) {
	if strings.TrimSpace(source) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := markdown().Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
