// Package markdown renders the Markdown used in description fields.
package markdown

import (
	"bytes"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	mdOnce sync.Once
	md     goldmark.Markdown
)

func converter() goldmark.Markdown {
	mdOnce.Do(func() {
		// Raw HTML in the source is dropped: goldmark only passes it through with html.WithUnsafe.
		md = goldmark.New(
			goldmark.WithExtensions(extension.Linkify, extension.Strikethrough),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		)
	})
	return md
}

// Render converts src to HTML. Empty input renders to an empty string.
func Render(src string) (string, error) {
	if src == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := converter().Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
