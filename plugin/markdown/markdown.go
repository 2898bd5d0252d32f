// Package markdown renders model answers, which are usually markdown, to HTML.
package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Service renders markdown source.
type Service interface {
	// RenderHTML renders source to an HTML fragment. Raw HTML in the source is omitted.
	RenderHTML(source []byte) (string, error)
}

type config struct {
	extensions []goldmark.Extender
	hardWraps  bool
}

// Option configures the service.
type Option func(*config)

// WithGFM enables GitHub flavored markdown: tables, strikethrough, autolinks and task lists.
func WithGFM() Option {
	return func(c *config) {
		c.extensions = append(c.extensions, extension.GFM)
	}
}

// WithHardWraps renders single newlines as <br>.
func WithHardWraps() Option {
	return func(c *config) {
		c.hardWraps = true
	}
}

type service struct {
	md goldmark.Markdown
}

// NewService creates a markdown service. The goldmark instance is built once
// and shared; it is safe for concurrent use.
func NewService(opts ...Option) Service {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	rendererOpts := []goldmark.Option{
		goldmark.WithExtensions(cfg.extensions...),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	}
	if cfg.hardWraps {
		rendererOpts = append(rendererOpts, goldmark.WithRendererOptions(html.WithHardWraps()))
	}
	return &service{md: goldmark.New(rendererOpts...)}
}

func (s *service) RenderHTML(source []byte) (string, error) {
	var buf bytes.Buffer
	if err := s.md.Convert(source, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
