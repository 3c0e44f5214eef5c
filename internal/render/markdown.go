package render

import (
	"bytes"
	"html/template"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/gohugoio/hugo-goldmark-extensions/passthrough"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// NoHighlight disables syntax highlighting of fenced code blocks.
const NoHighlight = "none"

// MarkdownOptions tunes the converter.
type MarkdownOptions struct {
	// HighlightStyle is a chroma style name; empty or NoHighlight disables it.
	HighlightStyle string
	// Math leaves $...$, \(...\), $$...$$ and \[...\] spans untouched.
	Math bool
}

// Markdown converts CommonMark plus GitHub extensions to HTML. Raw HTML in
// the source is kept. It is safe for concurrent use.
type Markdown struct {
	md goldmark.Markdown
}

// NewMarkdown configures a converter.
func NewMarkdown(opts MarkdownOptions) *Markdown {
	exts := []goldmark.Extender{
		extension.GFM,
		extension.Typographer,
		extension.Footnote,
	}
	if style := strings.TrimSpace(opts.HighlightStyle); style != "" && style != NoHighlight {
		exts = append(exts, highlighting.NewHighlighting(
			highlighting.WithStyle(style),
			highlighting.WithFormatOptions(chromahtml.TabWidth(4)),
		))
	}
	if opts.Math {
		exts = append(exts, passthrough.New(passthrough.Config{
			InlineDelimiters: []passthrough.Delimiters{{Open: "$", Close: "$"}, {Open: "\\(", Close: "\\)"}},
			BlockDelimiters:  []passthrough.Delimiters{{Open: "$$", Close: "$$"}, {Open: "\\[", Close: "\\]"}},
		}))
	}

	return &Markdown{md: goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithAttribute(),
		),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)}
}

// Convert renders src to HTML.
func (m *Markdown) Convert(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := m.md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	// #nosec G203 -- output of the Markdown converter over site-owned sources
	return template.HTML(buf.String()), nil
}
