package converter

import (
	"bytes"
	"html"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
)

// DeviceProfile selects the stylesheet variant embedded in each section.
type DeviceProfile string

const (
	// ProfileStandard targets readers with full CSS support.
	ProfileStandard DeviceProfile = "standard"
	// ProfileConstrained targets readers with a restricted CSS subset;
	// decorative rules are dropped, structural ones kept.
	ProfileConstrained DeviceProfile = "constrained"
)

// Renderer converts section markup to HTML fragments. It is stateless after
// construction and safe for use across concurrent conversions.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer creates a Renderer with table, blockquote, fenced-code and
// hard-line-break support plus auto-generated heading anchors.
func NewRenderer() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			goldmarkhtml.WithHardWraps(),
			goldmarkhtml.WithXHTML(),
		),
	)
	return &Renderer{md: md}
}

// Render converts a section body to an HTML fragment. Identical input always
// yields identical output. Rendering never fails: if conversion errors, the
// body is returned as escaped literal text.
func (r *Renderer) Render(body string) string {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(body), &buf); err != nil {
		return literalFallback(body)
	}
	return buf.String()
}

// literalFallback renders content as escaped text, one paragraph per line.
func literalFallback(body string) string {
	var b strings.Builder
	for _, line := range strings.Split(body, "\n") {
		b.WriteString("<p>")
		b.WriteString(html.EscapeString(line))
		b.WriteString("</p>\n")
	}
	return b.String()
}
