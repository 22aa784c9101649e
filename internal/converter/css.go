package converter

import (
	"bytes"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"

	"md2epub/internal/book"
)

// baseCSS is shared by every profile and content type.
const baseCSS = `body { font-family: serif; line-height: 1.6; margin: 1em; }
h1, h2, h3 { page-break-after: avoid; }
code { font-family: monospace; }
pre { white-space: pre-wrap; overflow-x: auto; }
blockquote { margin: 0 0 0 1em; padding-left: 1em; }
table { border-collapse: collapse; }
th, td { padding: 0.2em 0.5em; }
img { max-width: 100%; }
`

// standardCSS adds decorative rules for readers with full CSS support.
const standardCSS = `h1 { color: #2c3e50; border-bottom: 2px solid #3498db; }
h2 { color: #34495e; border-bottom: 1px solid #bdc3c7; }
h3 { color: #7f8c8d; }
code { background-color: #f8f9fa; padding: 0.2em 0.4em; border-radius: 3px; }
pre { background-color: #f8f9fa; padding: 1em; border-radius: 5px; }
blockquote { border-left: 4px solid #3498db; }
th, td { border: 1px solid #bdc3c7; }
`

// constrainedCSS keeps only structural rules that restricted renderers honor.
const constrainedCSS = `blockquote { border-left: 2px solid #000000; }
th, td { border: 1px solid #000000; }
`

// poetryCSS preserves line structure and indentation for verse.
const poetryCSS = `p { white-space: pre-wrap; text-indent: 0; margin: 0 0 1em 0; }
body { text-align: left; }
`

// highlightCSS carries the syntax-highlighting classes emitted by the
// renderer's fenced-code formatter. Chroma's stylesheet output is
// deterministic for a fixed style, so this is computed once.
var highlightCSS = func() string {
	var buf bytes.Buffer
	f := chromahtml.New(chromahtml.WithClasses(true))
	if err := f.WriteCSS(&buf, styles.Get("github")); err != nil {
		return ""
	}
	return buf.String()
}()

// StylesheetFor returns the embedded stylesheet for a content type and
// device profile combination.
func StylesheetFor(ct book.ContentType, profile DeviceProfile) string {
	css := baseCSS
	if profile == ProfileConstrained {
		css += constrainedCSS
	} else {
		css += standardCSS + highlightCSS
	}
	if ct == book.ContentPoetry {
		css += poetryCSS
	}
	return css
}
