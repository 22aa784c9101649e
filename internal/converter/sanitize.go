package converter

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// removedElements are stripped together with their entire content: scripting,
// styling blocks and embedded frames/objects have no place in a restrictively
// rendering reader.
var removedElements = []string{"script", "style", "iframe", "object", "embed"}

// voidElements must serialize in explicitly self-closed form.
var voidElements = map[string]bool{
	"br":    true,
	"hr":    true,
	"img":   true,
	"input": true,
	"meta":  true,
	"link":  true,
}

// controlCharRe matches true C0 control characters (excluding tab, newline
// and carriage return) plus DEL. Printable non-ASCII runes — accented Latin
// letters, inverted punctuation — are deliberately not matched.
var controlCharRe = regexp.MustCompile("[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]")

var (
	fallbackBlockRe = regexp.MustCompile(`(?is)<(script|style|iframe|object|embed)\b[^>]*>.*?</\s*(?:script|style|iframe|object|embed)\s*>`)
	fallbackTagRe   = regexp.MustCompile(`(?i)<(script|style|iframe|object|embed)\b[^>]*/?>`)
	voidTagRe       = regexp.MustCompile(`(?i)<(br|hr|img|input|meta|link)(\b[^>]*?)\s*/?>`)
	spaceRunRe      = regexp.MustCompile(`[ \t]+`)
)

// Sanitize cleans an HTML fragment for reader compatibility. It never fails:
// if structured parsing is not possible the fragment goes through a pure
// string-based fallback pass instead.
func Sanitize(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return sanitizeFallback(fragment)
	}

	doc.Find(strings.Join(removedElements, ", ")).Remove()

	// Force empty non-void elements to carry an explicit empty value so they
	// serialize as an open/close pair rather than a dangling tag.
	doc.Find("*").Each(func(i int, s *goquery.Selection) {
		node := s.Get(0)
		if voidElements[node.Data] {
			return
		}
		if node.FirstChild == nil {
			s.SetText("")
		}
	})

	out, err := doc.Find("body").Html()
	if err != nil {
		return sanitizeFallback(fragment)
	}

	return controlCharRe.ReplaceAllString(out, "")
}

// sanitizeFallback is the string-only cleaning pass. It removes scripting
// and styling blocks, strips the same narrow control-character set,
// normalizes void elements and collapses horizontal whitespace runs.
func sanitizeFallback(fragment string) string {
	out := fallbackBlockRe.ReplaceAllString(fragment, "")
	out = fallbackTagRe.ReplaceAllString(out, "")
	out = controlCharRe.ReplaceAllString(out, "")
	out = voidTagRe.ReplaceAllString(out, "<$1$2/>")
	out = spaceRunRe.ReplaceAllString(out, " ")
	return out
}
