package epub

import (
	"fmt"
	"html"
	"strings"
)

// buildNav generates the navigation document: the reader-facing table of
// contents mirroring section order.
func buildNav(b Book) []byte {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="utf-8"?>
<!DOCTYPE html>
<html xmlns="http://www.w3.org/1999/xhtml" xmlns:epub="http://www.idpf.org/2007/ops">
<head>
<title>`)
	sb.WriteString(html.EscapeString(b.Meta.Title))
	sb.WriteString(`</title>
</head>
<body>
<nav epub:type="toc" id="toc">
<h1>Table of Contents</h1>
<ol>
`)
	for _, s := range b.Sections {
		fmt.Fprintf(&sb, "<li><a href=\"text/%s\">%s</a></li>\n",
			s.Filename, html.EscapeString(sectionLabel(s)))
	}
	sb.WriteString(`</ol>
</nav>
</body>
</html>
`)
	return []byte(sb.String())
}

// buildNCX generates the legacy NCX navigation member carrying the same
// entries as the navigation document, for readers predating EPUB 3.
func buildNCX(b Book) []byte {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="utf-8"?>
<ncx xmlns="http://www.daisy.org/z3986/2005/ncx/" version="2005-1">
<head>
<meta name="dtb:uid" content="`)
	sb.WriteString(html.EscapeString(b.Identifier))
	sb.WriteString(`"/>
<meta name="dtb:depth" content="1"/>
</head>
<docTitle><text>`)
	sb.WriteString(html.EscapeString(b.Meta.Title))
	sb.WriteString(`</text></docTitle>
<navMap>
`)
	for _, s := range b.Sections {
		fmt.Fprintf(&sb, `<navPoint id="navpoint-%d" playOrder="%d">
<navLabel><text>%s</text></navLabel>
<content src="text/%s"/>
</navPoint>
`, s.Index+1, s.Index+1, html.EscapeString(sectionLabel(s)), s.Filename)
	}
	sb.WriteString(`</navMap>
</ncx>
`)
	return []byte(sb.String())
}

// buildSectionDoc wraps a sanitized section body in a complete XHTML
// document with the profile stylesheet embedded.
func buildSectionDoc(s Section, stylesheet string) []byte {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="utf-8"?>
<!DOCTYPE html>
<html xmlns="http://www.w3.org/1999/xhtml">
<head>
<title>`)
	sb.WriteString(html.EscapeString(sectionLabel(s)))
	sb.WriteString("</title>\n<style>\n")
	sb.WriteString(stylesheet)
	sb.WriteString("</style>\n</head>\n<body>\n")
	sb.WriteString(s.Body)
	sb.WriteString("\n</body>\n</html>\n")
	return []byte(sb.String())
}

// sectionLabel falls back to a positional label for empty titles so TOC
// entries are never blank.
func sectionLabel(s Section) string {
	if strings.TrimSpace(s.Title) != "" {
		return s.Title
	}
	return fmt.Sprintf("Section %d", s.Index+1)
}
