package converter

import "strings"

// Section is one titled slice of the source document, in source order.
// Index is zero-based and stable across the rest of the pipeline.
type Section struct {
	Index int
	Title string
	Body  string
}

// syntheticTitle names the single section produced for input without any
// level-2 heading boundaries.
const syntheticTitle = "Content"

// Segment splits raw source text into an ordered, non-empty sequence of
// titled sections. A line of the form "## Title" starts a new section;
// deeper headings stay inside the enclosing section's body. Input with no
// boundaries, including empty input, yields exactly one synthetic section.
func Segment(text string) []Section {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(normalized, "\n")

	var sections []Section
	var current *Section
	var body []string

	flush := func() {
		if current == nil {
			return
		}
		current.Body = strings.TrimRight(strings.Join(body, "\n"), "\n")
		sections = append(sections, *current)
		current = nil
		body = nil
	}

	for _, line := range lines {
		if title, ok := headingBoundary(line); ok {
			flush()
			current = &Section{Index: len(sections), Title: title}
			continue
		}
		// Lines before the first boundary (document title, preamble) belong
		// to no section once real boundaries exist.
		if current == nil {
			continue
		}
		body = append(body, line)
	}
	flush()

	if len(sections) == 0 {
		return []Section{{Index: 0, Title: syntheticTitle, Body: normalized}}
	}
	return sections
}

// headingBoundary reports whether line is a level-2 heading marker with text,
// returning the trimmed title. "###" and deeper are not boundaries.
func headingBoundary(line string) (string, bool) {
	trimmed := strings.TrimLeft(line, " \t")
	if !strings.HasPrefix(trimmed, "## ") {
		return "", false
	}
	if strings.HasPrefix(trimmed, "###") {
		return "", false
	}
	title := strings.TrimSpace(trimmed[len("## "):])
	if title == "" {
		return "", false
	}
	return title, true
}
