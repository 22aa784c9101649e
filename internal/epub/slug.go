package epub

import (
	"fmt"
	"strings"
)

// maxSlugLength caps the human-readable part of derived filenames.
const maxSlugLength = 50

// unsafeFilenameChars are replaced with a placeholder. Printable non-ASCII
// runes (accented letters and the like) are preserved.
const unsafeFilenameChars = `<>:"/\|?*`

// SafeFilename derives a filesystem-safe filename from a title: unsafe and
// control characters become underscores, runs of underscores collapse,
// leading/trailing underscores are trimmed and the result is length-capped
// before the extension is appended.
func SafeFilename(title, ext string) string {
	slug := replaceUnsafe(title)
	slug = collapseUnderscores(slug)
	slug = strings.Trim(slug, "_")
	slug = truncateRunes(slug, maxSlugLength)
	slug = strings.Trim(slug, "_ ")
	if slug == "" {
		slug = "book"
	}
	return slug + ext
}

// sectionFilename builds the archive member name for a section. The ordinal
// prefix keeps names unique even when two titles collapse to the same slug.
func sectionFilename(index int, title string) string {
	slug := replaceUnsafe(strings.ToLower(title))
	slug = strings.ReplaceAll(slug, " ", "_")
	slug = collapseUnderscores(slug)
	slug = strings.Trim(slug, "_")
	slug = truncateRunes(slug, maxSlugLength)
	slug = strings.Trim(slug, "_")
	if slug == "" {
		slug = "section"
	}
	return fmt.Sprintf("%03d-%s.xhtml", index, slug)
}

func replaceUnsafe(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(unsafeFilenameChars, r) || r < 0x20 || r == 0x7F {
			b.WriteRune('_')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func collapseUnderscores(s string) string {
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	return s
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
