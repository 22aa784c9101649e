package book

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

// ContentType selects the stylesheet family used for rendered sections.
type ContentType string

const (
	ContentProse  ContentType = "prose"
	ContentPoetry ContentType = "poetry"
)

// Metadata describes the book being assembled. All fields are caller-supplied
// and immutable once handed to the pipeline.
type Metadata struct {
	Title           string
	Author          string
	Publisher       string
	PublicationDate *time.Time
	ISBN            string
	Language        string
	Description     string
	Keywords        []string
	ContentType     ContentType
}

// Validate checks all field constraints eagerly, before the metadata enters
// the pipeline. The first violated constraint is reported with its field name.
func (m *Metadata) Validate() error {
	if n := utf8.RuneCountInString(strings.TrimSpace(m.Title)); n < 2 || n > 200 {
		return fmt.Errorf("%w: title must be 2-200 characters, got %d", ErrInvalidMetadata, n)
	}
	if n := utf8.RuneCountInString(strings.TrimSpace(m.Author)); n < 2 || n > 100 {
		return fmt.Errorf("%w: author must be 2-100 characters, got %d", ErrInvalidMetadata, n)
	}
	if n := utf8.RuneCountInString(m.Publisher); n > 100 {
		return fmt.Errorf("%w: publisher must be at most 100 characters, got %d", ErrInvalidMetadata, n)
	}
	if n := utf8.RuneCountInString(m.Description); n > 1000 {
		return fmt.Errorf("%w: description must be at most 1000 characters, got %d", ErrInvalidMetadata, n)
	}
	if m.ISBN != "" {
		if err := validateISBN(m.ISBN); err != nil {
			return err
		}
	}
	if _, err := NormalizeLanguage(m.Language); err != nil {
		return err
	}
	switch m.ContentType {
	case ContentProse, ContentPoetry, "":
	default:
		return fmt.Errorf("%w: content type must be %q or %q, got %q",
			ErrInvalidMetadata, ContentProse, ContentPoetry, m.ContentType)
	}
	return nil
}

// ResolveIdentifier returns the cleaned ISBN when one was supplied, otherwise
// a freshly generated UUID. The result is never empty; a package document
// always carries an identifier.
func (m *Metadata) ResolveIdentifier() string {
	if isbn := CleanISBN(m.ISBN); isbn != "" {
		return isbn
	}
	return uuid.NewString()
}

// CleanISBN strips separators (hyphens, spaces and any other
// non-alphanumerics) from an ISBN string.
func CleanISBN(isbn string) string {
	var b strings.Builder
	for _, r := range isbn {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// validateISBN checks the checksum-shaped identifier form: 10 or 13
// characters after cleaning, all digits except that the 10-character form
// may end in 'X'.
func validateISBN(isbn string) error {
	cleaned := CleanISBN(isbn)
	if len(cleaned) != 10 && len(cleaned) != 13 {
		return fmt.Errorf("%w: isbn must be 10 or 13 digits, got %d", ErrInvalidMetadata, len(cleaned))
	}
	for i, r := range cleaned {
		if r >= '0' && r <= '9' {
			continue
		}
		last := i == len(cleaned)-1
		if len(cleaned) == 10 && last && (r == 'X' || r == 'x') {
			continue
		}
		return fmt.Errorf("%w: isbn contains invalid character %q", ErrInvalidMetadata, r)
	}
	return nil
}
