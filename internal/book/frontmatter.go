package book

import (
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

// FrontMatter holds metadata fields read from a leading YAML block in the
// source document. Every field is optional; explicit caller values win over
// front matter values.
type FrontMatter struct {
	Title       string   `yaml:"title"`
	Author      string   `yaml:"author"`
	Publisher   string   `yaml:"publisher"`
	Date        string   `yaml:"date"`
	ISBN        string   `yaml:"isbn"`
	Language    string   `yaml:"language"`
	Description string   `yaml:"description"`
	Keywords    []string `yaml:"keywords"`
	Type        string   `yaml:"type"`
}

const frontMatterDelim = "---"

// ParseFrontMatter splits an optional leading YAML front matter block from
// the document body. Absence of front matter is not an error; a present but
// malformed block is.
func ParseFrontMatter(src string) (*FrontMatter, string, error) {
	normalized := strings.ReplaceAll(src, "\r\n", "\n")
	if !strings.HasPrefix(normalized, frontMatterDelim+"\n") {
		return nil, src, nil
	}

	// The terminator must be a line that is exactly the delimiter; lines
	// merely starting with it ("----", "---text") stay inside the block.
	lines := strings.Split(normalized, "\n")
	end := -1
	for i := 1; i < len(lines); i++ {
		if lines[i] == frontMatterDelim {
			end = i
			break
		}
	}
	if end < 0 {
		return nil, src, nil
	}
	block := strings.Join(lines[1:end], "\n")
	body := strings.Join(lines[end+1:], "\n")

	var fm FrontMatter
	if err := yaml.Unmarshal([]byte(block), &fm); err != nil {
		return nil, src, fmt.Errorf("%w: %v", ErrInvalidFrontMatter, err)
	}
	return &fm, body, nil
}

// Apply fills empty Metadata fields from the front matter. Fields already
// set on m are left untouched.
func (fm *FrontMatter) Apply(m *Metadata) error {
	if fm == nil {
		return nil
	}
	if m.Title == "" {
		m.Title = fm.Title
	}
	if m.Author == "" {
		m.Author = fm.Author
	}
	if m.Publisher == "" {
		m.Publisher = fm.Publisher
	}
	if m.ISBN == "" {
		m.ISBN = fm.ISBN
	}
	if m.Language == "" {
		m.Language = fm.Language
	}
	if m.Description == "" {
		m.Description = fm.Description
	}
	if len(m.Keywords) == 0 {
		m.Keywords = fm.Keywords
	}
	if m.ContentType == "" && fm.Type != "" {
		m.ContentType = ContentType(fm.Type)
	}
	if m.PublicationDate == nil && fm.Date != "" {
		t, err := time.Parse("2006-01-02", fm.Date)
		if err != nil {
			return fmt.Errorf("%w: date %q is not an ISO calendar date", ErrInvalidFrontMatter, fm.Date)
		}
		m.PublicationDate = &t
	}
	return nil
}
