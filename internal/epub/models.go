package epub

import "md2epub/internal/book"

// Section is one reading-order member of the package: sanitized HTML body
// plus the archive member name derived from its title.
type Section struct {
	Index    int
	Title    string
	Body     string
	Filename string
}

// Cover holds normalized cover image bytes ready for embedding.
type Cover struct {
	Data      []byte
	MediaType string
}

// Book is the fully formed input to assembly. It is constructed in one shot;
// no partially built package is ever observable.
type Book struct {
	Identifier string
	Meta       book.Metadata
	Sections   []Section
	Stylesheet string
	Cover      *Cover
}
