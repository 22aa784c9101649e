package book

import "errors"

var (
	// ErrInvalidMetadata indicates a metadata field violates its constraints.
	// Field-scoped detail is attached by the validator via wrapping.
	ErrInvalidMetadata = errors.New("invalid metadata")

	// ErrInvalidFrontMatter indicates the document carries a front matter
	// block that could not be parsed.
	ErrInvalidFrontMatter = errors.New("invalid front matter")
)
