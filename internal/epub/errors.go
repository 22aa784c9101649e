package epub

import "errors"

var (
	// ErrNoSections indicates assembly was attempted with an empty section
	// list. The segmenter guarantees at least one section, so this is an
	// internal-consistency failure, not a user input error.
	ErrNoSections = errors.New("epub: package has no sections")
)
