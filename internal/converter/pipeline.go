package converter

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"md2epub/internal/book"
	"md2epub/internal/epub"
)

// defaultMaxInputBytes caps the source document size.
const defaultMaxInputBytes = 10 * 1024 * 1024

// ConvertOptions holds the inputs for one conversion request.
type ConvertOptions struct {
	InputPath  string
	OutputPath string // empty: derived from the title next to the input
	CoverPath  string // empty: no cover
	Metadata   book.Metadata
	Profile    DeviceProfile
	MaxInput   int // bytes; <= 0 uses the default cap
}

// Pipeline orchestrates the document-to-archive conversion: segmenting,
// rendering, sanitizing, cover normalization, assembly and post-assembly
// validation. A Pipeline holds no per-request state and may serve concurrent
// conversions.
type Pipeline struct {
	Options  ConvertOptions
	renderer *Renderer
	covers   *CoverNormalizer
}

// NewPipeline creates a conversion pipeline.
func NewPipeline(opts ConvertOptions) *Pipeline {
	return &Pipeline{
		Options:  opts,
		renderer: NewRenderer(),
		covers:   NewCoverNormalizer(),
	}
}

// Convert executes the pipeline and returns the resolved output path.
func (p *Pipeline) Convert() (string, error) {
	src, err := p.readInput()
	if err != nil {
		return "", err
	}

	meta := p.Options.Metadata
	fm, body, err := book.ParseFrontMatter(src)
	if err != nil {
		return "", err
	}
	if err := fm.Apply(&meta); err != nil {
		return "", err
	}
	if err := meta.Validate(); err != nil {
		return "", err
	}
	lang, err := book.NormalizeLanguage(meta.Language)
	if err != nil {
		return "", err
	}
	meta.Language = lang

	sections := p.buildSections(body)

	cover, err := p.normalizeCover()
	if err != nil {
		return "", err
	}

	stylesheet := StylesheetFor(meta.ContentType, p.Options.Profile)
	bk := epub.NewBook(meta, sections, stylesheet, cover)

	data, err := epub.Build(bk)
	if err != nil {
		return "", fmt.Errorf("failed to assemble archive: %w", err)
	}

	outPath := p.resolveOutputPath(meta.Title)
	if err := writeAtomic(outPath, data); err != nil {
		return "", err
	}

	report := epub.Validate(data)
	for _, issue := range report.Issues {
		log.Printf("warning: validation: %s", issue)
	}
	if !report.Compatible {
		log.Printf("warning: produced archive failed compatibility checks")
	}

	return outPath, nil
}

// readInput loads the source document, enforcing the input size cap.
func (p *Pipeline) readInput() (string, error) {
	maxInput := p.Options.MaxInput
	if maxInput <= 0 {
		maxInput = defaultMaxInputBytes
	}

	info, err := os.Stat(p.Options.InputPath)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	if info.Size() > int64(maxInput) {
		return "", fmt.Errorf("%w: %d bytes exceeds %d byte limit", ErrInputTooLarge, info.Size(), maxInput)
	}

	data, err := os.ReadFile(p.Options.InputPath)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(data), nil
}

// buildSections segments the body and renders and sanitizes each section.
func (p *Pipeline) buildSections(body string) []epub.Section {
	raw := Segment(body)
	sections := make([]epub.Section, len(raw))
	for i, s := range raw {
		sections[i] = epub.Section{
			Index: s.Index,
			Title: s.Title,
			Body:  Sanitize(p.renderer.Render(s.Body)),
		}
	}
	return sections
}

// normalizeCover loads and normalizes the optional cover image. A rejected
// cover is a fatal validation error, never a silent skip.
func (p *Pipeline) normalizeCover() (*epub.Cover, error) {
	if p.Options.CoverPath == "" {
		return nil, nil
	}
	data, err := os.ReadFile(p.Options.CoverPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read cover: %w", err)
	}
	normalized, err := p.covers.Normalize(data)
	if err != nil {
		return nil, err
	}
	return &epub.Cover{Data: normalized.Data, MediaType: normalized.MediaType}, nil
}

// resolveOutputPath derives the output file path from the title when no
// explicit path was given.
func (p *Pipeline) resolveOutputPath(title string) string {
	if p.Options.OutputPath != "" {
		return p.Options.OutputPath
	}
	return filepath.Join(filepath.Dir(p.Options.InputPath), epub.SafeFilename(title, ".epub"))
}

// writeAtomic writes the archive through a uniquely named scratch file in
// the target directory, renaming on success and removing the scratch file on
// every exit path. Concurrent requests cannot collide and a fatal failure
// never leaves a partially written archive at the output path.
func writeAtomic(path string, data []byte) error {
	tmp := filepath.Join(filepath.Dir(path), "."+uuid.NewString()+".tmp")
	defer os.Remove(tmp)

	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write archive: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	return nil
}
