package epub

import (
	"archive/zip"
	"bytes"
	"fmt"
	"log"
	"path"
	"time"

	"md2epub/internal/book"
)

// maxEmbeddedCoverSize is the cap above which an otherwise valid cover is
// skipped at assembly time rather than embedded. Skipping is non-fatal.
const maxEmbeddedCoverSize = 2 * 1024 * 1024

// NewBook assembles a fully formed Book value from its inputs: the
// identifier is resolved, section filenames are derived, and an oversized
// cover is dropped with a warning. The returned value is complete; Build
// consumes it without further mutation.
func NewBook(meta book.Metadata, sections []Section, stylesheet string, cover *Cover) Book {
	b := Book{
		Identifier: meta.ResolveIdentifier(),
		Meta:       meta,
		Sections:   make([]Section, len(sections)),
		Stylesheet: stylesheet,
	}
	for i, s := range sections {
		s.Filename = sectionFilename(s.Index, s.Title)
		b.Sections[i] = s
	}
	if cover != nil {
		if len(cover.Data) <= maxEmbeddedCoverSize {
			b.Cover = cover
		} else {
			log.Printf("warning: cover is %d bytes, over the %d byte embed cap, proceeding without cover",
				len(cover.Data), maxEmbeddedCoverSize)
		}
	}
	return b
}

// Build serializes the book into archive bytes: the stored mimetype member
// first, then the container descriptor, package document, navigation
// members, section content and optional cover. It writes to memory, so a
// failure can never leave a partial archive on disk.
func Build(b Book) ([]byte, error) {
	if len(b.Sections) == 0 {
		return nil, ErrNoSections
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	// The mimetype member must come first and must not be compressed.
	mw, err := zw.CreateHeader(&zip.FileHeader{Name: mimetypePath, Method: zip.Store})
	if err != nil {
		return nil, fmt.Errorf("failed to create mimetype member: %w", err)
	}
	if _, err := mw.Write([]byte(epubMimetype)); err != nil {
		return nil, fmt.Errorf("failed to write mimetype member: %w", err)
	}

	container, err := buildContainer(opfPath)
	if err != nil {
		return nil, err
	}
	if err := writeMember(zw, containerPath, container); err != nil {
		return nil, err
	}

	opf, err := buildOPF(b, time.Now())
	if err != nil {
		return nil, err
	}
	if err := writeMember(zw, opfPath, opf); err != nil {
		return nil, err
	}

	if err := writeMember(zw, navPath, buildNav(b)); err != nil {
		return nil, err
	}
	if err := writeMember(zw, ncxPath, buildNCX(b)); err != nil {
		return nil, err
	}

	for _, s := range b.Sections {
		member := path.Join(textDir, s.Filename)
		if err := writeMember(zw, member, buildSectionDoc(s, b.Stylesheet)); err != nil {
			return nil, err
		}
	}

	if b.Cover != nil {
		if err := writeMember(zw, coverPath, b.Cover.Data); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}

func writeMember(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("failed to create member %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write member %s: %w", name, err)
	}
	return nil
}
