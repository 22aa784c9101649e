package epub

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"
)

const (
	// maxArchiveSize is the device cap on total archive size.
	maxArchiveSize = 650 * 1024 * 1024
	// maxMemberSize is the per-member decompressed size cap.
	maxMemberSize = 25 * 1024 * 1024
)

// opfCandidates are the canonical package document locations, checked in
// order: archive root, then the conventional subdirectories.
var opfCandidates = []string{
	"content.opf",
	"OEBPS/content.opf",
	"EPUB/content.opf",
	"OPS/content.opf",
}

// Report is the device-compatibility verdict for a finished archive.
// A missing cover is recorded as an issue but does not flip Compatible:
// covers are optional resources, and a coverless archive still reads
// correctly on device.
type Report struct {
	Compatible bool
	Issues     []string
	Info       Info
}

// Info is the structural introspection summary, usable for diagnostics
// without re-deriving the full report.
type Info struct {
	FileSize     int64
	SectionCount int
	HasMimetype  bool
	HasContainer bool
	HasPackage   bool
	HasNav       bool
	HasCover     bool
	PackagePath  string
}

// ValidateFile inspects an archive on disk. It never fails: unreadable input
// yields a report with Compatible set to false.
func ValidateFile(path string) Report {
	data, err := os.ReadFile(path)
	if err != nil {
		return Report{Issues: []string{fmt.Sprintf("cannot read archive: %v", err)}}
	}
	return Validate(data)
}

// Validate inspects finished archive bytes and reports every structural
// compatibility issue found.
func Validate(data []byte) Report {
	var r Report
	r.Info.FileSize = int64(len(data))

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		r.Issues = append(r.Issues, fmt.Sprintf("not a valid compressed container: %v", err))
		return r
	}

	if len(data) > maxArchiveSize {
		r.Issues = append(r.Issues, fmt.Sprintf("archive is %d bytes, over the %d byte device cap", len(data), maxArchiveSize))
	}

	members := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		members[f.Name] = f
	}

	checkMimetype(members, &r)
	containerTarget := checkContainer(members, &r)
	checkPackageDocument(zr, members, containerTarget, &r)
	checkNav(zr, &r)
	checkMemberSizes(zr, &r)
	checkCover(members, &r)
	countSections(members, &r)

	r.Compatible = compatible(r.Issues)
	return r
}

// Inspect returns only the structural summary for an archive.
func Inspect(data []byte) Info {
	return Validate(data).Info
}

func checkMimetype(members map[string]*zip.File, r *Report) {
	f, ok := members[mimetypePath]
	if !ok {
		r.Issues = append(r.Issues, "mimetype member is missing")
		return
	}
	content, err := readMember(f)
	if err != nil {
		r.Issues = append(r.Issues, fmt.Sprintf("cannot read mimetype member: %v", err))
		return
	}
	if string(content) != epubMimetype {
		r.Issues = append(r.Issues, fmt.Sprintf("mimetype member contains %q, want %q", content, epubMimetype))
		return
	}
	r.Info.HasMimetype = true
}

// checkContainer verifies the container descriptor exists at its fixed path
// and returns the package document path it references, if any.
func checkContainer(members map[string]*zip.File, r *Report) string {
	f, ok := members[containerPath]
	if !ok {
		r.Issues = append(r.Issues, fmt.Sprintf("container descriptor %s is missing", containerPath))
		return ""
	}
	r.Info.HasContainer = true

	content, err := readMember(f)
	if err != nil {
		r.Issues = append(r.Issues, fmt.Sprintf("cannot read container descriptor: %v", err))
		return ""
	}

	var c containerXML
	if err := xml.Unmarshal(content, &c); err != nil {
		r.Issues = append(r.Issues, fmt.Sprintf("container descriptor is not valid XML: %v", err))
		return ""
	}
	for _, rf := range c.RootFiles {
		if strings.TrimSpace(rf.FullPath) != "" {
			return strings.TrimSpace(rf.FullPath)
		}
	}
	r.Issues = append(r.Issues, "container descriptor references no package document")
	return ""
}

func checkPackageDocument(zr *zip.Reader, members map[string]*zip.File, containerTarget string, r *Report) {
	for _, candidate := range opfCandidates {
		if _, ok := members[candidate]; ok {
			r.Info.HasPackage = true
			r.Info.PackagePath = candidate
			break
		}
	}

	if !r.Info.HasPackage {
		// Surface package-document-like members that do exist to aid
		// diagnosis of misplaced OPFs.
		var found []string
		for _, f := range zr.File {
			if strings.HasSuffix(strings.ToLower(f.Name), ".opf") {
				found = append(found, f.Name)
			}
		}
		if len(found) > 0 {
			r.Issues = append(r.Issues, fmt.Sprintf("package document not at a canonical location; found: %s", strings.Join(found, ", ")))
		} else {
			r.Issues = append(r.Issues, "package document is missing")
		}
		return
	}

	if containerTarget != "" && containerTarget != r.Info.PackagePath {
		r.Issues = append(r.Issues, fmt.Sprintf("container descriptor references %s but package document is at %s",
			containerTarget, r.Info.PackagePath))
	}
}

// checkNav requires a navigation resource and, when an EPUB 3 navigation
// document is present, parses it to confirm it carries a toc nav element.
// Members are scanned in archive order so the same archive always yields the
// same report.
func checkNav(zr *zip.Reader, r *Report) {
	var navDoc *zip.File
	for _, f := range zr.File {
		base := strings.ToLower(f.Name[strings.LastIndex(f.Name, "/")+1:])
		switch base {
		case "nav.xhtml", "toc.xhtml":
			r.Info.HasNav = true
			if navDoc == nil {
				navDoc = f
			}
		case "toc.ncx":
			r.Info.HasNav = true
		}
	}
	if !r.Info.HasNav {
		r.Issues = append(r.Issues, "navigation resource is missing")
		return
	}
	if navDoc == nil {
		return
	}

	content, err := readMember(navDoc)
	if err != nil {
		r.Issues = append(r.Issues, fmt.Sprintf("cannot read navigation document %s: %v", navDoc.Name, err))
		return
	}
	doc, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		r.Issues = append(r.Issues, fmt.Sprintf("navigation document %s is not parseable: %v", navDoc.Name, err))
		return
	}
	if !hasTocNav(doc) {
		r.Issues = append(r.Issues, fmt.Sprintf("navigation document %s has no toc nav element", navDoc.Name))
	}
}

func hasTocNav(n *html.Node) bool {
	if n.Type == html.ElementNode && n.Data == "nav" {
		for _, a := range n.Attr {
			if strings.EqualFold(a.Key, "epub:type") && strings.Contains(a.Val, "toc") {
				return true
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if hasTocNav(c) {
			return true
		}
	}
	return false
}

func checkMemberSizes(zr *zip.Reader, r *Report) {
	for _, f := range zr.File {
		if f.UncompressedSize64 > maxMemberSize {
			r.Issues = append(r.Issues, fmt.Sprintf("member %s is %d bytes, over the %d byte per-file cap",
				f.Name, f.UncompressedSize64, maxMemberSize))
		}
	}
}

func checkCover(members map[string]*zip.File, r *Report) {
	for name := range members {
		base := strings.ToLower(name[strings.LastIndex(name, "/")+1:])
		if strings.HasPrefix(base, "cover.") {
			r.Info.HasCover = true
			return
		}
	}
	r.Issues = append(r.Issues, "no cover resource found (optional)")
}

func countSections(members map[string]*zip.File, r *Report) {
	for name := range members {
		lower := strings.ToLower(name)
		if !strings.HasSuffix(lower, ".xhtml") && !strings.HasSuffix(lower, ".html") {
			continue
		}
		base := lower[strings.LastIndex(lower, "/")+1:]
		if base == "nav.xhtml" || base == "toc.xhtml" {
			continue
		}
		r.Info.SectionCount++
	}
}

// compatible decides the overall flag. Only the cover issue is a warning;
// every other issue marks the archive incompatible.
func compatible(issues []string) bool {
	for _, issue := range issues {
		if strings.Contains(issue, "cover resource") {
			continue
		}
		return false
	}
	return true
}

func readMember(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(io.LimitReader(rc, maxMemberSize+1))
}
