package epub

import (
	"encoding/xml"
	"fmt"
	"path"
	"time"
)

// opfPackage is the root element of the package document: metadata, the
// manifest of all member resources, and the reading-order spine.
type opfPackage struct {
	XMLName  xml.Name    `xml:"package"`
	Xmlns    string      `xml:"xmlns,attr"`
	Version  string      `xml:"version,attr"`
	UniqueID string      `xml:"unique-identifier,attr"`
	Metadata opfMetadata `xml:"metadata"`
	Manifest opfManifest `xml:"manifest"`
	Spine    opfSpine    `xml:"spine"`
}

type opfMetadata struct {
	XmlnsDC     string         `xml:"xmlns:dc,attr"`
	Identifier  opfIdentifier  `xml:"dc:identifier"`
	Title       string         `xml:"dc:title"`
	Creator     string         `xml:"dc:creator"`
	Language    string         `xml:"dc:language"`
	Publisher   string         `xml:"dc:publisher,omitempty"`
	Date        string         `xml:"dc:date,omitempty"`
	Description string         `xml:"dc:description,omitempty"`
	Subjects    []string       `xml:"dc:subject,omitempty"`
	Metas       []opfMeta      `xml:"meta"`
}

type opfIdentifier struct {
	ID    string `xml:"id,attr"`
	Value string `xml:",chardata"`
}

type opfMeta struct {
	Name     string `xml:"name,attr,omitempty"`
	Content  string `xml:"content,attr,omitempty"`
	Property string `xml:"property,attr,omitempty"`
	Value    string `xml:",chardata"`
}

type opfManifest struct {
	Items []opfItem `xml:"item"`
}

type opfItem struct {
	ID         string `xml:"id,attr"`
	Href       string `xml:"href,attr"`
	MediaType  string `xml:"media-type,attr"`
	Properties string `xml:"properties,attr,omitempty"`
}

type opfSpine struct {
	Toc      string       `xml:"toc,attr"`
	ItemRefs []opfItemRef `xml:"itemref"`
}

type opfItemRef struct {
	IDRef string `xml:"idref,attr"`
}

// buildOPF serializes the package document for the book. Member hrefs are
// relative to the OPF's own directory.
func buildOPF(b Book, now time.Time) ([]byte, error) {
	identifier := b.Identifier

	md := opfMetadata{
		XmlnsDC:     "http://purl.org/dc/elements/1.1/",
		Identifier:  opfIdentifier{ID: "book-id", Value: identifier},
		Title:       b.Meta.Title,
		Creator:     b.Meta.Author,
		Language:    b.Meta.Language,
		Publisher:   b.Meta.Publisher,
		Description: b.Meta.Description,
		Subjects:    b.Meta.Keywords,
		Metas: []opfMeta{
			{Property: "dcterms:modified", Value: now.UTC().Format("2006-01-02T15:04:05Z")},
		},
	}
	if b.Meta.PublicationDate != nil {
		md.Date = b.Meta.PublicationDate.Format("2006-01-02")
	}

	manifest := opfManifest{
		Items: []opfItem{
			{ID: "nav", Href: relToOPF(navPath), MediaType: "application/xhtml+xml", Properties: "nav"},
			{ID: "ncx", Href: relToOPF(ncxPath), MediaType: "application/x-dtbncx+xml"},
		},
	}

	spine := opfSpine{
		Toc:      "ncx",
		ItemRefs: []opfItemRef{{IDRef: "nav"}},
	}

	for _, s := range b.Sections {
		id := fmt.Sprintf("section-%d", s.Index)
		manifest.Items = append(manifest.Items, opfItem{
			ID:        id,
			Href:      relToOPF(path.Join(textDir, s.Filename)),
			MediaType: "application/xhtml+xml",
		})
		spine.ItemRefs = append(spine.ItemRefs, opfItemRef{IDRef: id})
	}

	if b.Cover != nil {
		manifest.Items = append(manifest.Items, opfItem{
			ID:         "cover-image",
			Href:       relToOPF(coverPath),
			MediaType:  b.Cover.MediaType,
			Properties: "cover-image",
		})
		md.Metas = append(md.Metas, opfMeta{Name: "cover", Content: "cover-image"})
	}

	pkg := opfPackage{
		Xmlns:    "http://www.idpf.org/2007/opf",
		Version:  "3.0",
		UniqueID: "book-id",
		Metadata: md,
		Manifest: manifest,
		Spine:    spine,
	}

	data, err := xml.MarshalIndent(pkg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize package document: %w", err)
	}
	return append([]byte(xml.Header), data...), nil
}

// relToOPF rewrites an archive path relative to the OPF directory.
func relToOPF(member string) string {
	dir := path.Dir(opfPath)
	rel, err := relPath(dir, member)
	if err != nil {
		return member
	}
	return rel
}

func relPath(dir, member string) (string, error) {
	if dir == "." {
		return member, nil
	}
	prefix := dir + "/"
	if len(member) > len(prefix) && member[:len(prefix)] == prefix {
		return member[len(prefix):], nil
	}
	return "", fmt.Errorf("member %s outside opf directory %s", member, dir)
}
