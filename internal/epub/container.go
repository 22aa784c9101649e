package epub

import (
	"encoding/xml"
	"fmt"
)

// Fixed archive member paths.
const (
	mimetypePath  = "mimetype"
	containerPath = "META-INF/container.xml"
	opfPath       = "OEBPS/content.opf"
	navPath       = "OEBPS/nav.xhtml"
	ncxPath       = "OEBPS/toc.ncx"
	coverPath     = "OEBPS/cover.jpg"
	textDir       = "OEBPS/text"
)

// epubMimetype is the required content of the mimetype member.
const epubMimetype = "application/epub+zip"

// containerXML models META-INF/container.xml, the fixed-path descriptor that
// points readers at the package document.
type containerXML struct {
	XMLName   xml.Name        `xml:"container"`
	Version   string          `xml:"version,attr"`
	Xmlns     string          `xml:"xmlns,attr"`
	RootFiles []containerRoot `xml:"rootfiles>rootfile"`
}

type containerRoot struct {
	FullPath  string `xml:"full-path,attr"`
	MediaType string `xml:"media-type,attr"`
}

// buildContainer serializes the container descriptor referencing the package
// document at its resolved path.
func buildContainer(packagePath string) ([]byte, error) {
	c := containerXML{
		Version: "1.0",
		Xmlns:   "urn:oasis:names:tc:opendocument:xmlns:container",
		RootFiles: []containerRoot{
			{FullPath: packagePath, MediaType: "application/oebps-package+xml"},
		},
	}
	data, err := xml.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize container.xml: %w", err)
	}
	return append([]byte(xml.Header), data...), nil
}
