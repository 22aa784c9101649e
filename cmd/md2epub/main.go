package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"md2epub/internal/book"
	"md2epub/internal/converter"
	"md2epub/internal/epub"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "md2epub INPUT",
		Short: "Convert structured text documents to device-compatible EPUB",
		Long: `md2epub packages a plain structured-text document, author metadata and an
optional cover image into an EPUB archive that passes device-compatibility
checks.

Metadata may be given as flags or as a YAML front matter block at the top of
the document; flags win. Sections are split on level-2 headings.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputPath := args[0]

			if validateOnly, _ := cmd.Flags().GetBool("validate-only"); validateOnly {
				return runValidate(inputPath)
			}

			opts, err := readConvertOptions(cmd, inputPath)
			if err != nil {
				return err
			}

			out, err := converter.NewPipeline(opts).Convert()
			if err != nil {
				return fmt.Errorf("conversion failed: %w", err)
			}

			log.Printf("Done: %s", out)
			return nil
		},
	}

	cmd.Flags().StringP("output", "o", "", "Output file path (default: title-derived name next to the input)")
	cmd.Flags().String("title", "", "Book title")
	cmd.Flags().String("author", "", "Book author")
	cmd.Flags().String("publisher", "", "Publisher name")
	cmd.Flags().String("date", "", "Publication date (YYYY-MM-DD)")
	cmd.Flags().String("isbn", "", "ISBN-10 or ISBN-13 identifier")
	cmd.Flags().String("language", "", "Language name or BCP 47 tag (default: en)")
	cmd.Flags().String("description", "", "Book description")
	cmd.Flags().String("keywords", "", "Comma-separated keywords")
	cmd.Flags().String("type", "prose", "Content type: prose or poetry")
	cmd.Flags().String("profile", "standard", "Device profile: standard or constrained")
	cmd.Flags().String("cover", "", "Cover image path (JPEG or PNG)")
	cmd.Flags().Bool("validate-only", false, "Validate an existing archive instead of converting")

	return cmd
}

// readConvertOptions assembles pipeline options from flags. Metadata fields
// left empty here may still be filled from the document's front matter.
func readConvertOptions(cmd *cobra.Command, inputPath string) (converter.ConvertOptions, error) {
	meta := book.Metadata{}
	meta.Title, _ = cmd.Flags().GetString("title")
	meta.Author, _ = cmd.Flags().GetString("author")
	meta.Publisher, _ = cmd.Flags().GetString("publisher")
	meta.ISBN, _ = cmd.Flags().GetString("isbn")
	meta.Language, _ = cmd.Flags().GetString("language")
	meta.Description, _ = cmd.Flags().GetString("description")

	if keywords, _ := cmd.Flags().GetString("keywords"); keywords != "" {
		for _, kw := range strings.Split(keywords, ",") {
			if kw = strings.TrimSpace(kw); kw != "" {
				meta.Keywords = append(meta.Keywords, kw)
			}
		}
	}

	if contentType, _ := cmd.Flags().GetString("type"); contentType != "" {
		meta.ContentType = book.ContentType(contentType)
	}

	if date, _ := cmd.Flags().GetString("date"); date != "" {
		t, err := time.Parse("2006-01-02", date)
		if err != nil {
			return converter.ConvertOptions{}, fmt.Errorf("invalid --date %q: want YYYY-MM-DD", date)
		}
		meta.PublicationDate = &t
	}

	outputPath, _ := cmd.Flags().GetString("output")
	coverPath, _ := cmd.Flags().GetString("cover")
	profile, _ := cmd.Flags().GetString("profile")

	return converter.ConvertOptions{
		InputPath:  inputPath,
		OutputPath: outputPath,
		CoverPath:  coverPath,
		Metadata:   meta,
		Profile:    converter.DeviceProfile(profile),
	}, nil
}

// runValidate inspects an existing archive and prints its report.
func runValidate(path string) error {
	report := epub.ValidateFile(path)
	fmt.Printf("compatible: %v\n", report.Compatible)
	fmt.Printf("sections: %d, cover: %v, size: %d bytes\n",
		report.Info.SectionCount, report.Info.HasCover, report.Info.FileSize)
	for _, issue := range report.Issues {
		fmt.Printf("issue: %s\n", issue)
	}
	if !report.Compatible {
		return fmt.Errorf("archive is not device compatible")
	}
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
