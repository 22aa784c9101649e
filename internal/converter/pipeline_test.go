package converter

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"md2epub/internal/book"
	"md2epub/internal/epub"
)

func writeTestInput(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "input.md")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test input: %v", err)
	}
	return path
}

func TestPipeline_Convert(t *testing.T) {
	dir := t.TempDir()
	input := writeTestInput(t, dir, "# Book\n\n## One\nBody A\n\n## Two\nBody B\n")

	p := NewPipeline(ConvertOptions{
		InputPath: input,
		Metadata: book.Metadata{
			Title:  "Mi Libro de Prueba",
			Author: "Autor Español",
		},
	})

	out, err := p.Convert()
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if filepath.Base(out) != "Mi Libro de Prueba.epub" {
		t.Fatalf("output = %q, want title-derived name", out)
	}

	report := epub.ValidateFile(out)
	if !report.Compatible {
		t.Fatalf("produced archive not compatible: %v", report.Issues)
	}
	if report.Info.SectionCount != 2 {
		t.Fatalf("SectionCount = %d, want 2", report.Info.SectionCount)
	}
}

func TestPipeline_ConvertWithFrontMatterAndCover(t *testing.T) {
	dir := t.TempDir()
	input := writeTestInput(t, dir, `---
title: Front Matter Book
author: Front Matter Author
language: Spanish
---
## Uno
Cuerpo con ñ y ¿signos?
`)

	coverPath := filepath.Join(dir, "cover.jpg")
	src := makeSolidNRGBA(800, 1200, color.NRGBA{R: 40, G: 40, B: 120, A: 255})
	if err := os.WriteFile(coverPath, mustEncodeJPEG(t, src, 90), 0o644); err != nil {
		t.Fatalf("failed to write cover: %v", err)
	}

	outPath := filepath.Join(dir, "out.epub")
	p := NewPipeline(ConvertOptions{
		InputPath:  input,
		OutputPath: outPath,
		CoverPath:  coverPath,
	})

	out, err := p.Convert()
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if out != outPath {
		t.Fatalf("output = %q, want %q", out, outPath)
	}

	report := epub.ValidateFile(out)
	if !report.Compatible {
		t.Fatalf("produced archive not compatible: %v", report.Issues)
	}
	if !report.Info.HasCover {
		t.Fatalf("cover missing from produced archive")
	}
	if len(report.Issues) != 0 {
		t.Fatalf("unexpected issues: %v", report.Issues)
	}
}

func TestPipeline_InvalidMetadata(t *testing.T) {
	dir := t.TempDir()
	input := writeTestInput(t, dir, "## One\nBody\n")

	p := NewPipeline(ConvertOptions{
		InputPath: input,
		Metadata:  book.Metadata{Title: "X", Author: "Valid Author"},
	})

	if _, err := p.Convert(); !errors.Is(err, book.ErrInvalidMetadata) {
		t.Fatalf("Convert() error = %v, want ErrInvalidMetadata", err)
	}
}

func TestPipeline_RejectedCoverAborts(t *testing.T) {
	dir := t.TempDir()
	input := writeTestInput(t, dir, "## One\nBody\n")

	coverPath := filepath.Join(dir, "cover.bin")
	if err := os.WriteFile(coverPath, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("failed to write cover: %v", err)
	}

	outPath := filepath.Join(dir, "out.epub")
	p := NewPipeline(ConvertOptions{
		InputPath:  input,
		OutputPath: outPath,
		CoverPath:  coverPath,
		Metadata:   book.Metadata{Title: "Valid Title", Author: "Valid Author"},
	})

	if _, err := p.Convert(); !errors.Is(err, ErrCoverFormat) {
		t.Fatalf("Convert() error = %v, want ErrCoverFormat", err)
	}
	if _, err := os.Stat(outPath); !os.IsNotExist(err) {
		t.Fatalf("partial archive written despite fatal cover error")
	}
}

func TestPipeline_InputTooLarge(t *testing.T) {
	dir := t.TempDir()
	input := writeTestInput(t, dir, strings.Repeat("a", 2048))

	p := NewPipeline(ConvertOptions{
		InputPath: input,
		Metadata:  book.Metadata{Title: "Valid Title", Author: "Valid Author"},
		MaxInput:  1024,
	})

	if _, err := p.Convert(); !errors.Is(err, ErrInputTooLarge) {
		t.Fatalf("Convert() error = %v, want ErrInputTooLarge", err)
	}
}

func TestWriteAtomic_FailureRemovesScratch(t *testing.T) {
	dir := t.TempDir()
	// A directory at the target path makes the final rename fail after the
	// scratch file has been written.
	target := filepath.Join(dir, "out.epub")
	if err := os.Mkdir(target, 0o755); err != nil {
		t.Fatalf("Mkdir() error = %v", err)
	}

	if err := writeAtomic(target, []byte("archive bytes")); err == nil {
		t.Fatalf("writeAtomic() error = nil, want rename failure")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Fatalf("scratch file left behind: %s", e.Name())
		}
	}
}

func TestPipeline_NoScratchFilesLeftBehind(t *testing.T) {
	dir := t.TempDir()
	input := writeTestInput(t, dir, "## One\nBody\n")

	p := NewPipeline(ConvertOptions{
		InputPath:  input,
		OutputPath: filepath.Join(dir, "out.epub"),
		Metadata:   book.Metadata{Title: "Valid Title", Author: "Valid Author"},
	})

	if _, err := p.Convert(); err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Fatalf("scratch file left behind: %s", e.Name())
		}
	}
}
