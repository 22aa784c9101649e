package book

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func validMetadata() Metadata {
	return Metadata{
		Title:    "Test Book",
		Author:   "Test Author",
		Language: "en",
	}
}

func TestMetadata_ValidateBounds(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Metadata)
		wantErr bool
	}{
		{"valid", func(m *Metadata) {}, false},
		{"title too short", func(m *Metadata) { m.Title = "A" }, true},
		{"title too long", func(m *Metadata) { m.Title = strings.Repeat("a", 201) }, true},
		{"title at max", func(m *Metadata) { m.Title = strings.Repeat("a", 200) }, false},
		{"author too short", func(m *Metadata) { m.Author = "B" }, true},
		{"author too long", func(m *Metadata) { m.Author = strings.Repeat("b", 101) }, true},
		{"publisher too long", func(m *Metadata) { m.Publisher = strings.Repeat("p", 101) }, true},
		{"description too long", func(m *Metadata) { m.Description = strings.Repeat("d", 1001) }, true},
		{"description at max", func(m *Metadata) { m.Description = strings.Repeat("d", 1000) }, false},
		{"bad content type", func(m *Metadata) { m.ContentType = "drama" }, true},
		{"poetry content type", func(m *Metadata) { m.ContentType = ContentPoetry }, false},
		{"bad language", func(m *Metadata) { m.Language = "not-a-language-at-all" }, true},
		{"language name", func(m *Metadata) { m.Language = "Spanish" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validMetadata()
			tt.mutate(&m)
			err := m.Validate()
			if tt.wantErr && err == nil {
				t.Fatalf("Validate() = nil, want error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidMetadata) {
				t.Fatalf("Validate() error = %v, want ErrInvalidMetadata", err)
			}
		})
	}
}

func TestMetadata_ValidateISBN(t *testing.T) {
	tests := []struct {
		isbn    string
		wantErr bool
	}{
		{"9780123456789", false},
		{"978-0-13-468599-1", false},
		{"0123456789", false},
		{"012345678X", false},
		{"012345678x", false},
		{"01234", true},
		{"01234567890123456", true},
		{"978012345678X", true}, // X only allowed in the 10-digit form
		{"0123X56789", true},    // X only allowed in last position
	}

	for _, tt := range tests {
		t.Run(tt.isbn, func(t *testing.T) {
			m := validMetadata()
			m.ISBN = tt.isbn
			err := m.Validate()
			if tt.wantErr && err == nil {
				t.Fatalf("Validate() = nil, want error for isbn %q", tt.isbn)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("Validate() error = %v for isbn %q", err, tt.isbn)
			}
		})
	}
}

func TestMetadata_ResolveIdentifier_ISBN(t *testing.T) {
	m := validMetadata()
	m.ISBN = "9780123456789"
	if got := m.ResolveIdentifier(); got != "9780123456789" {
		t.Fatalf("ResolveIdentifier() = %q, want %q", got, "9780123456789")
	}
}

func TestMetadata_ResolveIdentifier_CleansISBN(t *testing.T) {
	m := validMetadata()
	m.ISBN = "978-0-13-468599-1"
	if got := m.ResolveIdentifier(); got != "9780134685991" {
		t.Fatalf("ResolveIdentifier() = %q, want %q", got, "9780134685991")
	}
}

func TestMetadata_ResolveIdentifier_UUIDFallback(t *testing.T) {
	m := validMetadata()

	first := m.ResolveIdentifier()
	second := m.ResolveIdentifier()

	if first == "" || second == "" {
		t.Fatalf("ResolveIdentifier() returned empty value")
	}
	if first == second {
		t.Fatalf("ResolveIdentifier() returned the same value twice: %q", first)
	}
	if _, err := uuid.Parse(first); err != nil {
		t.Fatalf("ResolveIdentifier() = %q, not a valid UUID: %v", first, err)
	}
}

func TestNormalizeLanguage(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"en", "en", false},
		{"EN", "en", false},
		{"es-MX", "es", false},
		{"English", "en", false},
		{"spanish", "es", false},
		{"Japanese", "ja", false},
		{"", "en", false},
		{"zz-gibberish-!!", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeLanguage(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NormalizeLanguage(%q) = %q, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeLanguage(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("NormalizeLanguage(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
