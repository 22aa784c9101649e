package book

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// languageNames maps English language names to their two-letter codes.
// Kept for callers that supply a spelled-out name instead of a tag.
var languageNames = map[string]string{
	"english":    "en",
	"spanish":    "es",
	"french":     "fr",
	"german":     "de",
	"italian":    "it",
	"portuguese": "pt",
	"dutch":      "nl",
	"russian":    "ru",
	"japanese":   "ja",
	"chinese":    "zh",
	"korean":     "ko",
	"arabic":     "ar",
	"hindi":      "hi",
	"polish":     "pl",
	"swedish":    "sv",
	"norwegian":  "no",
	"danish":     "da",
	"finnish":    "fi",
	"turkish":    "tr",
	"greek":      "el",
	"czech":      "cs",
	"ukrainian":  "uk",
	"hebrew":     "he",
}

// NormalizeLanguage turns a language name ("Spanish") or BCP 47 tag ("es-MX")
// into a two-letter lowercase code. An empty input defaults to "en".
func NormalizeLanguage(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "en", nil
	}

	if code, ok := languageNames[strings.ToLower(s)]; ok {
		return code, nil
	}

	tag, err := language.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w: unrecognized language %q", ErrInvalidMetadata, s)
	}
	base, _ := tag.Base()
	code := base.String()
	if len(code) != 2 {
		return "", fmt.Errorf("%w: language %q has no 2-letter code", ErrInvalidMetadata, s)
	}
	return strings.ToLower(code), nil
}
