package catalogue

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/tsmerge/tsmerge/lib/langtag"
)

// PathNotFoundError is returned when a referenced file or directory does not exist.
type PathNotFoundError struct {
	Path string
	// Hint tells the user how to proceed, it may be empty.
	Hint string
}

func (e *PathNotFoundError) Error() string {
	msg := fmt.Sprintf("path not found: %q", e.Path)
	if e.Hint != "" {
		msg += " (" + e.Hint + ")"
	}
	return msg
}

// LanguageMissingError is returned when neither the catalogue nor its file name declare a language.
type LanguageMissingError struct {
	Path string
}

func (e *LanguageMissingError) Error() string {
	return fmt.Sprintf("cannot determine language of catalogue %q", e.Path)
}

// DuplicateLanguageError is returned when two catalogues of one collection share a language.
type DuplicateLanguageError struct {
	Language langtag.Language
	Paths    []string
}

func (e *DuplicateLanguageError) Error() string {
	return fmt.Sprintf("language %q is already registered: %s", e.Language,
		strings.Join(lo.Map(e.Paths, func(p string, _ int) string { return fmt.Sprintf("%q", p) }), ", "))
}
