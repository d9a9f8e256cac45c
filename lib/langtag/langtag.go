// Package langtag parses the language tags used by translation catalogues.
//
// A tag is either a bare two letter language code ("de") or a language code
// followed by a two letter region ("de_CH", "de-CH"). Bare codes are case
// insensitive, regioned tags must be lower case language and upper case
// region. The canonical form always uses an underscore. The zero Language denotes an untranslated base catalogue.
package langtag

import (
	"regexp"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

var (
	bareRe     = regexp.MustCompile(`^([a-zA-Z]{2})$`)
	regionedRe = regexp.MustCompile(`^([a-z]{2})[_-]([A-Z]{2})$`)
)

// Language is a language code with an optional region.
type Language struct {
	Lang string
	Area string
}

// Parse returns the zero Language if tag is not a recognised language tag.
func Parse(tag string) Language {
	tag = strings.TrimSpace(tag)
	if m := regionedRe.FindStringSubmatch(tag); m != nil {
		return Language{Lang: m[1], Area: m[2]}
	}
	if m := bareRe.FindStringSubmatch(tag); m != nil {
		return Language{Lang: strings.ToLower(m[1])}
	}
	return Language{}
}

// Empty reports whether the language could not be determined.
func (l Language) Empty() bool {
	return l.Lang == ""
}

// IsSubsetOf reports whether a catalogue in l can provide translations for a
// catalogue in other. An unregionalized language matches every region.
func (l Language) IsSubsetOf(other Language) bool {
	if l.Lang != other.Lang {
		return false
	}
	if l.Area != "" && other.Area != "" && l.Area != other.Area {
		return false
	}
	return true
}

func (l Language) String() string {
	if l.Area == "" {
		return l.Lang
	}
	return l.Lang + "_" + l.Area
}

// DisplayName returns the English name of the language, e.g. "Canadian French".
// It falls back to the tag when x/text does not know the code.
func (l Language) DisplayName() string {
	if l.Empty() {
		return "untranslated"
	}
	bcp := l.Lang
	if l.Area != "" {
		bcp += "-" + l.Area
	}
	tag, err := language.Parse(bcp)
	if err != nil {
		return l.String()
	}
	name := display.English.Tags().Name(tag)
	if name == "" {
		return l.String()
	}
	return name
}
