package catalogue

import "strings"

// String is one occurrence of a source text inside a File.
type String struct {
	file *File
	id   EntryID
}

func (s String) entry() *entry {
	return &s.file.entries[s.id]
}

// Valid reports whether s refers to a message.
func (s String) Valid() bool {
	return s.file != nil
}

func (s String) File() *File {
	return s.file
}

func (s String) ID() EntryID {
	return s.id
}

// Origin is the absolute path of the catalogue holding s.
func (s String) Origin() string {
	return s.file.Origin()
}

func (s String) Source() string {
	return s.entry().source
}

func (s String) Context() string {
	return s.entry().context
}

func (s String) Comment() string {
	return s.entry().comment
}

func (s String) Finished() bool {
	return s.entry().tr.Finished
}

func (s String) HasPlurals() bool {
	return s.entry().tr.Numerus
}

// HasPluralNodes reports whether the translation holds numerusform children,
// independent of the numerus marker.
func (s String) HasPluralNodes() bool {
	return s.entry().formNodes
}

func (s String) PluralForms() []string {
	return append([]string(nil), s.entry().tr.Forms...)
}

// Translation returns a copy of the translation record.
func (s String) Translation() Translation {
	return s.entry().tr.clone()
}

// Text renders the translation. Plural forms are joined with " | ", a list of
// empty forms renders as the empty string.
func (s String) Text() string {
	tr := &s.entry().tr
	if len(tr.Forms) == 0 {
		return tr.Text
	}
	for _, f := range tr.Forms {
		if f != "" {
			return strings.Join(tr.Forms, " | ")
		}
	}
	return ""
}

func (s String) HasContent() bool {
	return s.Text() != ""
}

// Equal compares the content of two occurrences. The context is left out so
// that identical content under a different context counts as unchanged.
func (s String) Equal(o String) bool {
	return s.Source() == o.Source() &&
		s.HasPlurals() == o.HasPlurals() &&
		s.Finished() == o.Finished() &&
		s.Comment() == o.Comment() &&
		s.Text() == o.Text()
}

func (s String) SetComment(comment string) {
	s.file.setComment(s.id, comment)
}

// Annotate adds note as an XML comment in front of the translation. It
// reports false when the message already carries the same note.
func (s String) Annotate(note string) bool {
	return s.file.annotate(s.id, note)
}

func (s String) SetTranslation(tr Translation) {
	s.file.setTranslation(s.id, tr)
}

// ReplaceWith replaces the whole message with a copy of src.
func (s String) ReplaceWith(src String) {
	s.file.replace(s.id, src)
}
