// Package catalogue loads Qt translation catalogues (.ts files) into memory.
//
// A File owns the parsed node arena of one catalogue. Every translatable
// message is exposed as a String, a lightweight handle that routes reads and
// writes through its File. Each message is kept as an explicit Translation
// record which is lowered back into the node shape whenever it changes.
package catalogue

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	logging "github.com/ipfs/go-log/v2"
	"golang.org/x/xerrors"

	"github.com/tsmerge/tsmerge/lib/langtag"
	"github.com/tsmerge/tsmerge/lib/tsxml"
)

var log = logging.Logger("catalogue")

// fileLangRe matches a "-xx" or "-xx_YY" suffix in front of the extension.
var fileLangRe = regexp.MustCompile(`^.*?-([a-z]{2}(?:[-_][A-Z]{2})?)\.[tT][sS]$`)

type EntryID int

// Translation is the translation record of one message.
type Translation struct {
	Finished bool
	// Numerus is set when the developer enabled plural support for the message.
	Numerus bool
	Text    string
	Forms   []string
}

func (t Translation) clone() Translation {
	t.Forms = append([]string(nil), t.Forms...)
	return t
}

type entry struct {
	message     tsxml.NodeID
	translation tsxml.NodeID

	source  string
	context string
	comment string
	tr      Translation
	// formNodes reports whether the translation holds numerusform children.
	formNodes bool
}

// File is one catalogue loaded from disk.
type File struct {
	Path     string
	Language langtag.Language

	doc     *tsxml.Document
	entries []entry
	strings map[string][]EntryID
	keys    []string
}

// Load reads the catalogue at path. When requireLanguage is set a catalogue
// without a language fails with *LanguageMissingError, otherwise it is
// returned with the empty language.
func Load(path string, requireLanguage bool) (*File, error) {
	st, err := os.Stat(path)
	if err != nil || st.IsDir() {
		return nil, &PathNotFoundError{Path: path}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, xerrors.Errorf("reading catalogue %s: %w", path, err)
	}

	doc, err := tsxml.Parse(data)
	if err != nil {
		return nil, xerrors.Errorf("loading catalogue %s: %w", path, err)
	}

	f := &File{
		Path:    path,
		doc:     doc,
		strings: map[string][]EntryID{},
	}

	root := doc.DocumentElement()
	for _, ctx := range doc.Descendants(root, "context") {
		ctxName := ""
		if n := doc.FirstChild(ctx, "name"); n != tsxml.NoNode {
			ctxName = doc.Text(n)
		}

		for _, msg := range doc.ChildElements(ctx, "message") {
			src := doc.FirstChild(msg, "source")
			if src == tsxml.NoNode || doc.Text(src) == "" {
				continue
			}

			e := f.readEntry(msg)
			e.context = ctxName
			f.add(e)
		}
	}

	if lang, ok := doc.Attr(root, "language"); ok {
		f.Language = langtag.Parse(lang)
	}
	if f.Language.Empty() {
		if m := fileLangRe.FindStringSubmatch(filepath.Base(path)); m != nil {
			f.Language = langtag.Parse(m[1])
		}
	}
	if f.Language.Empty() && requireLanguage {
		return nil, &LanguageMissingError{Path: path}
	}

	log.Debugw("loaded catalogue", "path", path, "language", f.Language.String(), "strings", len(f.entries))
	return f, nil
}

func (f *File) add(e entry) {
	id := EntryID(len(f.entries))
	f.entries = append(f.entries, e)
	if _, ok := f.strings[e.source]; !ok {
		f.keys = append(f.keys, e.source)
	}
	f.strings[e.source] = append(f.strings[e.source], id)
}

func (f *File) readEntry(msg tsxml.NodeID) entry {
	doc := f.doc
	e := entry{
		message:     msg,
		translation: doc.FirstChild(msg, "translation"),
		source:      doc.Text(doc.FirstChild(msg, "source")),
	}
	if c := doc.FirstChild(msg, "comment"); c != tsxml.NoNode {
		e.comment = doc.Text(c)
	}

	numerus, _ := doc.Attr(msg, "numerus")
	e.tr.Numerus = numerus == "yes"
	e.tr.Finished = true

	if tr := e.translation; tr != tsxml.NoNode {
		if v, _ := doc.Attr(tr, "numerus"); v == "yes" {
			e.tr.Numerus = true
		}
		if typ, _ := doc.Attr(tr, "type"); typ == "unfinished" {
			e.tr.Finished = false
		}

		forms := doc.ChildElements(tr, "numerusform")
		e.formNodes = len(forms) > 0
		if e.formNodes {
			for _, n := range forms {
				e.tr.Forms = append(e.tr.Forms, doc.Text(n))
			}
		} else {
			e.tr.Text = doc.Text(tr)
		}
	}
	return e
}

// Keys returns every source text in document order.
func (f *File) Keys() []string {
	return f.keys
}

// Strings returns the occurrences of the source text key in document order.
func (f *File) Strings(key string) []String {
	ids := f.strings[key]
	out := make([]String, len(ids))
	for i, id := range ids {
		out[i] = String{file: f, id: id}
	}
	return out
}

// Len returns the number of translatable messages.
func (f *File) Len() int {
	return len(f.entries)
}

// Unfinished counts the messages carrying the unfinished marker.
func (f *File) Unfinished() int {
	n := 0
	for _, e := range f.entries {
		if !e.tr.Finished {
			n++
		}
	}
	return n
}

// Origin is the absolute path of the catalogue.
func (f *File) Origin() string {
	abs, err := filepath.Abs(f.Path)
	if err != nil {
		return f.Path
	}
	return abs
}

// Name is the file name of the catalogue.
func (f *File) Name() string {
	return filepath.Base(f.Path)
}

// SetLanguage assigns l and rewrites the declared language of the catalogue.
func (f *File) SetLanguage(l langtag.Language) {
	f.Language = l
	f.doc.SetAttr(f.doc.DocumentElement(), "language", l.String())
}

// Bytes serializes the catalogue.
func (f *File) Bytes() []byte {
	return f.doc.Bytes()
}

// Save writes the catalogue into dir under its file name in a single write.
func (f *File) Save(dir string) (int, error) {
	data := f.Bytes()
	out := filepath.Join(dir, f.Name())
	if err := os.WriteFile(out, data, 0644); err != nil {
		return 0, xerrors.Errorf("writing catalogue %s: %w", out, err)
	}
	return len(data), nil
}

// WithLanguageSuffix inserts "-<lang>" in front of the extension of path.
func WithLanguageSuffix(path string, l langtag.Language) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "-" + l.String() + ext
}

func (f *File) setComment(id EntryID, comment string) {
	e := &f.entries[id]
	doc := f.doc

	c := doc.FirstChild(e.message, "comment")
	if c == tsxml.NoNode {
		c = doc.NewElement("comment")
		ref := e.translation
		if ref == tsxml.NoNode {
			doc.AppendChild(e.message, c)
		} else {
			ws := f.indentBefore(e.message, ref)
			doc.InsertBefore(e.message, c, ref)
			doc.InsertBefore(e.message, doc.NewText(ws), ref)
		}
	}
	doc.SetText(c, comment)
	e.comment = comment
}

// annotate places an XML comment in front of the translation of id unless the
// message already carries the same one.
func (f *File) annotate(id EntryID, note string) bool {
	e := &f.entries[id]
	doc := f.doc

	text := " " + strings.ReplaceAll(note, "--", "- -") + " "
	for _, c := range doc.Children(e.message) {
		if doc.Kind(c) == tsxml.CommentNode && doc.Text(c) == text {
			return false
		}
	}

	c := doc.NewComment(text)
	if e.translation == tsxml.NoNode {
		doc.AppendChild(e.message, c)
		return true
	}
	ws := f.indentBefore(e.message, e.translation)
	doc.InsertBefore(e.message, c, e.translation)
	doc.InsertBefore(e.message, doc.NewText(ws), e.translation)
	return true
}

func (f *File) setTranslation(id EntryID, tr Translation) {
	e := &f.entries[id]
	doc := f.doc

	if e.translation == tsxml.NoNode {
		e.translation = doc.NewElement("translation")
		doc.AppendChild(e.message, doc.NewText("    "))
		doc.AppendChild(e.message, e.translation)
		doc.AppendChild(e.message, doc.NewText(f.indentBefore(doc.Parent(e.message), e.message)))
	}
	trNode := e.translation

	typ, has := doc.Attr(trNode, "type")
	if tr.Finished {
		if typ == "unfinished" || (has && typ == "") {
			doc.RemoveAttr(trNode, "type")
		}
	} else {
		doc.SetAttr(trNode, "type", "unfinished")
	}

	if len(tr.Forms) > 0 {
		existing := doc.ChildElements(trNode, "numerusform")
		if len(existing) == len(tr.Forms) {
			for i, n := range existing {
				doc.SetText(n, tr.Forms[i])
			}
		} else {
			closing := f.indentBefore(e.message, trNode)
			indent := closing + "    "
			var children []tsxml.NodeID
			for _, form := range tr.Forms {
				n := doc.NewElement("numerusform")
				doc.SetText(n, form)
				children = append(children, doc.NewText(indent), n)
			}
			children = append(children, doc.NewText(closing))
			doc.ReplaceChildren(trNode, children)
		}
	} else {
		doc.SetText(trNode, tr.Text)
	}

	e.tr = tr.clone()
	e.formNodes = len(tr.Forms) > 0
}

// replace swaps the whole content of the message id for a copy of src.
func (f *File) replace(id EntryID, src String) {
	e := &f.entries[id]
	se := src.entry()
	sdoc := src.file.doc

	if v, ok := sdoc.Attr(se.message, "numerus"); ok {
		f.doc.SetAttr(e.message, "numerus", v)
	} else {
		f.doc.RemoveAttr(e.message, "numerus")
	}

	var children []tsxml.NodeID
	for _, c := range sdoc.Children(se.message) {
		children = append(children, f.doc.CopyFrom(sdoc, c))
	}
	f.doc.ReplaceChildren(e.message, children)

	ctx := e.context
	*e = f.readEntry(e.message)
	e.context = ctx
}

// indentBefore returns the whitespace text directly in front of child, with
// a newline fallback when there is none.
func (f *File) indentBefore(parent, child tsxml.NodeID) string {
	prev := tsxml.NoNode
	for _, c := range f.doc.Children(parent) {
		if c == child {
			break
		}
		prev = c
	}
	if prev != tsxml.NoNode && f.doc.Kind(prev) == tsxml.TextNode {
		if ws := f.doc.Text(prev); strings.TrimSpace(ws) == "" {
			return ws
		}
	}
	return "\n"
}
