package catalogue

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/snadrus/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsmerge/tsmerge/lib/langtag"
)

const deCatalogue = `<?xml version="1.0" encoding="utf-8"?>
<!DOCTYPE TS>
<TS version="2.1" language="de">
<context>
    <name>AboutPage</name>
    <message>
        <location filename="../qml/AboutPage.qml" line="10"/>
        <source>About</source>
        <translation>Über</translation>
    </message>
    <message>
        <source>Open</source>
        <comment>verb</comment>
        <translation type="unfinished"></translation>
    </message>
    <message>
        <source></source>
        <translation>ignored</translation>
    </message>
    <message numerus="yes">
        <source>%n item(s)</source>
        <translation type="unfinished">
            <numerusform></numerusform>
            <numerusform></numerusform>
        </translation>
    </message>
</context>
<context>
    <name>MainPage</name>
    <message>
        <source>Open</source>
        <comment>adjective</comment>
        <translation>Offen</translation>
    </message>
</context>
</TS>
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func baseCatalogue(lang string) string {
	attr := ""
	if lang != "" {
		attr = ` language="` + lang + `"`
	}
	return `<?xml version="1.0" encoding="utf-8"?>
<!DOCTYPE TS>
<TS version="2.1"` + attr + `>
<context>
    <name>Main</name>
    <message>
        <source>Hello</source>
        <translation type="unfinished"></translation>
    </message>
</context>
</TS>
`
}

func TestLoad(t *testing.T) {
	p := writeFile(t, t.TempDir(), "app-de.ts", deCatalogue)

	f, err := Load(p, true)
	require.NoError(t, err)

	assert.Equal(t, langtag.Parse("de"), f.Language)
	assert.Equal(t, []string{"About", "Open", "%n item(s)"}, f.Keys())
	assert.Equal(t, 4, f.Len())
	assert.Equal(t, 2, f.Unfinished())

	about := f.Strings("About")[0]
	assert.Equal(t, "AboutPage", about.Context())
	assert.Equal(t, "Über", about.Text())
	assert.True(t, about.Finished())
	assert.True(t, about.HasContent())
	assert.False(t, about.HasPlurals())

	open := f.Strings("Open")
	require.Len(t, open, 2)
	assert.Equal(t, "verb", open[0].Comment())
	assert.Equal(t, "MainPage", open[1].Context())
	assert.False(t, open[0].Finished())

	items := f.Strings("%n item(s)")[0]
	assert.True(t, items.HasPlurals())
	assert.True(t, items.HasPluralNodes())
	assert.Equal(t, []string{"", ""}, items.PluralForms())
	assert.False(t, items.HasContent())

	assert.Equal(t, deCatalogue, string(f.Bytes()))
}

func TestLoadLanguageFromFileName(t *testing.T) {
	dir := t.TempDir()

	f, err := Load(writeFile(t, dir, "app-fr_CA.ts", baseCatalogue("")), true)
	require.NoError(t, err)
	assert.Equal(t, "fr_CA", f.Language.String())

	// a regioned attribute in the wrong case falls back to the file name
	f, err = Load(writeFile(t, dir, "app-de_AT.ts", baseCatalogue("DE_at")), true)
	require.NoError(t, err)
	assert.Equal(t, "de_AT", f.Language.String())

	_, err = Load(writeFile(t, dir, "other.ts", baseCatalogue("DE_at")), true)
	var lme *LanguageMissingError
	assert.True(t, errors.As(err, &lme))

	_, err = Load(writeFile(t, dir, "app.ts", baseCatalogue("")), true)
	assert.True(t, errors.As(err, &lme))

	f, err = Load(filepath.Join(dir, "app.ts"), false)
	require.NoError(t, err)
	assert.True(t, f.Language.Empty())

	_, err = Load(filepath.Join(dir, "missing.ts"), false)
	var pnf *PathNotFoundError
	assert.True(t, errors.As(err, &pnf))
}

func TestSetTranslationLowersRecord(t *testing.T) {
	f := must.One(Load(writeFile(t, t.TempDir(), "app-de.ts", deCatalogue), true))

	open := f.Strings("Open")[0]
	open.SetTranslation(Translation{Finished: true, Text: "Öffnen"})
	assert.Contains(t, string(f.Bytes()), "<comment>verb</comment>\n        <translation>Öffnen</translation>")

	items := f.Strings("%n item(s)")[0]
	items.SetTranslation(Translation{Finished: true, Numerus: true, Forms: []string{"1 Element", "%n Elemente"}})
	out := string(f.Bytes())
	assert.Contains(t, out, "<translation>\n            <numerusform>1 Element</numerusform>\n            <numerusform>%n Elemente</numerusform>\n        </translation>")
	assert.Equal(t, "1 Element | %n Elemente", items.Text())

	about := f.Strings("About")[0]
	about.SetTranslation(Translation{Finished: false, Text: "Info"})
	assert.Contains(t, string(f.Bytes()), `<translation type="unfinished">Info</translation>`)
	assert.Equal(t, 1, f.Unfinished())
}

func TestSetTranslationRebuildsForms(t *testing.T) {
	f := must.One(Load(writeFile(t, t.TempDir(), "app-de.ts", deCatalogue), true))

	items := f.Strings("%n item(s)")[0]
	items.SetTranslation(Translation{Finished: true, Numerus: true, Forms: []string{"a", "b", "c"}})

	reloaded := must.One(Load(writeFile(t, t.TempDir(), "app-de.ts", string(f.Bytes())), true))
	assert.Equal(t, []string{"a", "b", "c"}, reloaded.Strings("%n item(s)")[0].PluralForms())
}

func TestSetComment(t *testing.T) {
	f := must.One(Load(writeFile(t, t.TempDir(), "app-de.ts", deCatalogue), true))

	about := f.Strings("About")[0]
	about.SetComment("page title")
	assert.Equal(t, "page title", about.Comment())
	assert.Contains(t, string(f.Bytes()), "<source>About</source>\n        <comment>page title</comment>\n        <translation>Über</translation>")
}

func TestReplaceWith(t *testing.T) {
	dir := t.TempDir()
	target := must.One(Load(writeFile(t, dir, "a-de.ts", `<TS language="de"><context><name>C</name>
<message><source>%n file(s)</source><translation type="unfinished"></translation></message>
</context></TS>`), true))
	source := must.One(Load(writeFile(t, dir, "b-de.ts", `<TS language="de"><context><name>C</name>
<message numerus="yes"><source>%n file(s)</source><translation><numerusform>%n Datei</numerusform><numerusform>%n Dateien</numerusform></translation></message>
</context></TS>`), true))

	tgt := target.Strings("%n file(s)")[0]
	tgt.ReplaceWith(source.Strings("%n file(s)")[0])

	assert.True(t, tgt.HasPlurals())
	assert.True(t, tgt.Finished())
	assert.Equal(t, "C", tgt.Context())
	assert.Equal(t, []string{"%n Datei", "%n Dateien"}, tgt.PluralForms())
	assert.Contains(t, string(target.Bytes()), `<message numerus="yes"><source>%n file(s)</source><translation><numerusform>%n Datei</numerusform>`)
}

func TestEqualIgnoresContext(t *testing.T) {
	dir := t.TempDir()
	a := must.One(Load(writeFile(t, dir, "a-de.ts", `<TS language="de"><context><name>One</name><message><source>Hi</source><translation>Hallo</translation></message></context></TS>`), true))
	b := must.One(Load(writeFile(t, dir, "b-de.ts", `<TS language="de"><context><name>Two</name><message><source>Hi</source><translation>Hallo</translation></message></context></TS>`), true))
	c := must.One(Load(writeFile(t, dir, "c-de.ts", `<TS language="de"><context><name>One</name><message><source>Hi</source><translation type="unfinished">Hallo</translation></message></context></TS>`), true))

	assert.True(t, a.Strings("Hi")[0].Equal(b.Strings("Hi")[0]))
	assert.False(t, a.Strings("Hi")[0].Equal(c.Strings("Hi")[0]))
}

func TestSetLanguageAndSuffix(t *testing.T) {
	dir := t.TempDir()
	f := must.One(Load(writeFile(t, dir, "app.ts", baseCatalogue("")), false))

	l := langtag.Parse("fr_CA")
	f.SetLanguage(l)
	f.Path = WithLanguageSuffix(f.Path, l)

	assert.Equal(t, filepath.Join(dir, "app-fr_CA.ts"), f.Path)
	assert.Contains(t, string(f.Bytes()), `<TS version="2.1" language="fr_CA">`)

	n, err := f.Save(dir)
	require.NoError(t, err)
	assert.Equal(t, len(f.Bytes()), n)

	reloaded := must.One(Load(f.Path, true))
	assert.Equal(t, l, reloaded.Language)
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app.ts", baseCatalogue(""))
	writeFile(t, dir, "app-de.ts", baseCatalogue("de"))
	writeFile(t, dir, "app-fr.TS", baseCatalogue(""))
	writeFile(t, dir, "notes.txt", "nothing")

	d, err := LoadDirectory(dir, LoadOptions{})
	require.NoError(t, err)
	assert.Len(t, d.Files, 2)
	assert.Contains(t, d.Files, langtag.Parse("de"))
	assert.Contains(t, d.Files, langtag.Parse("fr"))

	d, err = LoadDirectory(dir, LoadOptions{Ignore: []string{filepath.Join(dir, "app-de.ts")}})
	require.NoError(t, err)
	assert.Len(t, d.Files, 1)

	writeFile(t, dir, "other-de.ts", baseCatalogue(""))
	_, err = LoadDirectory(dir, LoadOptions{})
	var dle *DuplicateLanguageError
	require.True(t, errors.As(err, &dle))
	assert.Equal(t, "de", dle.Language.String())
}

func TestLoadDirectorySingleFile(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "app.ts", baseCatalogue(""))

	_, err := LoadDirectory(p, LoadOptions{})
	var pnf *PathNotFoundError
	assert.True(t, errors.As(err, &pnf))

	_, err = LoadDirectory(p, LoadOptions{AllowSingleFile: true, RequireLanguage: true})
	var lme *LanguageMissingError
	assert.True(t, errors.As(err, &lme))

	d, err := LoadDirectory(p, LoadOptions{AllowSingleFile: true})
	require.NoError(t, err)
	assert.Len(t, d.Files, 1)
	assert.Equal(t, dir, d.Path)
}

func TestFindBase(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app.ts", baseCatalogue(""))
	de := writeFile(t, dir, "app-de.ts", baseCatalogue("de"))
	writeFile(t, dir, "app-fr.ts", baseCatalogue("fr"))

	base, err := FindBase(dir, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "app.ts"), base)

	base, err = FindBase(de, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "app.ts"), base)

	other := t.TempDir()
	writeFile(t, other, "app-de.ts", baseCatalogue("de"))
	writeFile(t, other, "app-fr.ts", baseCatalogue("fr"))
	_, err = FindBase(other, "")
	var pnf *PathNotFoundError
	require.True(t, errors.As(err, &pnf))
	assert.Equal(t, BaseHint, pnf.Hint)
	assert.Contains(t, err.Error(), "--base")
}

func TestAnnotate(t *testing.T) {
	f := must.One(Load(writeFile(t, t.TempDir(), "app-de.ts", deCatalogue), true))

	about := f.Strings("About")[0]
	assert.True(t, about.Annotate("alternative translation: Info"))
	assert.False(t, about.Annotate("alternative translation: Info"))
	assert.True(t, about.Annotate("a -- b"))

	out := string(f.Bytes())
	assert.Contains(t, out, "<source>About</source>\n        <!-- alternative translation: Info -->\n        <!-- a - - b -->\n        <translation>Über</translation>")

	reloaded := must.One(Load(writeFile(t, t.TempDir(), "app-de.ts", out), true))
	assert.Equal(t, "Über", reloaded.Strings("About")[0].Text())
	assert.False(t, reloaded.Strings("About")[0].Annotate("alternative translation: Info"))
}
