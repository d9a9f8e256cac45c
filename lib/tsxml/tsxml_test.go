package tsxml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `<?xml version="1.0" encoding="utf-8"?>
<!DOCTYPE TS>
<TS version="2.1" language="de">
<context>
    <name>Main</name>
    <message>
        <location filename="../qml/Main.qml" line="12"/>
        <source>Don&apos;t &quot;panic&quot;</source>
        <translation type="unfinished"/>
    </message>
    <!-- keep me -->
</context>
</TS>
`

func TestRoundTripUntouched(t *testing.T) {
	doc, err := Parse([]byte(sample))
	require.NoError(t, err)
	assert.Equal(t, sample, string(doc.Bytes()))
}

func TestQueries(t *testing.T) {
	doc, err := Parse([]byte(sample))
	require.NoError(t, err)

	ts := doc.DocumentElement()
	assert.Equal(t, "TS", doc.Name(ts))
	lang, ok := doc.Attr(ts, "language")
	assert.True(t, ok)
	assert.Equal(t, "de", lang)

	msgs := doc.Descendants(ts, "message")
	require.Len(t, msgs, 1)
	src := doc.FirstChild(msgs[0], "source")
	assert.Equal(t, `Don't "panic"`, doc.Text(src))
	assert.Equal(t, NoNode, doc.FirstChild(msgs[0], "comment"))
}

func TestSetTextOnSelfClosingElement(t *testing.T) {
	doc, err := Parse([]byte(sample))
	require.NoError(t, err)

	msg := doc.Descendants(doc.DocumentElement(), "message")[0]
	tr := doc.FirstChild(msg, "translation")
	doc.SetText(tr, "Keine <Panik>")
	doc.RemoveAttr(tr, "type")

	out := string(doc.Bytes())
	assert.Contains(t, out, `<translation>Keine &lt;Panik&gt;</translation>`)
	assert.Contains(t, out, `<location filename="../qml/Main.qml" line="12"/>`)
	assert.Contains(t, out, `<source>Don&apos;t &quot;panic&quot;</source>`)
	assert.Contains(t, out, `<!-- keep me -->`)
}

func TestSetAttrRegeneratesStartTag(t *testing.T) {
	doc, err := Parse([]byte(sample))
	require.NoError(t, err)

	doc.SetAttr(doc.DocumentElement(), "language", "fr_CA")
	out := string(doc.Bytes())
	assert.Contains(t, out, `<TS version="2.1" language="fr_CA">`)
	assert.Contains(t, out, "</TS>\n")
}

func TestInsertBeforeAndCopy(t *testing.T) {
	src, err := Parse([]byte(sample))
	require.NoError(t, err)
	dst, err := Parse([]byte(`<TS><context><name>X</name></context></TS>`))
	require.NoError(t, err)

	msg := src.Descendants(src.DocumentElement(), "message")[0]
	ctx := dst.FirstChild(dst.DocumentElement(), "context")
	name := dst.FirstChild(ctx, "name")

	cp := dst.CopyFrom(src, msg)
	dst.AppendChild(ctx, cp)
	c := dst.NewElement("comment")
	dst.SetText(c, "hint")
	dst.InsertBefore(cp, c, dst.FirstChild(cp, "source"))
	dst.InsertBefore(ctx, dst.NewText("\n"), name)

	out := string(dst.Bytes())
	assert.Contains(t, out, `<comment>hint</comment><source>Don&apos;t &quot;panic&quot;</source>`)
	assert.Equal(t, cp, dst.Parent(c))
	assert.Equal(t, "hint", dst.Text(c))
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte(`<TS><context>`))
	assert.Error(t, err)

	_, err = Parse([]byte(``))
	assert.Error(t, err)
}

func TestNewComment(t *testing.T) {
	doc, err := Parse([]byte(`<TS><message><source>Hi</source></message></TS>`))
	require.NoError(t, err)

	msg := doc.FirstChild(doc.DocumentElement(), "message")
	c := doc.NewComment(" note ")
	doc.InsertBefore(msg, c, doc.FirstChild(msg, "source"))

	assert.Equal(t, CommentNode, doc.Kind(c))
	assert.Equal(t, " note ", doc.Text(c))
	assert.Equal(t, "Hi", doc.Text(msg))
	assert.Equal(t, `<TS><message><!-- note --><source>Hi</source></message></TS>`, string(doc.Bytes()))
}
