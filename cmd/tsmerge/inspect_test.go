package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/snadrus/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsmerge/tsmerge/lib/catalogue"
)

const deCatalogue = `<?xml version="1.0" encoding="utf-8"?>
<!DOCTYPE TS>
<TS version="2.1" language="de">
<context>
    <name>Main</name>
    <message>
        <source>Hello</source>
        <translation>Hallo</translation>
    </message>
    <message>
        <source>Bye</source>
        <translation type="unfinished"></translation>
    </message>
</context>
</TS>
`

func TestPrintCatalogues(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app-de.ts"), []byte(deCatalogue), 0644))

	d := must.One(catalogue.LoadDirectory(dir, catalogue.LoadOptions{}))

	var buf bytes.Buffer
	require.NoError(t, printCatalogues(&buf, d))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	assert.Contains(t, string(lines[0]), "LANGUAGE")
	assert.Regexp(t, `^de\s+German\s+2\s+1\s+\d+ B\s+`, string(lines[1]))
}
