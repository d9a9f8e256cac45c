package pipeline

import (
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-multierror"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/xerrors"

	"github.com/tsmerge/tsmerge/lib/catalogue"
)

// toSave lists the target catalogues written by the run. Catalogues without a
// source are only copied when writing to a separate output directory.
func (m *Merger) toSave() []*catalogue.File {
	separate := absOf(m.outDir) != absOf(m.target.Path)

	var files []*catalogue.File
	for _, t := range m.target.Sorted() {
		if m.match.Paired(t) || separate {
			files = append(files, t)
		}
	}
	return files
}

func (m *Merger) save() error {
	m.printf("%s\n", heading.Render("saving files..."))

	files := m.toSave()
	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetWriter(m.out),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("saving"),
		progressbar.OptionOnCompletion(func() { m.printf("\n") }),
	)

	var merr error
	var total uint64
	for _, f := range files {
		n, err := f.Save(m.outDir)
		if err != nil {
			log.Errorw("saving catalogue failed", "path", f.Path, "error", err)
			merr = multierror.Append(merr, err)
		} else {
			total += uint64(n)
			m.summary.Saved = append(m.summary.Saved, filepath.Join(m.outDir, f.Name()))
		}
		_ = bar.Add(1)
	}

	m.printf("saved %d files (%s) to %s\n", len(m.summary.Saved), humanize.Bytes(total), m.outDir)
	if merr != nil {
		return xerrors.Errorf("saving catalogues: %w", merr)
	}
	return nil
}

func absOf(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	return abs
}
