// Package pipeline runs a complete merge: collect, match, merge, resolve,
// save and report.
package pipeline

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	logging "github.com/ipfs/go-log/v2"
	"golang.org/x/term"
	"golang.org/x/xerrors"

	"github.com/tsmerge/tsmerge/deps/config"
	"github.com/tsmerge/tsmerge/lib/catalogue"
	"github.com/tsmerge/tsmerge/lib/matcher"
	"github.com/tsmerge/tsmerge/lib/merge"
	"github.com/tsmerge/tsmerge/lib/outdir"
	"github.com/tsmerge/tsmerge/lib/picker"
	"github.com/tsmerge/tsmerge/lib/resolve"
)

var log = logging.Logger("pipeline")

// ErrBaseConflict is returned when both an explicit and an auto detected base are requested.
var ErrBaseConflict = errors.New("--base and --auto-base are mutually exclusive")

type Options struct {
	Sources []string
	Target  string

	// Output is the directory merged catalogues are written to. Empty means
	// the target directory, which needs Force.
	Output string
	Force  bool

	Overwrite   bool
	Interactive bool

	// Base is the untranslated catalogue used to create missing targets.
	Base     string
	AutoBase bool

	// ReportPath receives pending alternatives as YAML when set.
	ReportPath string

	Config *config.TsMergeConfig

	// Out receives progress and the final report, os.Stdout if nil.
	Out io.Writer
	// Chooser overrides the terminal picker in interactive mode.
	Chooser resolve.Chooser
}

// Summary describes the outcome of a run.
type Summary struct {
	Changes int
	// Alternatives counts every alternative found while merging.
	Alternatives int
	// Pending counts the strings still ambiguous after resolution.
	Pending  int
	Resolved int
	Saved    []string
	Aborted  bool

	NoMatch     []*catalogue.File
	Unhandled   []*catalogue.File
	Synthesized []*catalogue.File
}

// Merger holds the state of one run.
type Merger struct {
	opts Options
	cfg  *config.TsMergeConfig
	out  io.Writer

	base    string
	outDir  string
	lock    io.Closer
	target  *catalogue.Directory
	sources []*catalogue.Directory
	match   *matcher.Result
	book    *resolve.Book

	summary Summary
	start   time.Time
}

// Run executes every stage in order. Setup problems are returned before any
// catalogue is written.
func Run(opts Options) (*Summary, error) {
	m, err := newMerger(opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := m.lock.Close(); err != nil {
			log.Warnw("releasing output lock", "error", err)
		}
	}()

	if err := m.collect(); err != nil {
		return nil, err
	}
	if err := m.matchLanguages(); err != nil {
		return nil, err
	}
	m.merge()

	if err := m.resolve(); err != nil {
		return nil, err
	}

	saveErr := m.save()
	if m.summary.Aborted {
		m.printf("\n%s\n", color.YellowString("aborted by user, merged changes were saved"))
		return &m.summary, saveErr
	}

	if err := m.report(); err != nil {
		return nil, err
	}
	return &m.summary, saveErr
}

func newMerger(opts Options) (*Merger, error) {
	if len(opts.Sources) == 0 || opts.Target == "" {
		return nil, xerrors.Errorf("at least one source and a target are required")
	}
	if opts.Base != "" && opts.AutoBase {
		return nil, ErrBaseConflict
	}

	m := &Merger{
		opts:  opts,
		cfg:   opts.Config,
		out:   opts.Out,
		book:  resolve.NewBook(),
		start: time.Now(),
	}
	if m.cfg == nil {
		m.cfg = config.DefaultTsMergeConfig()
	}
	if m.out == nil {
		m.out = os.Stdout
	}

	st, err := os.Stat(opts.Target)
	if err != nil {
		return nil, &catalogue.PathNotFoundError{Path: opts.Target}
	}
	for _, src := range opts.Sources {
		if _, err := os.Stat(src); err != nil {
			return nil, &catalogue.PathNotFoundError{Path: src}
		}
	}
	targetDir := opts.Target
	if !st.IsDir() {
		targetDir = filepath.Dir(opts.Target)
	}

	switch {
	case opts.AutoBase:
		m.base, err = catalogue.FindBase(opts.Target, m.cfg.Catalogue.Pattern)
		if err != nil {
			return nil, err
		}
		log.Infow("detected base catalogue", "path", m.base)
	case opts.Base != "":
		if st, err := os.Stat(opts.Base); err != nil || st.IsDir() {
			return nil, &catalogue.PathNotFoundError{Path: opts.Base}
		}
		m.base = opts.Base
	}

	m.outDir, m.lock, err = outdir.Prepare(opts.Output, targetDir, opts.Force)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Merger) printf(format string, a ...interface{}) {
	_, _ = fmt.Fprintf(m.out, format, a...)
}

func (m *Merger) collect() error {
	m.printf("%s\n", heading.Render("collecting files..."))

	var ignore []string
	if m.base != "" {
		ignore = append(ignore, m.base)
	}

	target, err := catalogue.LoadDirectory(m.opts.Target, catalogue.LoadOptions{
		AllowSingleFile: true,
		RequireLanguage: true,
		Ignore:          ignore,
		Pattern:         m.cfg.Catalogue.Pattern,
	})
	if err != nil {
		return xerrors.Errorf("loading target: %w", err)
	}
	m.target = target

	for _, s := range m.opts.Sources {
		d, err := catalogue.LoadDirectory(s, catalogue.LoadOptions{
			AllowSingleFile: true,
			RequireLanguage: true,
			Ignore:          ignore,
			Pattern:         m.cfg.Catalogue.Pattern,
		})
		if err != nil {
			return xerrors.Errorf("loading source: %w", err)
		}
		m.sources = append(m.sources, d)
	}
	return nil
}

func (m *Merger) matchLanguages() error {
	m.printf("%s\n", heading.Render("matching languages..."))

	res, err := matcher.Match(m.target, m.sources, m.base)
	if err != nil {
		return err
	}
	m.match = res
	m.summary.NoMatch = res.NoMatch
	m.summary.Unhandled = res.Unhandled
	m.summary.Synthesized = res.Synthesized

	for _, p := range res.Pairs {
		m.printf("%s: %s\n", describe(p.Target), p.Target.Path)
		for _, s := range p.Sources {
			m.printf("- %s (%s)\n", s.Path, s.Language)
		}
	}
	for _, t := range res.NoMatch {
		m.printf("%s: %s\n- no matching files found\n", describe(t), t.Path)
	}
	return nil
}

func (m *Merger) merge() {
	m.printf("%s\n", heading.Render("merging files..."))

	engine := &merge.Engine{
		Contexts:  merge.NewContextEquivalence(m.cfg.Merge.EquivalentContexts),
		Overwrite: m.opts.Overwrite || m.cfg.Merge.Overwrite,
		Annotate:  m.cfg.Merge.AnnotateAlternatives,
	}

	for _, p := range m.match.Pairs {
		m.printf("%s: %s\n", p.Target.Language, p.Target.Path)
		changes, alternatives := 0, 0

		for _, s := range p.Sources {
			res := engine.MergePair(s, p.Target)
			m.book.Add(res.Alternatives...)
			changes += res.Changes
			alternatives += len(res.Alternatives)
			m.printf("- %s (%s) %s\n", s.Path, s.Language, counts(res.Changes, len(res.Alternatives)))
		}

		m.printf("- total changes: %s\n", counts(changes, alternatives))
		m.summary.Changes += changes
		m.summary.Alternatives += alternatives
	}

	m.printf("\noverall changes: %s\n", color.GreenString("+%d", m.summary.Changes))
	m.printf("overall ambiguous strings: %s\n\n", color.YellowString("%d", m.book.Strings()))
}

func (m *Merger) resolve() error {
	defer func() { m.summary.Pending = m.book.Strings() }()

	if !m.opts.Interactive || m.book.Strings() == 0 {
		return nil
	}

	ch := m.opts.Chooser
	if ch == nil {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			log.Warnw("stdin is not a terminal, falling back to the batch report")
			return nil
		}
		ch = picker.New(m.cfg.Interactive.PageSize)
	}

	m.printf("%s\n", heading.Render("resolving ambiguous strings..."))
	st, err := resolve.NewSession(ch).Run(m.book)
	m.summary.Resolved = st.Resolved
	m.summary.Changes += st.Changes
	if err != nil {
		if errors.Is(err, resolve.ErrAborted) {
			m.summary.Aborted = true
			return nil
		}
		return err
	}

	m.printf("resolved %d strings, %s changes\n", st.Resolved, color.GreenString("+%d", st.Changes))
	return nil
}

func describe(f *catalogue.File) string {
	return fmt.Sprintf("%s (%s)", f.Language, f.Language.DisplayName())
}

func counts(changes, alternatives int) string {
	return fmt.Sprintf("[%s / %s]", color.GreenString("+%d", changes), color.YellowString("%d", alternatives))
}
