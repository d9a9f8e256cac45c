package pipeline

import (
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/hako/durafmt"
	"golang.org/x/xerrors"

	"github.com/tsmerge/tsmerge/lib/catalogue"
	"github.com/tsmerge/tsmerge/lib/resolve"
)

var (
	heading = lipgloss.NewStyle().
		Align(lipgloss.Left).
		Bold(true)

	section = lipgloss.NewStyle().
		Align(lipgloss.Left).
		Bold(true).
		Underline(true).
		MarginTop(1)

	notice = lipgloss.NewStyle().
		Align(lipgloss.Left).
		Foreground(lipgloss.Color("#CCCCCC")).
		Width(72).
		MarginBottom(1)
)

const ambiguousText = `There were ambiguous strings. The translations already present in the targets were kept and the alternatives are listed below. Run again with --interactive to choose between them, or with --overwrite to always take the sources.

It is advisable to go through the list and make sure all strings are used correctly. This rarely requires specific language skills.`

const unmatchedText = `There were files without any matching translation files. This might be a chance to contribute translations back.`

const unhandledText = `There were files that could not be handled at all. Pass a base catalogue with --base or --auto-base to create the missing targets.

Base catalogues contain only untranslated strings and define no language. They are never listed here.`

func (m *Merger) report() error {
	if m.book.Strings() > 0 {
		m.printf("%s\n%s\n", section.Render("AMBIGUOUS STRINGS"), notice.Render(ambiguousText))
		if err := resolve.Report(m.out, m.book); err != nil {
			return xerrors.Errorf("writing report: %w", err)
		}
	}

	if m.opts.ReportPath != "" {
		if err := m.export(); err != nil {
			return err
		}
	}

	if len(m.summary.NoMatch) > 0 {
		m.printf("%s\n%s\n", section.Render("UNMATCHED FILES"), notice.Render(unmatchedText))
		m.printf("NO MATCHING FILES FOR:\n")
		m.listFiles(m.summary.NoMatch)
	}

	if len(m.summary.Unhandled) > 0 {
		m.printf("%s\n%s\n", section.Render("UNHANDLED FILES"), notice.Render(unhandledText))
		m.printf("UNHANDLED FILES:\n")
		m.listFiles(m.summary.Unhandled)
	}

	if len(m.summary.Synthesized) > 0 {
		m.printf("%s\n", section.Render("CREATED FILES"))
		m.listFiles(m.summary.Synthesized)
	}

	hint := m.cfg.Report.LupdateHint
	m.printf("%s\n", section.Render("CONCLUSION"))
	m.printf("Run %s on the updated files to make sure they are formatted correctly.\n\n", hint)
	m.printf("Examples:\n    %s qml src -ts translations/*.ts\n\n", hint)
	m.printf("finished in %s\n", durafmt.Parse(time.Since(m.start).Round(time.Millisecond)).LimitFirstN(2))
	return nil
}

func (m *Merger) listFiles(files []*catalogue.File) {
	for _, f := range files {
		m.printf("- %s: %s\n", f.Language, f.Path)
	}
	m.printf("\n")
}

func (m *Merger) export() error {
	f, err := os.Create(m.opts.ReportPath)
	if err != nil {
		return xerrors.Errorf("creating report: %w", err)
	}
	if err := resolve.Export(f, m.book); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return xerrors.Errorf("closing report: %w", err)
	}
	m.printf("wrote %d pending alternatives to %s\n", m.book.Len(), m.opts.ReportPath)
	return nil
}
