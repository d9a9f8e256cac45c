package resolve

import (
	"errors"
	"fmt"
	"strings"

	logging "github.com/ipfs/go-log/v2"
	"golang.org/x/xerrors"

	"github.com/tsmerge/tsmerge/lib/catalogue"
	"github.com/tsmerge/tsmerge/lib/merge"
)

var log = logging.Logger("resolve")

// ErrAborted is returned when the user cancels the interactive session.
var ErrAborted = errors.New("aborted by user")

// Option is one entry of a choice menu.
type Option struct {
	Label string
	// Details is shown while the option is highlighted.
	Details string
}

// Chooser presents options to a human and returns the index of the accepted
// one, or ErrAborted.
type Chooser interface {
	Choose(title string, options []Option) (int, error)
}

type Stats struct {
	Resolved int
	Changes  int
}

// Session resolves the conflicts of a Book one target catalogue at a time.
type Session struct {
	Chooser Chooser

	// preferred maps a target catalogue to the origin chosen with an
	// "always prefer" entry. It only ever holds the catalogue being resolved.
	preferred map[*catalogue.File]string
}

func NewSession(ch Chooser) *Session {
	return &Session{Chooser: ch, preferred: map[*catalogue.File]string{}}
}

type action int

const (
	actPick action = iota
	actSkip
	actPrefer
)

type menuEntry struct {
	act      action
	proposal *Proposal
	origin   string
}

// Run walks every pending conflict of b. Resolved conflicts are removed from
// b; skipped ones stay pending. On ErrAborted the stats gathered so far are
// returned together with the error.
func (s *Session) Run(b *Book) (Stats, error) {
	var st Stats

	for _, f := range b.Files() {
		conflicts := b.Conflicts(f)
		for i, c := range conflicts {
			if s.applyPreferred(b, c, &st) {
				continue
			}

			title := s.title(f, c, i+1, len(conflicts))
			options, entries := s.menu(f, c)

			idx, err := s.Chooser.Choose(title, options)
			if err != nil {
				if errors.Is(err, ErrAborted) {
					return st, ErrAborted
				}
				return st, xerrors.Errorf("choosing translation for %q: %w", c.Key(), err)
			}
			if idx < 0 || idx >= len(entries) {
				return st, xerrors.Errorf("chooser returned invalid index %d", idx)
			}

			e := entries[idx]
			switch e.act {
			case actPick:
				s.pick(b, c, e.proposal, &st)
			case actSkip:
				log.Debugw("left conflict pending", "source", c.Key(), "file", f.Path)
			case actPrefer:
				s.preferred[f] = e.origin
				if !s.applyPreferred(b, c, &st) {
					log.Warnw("preferred origin has no proposal", "origin", e.origin, "source", c.Key())
				}
			}
		}
		delete(s.preferred, f)
	}

	return st, nil
}

// applyPreferred resolves c in favour of the standing preference of its
// catalogue, if the preferred origin proposed anything for c.
func (s *Session) applyPreferred(b *Book, c *Conflict, st *Stats) bool {
	origin, ok := s.preferred[c.Target.File()]
	if !ok {
		return false
	}
	if origin == CurrentOrigin {
		b.Resolve(c)
		st.Resolved++
		return true
	}

	p, ok := c.Proposal(origin)
	if !ok {
		return false
	}
	cand, _ := p.Candidate(origin)
	s.apply(b, c, cand, st)
	return true
}

func (s *Session) pick(b *Book, c *Conflict, p *Proposal, st *Stats) {
	s.apply(b, c, p.Candidates[0], st)
}

func (s *Session) apply(b *Book, c *Conflict, cand catalogue.String, st *Stats) {
	if merge.Apply(cand, c.Target, true) == merge.Applied {
		st.Changes++
	}
	b.Resolve(c)
	st.Resolved++
}

func (s *Session) title(f *catalogue.File, c *Conflict, n, total int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%d/%d)\n", f.Name(), n, total)
	fmt.Fprintf(&sb, "source:  %s\n", c.Key())
	if ctx := c.Target.Context(); ctx != "" {
		fmt.Fprintf(&sb, "context: %s\n", ctx)
	}
	if cm := c.Target.Comment(); cm != "" {
		fmt.Fprintf(&sb, "comment: %s\n", cm)
	}
	fmt.Fprintf(&sb, "%s: %s", CurrentOrigin, c.Target.Text())
	return sb.String()
}

func (s *Session) menu(f *catalogue.File, c *Conflict) ([]Option, []menuEntry) {
	var options []Option
	var entries []menuEntry

	for _, p := range c.Proposals {
		rel := make([]string, len(p.Origins))
		for i, o := range p.Origins {
			rel[i] = relOrigin(f, o)
		}
		options = append(options, Option{
			Label:   p.Text,
			Details: Status(p.Candidates[0]) + " | from: " + strings.Join(rel, ", "),
		})
		entries = append(entries, menuEntry{act: actPick, proposal: p})
	}

	options = append(options, Option{Label: "(skip, keep pending)", Details: "leave this string for the report"})
	entries = append(entries, menuEntry{act: actSkip})

	options = append(options, Option{
		Label:   "always prefer " + CurrentOrigin,
		Details: "keep the current translation for the rest of " + f.Name(),
	})
	entries = append(entries, menuEntry{act: actPrefer, origin: CurrentOrigin})

	for _, o := range c.Origins() {
		options = append(options, Option{
			Label:   "always prefer " + relOrigin(f, o),
			Details: "take translations from this catalogue for the rest of " + f.Name(),
		})
		entries = append(entries, menuEntry{act: actPrefer, origin: o})
	}

	return options, entries
}

// Status describes the context, plural support and state of s in one line.
func Status(s catalogue.String) string {
	ctx := s.Context()
	if ctx == "" {
		ctx = "-"
	}
	return fmt.Sprintf("context: %s | plural: %s | finished: %s", ctx, yesNo(s.HasPlurals()), yesNo(s.Finished()))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
