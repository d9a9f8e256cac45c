// Package resolve collects translations that were not merged because the
// target was already finished, reports them and lets a human pick a winner.
package resolve

import (
	"path/filepath"
	"sort"

	"github.com/samber/lo"

	"github.com/tsmerge/tsmerge/lib/catalogue"
	"github.com/tsmerge/tsmerge/lib/merge"
)

// CurrentOrigin labels the translation already present in the target.
const CurrentOrigin = "current"

// Proposal is one distinct candidate text for a blocked string.
type Proposal struct {
	Text string
	// Origins are the absolute paths of the catalogues proposing Text.
	Origins []string
	// Candidates holds one occurrence per origin, in the same order.
	Candidates []catalogue.String
}

// Candidate returns the occurrence proposed by origin.
func (p *Proposal) Candidate(origin string) (catalogue.String, bool) {
	for i, o := range p.Origins {
		if o == origin {
			return p.Candidates[i], true
		}
	}
	return catalogue.String{}, false
}

// Conflict is one blocked target occurrence with everything proposed for it.
type Conflict struct {
	Target    catalogue.String
	Proposals []*Proposal
	// Records counts the alternatives folded into this conflict.
	Records int
}

func (c *Conflict) Key() string {
	return c.Target.Source()
}

// Origins lists every distinct origin of the proposals.
func (c *Conflict) Origins() []string {
	var out []string
	for _, p := range c.Proposals {
		out = append(out, p.Origins...)
	}
	return lo.Uniq(out)
}

// Proposal returns the proposal offered by origin.
func (c *Conflict) Proposal(origin string) (*Proposal, bool) {
	for _, p := range c.Proposals {
		if _, ok := p.Candidate(origin); ok {
			return p, true
		}
	}
	return nil, false
}

func (c *Conflict) add(cand catalogue.String) {
	c.Records++
	text, origin := cand.Text(), cand.Origin()
	for _, p := range c.Proposals {
		if p.Text != text {
			continue
		}
		if !lo.Contains(p.Origins, origin) {
			p.Origins = append(p.Origins, origin)
			p.Candidates = append(p.Candidates, cand)
		}
		return
	}
	c.Proposals = append(c.Proposals, &Proposal{
		Text:       text,
		Origins:    []string{origin},
		Candidates: []catalogue.String{cand},
	})
}

// Book groups alternatives per target catalogue, then per source text, then
// per target occurrence.
type Book struct {
	conflicts map[*catalogue.File]map[catalogue.EntryID]*Conflict
}

func NewBook() *Book {
	return &Book{conflicts: map[*catalogue.File]map[catalogue.EntryID]*Conflict{}}
}

func (b *Book) Add(alts ...merge.Alternative) {
	for _, a := range alts {
		f := a.Target.File()
		byID, ok := b.conflicts[f]
		if !ok {
			byID = map[catalogue.EntryID]*Conflict{}
			b.conflicts[f] = byID
		}
		c, ok := byID[a.Target.ID()]
		if !ok {
			c = &Conflict{Target: a.Target}
			byID[a.Target.ID()] = c
		}
		c.add(a.Candidate)
	}
}

// Files returns the target catalogues with pending conflicts, ordered by path.
func (b *Book) Files() []*catalogue.File {
	files := lo.Filter(lo.Keys(b.conflicts), func(f *catalogue.File, _ int) bool {
		return len(b.conflicts[f]) > 0
	})
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files
}

// Conflicts returns the pending conflicts of f ordered by source text, then
// by document order.
func (b *Book) Conflicts(f *catalogue.File) []*Conflict {
	out := lo.Values(b.conflicts[f])
	sort.Slice(out, func(i, j int) bool {
		if out[i].Key() != out[j].Key() {
			return out[i].Key() < out[j].Key()
		}
		return out[i].Target.ID() < out[j].Target.ID()
	})
	return out
}

// Resolve removes c from the pending conflicts.
func (b *Book) Resolve(c *Conflict) {
	f := c.Target.File()
	delete(b.conflicts[f], c.Target.ID())
	if len(b.conflicts[f]) == 0 {
		delete(b.conflicts, f)
	}
}

// Len counts the pending alternatives.
func (b *Book) Len() int {
	n := 0
	for _, byID := range b.conflicts {
		for _, c := range byID {
			n += c.Records
		}
	}
	return n
}

// Strings counts the pending target occurrences.
func (b *Book) Strings() int {
	n := 0
	for _, byID := range b.conflicts {
		n += len(byID)
	}
	return n
}

// relOrigin renders origin relative to the directory of the target catalogue.
func relOrigin(target *catalogue.File, origin string) string {
	rel, err := filepath.Rel(filepath.Dir(target.Origin()), origin)
	if err != nil {
		return origin
	}
	return rel
}
