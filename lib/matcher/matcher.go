// Package matcher pairs target catalogues with the source catalogues whose
// language they can take translations from.
package matcher

import (
	"path/filepath"

	logging "github.com/ipfs/go-log/v2"
	"golang.org/x/xerrors"

	"github.com/tsmerge/tsmerge/lib/catalogue"
	"github.com/tsmerge/tsmerge/lib/langtag"
)

var log = logging.Logger("matcher")

// Pair is a target catalogue with its sources in merge order.
type Pair struct {
	Target  *catalogue.File
	Sources []*catalogue.File
}

type Result struct {
	Pairs []Pair
	// NoMatch holds targets without any source.
	NoMatch []*catalogue.File
	// Unhandled holds sources that were neither paired nor used to create a target.
	Unhandled []*catalogue.File
	// Synthesized holds targets created from the base catalogue.
	Synthesized []*catalogue.File
}

// Paired reports whether f is the target of one of the pairs.
func (r *Result) Paired(f *catalogue.File) bool {
	for _, p := range r.Pairs {
		if p.Target == f {
			return true
		}
	}
	return false
}

// Match pairs every target catalogue with every source catalogue whose
// language is a subset of the target language. Targets are visited in path
// order, source collections in the given order and the catalogues of one
// collection in path order.
//
// When basePath is set, sources of a language no target covers get a new
// target created from the base catalogue. The new targets are added to target.
func Match(target *catalogue.Directory, sources []*catalogue.Directory, basePath string) (*Result, error) {
	res := &Result{}
	handled := map[*catalogue.File]bool{}

	for _, t := range target.Sorted() {
		p := Pair{Target: t}
		for _, s := range sources {
			for _, sf := range s.Sorted() {
				if sf.Language.Empty() || !sf.Language.IsSubsetOf(t.Language) {
					continue
				}
				p.Sources = append(p.Sources, sf)
				handled[sf] = true
			}
		}

		if len(p.Sources) == 0 {
			res.NoMatch = append(res.NoMatch, t)
			continue
		}
		res.Pairs = append(res.Pairs, p)
	}

	synthesized := map[langtag.Language]int{}
	for _, s := range sources {
		for _, sf := range s.Sorted() {
			if handled[sf] {
				continue
			}
			if basePath == "" || sf.Language.Empty() {
				res.Unhandled = append(res.Unhandled, sf)
				continue
			}

			idx, ok := synthesized[sf.Language]
			if !ok {
				t, err := Synthesize(basePath, target.Path, sf.Language)
				if err != nil {
					return nil, err
				}
				if err := target.Add(t); err != nil {
					return nil, err
				}

				res.Synthesized = append(res.Synthesized, t)
				res.Pairs = append(res.Pairs, Pair{Target: t})
				idx = len(res.Pairs) - 1
				synthesized[sf.Language] = idx
			}
			res.Pairs[idx].Sources = append(res.Pairs[idx].Sources, sf)
		}
	}

	return res, nil
}

// Synthesize creates a new catalogue of language l from the base catalogue.
// The new catalogue lives in dir, named after the base with a language suffix.
func Synthesize(basePath, dir string, l langtag.Language) (*catalogue.File, error) {
	f, err := catalogue.Load(basePath, false)
	if err != nil {
		return nil, xerrors.Errorf("loading base catalogue: %w", err)
	}

	f.SetLanguage(l)
	f.Path = catalogue.WithLanguageSuffix(filepath.Join(dir, filepath.Base(basePath)), l)

	log.Infow("created catalogue from base", "language", l.String(), "path", f.Path, "base", basePath)
	return f, nil
}
