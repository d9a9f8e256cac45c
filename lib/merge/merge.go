// Package merge scores occurrences of the same source text across two
// catalogues and copies translations from a source into a target.
package merge

import (
	logging "github.com/ipfs/go-log/v2"

	"github.com/tsmerge/tsmerge/lib/catalogue"
)

var log = logging.Logger("merge")

// ContextEquivalence is a symmetric set of context names that count as the
// same context while scoring.
type ContextEquivalence struct {
	pairs map[[2]string]struct{}
}

// NewContextEquivalence builds the relation from a list of name pairs. Entries
// that do not hold exactly two names are ignored.
func NewContextEquivalence(pairs [][]string) ContextEquivalence {
	eq := ContextEquivalence{pairs: map[[2]string]struct{}{}}
	for _, p := range pairs {
		if len(p) != 2 {
			log.Warnw("ignoring malformed context equivalence", "entry", p)
			continue
		}
		eq.pairs[[2]string{p[0], p[1]}] = struct{}{}
		eq.pairs[[2]string{p[1], p[0]}] = struct{}{}
	}
	return eq
}

// Match reports whether a and b are the same or an equivalent context.
func (e ContextEquivalence) Match(a, b string) bool {
	if a == b {
		return true
	}
	_, ok := e.pairs[[2]string{a, b}]
	return ok
}

// Score rates how likely cand describes the same logical string as target.
// Zero means incompatible.
func Score(target, cand catalogue.String, eq ContextEquivalence) int {
	if target.Source() != cand.Source() || target.HasPlurals() != cand.HasPlurals() {
		return 0
	}

	score := 0
	if eq.Match(target.Context(), cand.Context()) {
		score += 4
	}

	tc, cc := target.Comment(), cand.Comment()
	switch {
	case tc == cc:
		score += 2
	case tc == "" || cc == "":
		score++
	default:
		return 0
	}

	// plural-ness is known to match here
	score++
	if len(target.PluralForms()) == len(cand.PluralForms()) {
		score++
	}

	return score
}

// Best returns the first candidate with the highest score. The returned
// String is invalid when no candidate scores above zero.
func Best(target catalogue.String, cands []catalogue.String, eq ContextEquivalence) (catalogue.String, int) {
	var best catalogue.String
	bestScore := 0
	for _, c := range cands {
		if s := Score(target, c, eq); s > bestScore {
			best, bestScore = c, s
		}
	}
	return best, bestScore
}

type Outcome int

const (
	// Skipped means the candidate has nothing to offer.
	Skipped Outcome = iota
	// Unchanged means both sides already hold the same content.
	Unchanged
	// Blocked means the target is finished and overwriting was not requested.
	Blocked
	// Applied means the candidate was copied into the target.
	Applied
)

func (o Outcome) String() string {
	switch o {
	case Skipped:
		return "skipped"
	case Unchanged:
		return "unchanged"
	case Blocked:
		return "blocked"
	case Applied:
		return "applied"
	}
	return "unknown"
}

// Apply copies cand into target according to the fill/overwrite policy.
func Apply(cand, target catalogue.String, overwrite bool) Outcome {
	if !cand.HasContent() {
		return Skipped
	}
	if cand.Equal(target) {
		return Unchanged
	}
	if target.Finished() && target.HasContent() && !overwrite {
		return Blocked
	}

	if target.Comment() == "" && cand.Comment() != "" {
		target.SetComment(cand.Comment())
	}

	tr := target.Translation()
	if forms := cand.PluralForms(); len(forms) > 0 {
		tr.Forms = forms
		tr.Text = ""
	} else {
		tr.Forms = nil
		tr.Text = cand.Text()
	}
	tr.Finished = cand.Finished()
	target.SetTranslation(tr)

	return Applied
}

// Alternative is a candidate that was not applied because the target already
// holds a finished translation.
type Alternative struct {
	Target    catalogue.String
	Candidate catalogue.String
}

// Result summarizes merging one source catalogue into one target catalogue.
type Result struct {
	Changes      int
	Alternatives []Alternative
}

// AlternativeNote prefixes the XML comment left for a blocked candidate.
const AlternativeNote = "alternative translation: "

type Engine struct {
	Contexts  ContextEquivalence
	Overwrite bool
	// Annotate leaves every blocked candidate as an XML comment in the target.
	Annotate bool
}

// MergePair merges every string of source into target. Target occurrences
// are visited in document order, candidates in the order of source.
func (e *Engine) MergePair(source, target *catalogue.File) Result {
	var res Result

	for _, key := range target.Keys() {
		cands := source.Strings(key)
		if len(cands) == 0 {
			continue
		}

		for _, tgt := range target.Strings(key) {
			cand, score := Best(tgt, cands, e.Contexts)
			if score == 0 {
				log.Debugw("no compatible candidate", "source", key, "context", tgt.Context(), "file", source.Path)
				continue
			}

			if cand.HasPluralNodes() != tgt.HasPluralNodes() {
				if !tgt.HasContent() && cand.HasContent() {
					tgt.ReplaceWith(cand)
					res.Changes++
					continue
				}
				log.Warnw("plural forms in one catalogue but not in the other",
					"source", key, "target", tgt.Text(), "candidate", cand.Text(),
					"targetFile", target.Path, "sourceFile", source.Path)
			}

			switch Apply(cand, tgt, e.Overwrite) {
			case Applied:
				res.Changes++
			case Blocked:
				res.Alternatives = append(res.Alternatives, Alternative{Target: tgt, Candidate: cand})
				if e.Annotate {
					tgt.Annotate(AlternativeNote + cand.Text())
				}
			}
		}
	}

	return res
}
