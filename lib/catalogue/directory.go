package catalogue

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/xerrors"

	"github.com/tsmerge/tsmerge/lib/langtag"
)

// DefaultPattern selects catalogue files inside a directory.
const DefaultPattern = "*.[tT][sS]"

// BaseHint is attached to a failed base catalogue detection.
const BaseHint = "specify the base catalogue manually with --base"

var langSuffixRe = regexp.MustCompile(`-[a-z]{2}(?:[-_][A-Z]{2})?$`)

// Directory is a collection of catalogues holding at most one per language.
type Directory struct {
	Path  string
	Files map[langtag.Language]*File
}

type LoadOptions struct {
	// AllowSingleFile treats a file path as a collection of one catalogue.
	AllowSingleFile bool
	// RequireLanguage applies to single files, catalogues found while
	// scanning a directory always need a language.
	RequireLanguage bool
	// Ignore lists catalogue paths to skip.
	Ignore []string
	// Pattern overrides DefaultPattern.
	Pattern string
}

// LoadDirectory loads every catalogue of a directory. Files without a
// language are skipped with a warning, two files of the same language fail
// with *DuplicateLanguageError.
func LoadDirectory(path string, opts LoadOptions) (*Directory, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, &PathNotFoundError{Path: path}
	}

	if !st.IsDir() {
		if !opts.AllowSingleFile {
			return nil, &PathNotFoundError{Path: path, Hint: "expected a directory"}
		}
		f, err := Load(path, opts.RequireLanguage)
		if err != nil {
			return nil, err
		}
		return &Directory{
			Path:  filepath.Dir(path),
			Files: map[langtag.Language]*File{f.Language: f},
		}, nil
	}

	files, err := listCatalogues(path, opts.Pattern)
	if err != nil {
		return nil, err
	}

	ignore := lo.SliceToMap(opts.Ignore, func(p string) (string, bool) { return absPath(p), true })

	d := &Directory{Path: path, Files: map[langtag.Language]*File{}}
	for _, p := range files {
		if ignore[absPath(p)] {
			log.Debugw("ignoring catalogue", "path", p)
			continue
		}

		f, err := Load(p, true)
		if err != nil {
			var lme *LanguageMissingError
			if errors.As(err, &lme) {
				log.Warnw("skipped catalogue without language", "path", p)
				continue
			}
			return nil, err
		}

		if other, ok := d.Files[f.Language]; ok {
			return nil, &DuplicateLanguageError{Language: f.Language, Paths: []string{f.Path, other.Path}}
		}
		d.Files[f.Language] = f
	}

	return d, nil
}

// Sorted returns the catalogues ordered by path.
func (d *Directory) Sorted() []*File {
	files := lo.Values(d.Files)
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files
}

// Add registers a catalogue created during the run.
func (d *Directory) Add(f *File) error {
	if other, ok := d.Files[f.Language]; ok {
		return &DuplicateLanguageError{Language: f.Language, Paths: []string{f.Path, other.Path}}
	}
	d.Files[f.Language] = f
	return nil
}

// FindBase detects the untranslated base catalogue belonging to target.
//
// For a directory the longest common prefix of its catalogue names is the
// candidate name, for a file its name without the language suffix. The base
// catalogue must exist next to the target.
func FindBase(target, pattern string) (string, error) {
	st, err := os.Stat(target)
	if err != nil {
		return "", &PathNotFoundError{Path: target}
	}

	var dir, candidate string
	if st.IsDir() {
		dir = target
		files, err := listCatalogues(target, pattern)
		if err != nil {
			return "", err
		}
		if len(files) < 2 {
			return "", &PathNotFoundError{Path: filepath.Join(target, "*"), Hint: BaseHint}
		}
		names := lo.Map(files, func(p string, _ int) string { return filepath.Base(p) })
		candidate = strings.TrimRight(commonPrefix(names), "-_. ")
	} else {
		dir = filepath.Dir(target)
		name := filepath.Base(target)
		candidate = langSuffixRe.ReplaceAllString(strings.TrimSuffix(name, filepath.Ext(name)), "")
	}

	if candidate != "" {
		matches, err := filepath.Glob(filepath.Join(dir, globEscape(candidate)+".[tT][sS]"))
		if err != nil {
			return "", xerrors.Errorf("searching base catalogue: %w", err)
		}
		sort.Strings(matches)
		if len(matches) > 0 {
			return matches[0], nil
		}
	}

	return "", &PathNotFoundError{Path: filepath.Join(dir, candidate+".ts"), Hint: BaseHint}
}

func listCatalogues(dir, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	files, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, xerrors.Errorf("listing catalogues in %s: %w", dir, err)
	}
	files = lo.Filter(files, func(p string, _ int) bool {
		st, err := os.Stat(p)
		return err == nil && !st.IsDir()
	})
	sort.Strings(files)
	return files, nil
}

func commonPrefix(names []string) string {
	if len(names) == 0 {
		return ""
	}
	prefix := names[0]
	for _, n := range names[1:] {
		for !strings.HasPrefix(n, prefix) {
			prefix = prefix[:len(prefix)-1]
		}
	}
	return prefix
}

func globEscape(s string) string {
	r := strings.NewReplacer(`*`, `\*`, `?`, `\?`, `[`, `\[`, `\`, `\\`)
	return r.Replace(s)
}

func absPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	return abs
}
