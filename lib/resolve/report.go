package resolve

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/xerrors"
	"gopkg.in/yaml.v3"
)

// Report writes every pending conflict of b as an indented list. Origins are
// shown relative to the target catalogue.
func Report(w io.Writer, b *Book) error {
	files := b.Files()
	if _, err := fmt.Fprintf(w, "%d AMBIGUOUS STRINGS IN %d FILES:\n", b.Strings(), len(files)); err != nil {
		return err
	}

	for _, f := range files {
		conflicts := b.Conflicts(f)
		if _, err := fmt.Fprintf(w, "- %s (%d strings):\n", f.Name(), len(conflicts)); err != nil {
			return err
		}

		for _, c := range conflicts {
			var sb strings.Builder
			fmt.Fprintf(&sb, "    - %s", c.Key())
			if ctx := c.Target.Context(); ctx != "" {
				fmt.Fprintf(&sb, " [%s]", ctx)
			}
			fmt.Fprintf(&sb, "\n        - %s: %s\n", CurrentOrigin, c.Target.Text())
			for _, p := range c.Proposals {
				origins := make([]string, len(p.Origins))
				for i, o := range p.Origins {
					origins[i] = relOrigin(f, o)
				}
				fmt.Fprintf(&sb, "        - %s (%s)\n", p.Text, strings.Join(origins, ", "))
			}
			if _, err := io.WriteString(w, sb.String()); err != nil {
				return err
			}
		}
	}
	return nil
}

type exportFile struct {
	Path    string         `yaml:"path"`
	Strings []exportString `yaml:"strings"`
}

type exportString struct {
	Source    string           `yaml:"source"`
	Context   string           `yaml:"context,omitempty"`
	Comment   string           `yaml:"comment,omitempty"`
	Current   string           `yaml:"current"`
	Proposals []exportProposal `yaml:"proposals"`
}

type exportProposal struct {
	Text    string   `yaml:"text"`
	Origins []string `yaml:"origins"`
}

// Export writes the pending conflicts of b as YAML.
func Export(w io.Writer, b *Book) error {
	out := []exportFile{}
	for _, f := range b.Files() {
		ef := exportFile{Path: f.Path}
		for _, c := range b.Conflicts(f) {
			es := exportString{
				Source:  c.Key(),
				Context: c.Target.Context(),
				Comment: c.Target.Comment(),
				Current: c.Target.Text(),
			}
			for _, p := range c.Proposals {
				ep := exportProposal{Text: p.Text}
				for _, o := range p.Origins {
					ep.Origins = append(ep.Origins, relOrigin(f, o))
				}
				es.Proposals = append(es.Proposals, ep)
			}
			ef.Strings = append(ef.Strings, es)
		}
		out = append(out, ef)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return xerrors.Errorf("encoding report: %w", err)
	}
	return enc.Close()
}
