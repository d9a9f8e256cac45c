// Package picker is the terminal chooser used to resolve conflicts interactively.
package picker

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/manifoldco/promptui"

	"github.com/tsmerge/tsmerge/lib/resolve"
)

// DefaultSize is the number of visible options.
const DefaultSize = 10

var title = lipgloss.NewStyle().
	Align(lipgloss.Left).
	Foreground(lipgloss.Color("#00FF00")).
	Background(lipgloss.Color("#242424")).
	BorderStyle(lipgloss.NormalBorder()).
	Padding(0, 1).
	MarginTop(1)

var templates = &promptui.SelectTemplates{
	Label:    "{{ . }}",
	Active:   "▸ {{ .Label | cyan }}",
	Inactive: "  {{ .Label }}",
	Selected: "✔ {{ .Label | green }}",
	Details:  "{{ .Details | faint }}",
	Help:     "Use the arrow keys to navigate: ↓ ↑ → ←, / to search, Ctrl+C to save and quit",
}

// Picker implements resolve.Chooser on top of promptui.
type Picker struct {
	Size   int
	Stdin  io.ReadCloser
	Stdout io.WriteCloser
}

func New(size int) *Picker {
	if size <= 0 {
		size = DefaultSize
	}
	return &Picker{Size: size}
}

func (p *Picker) Choose(heading string, options []resolve.Option) (int, error) {
	var out io.Writer = os.Stdout
	if p.Stdout != nil {
		out = p.Stdout
	}
	if heading != "" {
		_, _ = fmt.Fprintln(out, title.Render(heading))
	}

	i, _, err := (&promptui.Select{
		Label:     "Pick a translation",
		Items:     options,
		Size:      p.Size,
		Templates: templates,
		Searcher:  searcher(options),
		Stdin:     p.Stdin,
		Stdout:    p.Stdout,
	}).Run()
	if err != nil {
		return 0, mapErr(err)
	}
	return i, nil
}

func searcher(options []resolve.Option) func(string, int) bool {
	return func(input string, index int) bool {
		return strings.Contains(strings.ToLower(options[index].Label), strings.ToLower(input))
	}
}

func mapErr(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, promptui.ErrAbort) {
		return resolve.ErrAborted
	}
	return err
}
