package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"
	"golang.org/x/xerrors"

	"github.com/tsmerge/tsmerge/deps/config"
	"github.com/tsmerge/tsmerge/lib/catalogue"
)

var inspectCmd = &cli.Command{
	Name:      "inspect",
	Usage:     "List the catalogues of a directory or file with their language and progress",
	ArgsUsage: "PATH",
	Action: func(cctx *cli.Context) error {
		if cctx.NArg() != 1 {
			return &PrintHelpErr{Err: xerrors.New("expected exactly one path"), Ctx: cctx}
		}

		cfg, err := config.FromFile(cctx.String("config"))
		if err != nil {
			return xerrors.Errorf("loading config: %w", err)
		}

		d, err := catalogue.LoadDirectory(cctx.Args().First(), catalogue.LoadOptions{
			AllowSingleFile: true,
			Pattern:         cfg.Catalogue.Pattern,
		})
		if err != nil {
			return err
		}

		return printCatalogues(cctx.App.Writer, d)
	},
}

func printCatalogues(w io.Writer, d *catalogue.Directory) error {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "LANGUAGE\tNAME\tSTRINGS\tUNFINISHED\tSIZE\tFILE")
	for _, f := range d.Sorted() {
		lang := f.Language.String()
		if lang == "" {
			lang = "-"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t%s\n",
			lang, f.Language.DisplayName(), f.Len(), f.Unfinished(), humanize.Bytes(uint64(len(f.Bytes()))), f.Path)
	}
	return tw.Flush()
}
