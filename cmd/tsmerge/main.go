package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	logging "github.com/ipfs/go-log/v2"
	"github.com/urfave/cli/v2"
	"golang.org/x/xerrors"

	"github.com/tsmerge/tsmerge/build"
	"github.com/tsmerge/tsmerge/deps/config"
	"github.com/tsmerge/tsmerge/lib/pipeline"
)

var log = logging.Logger("main")

func SetupLogLevels() {
	if _, set := os.LookupEnv("GOLOG_LOG_LEVEL"); !set {
		_ = logging.SetLogLevel("*", "INFO")
	}
}

func main() {
	SetupLogLevels()

	// -v is taken by --verbose
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}

	app := &cli.App{
		Name:  "tsmerge",
		Usage: "Merge Qt translation catalogues using a same-text heuristic",
		Description: `Source and target catalogues are paired by the language declared in the
files, or by a -xx / -xx_YY suffix in the file name when none is declared.

Existing finished translations are never overwritten unless --overwrite is
given. Conflicting translations are reported, or resolved one by one with
--interactive.`,
		ArgsUsage:            "SOURCE... TARGET",
		Version:              build.UserVersion(),
		EnableBashCompletion: true,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "force",
				Aliases: []string{"f"},
				Usage:   "write into an existing output directory, or into the target when no output is given",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "output directory; the target is modified in place if empty",
			},
			&cli.BoolFlag{
				Name:    "overwrite",
				Aliases: []string{"w"},
				Usage:   "overwrite translations that are already finished",
			},
			&cli.BoolFlag{
				Name:    "interactive",
				Aliases: []string{"i"},
				Usage:   "choose between conflicting translations interactively",
			},
			&cli.StringFlag{
				Name:    "base",
				Aliases: []string{"b"},
				Usage:   "untranslated base catalogue used to create missing target languages",
			},
			&cli.BoolFlag{
				Name:    "auto-base",
				Aliases: []string{"B"},
				Usage:   "detect the base catalogue next to the target",
			},
			&cli.StringFlag{
				Name:  "report",
				Usage: "write unresolved alternatives to this file as YAML",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				EnvVars: []string{"TSMERGE_CONFIG"},
				Value:   config.DefaultPath,
				Usage:   "configuration file",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log level of all subsystems (debug, info, warn, error)",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "shorthand for --log-level=debug",
			},
			&cli.BoolFlag{
				// examined in the Before below
				Name:        "color",
				Usage:       "use color in display output",
				DefaultText: "depends on output being a TTY",
			},
		},
		Before: func(cctx *cli.Context) error {
			if cctx.IsSet("color") {
				color.NoColor = !cctx.Bool("color")
			}
			level := cctx.String("log-level")
			if cctx.Bool("verbose") {
				level = "debug"
			}
			if level != "" {
				if err := logging.SetLogLevel("*", level); err != nil {
					return xerrors.Errorf("setting log level: %w", err)
				}
			}
			return nil
		},
		Commands: []*cli.Command{
			inspectCmd,
			configCmd,
		},
		Action: mergeAction,
	}
	app.Setup()
	runApp(app)
}

func mergeAction(cctx *cli.Context) error {
	if cctx.NArg() < 2 {
		return &PrintHelpErr{Err: xerrors.New("need at least one source and a target"), Ctx: cctx}
	}
	if cctx.IsSet("base") && cctx.Bool("auto-base") {
		return &PrintHelpErr{Err: pipeline.ErrBaseConflict, Ctx: cctx}
	}

	cfg, err := config.FromFile(cctx.String("config"))
	if err != nil {
		return xerrors.Errorf("loading config: %w", err)
	}

	args := cctx.Args().Slice()
	sum, err := pipeline.Run(pipeline.Options{
		Sources:     args[:len(args)-1],
		Target:      args[len(args)-1],
		Output:      cctx.String("output"),
		Force:       cctx.Bool("force"),
		Overwrite:   cctx.Bool("overwrite"),
		Interactive: cctx.Bool("interactive"),
		Base:        cctx.String("base"),
		AutoBase:    cctx.Bool("auto-base"),
		ReportPath:  cctx.String("report"),
		Config:      cfg,
		Out:         cctx.App.Writer,
	})
	if err != nil {
		return err
	}

	log.Debugw("run finished", "changes", sum.Changes, "pending", sum.Pending, "saved", len(sum.Saved), "aborted", sum.Aborted)
	return nil
}

func runApp(app *cli.App) {
	if err := app.Run(os.Args); err != nil {
		if os.Getenv("TSMERGE_DEV") != "" {
			log.Warnf("%+v", err)
		} else {
			_, _ = fmt.Fprintf(os.Stderr, "ERROR: %s\n\n", err) // nolint:errcheck
		}

		var phe *PrintHelpErr
		if errors.As(err, &phe) {
			if phe.Ctx.Command != nil && phe.Ctx.Command.Name != "" {
				_ = cli.ShowCommandHelp(phe.Ctx, phe.Ctx.Command.Name)
			} else {
				_ = cli.ShowAppHelp(phe.Ctx)
			}
		}
		os.Exit(1)
	}
}

type PrintHelpErr struct {
	Err error
	Ctx *cli.Context
}

func (e *PrintHelpErr) Error() string {
	return e.Err.Error()
}

func (e *PrintHelpErr) Unwrap() error {
	return e.Err
}
