package main

import (
	"github.com/urfave/cli/v2"

	"github.com/tsmerge/tsmerge/deps/config"
)

var configCmd = &cli.Command{
	Name:  "config",
	Usage: "Manage the tsmerge configuration",
	Subcommands: []*cli.Command{
		configDefaultCmd,
	},
}

var configDefaultCmd = &cli.Command{
	Name:  "default",
	Usage: "Print the default configuration as TOML",
	Action: func(cctx *cli.Context) error {
		data, err := config.Default()
		if err != nil {
			return err
		}
		_, err = cctx.App.Writer.Write(data)
		return err
	},
}
