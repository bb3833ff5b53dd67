package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"
)

const defaultDB = "tilebravo.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func main() {
	app := cli.NewApp()

	app.Name = "tilebravo"
	app.Usage = "ROM tile viewer and editor"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"TILEBRAVO_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to preset database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		codecsCommand,
		palettesCommand,
		decodeCommand,
		encodeCommand,
		inspectCommand,
		batchCommand,
		presetsCommand,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
