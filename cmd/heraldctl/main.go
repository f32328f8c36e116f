package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"

	"github.com/chaptertools/herald/internal/cmd"
)

func main() {
	ctl := cli.App{
		Name:    fmt.Sprintf("%sctl", cmd.AppName),
		Usage:   "Posts chapter event digests to their chat channels",
		Version: cmd.AppVersion,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Output debug messages",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Print the digests instead of delivering them",
			},
		},
		Commands: []cli.Command{
			cmd.NotifyCmd,
			cmd.ChaptersCmd,
			cmd.ServeCmd,
		},
	}

	if err := ctl.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}
