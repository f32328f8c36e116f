package cmd

import (
	"fmt"

	"github.com/urfave/cli"
)

var ChaptersCmd = cli.Command{
	Name:  "chapters",
	Usage: "Lists the configured chapters and their channels",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "chapters",
			Usage: "Path to the chapter list (yaml or json)",
		},
	},
	Action: showChapters,
}

func showChapters(c *cli.Context) error {
	conf, err := LoadConfig(c.String("chapters"), true)
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("configuration: %s", err), 2)
	}
	for _, ch := range conf.Chapters {
		fmt.Printf("[%d] %s -> %s\n\t%s\n", ch.ID, ch.Name, ch.ChannelID, ch.URL)
	}
	return nil
}
