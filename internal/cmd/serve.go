package cmd

import (
	"fmt"
	"syscall"

	w "git.sr.ht/~mariusor/wrapper"
	"github.com/robfig/cron/v3"
	"github.com/urfave/cli"
)

var ServeCmd = cli.Command{
	Name:  "serve",
	Usage: "Runs the digest on a schedule",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "schedule",
			Usage: "Cron spec for digest runs",
			Value: "0 15 * * MON",
		},
		&cli.StringFlag{
			Name:  "chapters",
			Usage: "Path to the chapter list (yaml or json)",
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Output debug messages",
		},
	},
	Action: serve,
}

func serve(c *cli.Context) error {
	dryRun := c.GlobalBool("dry-run")
	conf, err := LoadConfig(c.String("chapters"), dryRun)
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("configuration: %s", err), 2)
	}

	debug := c.Bool("debug") || c.GlobalBool("debug")
	fetcher, poster := conf.collaborators(dryRun, debug)

	cr := cron.New()
	if _, err := cr.AddFunc(c.String("schedule"), func() {
		// Failed runs are logged and the schedule keeps going.
		if err := RunAll(conf, fetcher, poster); err != nil {
			errFn("Run failed: %s", err)
		}
	}); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", c.String("schedule"), err)
	}
	info("Digests scheduled at %q for %d chapters", c.String("schedule"), len(conf.Chapters))

	w.RegisterSignalHandlers(w.SignalHandlers{
		syscall.SIGHUP: func(_ chan int) {
			info("SIGHUP received, reloading configuration")
		},
		syscall.SIGINT: func(exit chan int) {
			info("SIGINT received, stopping")
			exit <- 0
		},
		syscall.SIGTERM: func(exit chan int) {
			info("SIGTERM received, force stopping")
			exit <- 0
		},
	}).Exec(func() error {
		cr.Run()
		return nil
	})

	cr.Stop()
	return nil
}
