package cmd

import (
	"context"
	"fmt"
	"time"

	"git.sr.ht/~mariusor/lw"
	"github.com/urfave/cli"

	"github.com/chaptertools/herald"
	"github.com/chaptertools/herald/events"
	"github.com/chaptertools/herald/internal/post"
)

var NotifyCmd = cli.Command{
	Name:  "notify",
	Usage: "Posts each chapter's upcoming events to its channel",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "chapters",
			Usage: "Path to the chapter list (yaml or json)",
		},
		&cli.IntFlag{
			Name:  "days",
			Usage: "Override the lookahead window, in days",
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Output debug messages",
		},
	},
	Action: notify,
}

func notify(c *cli.Context) error {
	dryRun := c.GlobalBool("dry-run")
	conf, err := LoadConfig(c.String("chapters"), dryRun)
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("configuration: %s", err), 2)
	}
	if days := c.Int("days"); days > 0 {
		conf.DaysAhead = days
	}

	debug := c.Bool("debug") || c.GlobalBool("debug")
	fetcher, poster := conf.collaborators(dryRun, debug)
	return RunAll(conf, fetcher, poster)
}

func (conf Config) collaborators(dryRun, debug bool) (herald.Fetcher, post.PosterFn) {
	ec := events.Config{URL: conf.APIURL, Token: conf.APIToken, ErrFn: errFn}
	if debug {
		ec.LogFn = info
	}
	fetcher := events.New(ec)

	if dryRun {
		return fetcher, post.ToStdout
	}
	return fetcher, post.ToSlack(post.NewSlackClient(conf.SlackToken))
}

// RunAll walks the configured chapters in order, one at a time. A
// chapter's failure is logged and counted but never stops the remaining
// chapters; the run as a whole fails if any of them did.
func RunAll(conf Config, fetcher herald.Fetcher, poster post.PosterFn) error {
	logger := lw.Dev()

	failed := 0
	for _, chapter := range conf.Chapters {
		if err := runChapter(fetcher, poster, chapter, conf.DaysAhead); err != nil {
			logger.Errorf("%s: chapter run failed: %s", chapter.Name, err)
			failed++
			continue
		}
		logger.Infof("%s: digest delivered", chapter.Name)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d chapters failed", failed, len(conf.Chapters))
	}
	return nil
}

// runChapter is the error boundary for a single chapter.
func runChapter(fetcher herald.Fetcher, poster post.PosterFn, chapter herald.Chapter, daysAhead int) error {
	all, err := fetcher.FetchAll(context.Background(), chapter.ID)
	if err != nil {
		return fmt.Errorf("unable to fetch events: %w", err)
	}

	now := time.Now()
	upcoming := herald.Upcoming(all, daysAhead, now)
	msg := post.BuildMessage(chapter, upcoming, daysAhead, now)

	if err := poster(msg); err != nil {
		return fmt.Errorf("unable to deliver digest: %w", err)
	}
	return nil
}
