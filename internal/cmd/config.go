package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	yaml "go.yaml.in/yaml/v3"

	"github.com/chaptertools/herald"
)

const (
	defaultAPIURL        = "https://events.api.bevylabs.com"
	defaultLookaheadDays = 7
)

var validate = validator.New()

type Config struct {
	APIURL     string           `validate:"required,url"`
	APIToken   string           `validate:"required"`
	SlackToken string
	DaysAhead  int              `validate:"min=1"`
	Chapters   []herald.Chapter `validate:"required,min=1,dive"`
}

// LoadConfig assembles the run configuration from the environment and,
// when chaptersPath is set, the chapter list file (yaml or json; json is
// a yaml subset so one decoder covers both). Every violation it reports
// is fatal and happens before any chapter is processed. The delivery
// token is only required when the run actually delivers.
func LoadConfig(chaptersPath string, dryRun bool) (Config, error) {
	conf := Config{
		APIURL:     envOr("EVENTS_API_URL", defaultAPIURL),
		APIToken:   os.Getenv("EVENTS_API_TOKEN"),
		SlackToken: os.Getenv("SLACK_BOT_TOKEN"),
		DaysAhead:  defaultLookaheadDays,
	}
	if raw := os.Getenv("LOOKAHEAD_DAYS"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil {
			return conf, fmt.Errorf("invalid LOOKAHEAD_DAYS %q: %w", raw, err)
		}
		conf.DaysAhead = days
	}

	raw := []byte(os.Getenv("CHAPTERS"))
	if chaptersPath != "" {
		var err error
		if raw, err = os.ReadFile(chaptersPath); err != nil {
			return conf, fmt.Errorf("unable to read chapter list %s: %w", chaptersPath, err)
		}
	}
	if len(raw) == 0 {
		return conf, fmt.Errorf("no chapters configured: set CHAPTERS or pass --chapters")
	}
	if err := yaml.Unmarshal(raw, &conf.Chapters); err != nil {
		return conf, fmt.Errorf("malformed chapter list: %w", err)
	}

	if err := validate.Struct(conf); err != nil {
		return conf, fmt.Errorf("invalid configuration: %w", err)
	}
	if !dryRun && conf.SlackToken == "" {
		return conf, fmt.Errorf("SLACK_BOT_TOKEN is not set")
	}
	return conf, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
