package herald

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
)

// TagExclude is the tag organizers attach to an event to keep it out of
// the digest, even when it would otherwise be announceable.
const TagExclude = "no-digest"

// Chapter maps an organizational sub-unit to the channel its digest
// posts to and the public page its events live on.
type Chapter struct {
	ID        int    `json:"id" yaml:"id" validate:"required"`
	ChannelID string `json:"channel_id" yaml:"channel_id" validate:"required"`
	Name      string `json:"name" yaml:"name" validate:"required"`
	URL       string `json:"url" yaml:"url" validate:"required,url"`
}

// Session is a single scheduled occurrence of an event. Start and end
// times carry the offset the upstream sent, not the viewer's zone.
type Session struct {
	ID              int64     `json:"id"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	Title           string    `json:"title"`
	LocationName    string    `json:"location_name,omitempty"`
	LocationAddress string    `json:"location_address"`
}

type Event struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	EventType string    `json:"event_type"`
	Sessions  []Session `json:"sessions"`
	URL       string    `json:"url,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
}

// Displayable tells if the event has a public page to link to.
func (e Event) Displayable() bool {
	return e.URL != ""
}

func (e Event) Excluded() bool {
	return lo.Contains(e.Tags, TagExclude)
}

func (e Event) String() string {
	return e.GoString()
}

func (e Event) GoString() string {
	if len(e.Sessions) == 0 {
		return fmt.Sprintf("<[%d] %s (no sessions)>", e.ID, e.Title)
	}
	fmtTime := e.Sessions[0].StartTime.Format("2006-01-02 15:04 MST")
	return fmt.Sprintf("<[%d] %s @ %s//%d>", e.ID, e.Title, fmtTime, len(e.Sessions))
}

type Events []Event

func (e Events) String() string {
	return e.GoString()
}

func (e Events) GoString() string {
	ss := make([]string, len(e))
	for i, ev := range e {
		ss[i] = ev.GoString()
	}
	return fmt.Sprintf("Events[%d]:\n\t%s\n", len(e), strings.Join(ss, "\n\t"))
}

// Fetcher retrieves every event belonging to a scope.
type Fetcher interface {
	FetchAll(ctx context.Context, scopeID int) (Events, error)
}
